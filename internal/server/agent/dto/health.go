package dto

import (
	"sync"
	"time"
)

type HostState string

const (
	HostProbing     HostState = "probing"
	HostReady       HostState = "ready"
	HostUnavailable HostState = "host_unavailable"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           HostState  `json:"status"`
	Hostname         string     `json:"hostname,omitempty"`
	Version          string     `json:"version,omitempty"`
	WordPressVersion string     `json:"wordpress_version,omitempty"`
	StartTime        time.Time  `json:"start_time"`
	ReadyTime        *time.Time `json:"ready_time,omitempty"`
	Uptime           string     `json:"uptime"`
	ProbeError       string     `json:"probe_error,omitempty"`
	ProbeAttempts    int        `json:"probe_attempts"`
}

// HealthStatus tracks whether the agent has reached its WordPress install.
type HealthStatus struct {
	mu    sync.RWMutex
	state HealthResponse
}

func NewHealthStatus(hostname, version string, startTime time.Time) *HealthStatus {
	return &HealthStatus{state: HealthResponse{
		Status:    HostProbing,
		Hostname:  hostname,
		Version:   version,
		StartTime: startTime,
	}}
}

func (h *HealthStatus) SetReady(wpVersion string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	h.state.Status = HostReady
	h.state.WordPressVersion = wpVersion
	h.state.ReadyTime = &now
	h.state.ProbeError = ""
}

func (h *HealthStatus) SetUnavailable(err error, attempts int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state.Status = HostUnavailable
	if err != nil {
		h.state.ProbeError = err.Error()
	}
	h.state.ProbeAttempts = attempts
}

func (h *HealthStatus) IncrementAttempts() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state.ProbeAttempts++
}

// Snapshot returns a copy with Uptime filled in.
func (h *HealthStatus) Snapshot() HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	res := h.state
	res.Uptime = time.Since(res.StartTime).String()
	return res
}
