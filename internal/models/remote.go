package models

import (
	"encoding/json"
	"fmt"
)

// RemoteResult is the controller's view of one agent call. Transport
// failures, undecodable bodies and agent answers all share this shape.
type RemoteResult struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message,omitempty"`
	Error       string          `json:"error,omitempty"`
	Code        string          `json:"code,omitempty"`
	Data        json.RawMessage `json:"data,omitempty" swaggertype:"object"`
	Results     []ItemResult    `json:"results,omitempty"`
	HTTPCode    int             `json:"http_code,omitempty"`
	RawResponse string          `json:"raw_response,omitempty"`

	// body keeps every field the agent sent, including ones not modelled above.
	body map[string]json.RawMessage
}

// TransportFailure builds the result for a call that never got a response.
func TransportFailure(err error) *RemoteResult {
	return &RemoteResult{Success: false, Error: err.Error()}
}

// DecodeRemoteResult parses an agent response body. A body that is not a
// JSON object yields the "Invalid JSON response" result carrying the raw text.
func DecodeRemoteResult(httpCode int, raw []byte) *RemoteResult {
	invalid := &RemoteResult{
		Success:     false,
		Error:       "Invalid JSON response",
		HTTPCode:    httpCode,
		RawResponse: string(raw),
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return invalid
	}

	res := new(RemoteResult)
	// a field with an unexpected type is left at its zero value
	decodeField(body, "success", &res.Success)
	decodeField(body, "message", &res.Message)
	decodeField(body, "error", &res.Error)
	decodeField(body, "code", &res.Code)
	decodeField(body, "results", &res.Results)
	if data, ok := body["data"]; ok {
		res.Data = data
	}
	res.HTTPCode = httpCode
	res.body = body
	return res
}

func decodeField(body map[string]json.RawMessage, key string, dst interface{}) {
	raw, ok := body[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// json.Unmarshal may leave dst partially filled
		switch v := dst.(type) {
		case *bool:
			*v = false
		case *string:
			*v = ""
		case *[]ItemResult:
			*v = nil
		}
	}
}

// Serialize renders the result for the update log. Decoded agent answers
// keep every field the agent sent, annotated with http_code.
func (r *RemoteResult) Serialize() string {
	if r.body == nil {
		b, _ := json.Marshal(r)
		return string(b)
	}

	out := make(map[string]json.RawMessage, len(r.body)+1)
	for k, v := range r.body {
		out[k] = v
	}
	out["http_code"] = json.RawMessage(fmt.Sprintf("%d", r.HTTPCode))
	b, _ := json.Marshal(out)
	return string(b)
}

// Reason is the most specific failure text available.
func (r *RemoteResult) Reason() string {
	switch {
	case r.Error != "":
		return r.Error
	case r.Message != "":
		return r.Message
	case r.HTTPCode != 0:
		return fmt.Sprintf("agent responded with HTTP %d", r.HTTPCode)
	default:
		return "unknown agent failure"
	}
}

// Status decodes the data section of a successful status response.
func (r *RemoteResult) Status() (*StatusData, error) {
	if len(r.Data) == 0 {
		return nil, fmt.Errorf("status response has no data")
	}
	var data StatusData
	if err := json.Unmarshal(r.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode status data: %w", err)
	}
	return &data, nil
}
