package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/Alwanly/service-remote-update/internal/models"
)

// Fake is an in-memory Runtime. Applying an item removes it from the pending
// list and bumps the installed version, unless a failure was registered for it.
type Fake struct {
	mu sync.Mutex

	CoreVersion string
	pending     map[models.Category][]Descriptor
	failures    map[string]error

	Refreshes int
	Applied   []string
	// RefreshErr and ListErr simulate host faults.
	RefreshErr error
	ListErr    error
}

func NewFake(coreVersion string) *Fake {
	return &Fake{
		CoreVersion: coreVersion,
		pending:     make(map[models.Category][]Descriptor),
		failures:    make(map[string]error),
	}
}

// AddPending registers a pending update for category.
func (f *Fake) AddPending(category models.Category, d Descriptor) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[category] = append(f.pending[category], d)
	return f
}

// FailOn makes Apply fail for the item with the given id.
func (f *Fake) FailOn(id string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = err
	return f
}

func (f *Fake) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Refreshes++
	return f.RefreshErr
}

func (f *Fake) Version(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CoreVersion, nil
}

func (f *Fake) ListPending(ctx context.Context, category models.Category) ([]Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]Descriptor, len(f.pending[category]))
	copy(out, f.pending[category])
	return out, nil
}

func (f *Fake) Apply(ctx context.Context, category models.Category, item Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Applied = append(f.Applied, item.ID)

	if err, ok := f.failures[item.ID]; ok {
		return err
	}

	list := f.pending[category]
	for i, d := range list {
		if d.ID == item.ID {
			f.pending[category] = append(list[:i:i], list[i+1:]...)
			if category == models.CategoryCore {
				f.CoreVersion = d.NewVersion
			}
			return nil
		}
	}
	return fmt.Errorf("%s is not pending", item.ID)
}
