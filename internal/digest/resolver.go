package digest

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/edgard/taskdigest/internal/task"
)

// Lookup is the subset of the task repository the composer reads from.
type Lookup interface {
	GetTask(ctx context.Context, taskID string) (task.Task, error)
	GetAssigneeProfile(ctx context.Context, assigneeID string) (task.AssigneeProfile, error)
}

// resolver memoizes lookups for the lifetime of one digest. Concurrent
// requests for the same ID share a single call; failures are not cached.
type resolver struct {
	lookup Lookup
	group  singleflight.Group

	mu       sync.Mutex
	profiles map[string]task.AssigneeProfile
	pages    map[string]task.Task
}

func newResolver(lookup Lookup) *resolver {
	return &resolver{
		lookup:   lookup,
		profiles: make(map[string]task.AssigneeProfile),
		pages:    make(map[string]task.Task),
	}
}

func (r *resolver) profile(ctx context.Context, id string) (task.AssigneeProfile, error) {
	r.mu.Lock()
	p, ok := r.profiles[id]
	r.mu.Unlock()
	if ok {
		return p, nil
	}

	v, err, _ := r.group.Do("profile:"+id, func() (any, error) {
		r.mu.Lock()
		p, ok := r.profiles[id]
		r.mu.Unlock()
		if ok {
			return p, nil
		}
		p, err := r.lookup.GetAssigneeProfile(ctx, id)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.profiles[id] = p
		r.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return task.AssigneeProfile{}, err
	}
	return v.(task.AssigneeProfile), nil
}

func (r *resolver) page(ctx context.Context, id string) (task.Task, error) {
	r.mu.Lock()
	t, ok := r.pages[id]
	r.mu.Unlock()
	if ok {
		return t, nil
	}

	v, err, _ := r.group.Do("page:"+id, func() (any, error) {
		r.mu.Lock()
		t, ok := r.pages[id]
		r.mu.Unlock()
		if ok {
			return t, nil
		}
		t, err := r.lookup.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.pages[id] = t
		r.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return v.(task.Task), nil
}
