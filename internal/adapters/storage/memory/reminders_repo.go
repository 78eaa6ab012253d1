package memory

import (
	"context"
	"sync"
	"time"
)

// RemindersRepo guarda los marcadores de de-duplicación y el cursor del
// último check de reconciliación. Implementa reminders.MarkerRepository y
// reminders.StateRepository.
type RemindersRepo struct {
	mu        sync.RWMutex
	markers   map[string]time.Time
	lastCheck time.Time
	hasCheck  bool
}

func NewRemindersRepo() *RemindersRepo {
	return &RemindersRepo{
		markers: make(map[string]time.Time),
	}
}

func (r *RemindersRepo) All(ctx context.Context) (map[string]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]time.Time, len(r.markers))
	for k, v := range r.markers {
		out[k] = v
	}
	return out, nil
}

func (r *RemindersRepo) Put(ctx context.Context, key string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markers[key] = at
	return nil
}

func (r *RemindersRepo) Delete(ctx context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.markers, k)
	}
	return nil
}

func (r *RemindersRepo) LastCheck(ctx context.Context) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastCheck, r.hasCheck, nil
}

func (r *RemindersRepo) SetLastCheck(ctx context.Context, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastCheck = t
	r.hasCheck = true
	return nil
}
