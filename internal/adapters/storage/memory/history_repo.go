package memory

import (
	"context"
	"sync"

	"med-tracker/internal/domain/medications"
)

// HistoryRepo guarda el journal de cambios en memoria, en orden de llegada.
type HistoryRepo struct {
	mu     sync.RWMutex
	events []medications.ChangeEvent
}

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{}
}

func (r *HistoryRepo) Append(ctx context.Context, e medications.ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
	return nil
}

func (r *HistoryRepo) List(ctx context.Context) ([]medications.ChangeEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.ChangeEvent, len(r.events))
	copy(out, r.events)
	return out, nil
}

func (r *HistoryRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
	return nil
}
