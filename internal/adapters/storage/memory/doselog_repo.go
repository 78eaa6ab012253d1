package memory

import (
	"context"
	"sync"

	"med-tracker/internal/domain/doselog"
)

// DoseLogRepo guarda el log de tomas en memoria. Solo append y clear; no hay
// edición ni borrado puntual.
type DoseLogRepo struct {
	mu      sync.RWMutex
	entries []doselog.Entry
}

func NewDoseLogRepo() *DoseLogRepo {
	return &DoseLogRepo{}
}

func (r *DoseLogRepo) Append(ctx context.Context, e doselog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *DoseLogRepo) List(ctx context.Context) ([]doselog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doselog.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *DoseLogRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	return nil
}
