package memory

import (
	"context"
	"sync"

	"med-tracker/internal/domain/medications"
)

// MedicationsRepo guarda los medicamentos en memoria preservando el orden de
// inserción, que es el orden de listado que espera la agenda.
type MedicationsRepo struct {
	mu    sync.RWMutex
	items map[string]medications.Medication
	order []string
}

func NewMedicationsRepo() *MedicationsRepo {
	return &MedicationsRepo{
		items: make(map[string]medications.Medication),
	}
}

func (r *MedicationsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return medications.Medication{}, medications.ErrNotFound
	}
	return m, nil
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.items[m.ID] = m
	return nil
}

// Put reemplaza el registro, o lo inserta al final si el id no existía.
func (r *MedicationsRepo) Put(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.items[m.ID] = m
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return medications.ErrNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
