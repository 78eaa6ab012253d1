package medications

import "context"

type Repository interface {
	// List devuelve todos los medicamentos en orden de inserción.
	List(ctx context.Context) ([]Medication, error)
	GetByID(ctx context.Context, id string) (Medication, error)
	Create(ctx context.Context, m Medication) error
	// Put reemplaza el registro con el mismo ID, o lo inserta si no existe.
	Put(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error
}

// HistoryRepository persiste el journal de mutaciones (append-only salvo Clear).
type HistoryRepository interface {
	Append(ctx context.Context, ev ChangeEvent) error
	List(ctx context.Context) ([]ChangeEvent, error)
	Clear(ctx context.Context) error
}
