package doselog

import "context"

// Repository es append-only: no existe update ni delete de una entrada
// puntual. Clear borra el log entero (reset administrativo, la única ruptura
// deliberada de la inmutabilidad).
type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}
