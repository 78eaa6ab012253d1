package reminders

import (
	"context"
	"time"
)

// MarkerRepository persiste el cache de de-duplicación de recordatorios:
// clave "medID_minutoDelDía" -> instante en que se accionó la dosis.
// No es parte del log permanente; las entradas viejas se podan al leer.
type MarkerRepository interface {
	All(ctx context.Context) (map[string]time.Time, error)
	Put(ctx context.Context, key string, at time.Time) error
	Delete(ctx context.Context, keys []string) error
}

// StateRepository guarda el timestamp del último pase de reconciliación.
type StateRepository interface {
	// LastCheck devuelve (zero, false, nil) si nunca hubo un check.
	LastCheck(ctx context.Context) (time.Time, bool, error)
	SetLastCheck(ctx context.Context, t time.Time) error
}
