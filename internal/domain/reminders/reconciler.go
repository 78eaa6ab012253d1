package reminders

import (
	"context"
	"time"

	"med-tracker/internal/domain/doselog"
	"med-tracker/internal/domain/medications"
)

const (
	// Si nunca hubo check, o el último quedó demasiado viejo, se mira
	// hacia atrás a lo sumo esta ventana. Evita inundar con dosis de
	// hace días tras un apagado largo.
	catchUpWindow = 4 * time.Hour
	maxCheckAge   = 24 * time.Hour
)

// Reconciler detecta dosis programadas que pasaron sin registrarse entre el
// último check y ahora. Encontrarlas no tiene efectos: cada una se resuelve
// explícitamente con ConfirmTaken o Skip.
type Reconciler struct {
	meds  *medications.Service
	log   *doselog.Service
	state StateRepository
	now   func() time.Time
}

func NewReconciler(meds *medications.Service, log *doselog.Service, state StateRepository) *Reconciler {
	return &Reconciler{
		meds:  meds,
		log:   log,
		state: state,
		now:   time.Now,
	}
}

// FindMissed lista las dosis perdidas desde el último check. Es una lectura
// pura: llamarla dos veces seguidas da el mismo resultado hasta que
// CompleteCheck avance el cursor.
func (r *Reconciler) FindMissed(ctx context.Context) ([]MissedDose, error) {
	now := r.now()

	lastCheck, ok, err := r.state.LastCheck(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || now.Sub(lastCheck) > maxCheckAge {
		lastCheck = now.Add(-catchUpWindow)
	}

	meds, err := r.meds.List(ctx)
	if err != nil {
		return nil, err
	}

	missed := make([]MissedDose, 0)
	for _, m := range meds {
		for _, ts := range m.ScheduleTimes() {
			if !wasMissed(ts, lastCheck, now) {
				continue
			}
			missed = append(missed, MissedDose{
				MedicationID:   m.ID,
				Name:           m.Name,
				Dose:           m.Dose,
				ScheduledTime:  ts,
				TabletsPerDose: m.TabletsPerDose,
			})
		}
	}

	return missed, nil
}

// CompleteCheck avanza el cursor de reconciliación a ahora. Se llama al
// terminar un pase, no por cada dosis resuelta.
func (r *Reconciler) CompleteCheck(ctx context.Context) error {
	return r.state.SetLastCheck(ctx, r.now())
}

// ConfirmTaken registra que una dosis perdida sí se tomó a horario: agrega
// una entrada manual backdateada al timestamp programado. No toca el stock,
// que ya se descontó (o no) en su momento.
func (r *Reconciler) ConfirmTaken(ctx context.Context, medicationID, scheduledTime string) (doselog.Entry, error) {
	if _, ok := parseClock(scheduledTime); !ok {
		return doselog.Entry{}, doselog.ErrInvalidInput
	}
	if _, err := r.meds.GetByID(ctx, medicationID); err != nil {
		return doselog.Entry{}, err
	}

	ts := r.backdatedTimestamp(scheduledTime)
	return r.log.AppendManualForMedication(ctx, medicationID, ts, "Taken on time (confirmed after system startup)")
}

// Skip descarta la dosis perdida sin registrar nada. La omisión queda sin
// rastro en el log, igual que una dosis que nunca se accionó.
func (r *Reconciler) Skip(ctx context.Context, medicationID string) error {
	_, err := r.meds.GetByID(ctx, medicationID)
	return err
}

// backdatedTimestamp ubica "HH:MM" en el día de hoy, o en el de ayer si esa
// hora todavía no llegó (una dosis perdida nunca está en el futuro).
func (r *Reconciler) backdatedTimestamp(scheduledTime string) time.Time {
	now := r.now()
	mins, _ := parseClock(scheduledTime)

	ts := time.Date(now.Year(), now.Month(), now.Day(), mins/60, mins%60, 0, 0, now.Location())
	if ts.After(now) {
		ts = ts.AddDate(0, 0, -1)
	}
	return ts
}

// wasMissed decide si el horario cayó estrictamente después de lastCheck y
// no después de ahora. Cuando el rango cruza la medianoche la comparación
// por minuto-del-día se parte en dos tramos.
func wasMissed(timeStr string, lastCheck, now time.Time) bool {
	scheduled, ok := parseClock(timeStr)
	if !ok {
		return false
	}

	lastMin := minutesOfDay(lastCheck)
	nowMin := minutesOfDay(now)

	sameDay := lastCheck.Year() == now.Year() && lastCheck.YearDay() == now.YearDay()
	if sameDay {
		return scheduled > lastMin && scheduled <= nowMin
	}
	return scheduled >= lastMin || scheduled <= nowMin
}
