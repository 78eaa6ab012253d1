package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"med-tracker/internal/domain/doselog"
	"med-tracker/internal/domain/medications"
)

// Los marcadores de toma expiran a las 2 horas; se podan al leer.
const markerTTL = 2 * time.Hour

// Detector calcula qué dosis están dentro de la ventana de tolerancia ahora
// mismo. No persiste nada salvo los marcadores de de-duplicación.
type Detector struct {
	meds    *medications.Service
	log     *doselog.Service
	markers MarkerRepository
	now     func() time.Time
}

func NewDetector(meds *medications.Service, log *doselog.Service, markers MarkerRepository) *Detector {
	return &Detector{
		meds:    meds,
		log:     log,
		markers: markers,
		now:     time.Now,
	}
}

// DueNow devuelve todas las dosis en ventana, sin filtrar por marcadores.
// Cada horario que califica genera su propia entrada: dos horarios del mismo
// medicamento a menos de 30 minutos entre sí disparan los dos.
func (d *Detector) DueNow(ctx context.Context) ([]DueDose, error) {
	return d.scan(ctx, nil)
}

// DueNowUnacknowledged devuelve las dosis en ventana que todavía no fueron
// accionadas (ni tomadas ni descartadas) en esta ventana.
func (d *Detector) DueNowUnacknowledged(ctx context.Context) ([]DueDose, error) {
	taken, err := d.activeMarkers(ctx)
	if err != nil {
		return nil, err
	}
	return d.scan(ctx, taken)
}

// Acknowledge marca la dosis como accionada para esta ventana y ejecuta el
// take correspondiente. Devuelve el resultado del take; un rechazo por stock
// insuficiente igual deja el marcador puesto para no re-alertar.
func (d *Detector) Acknowledge(ctx context.Context, medicationID string) (medications.Medication, medications.TakeResult, error) {
	now := d.now()

	m, res, err := d.meds.Take(ctx, medicationID)
	if err != nil {
		return medications.Medication{}, medications.TakeResult{}, err
	}

	key := markerKey(medicationID, minutesOfDay(now))
	if err := d.markers.Put(ctx, key, now); err != nil {
		return m, res, err
	}

	if res.Status == medications.TakeAccepted {
		tablets := res.StockBefore - res.StockAfter
		stock := res.StockAfter
		_, _ = d.log.Append(ctx, doselog.AppendInput{
			MedicationName: m.Name,
			Dose:           m.Dose,
			Tablets:        tablets,
			StockAfter:     &stock,
			Method:         doselog.MethodPopup,
			Notes:          "Taken at scheduled time",
		})
	}

	return m, res, nil
}

// Dismiss deja el marcador puesto sin tomar la dosis: el recordatorio no
// vuelve a aparecer en esta ventana pero el stock queda intacto.
func (d *Detector) Dismiss(ctx context.Context, medicationID string) error {
	if _, err := d.meds.GetByID(ctx, medicationID); err != nil {
		return err
	}
	now := d.now()
	return d.markers.Put(ctx, markerKey(medicationID, minutesOfDay(now)), now)
}

func (d *Detector) scan(ctx context.Context, taken map[string]time.Time) ([]DueDose, error) {
	meds, err := d.meds.List(ctx)
	if err != nil {
		return nil, err
	}

	currentMinutes := minutesOfDay(d.now())

	due := make([]DueDose, 0)
	for _, m := range meds {
		// El marcador se escribió con el minuto del ack, que puede no
		// coincidir con el minuto de este scan; alcanza con que exista un
		// marcador vigente del medicamento para silenciar todos sus horarios.
		if taken != nil && hasMarker(taken, m.ID) {
			continue
		}
		for _, ts := range m.ScheduleTimes() {
			if !isDueAt(ts, currentMinutes) {
				continue
			}
			due = append(due, DueDose{
				MedicationID:   m.ID,
				Name:           m.Name,
				Dose:           m.Dose,
				Time:           ts,
				TabletsPerDose: m.TabletsPerDose,
				Stock:          m.Stock,
				Notes:          m.Notes,
			})
		}
	}

	return due, nil
}

// activeMarkers devuelve los marcadores vigentes y poda los vencidos.
func (d *Detector) activeMarkers(ctx context.Context) (map[string]time.Time, error) {
	all, err := d.markers.All(ctx)
	if err != nil {
		return nil, err
	}

	now := d.now()
	active := make(map[string]time.Time, len(all))
	var stale []string
	for k, at := range all {
		if now.Sub(at) > markerTTL {
			stale = append(stale, k)
			continue
		}
		active[k] = at
	}

	if len(stale) > 0 {
		if err := d.markers.Delete(ctx, stale); err != nil {
			return nil, err
		}
	}

	return active, nil
}

func markerKey(medicationID string, minute int) string {
	return fmt.Sprintf("%s_%d", medicationID, minute)
}

func hasMarker(taken map[string]time.Time, medicationID string) bool {
	prefix := medicationID + "_"
	for k := range taken {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}
