package doselog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"med-tracker/internal/domain/medications"

	"github.com/google/uuid"
)

// Umbral de alerta: quedan tabletas para 7 días o menos.
const lowStockThresholdDays = 7

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	meds *medications.Service
	now  func() time.Time
}

func NewService(repo Repository, meds *medications.Service) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

type AppendInput struct {
	MedicationName string
	Dose           string
	Tablets        int
	StockAfter     *int
	Timestamp      time.Time // zero = ahora
	Method         Method
	Notes          string
}

// Append agrega una entrada al log. Asigna logId y timestamp por defecto y
// marca la entrada como inmutable; después de esto no hay camino en el
// contrato público para modificarla.
func (s *Service) Append(ctx context.Context, in AppendInput) (Entry, error) {
	if strings.TrimSpace(in.MedicationName) == "" {
		return Entry{}, ErrInvalidInput
	}
	method := in.Method
	if method == "" {
		method = MethodManual
	}
	if !method.Valid() {
		return Entry{}, ErrInvalidInput
	}

	now := s.now()

	ts := in.Timestamp
	if ts.IsZero() {
		ts = now
	}

	tablets := in.Tablets
	if tablets <= 0 {
		tablets = 1
	}

	e := Entry{
		LogID:          newLogID(now),
		MedicationName: strings.TrimSpace(in.MedicationName),
		Dose:           strings.TrimSpace(in.Dose),
		Tablets:        tablets,
		StockAfter:     in.StockAfter,
		Timestamp:      ts,
		Method:         method,
		Notes:          strings.TrimSpace(in.Notes),
		Immutable:      true,
	}

	if err := s.repo.Append(ctx, e); err != nil {
		// El caller debe tratar la toma como no loggeada aunque la mutación
		// de stock ya haya ocurrido (gap conocido entre store y log).
		return Entry{}, err
	}

	return e, nil
}

// AppendManualForMedication arma una entrada manual a partir del registro
// actual del medicamento (nombre, dosis, tabletas por toma y snapshot de
// stock), con timestamp backdateable.
func (s *Service) AppendManualForMedication(ctx context.Context, medicationID string, ts time.Time, notes string) (Entry, error) {
	m, err := s.meds.GetByID(ctx, medicationID)
	if err != nil {
		return Entry{}, err
	}

	tablets := m.TabletsPerDose
	if tablets <= 0 {
		tablets = 1
	}
	stock := m.Stock

	return s.Append(ctx, AppendInput{
		MedicationName: m.Name,
		Dose:           m.Dose,
		Tablets:        tablets,
		StockAfter:     &stock,
		Timestamp:      ts,
		Method:         MethodManual,
		Notes:          notes,
	})
}

// RecordTake es el observer que se engancha a medications.OnDoseTaken para
// registrar cada take aceptado como entrada "auto".
func (s *Service) RecordTake(ctx context.Context, m medications.Medication, res medications.TakeResult) {
	if res.Status != medications.TakeAccepted {
		return
	}

	tablets := res.StockBefore - res.StockAfter
	if tablets <= 0 {
		tablets = 1
	}
	stock := res.StockAfter

	_, _ = s.Append(ctx, AppendInput{
		MedicationName: m.Name,
		Dose:           m.Dose,
		Tablets:        tablets,
		StockAfter:     &stock,
		Method:         MethodAuto,
		Notes:          "Taken via system",
	})
}

// GetAll devuelve el log completo; el orden de presentación (más reciente
// primero) lo decide el caller.
func (s *Service) GetAll(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// Clear borra el log completo. Reset administrativo, irreversible.
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// CheckLowStock deriva las alertas de stock desde el store de medicamentos
// (no desde el log). daysRemaining = floor(stock / (tabletsPerDose *
// dosesPerDay)), con tabletsPerDose coercionado a 1 para registros legacy;
// stock en 0 se reporta aparte como out-of-stock.
func (s *Service) CheckLowStock(ctx context.Context) ([]LowStockAlert, error) {
	meds, err := s.meds.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]LowStockAlert, 0)
	for _, m := range meds {
		if m.Stock == 0 {
			out = append(out, LowStockAlert{
				Name:       m.Name,
				Stock:      0,
				OutOfStock: true,
			})
			continue
		}

		perDose := m.TabletsPerDose
		if perDose <= 0 {
			perDose = 1
		}
		days := m.Stock / (perDose * m.EffectiveDosesPerDay())

		if days <= lowStockThresholdDays {
			out = append(out, LowStockAlert{
				Name:          m.Name,
				Stock:         m.Stock,
				DaysRemaining: days,
			})
		}
	}

	return out, nil
}

// newLogID genera un id único incluso bajo appends consecutivos rápidos:
// milisegundos + sufijo aleatorio.
func newLogID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}
