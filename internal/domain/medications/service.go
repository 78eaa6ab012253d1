package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

// DoseTakenFunc se notifica después de cada toma aceptada. El log de tomas
// se suscribe acá en vez de envolver Take desde afuera.
type DoseTakenFunc func(ctx context.Context, m Medication, res TakeResult)

type Service struct {
	repo    Repository
	history HistoryRepository
	now     func() time.Time

	onDoseTaken []DoseTakenFunc
}

func NewService(repo Repository, history HistoryRepository) *Service {
	return &Service{
		repo:    repo,
		history: history,
		now:     time.Now,
	}
}

// OnDoseTaken registra un observer. No es thread-safe: registrar todo en el
// arranque, antes de servir requests.
func (s *Service) OnDoseTaken(fn DoseTakenFunc) {
	if fn != nil {
		s.onDoseTaken = append(s.onDoseTaken, fn)
	}
}

type CreateInput struct {
	ID    string // opcional; si viene, se confía en que sea único
	Name  string
	Dose  string
	Times string
	Notes string

	TabletsPerDose    int
	TabletsPerPackage int
	DosesPerDay       int
	Stock             int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Medication, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	if in.TabletsPerDose < 0 || in.Stock < 0 || in.DosesPerDay < 0 || in.TabletsPerPackage < 0 {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	m := Medication{
		ID:                id,
		Name:              strings.TrimSpace(in.Name),
		Dose:              strings.TrimSpace(in.Dose),
		Times:             strings.TrimSpace(in.Times),
		Notes:             strings.TrimSpace(in.Notes),
		TabletsPerDose:    in.TabletsPerDose,
		TabletsPerPackage: in.TabletsPerPackage,
		DosesPerDay:       in.DosesPerDay,
		Stock:             in.Stock,
		TakenToday:        0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}

	s.appendHistory(ctx, ChangeEvent{
		MedicationID: m.ID,
		Name:         m.Name,
		Action:       ActionAdd,
		Timestamp:    now,
		After:        &m,
	})

	return m, nil
}

func (s *Service) List(ctx context.Context) ([]Medication, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateInput usa punteros para PATCH real: nil = no tocar.
type UpdateInput struct {
	Name  *string
	Dose  *string
	Times *string
	Notes *string

	TabletsPerDose    *int
	TabletsPerPackage *int
	DosesPerDay       *int
	Stock             *int
}

// Update hace merge parcial sobre el registro con ese id. Si no existe,
// sintetiza uno nuevo a partir de {id}+campos (upsert): hay clientes que
// mandan PATCH de registros ya borrados y esperan que se re-creen.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()

	current, err := s.repo.GetByID(ctx, id)
	var before *Medication
	if err == nil {
		cp := current
		before = &cp
	} else {
		// upsert: registro nuevo solo con el id
		current = Medication{ID: id, CreatedAt: now}
	}

	if in.Name != nil {
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Dose != nil {
		current.Dose = strings.TrimSpace(*in.Dose)
	}
	if in.Times != nil {
		current.Times = strings.TrimSpace(*in.Times)
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.TabletsPerDose != nil {
		if *in.TabletsPerDose < 0 {
			return Medication{}, ErrInvalidInput
		}
		current.TabletsPerDose = *in.TabletsPerDose
	}
	if in.TabletsPerPackage != nil {
		if *in.TabletsPerPackage < 0 {
			return Medication{}, ErrInvalidInput
		}
		current.TabletsPerPackage = *in.TabletsPerPackage
	}
	if in.DosesPerDay != nil {
		if *in.DosesPerDay < 0 {
			return Medication{}, ErrInvalidInput
		}
		current.DosesPerDay = *in.DosesPerDay
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return Medication{}, ErrInvalidInput
		}
		current.Stock = *in.Stock
	}
	current.UpdatedAt = now

	if err := s.repo.Put(ctx, current); err != nil {
		return Medication{}, err
	}

	s.appendHistory(ctx, ChangeEvent{
		MedicationID: id,
		Name:         current.Name,
		Action:       ActionUpdate,
		Timestamp:    now,
		Before:       before,
		After:        &current,
	})

	return current, nil
}

// Delete borra el registro de forma irreversible (sin tombstone) y deja un
// evento en el journal con el estado previo, para auditoría.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	prior, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.appendHistory(ctx, ChangeEvent{
		MedicationID: id,
		Name:         prior.Name,
		Action:       ActionDelete,
		Timestamp:    s.now(),
		Before:       &prior,
	})

	return nil
}

// Take descuenta una toma:
//   - tabletsPerDose > 0 y stock suficiente: stock -= tabletsPerDose, takenToday++.
//   - tabletsPerDose == 0 y stock > 0: fallback legacy, descuenta 1.
//   - stock insuficiente: no muta nada; el resultado vuelve como refused,
//     nunca como error (fail closed, fail quiet).
//
// El stock jamás queda negativo.
func (s *Service) Take(ctx context.Context, id string) (Medication, TakeResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, TakeResult{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, TakeResult{}, ErrNotFound
	}

	res := TakeResult{
		TabletsPerDose: m.TabletsPerDose,
		StockBefore:    m.Stock,
		StockAfter:     m.Stock,
	}

	switch {
	case m.TabletsPerDose > 0 && m.Stock >= m.TabletsPerDose:
		m.Stock -= m.TabletsPerDose
		m.TakenToday++
		res.Status = TakeAccepted
	case m.TabletsPerDose == 0 && m.Stock > 0:
		m.Stock--
		m.TakenToday++
		res.Status = TakeAccepted
	default:
		res.Status = TakeRefused
		return m, res, nil
	}

	res.StockAfter = m.Stock

	now := s.now()
	m.UpdatedAt = now
	if err := s.repo.Put(ctx, m); err != nil {
		return Medication{}, TakeResult{}, err
	}

	s.appendHistory(ctx, ChangeEvent{
		MedicationID: id,
		Name:         m.Name,
		Action:       ActionTake,
		Timestamp:    now,
		Take:         &res,
	})

	for _, fn := range s.onDoseTaken {
		fn(ctx, m, res)
	}

	return m, res, nil
}

// UndoTake revierte la última toma a nivel contador: no es un undo LIFO de
// una toma puntual. Solo está acotado por takenToday > 0; con takenToday en
// 0 es un no-op.
func (s *Service) UndoTake(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}

	if m.TakenToday == 0 {
		return m, nil
	}

	res := TakeResult{
		Status:         TakeAccepted,
		TabletsPerDose: m.TabletsPerDose,
		StockBefore:    m.Stock,
	}

	m.TakenToday--
	if m.TabletsPerDose > 0 {
		m.Stock += m.TabletsPerDose
	} else {
		m.Stock++
	}
	res.StockAfter = m.Stock

	now := s.now()
	m.UpdatedAt = now
	if err := s.repo.Put(ctx, m); err != nil {
		return Medication{}, err
	}

	s.appendHistory(ctx, ChangeEvent{
		MedicationID: id,
		Name:         m.Name,
		Action:       ActionUndo,
		Timestamp:    now,
		Take:         &res,
	})

	return m, nil
}

func (s *Service) GetHistory(ctx context.Context) ([]ChangeEvent, error) {
	return s.history.List(ctx)
}

func (s *Service) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}

// appendHistory es best-effort: una falla del journal no voltea la mutación
// ya aplicada.
func (s *Service) appendHistory(ctx context.Context, ev ChangeEvent) {
	if s.history == nil {
		return
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	_ = s.history.Append(ctx, ev)
}
