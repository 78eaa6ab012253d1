package medications

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID  map[string]Medication
	order []string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) List(ctx context.Context) ([]Medication, error) {
	out := make([]Medication, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Put(ctx context.Context, m Medication) error {
	return r.Create(ctx, m)
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type testHistory struct {
	events []ChangeEvent
}

func (h *testHistory) Append(ctx context.Context, e ChangeEvent) error {
	h.events = append(h.events, e)
	return nil
}

func (h *testHistory) List(ctx context.Context) ([]ChangeEvent, error) {
	return h.events, nil
}

func (h *testHistory) Clear(ctx context.Context) error {
	h.events = nil
	return nil
}

func newTestService() (*Service, *testRepo, *testHistory) {
	repo := newTestRepo()
	hist := &testHistory{}
	svc := NewService(repo, hist)
	svc.now = func() time.Time {
		return time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo, hist
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_AssignsIDAndJournals(t *testing.T) {
	svc, _, hist := newTestService()

	m, err := svc.Create(context.Background(), CreateInput{
		Name:           "Levodopa",
		Dose:           "100mg",
		Times:          "08:00,14:00,20:00",
		TabletsPerDose: 2,
		Stock:          20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == "" {
		t.Fatalf("expected generated id")
	}
	if m.TakenToday != 0 {
		t.Fatalf("expected takenToday 0, got %d", m.TakenToday)
	}

	if len(hist.events) != 1 || hist.events[0].Action != ActionAdd {
		t.Fatalf("expected one add event, got %+v", hist.events)
	}
	if hist.events[0].After == nil || hist.events[0].After.Name != "Levodopa" {
		t.Fatalf("expected after snapshot in add event")
	}
}

func TestService_Create_RejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Create(context.Background(), CreateInput{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "X", Stock: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative stock, got %v", err)
	}
}

func TestService_Take_DecrementsStockByTabletsPerDose(t *testing.T) {
	svc, _, hist := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{
		Name:           "Levodopa",
		TabletsPerDose: 2,
		Stock:          20,
	})

	got, res, err := svc.Take(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != TakeAccepted {
		t.Fatalf("expected accepted, got %s", res.Status)
	}
	if got.Stock != 18 || got.TakenToday != 1 {
		t.Fatalf("expected stock=18 takenToday=1, got %d/%d", got.Stock, got.TakenToday)
	}
	if res.StockBefore != 20 || res.StockAfter != 18 {
		t.Fatalf("unexpected result %+v", res)
	}

	last := hist.events[len(hist.events)-1]
	if last.Action != ActionTake || last.Take == nil {
		t.Fatalf("expected take event with result, got %+v", last)
	}
}

func TestService_Take_RefusesWhenStockInsufficient(t *testing.T) {
	svc, _, hist := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{
		Name:           "Pramipexol",
		TabletsPerDose: 2,
		Stock:          1,
	})
	before := len(hist.events)

	got, res, err := svc.Take(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("refusal must not be an error, got %v", err)
	}
	if res.Status != TakeRefused {
		t.Fatalf("expected refused, got %s", res.Status)
	}
	if got.Stock != 1 || got.TakenToday != 0 {
		t.Fatalf("refusal must not mutate, got stock=%d takenToday=%d", got.Stock, got.TakenToday)
	}
	if len(hist.events) != before {
		t.Fatalf("refusal must not journal an event")
	}
}

func TestService_Take_LegacyFallbackWithoutTabletsPerDose(t *testing.T) {
	svc, _, _ := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{Name: "Vieja", Stock: 3})

	got, res, err := svc.Take(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != TakeAccepted || got.Stock != 2 || got.TakenToday != 1 {
		t.Fatalf("expected legacy decrement of 1, got %+v / %+v", got, res)
	}

	// Con stock en 0 el fallback también rechaza.
	got.Stock = 0
	_ = svc.repo.Put(context.Background(), got)
	_, res, err = svc.Take(context.Background(), m.ID)
	if err != nil || res.Status != TakeRefused {
		t.Fatalf("expected refusal at zero stock, got %+v err=%v", res, err)
	}
}

func TestService_Take_StockNeverNegative(t *testing.T) {
	svc, _, _ := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{
		Name:           "Amantadina",
		TabletsPerDose: 3,
		Stock:          7,
	})

	for i := 0; i < 5; i++ {
		got, _, err := svc.Take(context.Background(), m.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Stock < 0 {
			t.Fatalf("stock went negative: %d", got.Stock)
		}
	}

	got, _ := svc.GetByID(context.Background(), m.ID)
	if got.Stock != 1 || got.TakenToday != 2 {
		t.Fatalf("expected stock=1 takenToday=2, got %d/%d", got.Stock, got.TakenToday)
	}
}

func TestService_UndoTake_RestoresStock(t *testing.T) {
	svc, _, _ := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{
		Name:           "Levodopa",
		TabletsPerDose: 2,
		Stock:          20,
	})

	_, _, _ = svc.Take(context.Background(), m.ID)

	got, err := svc.UndoTake(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stock != 20 || got.TakenToday != 0 {
		t.Fatalf("expected full restore, got stock=%d takenToday=%d", got.Stock, got.TakenToday)
	}
}

func TestService_UndoTake_NoOpWhenNothingTaken(t *testing.T) {
	svc, _, hist := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{
		Name:           "Levodopa",
		TabletsPerDose: 2,
		Stock:          20,
	})
	before := len(hist.events)

	got, err := svc.UndoTake(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stock != 20 || got.TakenToday != 0 {
		t.Fatalf("no-op undo must not mutate, got %+v", got)
	}
	if len(hist.events) != before {
		t.Fatalf("no-op undo must not journal")
	}
}

func TestService_Update_PartialMerge(t *testing.T) {
	svc, _, _ := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{
		Name:           "Rasagilina",
		Dose:           "1mg",
		TabletsPerDose: 1,
		Stock:          30,
	})

	newStock := 25
	got, err := svc.Update(context.Background(), m.ID, UpdateInput{Stock: &newStock})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stock != 25 {
		t.Fatalf("expected stock 25, got %d", got.Stock)
	}
	if got.Name != "Rasagilina" || got.Dose != "1mg" {
		t.Fatalf("unspecified fields must survive the merge, got %+v", got)
	}
}

func TestService_Update_UpsertsUnknownID(t *testing.T) {
	svc, _, _ := newTestService()

	name := "Fantasma"
	got, err := svc.Update(context.Background(), "no-such-id", UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("expected upsert, got error %v", err)
	}
	if got.ID != "no-such-id" || got.Name != "Fantasma" {
		t.Fatalf("expected synthesized record, got %+v", got)
	}

	again, err := svc.GetByID(context.Background(), "no-such-id")
	if err != nil || again.Name != "Fantasma" {
		t.Fatalf("upserted record must persist, got %+v err=%v", again, err)
	}
}

func TestService_Delete_JournalsPriorState(t *testing.T) {
	svc, _, hist := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{Name: "Borrar", Stock: 5})

	if err := svc.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), m.ID); err == nil {
		t.Fatalf("expected record gone")
	}

	last := hist.events[len(hist.events)-1]
	if last.Action != ActionDelete || last.Before == nil || last.Before.Stock != 5 {
		t.Fatalf("expected delete event with before snapshot, got %+v", last)
	}

	if err := svc.Delete(context.Background(), m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestService_OnDoseTaken_FiresOnlyOnAcceptedTakes(t *testing.T) {
	svc, _, _ := newTestService()

	var fired int
	svc.OnDoseTaken(func(ctx context.Context, m Medication, res TakeResult) {
		fired++
	})

	m, _ := svc.Create(context.Background(), CreateInput{
		Name:           "Levodopa",
		TabletsPerDose: 2,
		Stock:          2,
	})

	_, _, _ = svc.Take(context.Background(), m.ID) // acepta, stock 0
	_, _, _ = svc.Take(context.Background(), m.ID) // rechaza

	if fired != 1 {
		t.Fatalf("expected observer to fire once, fired %d", fired)
	}
}

// Escenario completo de un día: tres tomas programadas con dosis doble.
func TestService_ThreeTakesScenario(t *testing.T) {
	svc, _, _ := newTestService()

	m, _ := svc.Create(context.Background(), CreateInput{
		Name:           "Levodopa",
		Dose:           "100mg",
		Times:          "08:00,14:00,20:00",
		TabletsPerDose: 2,
		DosesPerDay:    3,
		Stock:          20,
	})

	for i := 0; i < 3; i++ {
		if _, res, err := svc.Take(context.Background(), m.ID); err != nil || res.Status != TakeAccepted {
			t.Fatalf("take %d failed: %+v err=%v", i, res, err)
		}
	}

	got, _ := svc.GetByID(context.Background(), m.ID)
	if got.Stock != 14 || got.TakenToday != 3 {
		t.Fatalf("expected stock=14 takenToday=3, got %d/%d", got.Stock, got.TakenToday)
	}
}
