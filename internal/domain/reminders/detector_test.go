package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"med-tracker/internal/domain/doselog"
	"med-tracker/internal/domain/medications"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testMedsRepo struct {
	byID  map[string]medications.Medication
	order []string
}

func newTestMedsRepo() *testMedsRepo {
	return &testMedsRepo{byID: map[string]medications.Medication{}}
}

func (r *testMedsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	out := make([]medications.Medication, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *testMedsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testMedsRepo) Create(ctx context.Context, m medications.Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testMedsRepo) Put(ctx context.Context, m medications.Medication) error {
	return r.Create(ctx, m)
}

func (r *testMedsRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type testLogRepo struct {
	entries []doselog.Entry
}

func (r *testLogRepo) Append(ctx context.Context, e doselog.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *testLogRepo) List(ctx context.Context) ([]doselog.Entry, error) {
	return r.entries, nil
}

func (r *testLogRepo) Clear(ctx context.Context) error {
	r.entries = nil
	return nil
}

type testMarkers struct {
	byKey map[string]time.Time
}

func newTestMarkers() *testMarkers {
	return &testMarkers{byKey: map[string]time.Time{}}
}

func (r *testMarkers) All(ctx context.Context) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(r.byKey))
	for k, v := range r.byKey {
		out[k] = v
	}
	return out, nil
}

func (r *testMarkers) Put(ctx context.Context, key string, at time.Time) error {
	r.byKey[key] = at
	return nil
}

func (r *testMarkers) Delete(ctx context.Context, keys []string) error {
	for _, k := range keys {
		delete(r.byKey, k)
	}
	return nil
}

type testState struct {
	lastCheck time.Time
	hasCheck  bool
}

func (r *testState) LastCheck(ctx context.Context) (time.Time, bool, error) {
	return r.lastCheck, r.hasCheck, nil
}

func (r *testState) SetLastCheck(ctx context.Context, t time.Time) error {
	r.lastCheck = t
	r.hasCheck = true
	return nil
}

type detectorFixture struct {
	det     *Detector
	meds    *medications.Service
	logRepo *testLogRepo
	markers *testMarkers
}

func newDetectorFixture(now time.Time) *detectorFixture {
	medsRepo := newTestMedsRepo()
	medsSvc := medications.NewService(medsRepo, nil)

	logRepo := &testLogRepo{}
	logSvc := doselog.NewService(logRepo, medsSvc)

	markers := newTestMarkers()
	det := NewDetector(medsSvc, logSvc, markers)
	det.now = func() time.Time { return now }

	return &detectorFixture{det: det, meds: medsSvc, logRepo: logRepo, markers: markers}
}

// -------------------------
// Tests
// -------------------------

func TestDetector_WindowIsSymmetric(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		due  bool
	}{
		{"exact", time.Date(2025, 12, 22, 8, 0, 0, 0, time.UTC), true},
		{"plus 15", time.Date(2025, 12, 22, 8, 15, 0, 0, time.UTC), true},
		{"plus 16", time.Date(2025, 12, 22, 8, 16, 0, 0, time.UTC), false},
		{"minus 15", time.Date(2025, 12, 22, 7, 45, 0, 0, time.UTC), true},
		{"minus 16", time.Date(2025, 12, 22, 7, 44, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDetectorFixture(tc.now)
			_, _ = f.meds.Create(context.Background(), medications.CreateInput{
				Name: "Levodopa", Times: "08:00", TabletsPerDose: 2, Stock: 10,
			})

			due, err := f.det.DueNow(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := len(due) == 1; got != tc.due {
				t.Fatalf("expected due=%v, got %d results", tc.due, len(due))
			}
		})
	}
}

func TestDetector_MalformedTimesAreSkipped(t *testing.T) {
	now := time.Date(2025, 12, 22, 8, 0, 0, 0, time.UTC)
	f := newDetectorFixture(now)

	_, _ = f.meds.Create(context.Background(), medications.CreateInput{
		Name: "Rota", Times: "banana, ,08:00", TabletsPerDose: 1, Stock: 5,
	})

	due, err := f.det.DueNow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 || due[0].Time != "08:00" {
		t.Fatalf("expected only the valid time to match, got %+v", due)
	}
}

func TestDetector_EachQualifyingTimeFiresSeparately(t *testing.T) {
	now := time.Date(2025, 12, 22, 8, 5, 0, 0, time.UTC)
	f := newDetectorFixture(now)

	// Dos horarios dentro de la misma ventana: los dos disparan.
	_, _ = f.meds.Create(context.Background(), medications.CreateInput{
		Name: "Levodopa", Times: "08:00,08:10", TabletsPerDose: 1, Stock: 5,
	})

	due, _ := f.det.DueNow(context.Background())
	if len(due) != 2 {
		t.Fatalf("expected both schedule slots due, got %d", len(due))
	}
	if due[0].Time != "08:00" || due[1].Time != "08:10" {
		t.Fatalf("expected entries in schedule order, got %+v", due)
	}
}

func TestDetector_AcknowledgeSuppressesReAlert(t *testing.T) {
	now := time.Date(2025, 12, 22, 8, 0, 0, 0, time.UTC)
	f := newDetectorFixture(now)

	m, _ := f.meds.Create(context.Background(), medications.CreateInput{
		Name: "Levodopa", Dose: "100mg", Times: "08:00", TabletsPerDose: 2, Stock: 10,
	})

	got, res, err := f.det.Acknowledge(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != medications.TakeAccepted || got.Stock != 8 {
		t.Fatalf("expected accepted take, got %+v stock=%d", res, got.Stock)
	}

	// La entrada del popup queda en el log con la nota estándar.
	var popup *doselog.Entry
	for i := range f.logRepo.entries {
		if f.logRepo.entries[i].Method == doselog.MethodPopup {
			popup = &f.logRepo.entries[i]
		}
	}
	if popup == nil {
		t.Fatalf("expected a popup log entry")
	}
	if popup.Notes != "Taken at scheduled time" || popup.Tablets != 2 {
		t.Fatalf("unexpected popup entry %+v", popup)
	}

	due, _ := f.det.DueNowUnacknowledged(context.Background())
	if len(due) != 0 {
		t.Fatalf("acknowledged dose must not re-alert, got %+v", due)
	}

	// La vista completa la sigue mostrando.
	all, _ := f.det.DueNow(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected dose in unfiltered view, got %d", len(all))
	}
}

func TestDetector_AcknowledgeStillSilencesRefusedTake(t *testing.T) {
	now := time.Date(2025, 12, 22, 8, 0, 0, 0, time.UTC)
	f := newDetectorFixture(now)

	m, _ := f.meds.Create(context.Background(), medications.CreateInput{
		Name: "Sin stock", Times: "08:00", TabletsPerDose: 2, Stock: 1,
	})

	_, res, err := f.det.Acknowledge(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != medications.TakeRefused {
		t.Fatalf("expected refused take, got %s", res.Status)
	}

	due, _ := f.det.DueNowUnacknowledged(context.Background())
	if len(due) != 0 {
		t.Fatalf("refused ack must still suppress re-alerts, got %+v", due)
	}

	for _, e := range f.logRepo.entries {
		if e.Method == doselog.MethodPopup {
			t.Fatalf("refused take must not log a popup entry")
		}
	}
}

func TestDetector_MarkersExpireAfterTTL(t *testing.T) {
	now := time.Date(2025, 12, 22, 8, 0, 0, 0, time.UTC)
	f := newDetectorFixture(now)

	m, _ := f.meds.Create(context.Background(), medications.CreateInput{
		Name: "Levodopa", Times: "08:00", TabletsPerDose: 1, Stock: 10,
	})

	// Marcador de hace 3 horas: vencido.
	_ = f.markers.Put(context.Background(), m.ID+"_480", now.Add(-3*time.Hour))

	due, err := f.det.DueNowUnacknowledged(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expired marker must not suppress, got %d", len(due))
	}

	// La lectura podó el marcador vencido.
	if len(f.markers.byKey) != 0 {
		t.Fatalf("expected stale marker pruned, still have %v", f.markers.byKey)
	}
}

func TestDetector_DismissLeavesStockIntact(t *testing.T) {
	now := time.Date(2025, 12, 22, 8, 0, 0, 0, time.UTC)
	f := newDetectorFixture(now)

	m, _ := f.meds.Create(context.Background(), medications.CreateInput{
		Name: "Levodopa", Times: "08:00", TabletsPerDose: 2, Stock: 10,
	})

	if err := f.det.Dismiss(context.Background(), m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := f.meds.GetByID(context.Background(), m.ID)
	if got.Stock != 10 || got.TakenToday != 0 {
		t.Fatalf("dismiss must not mutate, got %+v", got)
	}

	due, _ := f.det.DueNowUnacknowledged(context.Background())
	if len(due) != 0 {
		t.Fatalf("dismissed dose must not re-alert, got %+v", due)
	}
}
