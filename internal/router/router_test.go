package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"med-tracker/internal/router"
)

func TestHTTP_EndToEnd_MedicationLifecycle(t *testing.T) {
	handler, _ := router.New(router.Options{AuthVerifier: nil})
	ts := httptest.NewServer(handler)
	defer ts.Close()

	userID := "user-1"

	// 0) Health no requiere auth
	{
		resp, err := http.Get(ts.URL + "/health")
		if err != nil {
			t.Fatalf("health request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 health, got %d", resp.StatusCode)
		}
	}

	// 1) Sin identidad no hay acceso
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}
	}

	// 2) Alta de medicamento
	var medID string
	{
		st, body := doReq(t, ts.URL, "POST", "/medications", userID, map[string]any{
			"name":             "Levodopa",
			"dose":             "100mg",
			"times":            "08:00,14:00,20:00",
			"tablets_per_dose": 2,
			"doses_per_day":    3,
			"stock":            20,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create, got %d body=%s", st, string(body))
		}
		var out struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
			t.Fatalf("expected id in response, body=%s err=%v", string(body), err)
		}
		medID = out.ID
	}

	// 3) Toma: stock baja, takenToday sube
	{
		st, body := doReq(t, ts.URL, "POST", "/medications/"+medID+"/take", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 take, got %d body=%s", st, string(body))
		}
		var out struct {
			Status     string `json:"status"`
			StockAfter int    `json:"stock_after"`
			Medication struct {
				TakenToday int `json:"taken_today"`
			} `json:"medication"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("bad take response: %v", err)
		}
		if out.Status != "taken" || out.StockAfter != 18 || out.Medication.TakenToday != 1 {
			t.Fatalf("unexpected take response %s", string(body))
		}
	}

	// 4) La toma quedó en el log inmutable como entrada auto
	{
		st, body := doReq(t, ts.URL, "GET", "/log", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 log, got %d", st)
		}
		var entries []struct {
			MedicationName string `json:"medication_name"`
			Method         string `json:"method"`
			Notes          string `json:"notes"`
		}
		if err := json.Unmarshal(body, &entries); err != nil {
			t.Fatalf("bad log response: %v", err)
		}
		if len(entries) != 1 || entries[0].Method != "auto" || entries[0].Notes != "Taken via system" {
			t.Fatalf("expected one auto entry, got %s", string(body))
		}
	}

	// 5) Rechazo por stock insuficiente: 200 con status explícito, sin mutar
	{
		st, body := doReq(t, ts.URL, "POST", "/medications", userID, map[string]any{
			"name":             "Pramipexol",
			"tablets_per_dose": 2,
			"stock":            1,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201, got %d", st)
		}
		var created struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &created)

		st, body = doReq(t, ts.URL, "POST", "/medications/"+created.ID+"/take", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("refusal must be 200, got %d", st)
		}
		var out struct {
			Status     string `json:"status"`
			StockAfter int    `json:"stock_after"`
		}
		_ = json.Unmarshal(body, &out)
		if out.Status != "refused_insufficient_stock" || out.StockAfter != 1 {
			t.Fatalf("unexpected refusal response %s", string(body))
		}
	}

	// 6) Stock bajo: 18 tabletas / (2*3) = 3 días
	{
		st, body := doReq(t, ts.URL, "GET", "/log/low-stock", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 low-stock, got %d", st)
		}
		var alerts []struct {
			Name          string `json:"name"`
			DaysRemaining int    `json:"days_remaining"`
			OutOfStock    bool   `json:"out_of_stock"`
		}
		if err := json.Unmarshal(body, &alerts); err != nil {
			t.Fatalf("bad low-stock response: %v", err)
		}
		found := false
		for _, a := range alerts {
			if a.Name == "Levodopa" {
				found = true
				if a.DaysRemaining != 3 || a.OutOfStock {
					t.Fatalf("unexpected alert %+v", a)
				}
			}
		}
		if !found {
			t.Fatalf("expected Levodopa alert, got %s", string(body))
		}
	}

	// 7) Undo restituye el stock
	{
		st, body := doReq(t, ts.URL, "POST", "/medications/"+medID+"/undo", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 undo, got %d", st)
		}
		var out struct {
			Stock      int `json:"stock"`
			TakenToday int `json:"taken_today"`
		}
		_ = json.Unmarshal(body, &out)
		if out.Stock != 20 || out.TakenToday != 0 {
			t.Fatalf("unexpected undo response %s", string(body))
		}
	}

	// 8) El journal registró todo el ciclo
	{
		st, body := doReq(t, ts.URL, "GET", "/medications/history", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history, got %d", st)
		}
		var events []struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(body, &events); err != nil {
			t.Fatalf("bad history response: %v", err)
		}
		// add, take, add, undo (el rechazo no se journalea); más reciente primero
		if len(events) != 4 || events[0].Action != "undo" {
			t.Fatalf("unexpected journal %s", string(body))
		}
	}

	// 9) Sugerencias para el alta rápida
	{
		st, body := doReq(t, ts.URL, "GET", "/medications/suggestions", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 suggestions, got %d", st)
		}
		var items []struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
			t.Fatalf("expected suggestions, body=%s err=%v", string(body), err)
		}
	}

	// 10) Baja definitiva
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/medications/"+medID, userID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/medications/"+medID, userID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_PatchUpsertsUnknownID(t *testing.T) {
	handler, _ := router.New(router.Options{AuthVerifier: nil})
	ts := httptest.NewServer(handler)
	defer ts.Close()

	st, body := doReq(t, ts.URL, "PATCH", "/medications/ghost-1", "user-1", map[string]any{
		"name":  "Fantasma",
		"stock": 3,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 upsert, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/medications/ghost-1", "user-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected upserted record readable, got %d", st)
	}
	var out struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}
	_ = json.Unmarshal(body, &out)
	if out.Name != "Fantasma" || out.Stock != 3 {
		t.Fatalf("unexpected upserted record %s", string(body))
	}
}

func TestHTTP_ManualLogEntryAndClear(t *testing.T) {
	handler, _ := router.New(router.Options{AuthVerifier: nil})
	ts := httptest.NewServer(handler)
	defer ts.Close()

	userID := "user-1"

	st, body := doReq(t, ts.URL, "POST", "/medications", userID, map[string]any{
		"name":             "Rasagilina",
		"dose":             "1mg",
		"tablets_per_dose": 1,
		"stock":            30,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d", st)
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &created)

	// Carga manual backdateada
	st, body = doReq(t, ts.URL, "POST", "/log", userID, map[string]any{
		"medication_id": created.ID,
		"timestamp":     "2025-12-21T20:00:00Z",
		"notes":         "la tomé anoche",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 manual entry, got %d body=%s", st, string(body))
	}
	var entry struct {
		Method string `json:"method"`
		Notes  string `json:"notes"`
	}
	_ = json.Unmarshal(body, &entry)
	if entry.Method != "manual" || entry.Notes != "la tomé anoche" {
		t.Fatalf("unexpected manual entry %s", string(body))
	}

	// El stock no se movió
	st, body = doReq(t, ts.URL, "GET", "/medications/"+created.ID, userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var med struct {
		Stock int `json:"stock"`
	}
	_ = json.Unmarshal(body, &med)
	if med.Stock != 30 {
		t.Fatalf("manual entry must not touch stock, got %d", med.Stock)
	}

	// Medicamento inexistente -> 404
	st, _ = doReq(t, ts.URL, "POST", "/log", userID, map[string]any{
		"medication_id": "nope",
	})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown medication, got %d", st)
	}

	// Reset administrativo
	st, _ = doReq(t, ts.URL, "DELETE", "/log", userID, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 clear, got %d", st)
	}
	st, body = doReq(t, ts.URL, "GET", "/log", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var entries []any
	_ = json.Unmarshal(body, &entries)
	if len(entries) != 0 {
		t.Fatalf("expected empty log after clear, got %s", string(body))
	}
}

func TestHTTP_MissedDoseEndpointsValidateInput(t *testing.T) {
	handler, _ := router.New(router.Options{AuthVerifier: nil})
	ts := httptest.NewServer(handler)
	defer ts.Close()

	userID := "user-1"

	// Lista vacía al arrancar sin medicamentos
	st, body := doReq(t, ts.URL, "GET", "/reminders/missed", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 missed, got %d", st)
	}
	var missed []any
	if err := json.Unmarshal(body, &missed); err != nil || len(missed) != 0 {
		t.Fatalf("expected empty missed list, body=%s err=%v", string(body), err)
	}

	// Confirm sin scheduled_time -> 400
	st, _ = doReq(t, ts.URL, "POST", "/reminders/missed/confirm", userID, map[string]any{
		"medication_id": "whatever",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", st)
	}

	// Skip de medicamento inexistente -> 404
	st, _ = doReq(t, ts.URL, "POST", "/reminders/missed/skip", userID, map[string]any{
		"medication_id": "nope",
	})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", st)
	}

	// Cerrar el pase
	st, _ = doReq(t, ts.URL, "POST", "/reminders/missed/complete", userID, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 complete, got %d", st)
	}
}

// doReq hace un request con identidad de debug y devuelve status + body.
func doReq(t *testing.T, baseURL, method, path, userID string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}
