package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"med-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))

		// Picker de medicamentos sugeridos (alta rápida)
		mr.Get("/suggestions", listSuggestionsHandler())

		// Journal de mutaciones del store (visor de historial)
		mr.Get("/history", getHistoryHandler(svc))
		mr.Delete("/history", clearHistoryHandler(svc))

		mr.Get("/{medID}", getMedicationHandler(svc))
		mr.Patch("/{medID}", updateMedicationHandler(svc))
		mr.Delete("/{medID}", deleteMedicationHandler(svc))

		mr.Post("/{medID}/take", takeMedicationHandler(svc))
		mr.Post("/{medID}/undo", undoTakeHandler(svc))
	})
}

// createMedicationRequest es el cuerpo para registrar un medicamento.
type createMedicationRequest struct {
	ID                string `json:"id"` // opcional; si viene se confía en su unicidad
	Name              string `json:"name"`
	Dose              string `json:"dose"`
	Times             string `json:"times"` // "HH:MM,HH:MM"
	Notes             string `json:"notes"`
	TabletsPerDose    int    `json:"tablets_per_dose"`
	TabletsPerPackage int    `json:"tablets_per_package"`
	DosesPerDay       int    `json:"doses_per_day"`
	Stock             int    `json:"stock"`
}

type updateMedicationRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name              *string `json:"name"`
	Dose              *string `json:"dose"`
	Times             *string `json:"times"`
	Notes             *string `json:"notes"`
	TabletsPerDose    *int    `json:"tablets_per_dose"`
	TabletsPerPackage *int    `json:"tablets_per_package"`
	DosesPerDay       *int    `json:"doses_per_day"`
	Stock             *int    `json:"stock"`
}

type medicationResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Dose              string    `json:"dose"`
	Times             string    `json:"times"`
	Notes             string    `json:"notes"`
	TabletsPerDose    int       `json:"tablets_per_dose"`
	TabletsPerPackage int       `json:"tablets_per_package"`
	DosesPerDay       int       `json:"doses_per_day"`
	Stock             int       `json:"stock"`
	TakenToday        int       `json:"taken_today"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type takeResponse struct {
	Medication  medicationResponse `json:"medication"`
	Status      TakeStatus         `json:"status" enums:"taken,refused_insufficient_stock"`
	StockBefore int                `json:"stock_before"`
	StockAfter  int                `json:"stock_after"`
}

type suggestionResponse struct {
	Name string `json:"name"`
	Dose string `json:"dose"`
}

type changeEventResponse struct {
	EventID      string              `json:"event_id"`
	MedicationID string              `json:"medication_id"`
	Name         string              `json:"name"`
	Action       ChangeAction        `json:"action" enums:"add,update,delete,take,undo"`
	Timestamp    time.Time           `json:"timestamp"`
	Before       *medicationResponse `json:"before,omitempty"`
	After        *medicationResponse `json:"after,omitempty"`
	Take         *TakeResult         `json:"take,omitempty"`
}

// createMedicationHandler godoc
// @Summary Registrar medicamento
// @Description Registra un medicamento nuevo con stock y horarios. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags medications
// @Accept json
// @Produce json
// @Param payload body createMedicationRequest true "Datos del medicamento"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), CreateInput{
			ID:                req.ID,
			Name:              req.Name,
			Dose:              req.Dose,
			Times:             req.Times,
			Notes:             req.Notes,
			TabletsPerDose:    req.TabletsPerDose,
			TabletsPerPackage: req.TabletsPerPackage,
			DosesPerDay:       req.DosesPerDay,
			Stock:             req.Stock,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Description Lista todos los medicamentos en orden de inserción.
// @Tags medications
// @Produce json
// @Success 200 {array} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medID"))
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// updateMedicationHandler godoc
// @Summary Actualizar medicamento (merge parcial)
// @Description Aplica un PATCH parcial. Si el id no existe, crea el registro (upsert, comportamiento heredado).
// @Tags medications
// @Accept json
// @Produce json
// @Param medID path string true "ID del medicamento"
// @Param payload body updateMedicationRequest true "Campos a modificar"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /medications/{medID} [patch]
func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateMedicationRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medID"), UpdateInput{
			Name:              req.Name,
			Dose:              req.Dose,
			Times:             req.Times,
			Notes:             req.Notes,
			TabletsPerDose:    req.TabletsPerDose,
			TabletsPerPackage: req.TabletsPerPackage,
			DosesPerDay:       req.DosesPerDay,
			Stock:             req.Stock,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "medID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// takeMedicationHandler godoc
// @Summary Tomar una dosis
// @Description Descuenta una toma del stock. Si el stock no alcanza, no muta nada y devuelve status=refused_insufficient_stock (200, no es error).
// @Tags medications
// @Produce json
// @Param medID path string true "ID del medicamento"
// @Success 200 {object} takeResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medID}/take [post]
func takeMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, res, err := svc.Take(r.Context(), chi.URLParam(r, "medID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, takeResponse{
			Medication:  toMedicationResponse(m),
			Status:      res.Status,
			StockBefore: res.StockBefore,
			StockAfter:  res.StockAfter,
		})
	}
}

func undoTakeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.UndoTake(r.Context(), chi.URLParam(r, "medID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func listSuggestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items := Suggestions()
		out := make([]suggestionResponse, 0, len(items))
		for _, s := range items {
			out = append(out, suggestionResponse{Name: s.Name, Dose: s.Dose})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getHistoryHandler godoc
// @Summary Historial de mutaciones
// @Description Devuelve el journal de mutaciones del store (add/update/delete/take/undo), más reciente primero.
// @Tags medications
// @Produce json
// @Success 200 {array} changeEventResponse
// @Failure 401 {string} string "unauthorized"
// @Router /medications/history [get]
func getHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		events, err := svc.GetHistory(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]changeEventResponse, 0, len(events))
		// más reciente primero
		for i := len(events) - 1; i >= 0; i-- {
			out = append(out, toChangeEventResponse(events[i]))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func clearHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.ClearHistory(r.Context()); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:                m.ID,
		Name:              m.Name,
		Dose:              m.Dose,
		Times:             m.Times,
		Notes:             m.Notes,
		TabletsPerDose:    m.TabletsPerDose,
		TabletsPerPackage: m.TabletsPerPackage,
		DosesPerDay:       m.DosesPerDay,
		Stock:             m.Stock,
		TakenToday:        m.TakenToday,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toChangeEventResponse(ev ChangeEvent) changeEventResponse {
	out := changeEventResponse{
		EventID:      ev.EventID,
		MedicationID: ev.MedicationID,
		Name:         ev.Name,
		Action:       ev.Action,
		Timestamp:    ev.Timestamp,
		Take:         ev.Take,
	}
	if ev.Before != nil {
		b := toMedicationResponse(*ev.Before)
		out.Before = &b
	}
	if ev.After != nil {
		a := toMedicationResponse(*ev.After)
		out.After = &a
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
// Si más adelante se repite en más módulos, recién conviene extraerlo a un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
