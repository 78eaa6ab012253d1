package doselog

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"med-tracker/internal/domain/medications"
	"med-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/log", func(lr chi.Router) {
		lr.Get("/", listLogHandler(svc))
		lr.Post("/", appendManualEntryHandler(svc))

		// Reset administrativo: borra el log entero. No hay borrado puntual.
		lr.Delete("/", clearLogHandler(svc))

		lr.Get("/low-stock", lowStockHandler(svc))
	})
}

// manualEntryRequest es el cuerpo para cargar una toma a mano.
type manualEntryRequest struct {
	MedicationID string `json:"medication_id"`
	Timestamp    string `json:"timestamp"` // RFC3339; opcional, permite backdate
	Notes        string `json:"notes"`
}

type entryResponse struct {
	LogID          string    `json:"log_id"`
	MedicationName string    `json:"medication_name"`
	Dose           string    `json:"dose"`
	Tablets        int       `json:"tablets"`
	StockAfter     *int      `json:"stock_after,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Method         Method    `json:"method" enums:"auto,manual,popup"`
	Notes          string    `json:"notes"`
}

type lowStockResponse struct {
	Name          string `json:"name"`
	Stock         int    `json:"stock"`
	DaysRemaining int    `json:"days_remaining"`
	OutOfStock    bool   `json:"out_of_stock"`
}

// listLogHandler godoc
// @Summary Ver log inmutable de tomas
// @Description Devuelve todas las entradas del log, más reciente primero. Las entradas nunca se editan ni se borran individualmente.
// @Tags log
// @Produce json
// @Success 200 {array} entryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /log [get]
func listLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		entries, err := svc.GetAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Orden por timestamp desc (más reciente primero)
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})

		out := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toEntryResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// appendManualEntryHandler godoc
// @Summary Cargar toma manual
// @Description Agrega una entrada manual al log inmutable para el medicamento indicado. El timestamp puede backdatearse (RFC3339); si falta se usa ahora. No toca el stock.
// @Tags log
// @Accept json
// @Produce json
// @Param payload body manualEntryRequest true "Datos de la entrada"
// @Success 201 {object} entryResponse
// @Failure 400 {string} string "invalid json / timestamp inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /log [post]
func appendManualEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req manualEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.MedicationID) == "" {
			http.Error(w, "medication_id required", http.StatusBadRequest)
			return
		}

		var ts time.Time
		if strings.TrimSpace(req.Timestamp) != "" {
			t, err := time.Parse(time.RFC3339, req.Timestamp)
			if err != nil {
				http.Error(w, "timestamp must be RFC3339", http.StatusBadRequest)
				return
			}
			ts = t
		}

		e, err := svc.AppendManualForMedication(r.Context(), req.MedicationID, ts, req.Notes)
		if err != nil {
			if errors.Is(err, medications.ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, ErrInvalidInput) || errors.Is(err, medications.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

func clearLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Clear(r.Context()); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// lowStockHandler godoc
// @Summary Alertas de stock bajo
// @Description Vista derivada del stock actual: medicamentos con <= 7 días de tabletas restantes, y los que están en 0 marcados out_of_stock. Se recalcula en cada llamada.
// @Tags log
// @Produce json
// @Success 200 {array} lowStockResponse
// @Failure 401 {string} string "unauthorized"
// @Router /log/low-stock [get]
func lowStockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		alerts, err := svc.CheckLowStock(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]lowStockResponse, 0, len(alerts))
		for _, a := range alerts {
			out = append(out, lowStockResponse{
				Name:          a.Name,
				Stock:         a.Stock,
				DaysRemaining: a.DaysRemaining,
				OutOfStock:    a.OutOfStock,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		LogID:          e.LogID,
		MedicationName: e.MedicationName,
		Dose:           e.Dose,
		Tablets:        e.Tablets,
		StockAfter:     e.StockAfter,
		Timestamp:      e.Timestamp,
		Method:         e.Method,
		Notes:          e.Notes,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
// Si más adelante se repite en más módulos, recién conviene extraerlo a un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
