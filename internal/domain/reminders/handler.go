package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"med-tracker/internal/domain/medications"
	"med-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, det *Detector, rec *Reconciler) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/due", listDueHandler(det))
		rr.Post("/due/{medID}/ack", ackDueHandler(det))
		rr.Post("/due/{medID}/dismiss", dismissDueHandler(det))

		rr.Get("/missed", listMissedHandler(rec))
		rr.Post("/missed/confirm", confirmMissedHandler(rec))
		rr.Post("/missed/skip", skipMissedHandler(rec))
		rr.Post("/missed/complete", completeCheckHandler(rec))
	})
}

type dueDoseResponse struct {
	MedicationID   string `json:"medication_id"`
	Name           string `json:"name"`
	Dose           string `json:"dose"`
	Time           string `json:"time"`
	TabletsPerDose int    `json:"tablets_per_dose"`
	Stock          int    `json:"stock"`
	Notes          string `json:"notes,omitempty"`
}

type missedDoseResponse struct {
	MedicationID   string `json:"medication_id"`
	Name           string `json:"name"`
	Dose           string `json:"dose"`
	ScheduledTime  string `json:"scheduled_time"`
	TabletsPerDose int    `json:"tablets_per_dose"`
}

type ackResponse struct {
	MedicationID string `json:"medication_id"`
	Status       string `json:"status" enums:"taken,refused_insufficient_stock"`
	StockBefore  int    `json:"stock_before"`
	StockAfter   int    `json:"stock_after"`
}

type missedDoseRequest struct {
	MedicationID  string `json:"medication_id"`
	ScheduledTime string `json:"scheduled_time"` // requerido solo para confirm
}

type confirmResponse struct {
	LogID     string    `json:"log_id"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
}

// listDueHandler godoc
// @Summary Dosis en ventana ahora
// @Description Devuelve las dosis dentro de la ventana de ±15 minutos del horario programado, excluyendo las ya accionadas en esta ventana. Con all=true devuelve también las accionadas.
// @Tags reminders
// @Produce json
// @Param all query bool false "incluir dosis ya accionadas"
// @Success 200 {array} dueDoseResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/due [get]
func listDueHandler(det *Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			due []DueDose
			err error
		)
		if r.URL.Query().Get("all") == "true" {
			due, err = det.DueNow(r.Context())
		} else {
			due, err = det.DueNowUnacknowledged(r.Context())
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]dueDoseResponse, 0, len(due))
		for _, d := range due {
			out = append(out, dueDoseResponse{
				MedicationID:   d.MedicationID,
				Name:           d.Name,
				Dose:           d.Dose,
				Time:           d.Time,
				TabletsPerDose: d.TabletsPerDose,
				Stock:          d.Stock,
				Notes:          d.Notes,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// ackDueHandler godoc
// @Summary Tomar dosis desde el recordatorio
// @Description Ejecuta el take del medicamento y marca la dosis como accionada para esta ventana. Si no hay stock suficiente el take se rechaza pero el recordatorio igual se silencia.
// @Tags reminders
// @Produce json
// @Param medID path string true "ID del medicamento"
// @Success 200 {object} ackResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /reminders/due/{medID}/ack [post]
func ackDueHandler(det *Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medID")

		m, res, err := det.Acknowledge(r.Context(), medID)
		if err != nil {
			if errors.Is(err, medications.ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, ackResponse{
			MedicationID: m.ID,
			Status:       string(res.Status),
			StockBefore:  res.StockBefore,
			StockAfter:   res.StockAfter,
		})
	}
}

func dismissDueHandler(det *Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medID")

		if err := det.Dismiss(r.Context(), medID); err != nil {
			if errors.Is(err, medications.ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// listMissedHandler godoc
// @Summary Dosis perdidas desde el último check
// @Description Lista las dosis programadas que pasaron sin registrarse desde el último pase de reconciliación. Lectura pura: el cursor solo avanza con /reminders/missed/complete.
// @Tags reminders
// @Produce json
// @Success 200 {array} missedDoseResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/missed [get]
func listMissedHandler(rec *Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		missed, err := rec.FindMissed(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]missedDoseResponse, 0, len(missed))
		for _, md := range missed {
			out = append(out, missedDoseResponse{
				MedicationID:   md.MedicationID,
				Name:           md.Name,
				Dose:           md.Dose,
				ScheduledTime:  md.ScheduledTime,
				TabletsPerDose: md.TabletsPerDose,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// confirmMissedHandler godoc
// @Summary Confirmar que una dosis perdida sí se tomó
// @Description Agrega al log una entrada manual backdateada al horario programado (en el día de ayer si esa hora todavía no llegó hoy). No modifica el stock.
// @Tags reminders
// @Accept json
// @Produce json
// @Param payload body missedDoseRequest true "Dosis a confirmar"
// @Success 201 {object} confirmResponse
// @Failure 400 {string} string "invalid json / scheduled_time inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /reminders/missed/confirm [post]
func confirmMissedHandler(rec *Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req missedDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.MedicationID) == "" || strings.TrimSpace(req.ScheduledTime) == "" {
			http.Error(w, "medication_id and scheduled_time required", http.StatusBadRequest)
			return
		}

		e, err := rec.ConfirmTaken(r.Context(), req.MedicationID, req.ScheduledTime)
		if err != nil {
			if errors.Is(err, medications.ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "invalid input", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, confirmResponse{
			LogID:     e.LogID,
			Timestamp: e.Timestamp,
			Notes:     e.Notes,
		})
	}
}

func skipMissedHandler(rec *Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req missedDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.MedicationID) == "" {
			http.Error(w, "medication_id required", http.StatusBadRequest)
			return
		}

		if err := rec.Skip(r.Context(), req.MedicationID); err != nil {
			if errors.Is(err, medications.ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func completeCheckHandler(rec *Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := rec.CompleteCheck(r.Context()); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
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
