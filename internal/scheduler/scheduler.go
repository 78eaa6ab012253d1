package scheduler

import (
	"context"
	"sync"
	"time"

	"med-tracker/internal/domain/doselog"
	"med-tracker/internal/domain/reminders"
	"med-tracker/internal/platform/logger"

	rcron "github.com/robfig/cron/v3"
)

const (
	// Una dosis en ventana se vuelve a anunciar como mucho cada 5 minutos.
	reAlertInterval = 5 * time.Minute

	// El check de dosis perdidas corre un rato después de levantar el
	// proceso, para no competir con el arranque del server.
	startupCheckDelay = 3 * time.Second
)

// Scheduler corre los scans periódicos: dosis en ventana cada minuto, stock
// bajo cada 5 minutos y un pase de reconciliación al arrancar. Las alertas
// salen por el logger; los clientes consultan los mismos datos vía API.
type Scheduler struct {
	cron *rcron.Cron
	det  *reminders.Detector
	rec  *reminders.Reconciler
	dlog *doselog.Service
	log  logger.Logger

	mu        sync.Mutex
	lastAlert map[string]time.Time
}

func New(det *reminders.Detector, rec *reminders.Reconciler, dlog *doselog.Service, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      rcron.New(),
		det:       det,
		rec:       rec,
		dlog:      dlog,
		log:       log.With(map[string]any{"component": "scheduler"}),
		lastAlert: make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.scanDue); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@every 5m", s.scanLowStock); err != nil {
		return err
	}

	go func() {
		time.Sleep(startupCheckDelay)
		s.runStartupCheck()
	}()

	s.cron.Start()
	s.log.Info("scheduler started", nil)
	return nil
}

// Stop frena el cron y espera a que terminen los jobs en vuelo.
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) scanDue() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := s.det.DueNowUnacknowledged(ctx)
	if err != nil {
		s.log.Error("due scan failed", map[string]any{"err": err.Error()})
		return
	}

	now := time.Now()
	for _, d := range due {
		s.mu.Lock()
		last, seen := s.lastAlert[d.MedicationID]
		if seen && now.Sub(last) < reAlertInterval {
			s.mu.Unlock()
			continue
		}
		s.lastAlert[d.MedicationID] = now
		s.mu.Unlock()

		s.log.Info("dose due", map[string]any{
			"medication_id": d.MedicationID,
			"name":          d.Name,
			"time":          d.Time,
			"stock":         d.Stock,
		})
	}
}

func (s *Scheduler) scanLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	alerts, err := s.dlog.CheckLowStock(ctx)
	if err != nil {
		s.log.Error("low stock scan failed", map[string]any{"err": err.Error()})
		return
	}

	for _, a := range alerts {
		if a.OutOfStock {
			s.log.Warn("medication out of stock", map[string]any{"name": a.Name})
			continue
		}
		s.log.Warn("medication low on stock", map[string]any{
			"name":           a.Name,
			"stock":          a.Stock,
			"days_remaining": a.DaysRemaining,
		})
	}
}

// runStartupCheck lista las dosis perdidas al arrancar. Si no hay ninguna,
// avanza el cursor directamente; si hay, lo deja quieto para que los
// clientes puedan resolverlas vía /reminders/missed y cerrar el pase con
// /reminders/missed/complete.
func (s *Scheduler) runStartupCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	missed, err := s.rec.FindMissed(ctx)
	if err != nil {
		s.log.Error("missed dose check failed", map[string]any{"err": err.Error()})
		return
	}

	if len(missed) == 0 {
		if err := s.rec.CompleteCheck(ctx); err != nil {
			s.log.Error("failed to persist last check", map[string]any{"err": err.Error()})
		}
		return
	}

	for _, md := range missed {
		s.log.Warn("missed dose detected", map[string]any{
			"medication_id":  md.MedicationID,
			"name":           md.Name,
			"scheduled_time": md.ScheduledTime,
		})
	}
}
