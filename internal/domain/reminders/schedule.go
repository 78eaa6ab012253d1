package reminders

import (
	"strconv"
	"strings"
	"time"
)

// Ventana simétrica de ±15 minutos alrededor del horario programado.
const dueToleranceMinutes = 15

// parseClock convierte "HH:MM" a minutos desde medianoche.
// Entradas malformadas devuelven ok=false y el caller las saltea en silencio;
// nunca son un error.
func parseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// isDueAt decide si un horario está dentro de la ventana de tolerancia
// respecto del minuto actual del día.
func isDueAt(timeStr string, currentMinutes int) bool {
	scheduled, ok := parseClock(timeStr)
	if !ok {
		return false
	}
	diff := currentMinutes - scheduled
	if diff < 0 {
		diff = -diff
	}
	return diff <= dueToleranceMinutes
}
