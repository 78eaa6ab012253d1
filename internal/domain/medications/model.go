package medications

import (
	"strings"
	"time"
)

// Medication representa un medicamento registrado con su stock de tabletas.
type Medication struct {
	ID string

	Name  string
	Dose  string // texto libre: "100/25 mg"
	Notes string

	// Times guarda los horarios del día en formato "HH:MM" separados por coma
	// ("08:00,20:00"). Cada horario se repite todos los días.
	Times string

	TabletsPerDose    int // tabletas que se descuentan por toma; 0 = legacy (descuenta 1)
	TabletsPerPackage int
	DosesPerDay       int

	Stock      int // nunca baja de 0
	TakenToday int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleTimes parte Times por coma y descarta entradas vacías.
// No valida el formato: las entradas malformadas se ignoran recién al evaluar
// si están "due" (ver reminders).
func (m Medication) ScheduleTimes() []string {
	if strings.TrimSpace(m.Times) == "" {
		return nil
	}
	parts := strings.Split(m.Times, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// EffectiveDosesPerDay devuelve DosesPerDay, o la cantidad de horarios si no
// fue configurado, con mínimo 1. Se usa para estimar días de stock restante.
func (m Medication) EffectiveDosesPerDay() int {
	if m.DosesPerDay > 0 {
		return m.DosesPerDay
	}
	if n := len(m.ScheduleTimes()); n > 0 {
		return n
	}
	return 1
}
