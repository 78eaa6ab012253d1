package reminders

// DueDose es una vista efímera: se recalcula en cada scan y no se persiste.
type DueDose struct {
	MedicationID   string
	Name           string
	Dose           string
	Time           string // horario "HH:MM" que disparó la ventana
	TabletsPerDose int
	Stock          int
	Notes          string
}

// MissedDose es un horario que pasó sin confirmación desde el último check.
type MissedDose struct {
	MedicationID   string
	Name           string
	Dose           string
	ScheduledTime  string // "HH:MM"
	TabletsPerDose int
}
