package doselog

import "time"

// Entry es una toma registrada en el log inmutable. Una vez appendeada no se
// edita ni se borra individualmente; solo existe el Clear administrativo del
// log completo.
type Entry struct {
	LogID string

	// Referencia blanda por nombre, no por id: renombrar un medicamento no
	// reescribe la historia (la historia registra lo que pasó bajo ese
	// nombre en ese momento).
	MedicationName string
	Dose           string

	Tablets    int
	StockAfter *int // snapshot opcional del stock después de la toma

	// Timestamp es el instante al que se atribuye la toma; puede venir
	// backdateado (entradas manuales y confirmaciones de dosis perdidas).
	Timestamp time.Time

	Method Method
	Notes  string

	Immutable bool
}
