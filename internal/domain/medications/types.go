package medications

import "time"

type ChangeAction string

const (
	ActionAdd    ChangeAction = "add"
	ActionUpdate ChangeAction = "update"
	ActionDelete ChangeAction = "delete"
	ActionTake   ChangeAction = "take"
	ActionUndo   ChangeAction = "undo"
)

type TakeStatus string

const (
	// TakeAccepted: el stock se descontó y TakenToday subió.
	TakeAccepted TakeStatus = "taken"
	// TakeRefused: stock insuficiente; el estado queda intacto.
	// El rechazo es un estado explícito, no un error.
	TakeRefused TakeStatus = "refused_insufficient_stock"
)

// TakeResult describe el efecto de una toma (o su reverso).
type TakeResult struct {
	Status         TakeStatus
	TabletsPerDose int
	StockBefore    int
	StockAfter     int
}

// ChangeEvent es una entrada del journal de mutaciones del store
// (distinto del log inmutable de tomas, que vive en doselog).
type ChangeEvent struct {
	EventID      string
	MedicationID string
	Name         string
	Action       ChangeAction
	Timestamp    time.Time

	Before *Medication // update/delete
	After  *Medication // add/update
	Take   *TakeResult // take/undo
}
