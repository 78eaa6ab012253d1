package doselog

// Method indica la procedencia de una entrada del log. No cambia nunca
// después de creada la entrada.
type Method string

const (
	// MethodAuto: toma registrada por el sistema al ejecutar un take.
	MethodAuto Method = "auto"
	// MethodManual: entrada cargada a mano (posiblemente backdateada).
	MethodManual Method = "manual"
	// MethodPopup: toma confirmada desde el recordatorio de dosis due.
	MethodPopup Method = "popup"
)

func (m Method) Valid() bool {
	switch m {
	case MethodAuto, MethodManual, MethodPopup:
		return true
	}
	return false
}

// LowStockAlert es una vista derivada del stock actual; se recalcula en cada
// consulta, nunca se persiste.
type LowStockAlert struct {
	Name          string
	Stock         int
	DaysRemaining int
	OutOfStock    bool
}
