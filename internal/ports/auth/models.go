package auth

// Claims representa la información extraída del token.
// La app es de uso personal: con UserID alcanza para el gate de las páginas.
type Claims struct {
	UserID      string
	Email       string
	DisplayName string
}
