package auth

// Claims representa la identidad extraída del token (o de los headers dev).
type Claims struct {
	UserID   string
	Username string
	Rol      string // administrador, vacunador o tecnico
}
