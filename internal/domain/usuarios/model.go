package usuarios

import "time"

// Rol define los tipos de usuario del sistema.
// @Enum administrador, vacunador, tecnico
type Rol string

const (
	RolAdministrador Rol = "administrador"
	RolVacunador     Rol = "vacunador"
	RolTecnico       Rol = "tecnico"
)

// ParseRol normaliza un rol libre. Valores desconocidos quedan como RolDesconocido:
// nunca fallan, pero resuelven a visibilidad cero.
func ParseRol(s string) Rol {
	switch Rol(s) {
	case RolAdministrador, RolVacunador, RolTecnico:
		return Rol(s)
	default:
		return RolDesconocido
	}
}

// RolDesconocido no matchea ningún alcance (deny-all).
const RolDesconocido Rol = ""

// Veterinario es el usuario del sistema (personal de campo o administrativo).
type Veterinario struct {
	ID       string
	Username string
	Nombre   string
	Apellido string
	Rol      Rol

	Creado time.Time
}

// NombreCompleto para mostrar en filtros y reportes.
func (v Veterinario) NombreCompleto() string {
	full := v.Nombre
	if v.Apellido != "" {
		if full != "" {
			full += " "
		}
		full += v.Apellido
	}
	if full == "" {
		return v.Username
	}
	return full
}
