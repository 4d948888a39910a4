package reporting

import (
	"vetcontrol/internal/domain/planillas"
	"vetcontrol/internal/domain/usuarios"
)

// Alcance describe qué planillas y registros puede ver un usuario.
// Se resuelve una sola vez por request y se aplica como predicado.
type Alcance struct {
	userID string
	rol    usuarios.Rol
}

// ResolverAlcance es el único punto donde el rol se traduce a visibilidad.
// El switch es exhaustivo sobre el set cerrado de roles; un rol no reconocido
// resuelve a deny-all.
func ResolverAlcance(userID string, rol usuarios.Rol) Alcance {
	switch rol {
	case usuarios.RolAdministrador, usuarios.RolTecnico, usuarios.RolVacunador:
		return Alcance{userID: userID, rol: rol}
	default:
		return Alcance{userID: userID, rol: usuarios.RolDesconocido}
	}
}

// Rol del alcance resuelto.
func (a Alcance) Rol() usuarios.Rol { return a.rol }

// DenegadoTotal indica que el usuario no ve nada (rol desconocido).
func (a Alcance) DenegadoTotal() bool { return a.rol == usuarios.RolDesconocido }

// PlanillaVisible decide si el usuario ve la planilla en sus listados:
// administradores todas; técnicos y vacunadores las suyas (principal o adicional).
func (a Alcance) PlanillaVisible(p planillas.Planilla) bool {
	switch a.rol {
	case usuarios.RolAdministrador:
		return true
	case usuarios.RolTecnico:
		return p.TieneTecnico(a.userID)
	case usuarios.RolVacunador:
		return p.TieneVacunador(a.userID)
	default:
		return false
	}
}

// RegistroVisible decide si el usuario ve un responsable/mascota concreto.
// La asimetría para vacunadores es regla de negocio, no un bug: un vacunador
// ve qué planillas existen (PlanillaVisible) pero dentro de ellas solo los
// registros que él mismo creó; un técnico ve todos los registros de su
// municipio, los haya creado quien los haya creado.
func (a Alcance) RegistroVisible(creadoPor string, p planillas.Planilla) bool {
	switch a.rol {
	case usuarios.RolAdministrador:
		return true
	case usuarios.RolTecnico:
		return p.TieneTecnico(a.userID)
	case usuarios.RolVacunador:
		return creadoPor != "" && creadoPor == a.userID
	default:
		return false
	}
}
