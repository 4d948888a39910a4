package reporting

import (
	"testing"

	"vetcontrol/internal/domain/planillas"
	"vetcontrol/internal/domain/usuarios"
)

func planillaDePrueba() planillas.Planilla {
	return planillas.Planilla{
		ID:                     "pl-1",
		Municipio:              "Rivera",
		VacunadorID:            "vac-1",
		TecnicoID:              "tec-1",
		VacunadoresAdicionales: []string{"vac-2"},
		TecnicosAdicionales:    []string{"tec-2"},
	}
}

func TestAlcanceAdministrador(t *testing.T) {
	a := ResolverAlcance("admin-1", usuarios.RolAdministrador)
	p := planillaDePrueba()

	if !a.PlanillaVisible(p) {
		t.Fatal("admin debe ver cualquier planilla")
	}
	if !a.RegistroVisible("cualquiera", p) {
		t.Fatal("admin debe ver cualquier registro")
	}
}

func TestAlcanceTecnico(t *testing.T) {
	p := planillaDePrueba()

	// Principal y adicional ven la planilla y todos sus registros
	for _, id := range []string{"tec-1", "tec-2"} {
		a := ResolverAlcance(id, usuarios.RolTecnico)
		if !a.PlanillaVisible(p) {
			t.Fatalf("tecnico %s debe ver su planilla", id)
		}
		if !a.RegistroVisible("vac-1", p) {
			t.Fatalf("tecnico %s debe ver registros creados por otros", id)
		}
	}

	otro := ResolverAlcance("tec-ajeno", usuarios.RolTecnico)
	if otro.PlanillaVisible(p) {
		t.Fatal("tecnico ajeno no debe ver la planilla")
	}
	if otro.RegistroVisible("vac-1", p) {
		t.Fatal("tecnico ajeno no debe ver registros")
	}
}

func TestAlcanceVacunador_Asimetria(t *testing.T) {
	p := planillaDePrueba()
	a := ResolverAlcance("vac-1", usuarios.RolVacunador)

	// Ve la planilla donde está asignado...
	if !a.PlanillaVisible(p) {
		t.Fatal("vacunador asignado debe ver la planilla")
	}
	// ...pero a nivel registro solo lo que él creó, aunque comparta planilla.
	if !a.RegistroVisible("vac-1", p) {
		t.Fatal("vacunador debe ver sus propios registros")
	}
	if a.RegistroVisible("vac-2", p) {
		t.Fatal("vacunador no debe ver registros de otro vacunador de la misma planilla")
	}
	if a.RegistroVisible("", p) {
		t.Fatal("registros sin creador no son visibles para vacunadores")
	}

	adicional := ResolverAlcance("vac-2", usuarios.RolVacunador)
	if !adicional.PlanillaVisible(p) {
		t.Fatal("vacunador adicional debe ver la planilla")
	}
}

func TestAlcanceRolDesconocido_DenyAll(t *testing.T) {
	p := planillaDePrueba()

	for _, rol := range []usuarios.Rol{"", "supervisor", "ADMINISTRADOR"} {
		a := ResolverAlcance("vac-1", rol)
		if !a.DenegadoTotal() {
			t.Fatalf("rol %q debe resolver a deny-all", rol)
		}
		if a.PlanillaVisible(p) || a.RegistroVisible("vac-1", p) {
			t.Fatalf("rol %q no debe ver nada", rol)
		}
	}
}
