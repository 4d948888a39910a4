package reporting

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"vetcontrol/internal/domain/mascotas"
	"vetcontrol/internal/domain/planillas"
	"vetcontrol/internal/domain/responsables"
	"vetcontrol/internal/domain/usuarios"

	"go.uber.org/zap"
)

// Fuente agrupa las lecturas que necesita el módulo de reportes.
// Cada request lee su propio snapshot; no hay estado compartido.
type Fuente struct {
	Usuarios     usuarios.Repository
	Planillas    planillas.Repository
	Responsables responsables.Repository
	Mascotas     mascotas.Repository
}

type Service struct {
	fuente Fuente
	log    *zap.Logger
	now    func() time.Time
}

func NewService(fuente Fuente, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		fuente: fuente,
		log:    log,
		now:    time.Now,
	}
}

// Rango es el rango de fechas pedido; los extremos abiertos se resuelven
// contra los datos (como hacía siempre el reporte estadístico).
type Rango struct {
	Inicio *time.Time
	Fin    *time.Time
}

// RangoEfectivo es el rango ya resuelto que se imprime en el reporte.
type RangoEfectivo struct {
	Inicio time.Time
	Fin    time.Time
}

func (r RangoEfectivo) String() string {
	return r.Inicio.Format("02/01/2006") + " - " + r.Fin.Format("02/01/2006")
}

// cargarDetalles une mascota+responsable+planilla aplicando el alcance.
// Deny-all corta acá, antes de leer datos de mascotas.
func (s *Service) cargarDetalles(ctx context.Context, alcance Alcance) ([]RegistroDetalle, error) {
	if alcance.DenegadoTotal() {
		return nil, ErrForbidden
	}

	todasPlanillas, err := s.fuente.Planillas.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	planillaPorID := make(map[string]planillas.Planilla, len(todasPlanillas))
	for _, p := range todasPlanillas {
		planillaPorID[p.ID] = p
	}

	todosResponsables, err := s.fuente.Responsables.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	responsablePorID := make(map[string]responsables.Responsable, len(todosResponsables))
	for _, r := range todosResponsables {
		responsablePorID[r.ID] = r
	}

	usernamePorID := map[string]string{}
	if todos, err := s.fuente.Usuarios.ListAll(ctx); err == nil {
		for _, u := range todos {
			usernamePorID[u.ID] = u.Username
		}
	}

	todasMascotas, err := s.fuente.Mascotas.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RegistroDetalle, 0, len(todasMascotas))
	for _, m := range todasMascotas {
		// Filas huérfanas caen en "Sin especificar" en vez de abortar el reporte.
		resp, tieneResp := responsablePorID[m.ResponsableID]
		var pla planillas.Planilla
		if tieneResp {
			pla = planillaPorID[resp.PlanillaID]
		}

		if !alcance.RegistroVisible(m.CreatedBy, pla) {
			continue
		}

		fallback := pla.UrbanoRural
		if fallback == "" {
			fallback = planillas.ZonaUrbano
		}

		username := usernamePorID[m.CreatedBy]
		if username == "" {
			username = m.CreatedBy
		}

		out = append(out, RegistroDetalle{
			Mascota:           m,
			Responsable:       resp,
			Municipio:         pla.Municipio,
			FallbackZona:      fallback,
			VacunadorID:       m.CreatedBy,
			VacunadorUsername: username,
		})
	}

	return out, nil
}

func aRegistroAnimal(det RegistroDetalle) RegistroAnimal {
	return RegistroAnimal{
		Municipio:          det.Municipio,
		Dia:                det.Mascota.Creado,
		Vacunador:          det.VacunadorUsername,
		Tipo:               det.Mascota.Tipo,
		Zona:               Clasificar(det.Responsable.Zona, det.FallbackZona),
		AntecedenteVacunal: det.Mascota.AntecedenteVacunal,
		Esterilizado:       det.Mascota.Esterilizado,
	}
}

// ReporteAgrupado corre la pasada única del motor sobre los registros del
// alcance, dentro del rango (extremos abiertos se resuelven contra los datos).
func (s *Service) ReporteAgrupado(ctx context.Context, alcance Alcance, dims []Dimension, rango Rango) (*Resultado, RangoEfectivo, error) {
	acc, err := NuevoAcumulador(dims)
	if err != nil {
		return nil, RangoEfectivo{}, err
	}

	detalles, err := s.cargarDetalles(ctx, alcance)
	if err != nil {
		return nil, RangoEfectivo{}, err
	}

	efectivo := s.resolverRango(rango, detalles)

	contados := 0
	for _, det := range detalles {
		if !dentroDelRango(det.Mascota.Creado, efectivo) {
			continue
		}
		acc.Agregar(aRegistroAnimal(det))
		contados++
	}

	s.log.Debug("reporte agrupado",
		zap.Int("registros", contados),
		zap.Int("cargados", len(detalles)),
	)

	return acc.Resultado(), efectivo, nil
}

func (s *Service) resolverRango(rango Rango, detalles []RegistroDetalle) RangoEfectivo {
	hoy := inicioDelDia(s.now())

	var min, max time.Time
	for _, det := range detalles {
		d := inicioDelDia(det.Mascota.Creado)
		if min.IsZero() || d.Before(min) {
			min = d
		}
		if max.IsZero() || d.After(max) {
			max = d
		}
	}
	if min.IsZero() {
		min = hoy
	}
	if max.IsZero() {
		max = hoy
	}

	switch {
	case rango.Inicio != nil && rango.Fin != nil:
		return RangoEfectivo{Inicio: inicioDelDia(*rango.Inicio), Fin: inicioDelDia(*rango.Fin)}
	case rango.Inicio != nil:
		return RangoEfectivo{Inicio: inicioDelDia(*rango.Inicio), Fin: hoy}
	case rango.Fin != nil:
		return RangoEfectivo{Inicio: min, Fin: inicioDelDia(*rango.Fin)}
	default:
		return RangoEfectivo{Inicio: min, Fin: max}
	}
}

func dentroDelRango(t time.Time, r RangoEfectivo) bool {
	d := inicioDelDia(t)
	return !d.Before(r.Inicio) && !d.After(r.Fin)
}

// Arbol arma el drill-down completo (solo administradores; el handler valida
// el rol, el servicio igual corta deny-all en cargarDetalles).
func (s *Service) Arbol(ctx context.Context, alcance Alcance, filtros FiltrosArbol) (ArbolReportes, error) {
	detalles, err := s.cargarDetalles(ctx, alcance)
	if err != nil {
		return ArbolReportes{}, err
	}
	return ConstruirArbol(detalles, filtros), nil
}

// ResumenDiario es el reporte de jornada de un vacunador.
type DetalleMascota struct {
	Mascota       string `json:"mascota"`
	Tipo          string `json:"tipo"`
	Responsable   string `json:"responsable"`
	Municipio     string `json:"municipio"`
	Zona          string `json:"zona"`
	TarjetaPrevia bool   `json:"tarjeta_previa"`
}

type ResumenDiario struct {
	Fecha         string           `json:"fecha"`
	TotalMascotas int              `json:"total_mascotas"`
	TotalPerros   int              `json:"total_perros"`
	TotalGatos    int              `json:"total_gatos"`
	ConTarjeta    int              `json:"con_tarjeta"`
	SinTarjeta    int              `json:"sin_tarjeta"`
	Detalles      []DetalleMascota `json:"detalles"`
}

// ReporteVacunadorDiario resume lo vacunado por el propio usuario en un día.
func (s *Service) ReporteVacunadorDiario(ctx context.Context, alcance Alcance, fecha time.Time) (ResumenDiario, error) {
	detalles, err := s.cargarDetalles(ctx, alcance)
	if err != nil {
		return ResumenDiario{}, err
	}

	dia := inicioDelDia(fecha)
	out := ResumenDiario{
		Fecha:    dia.Format("2006-01-02"),
		Detalles: make([]DetalleMascota, 0),
	}

	sort.Slice(detalles, func(i, j int) bool {
		return detalles[i].Mascota.Creado.Before(detalles[j].Mascota.Creado)
	})

	for _, det := range detalles {
		if !inicioDelDia(det.Mascota.Creado).Equal(dia) {
			continue
		}

		out.TotalMascotas++
		switch det.Mascota.Tipo {
		case mascotas.TipoPerro:
			out.TotalPerros++
		case mascotas.TipoGato:
			out.TotalGatos++
		}
		if det.Mascota.AntecedenteVacunal {
			out.ConTarjeta++
		} else {
			out.SinTarjeta++
		}

		out.Detalles = append(out.Detalles, DetalleMascota{
			Mascota:       det.Mascota.Nombre,
			Tipo:          string(det.Mascota.Tipo),
			Responsable:   det.Responsable.Nombre,
			Municipio:     det.Municipio,
			Zona:          capitalizar(det.Responsable.Zona),
			TarjetaPrevia: det.Mascota.AntecedenteVacunal,
		})
	}

	return out, nil
}

// ResumenTablero alimenta los tableros por rol. Acá aplica la regla histórica
// del tablero: centro poblado cuenta como urbano (ClasificarTablero).
type ResumenTablero struct {
	TotalPlanillas     int            `json:"total_planillas"`
	TotalResponsables  int            `json:"total_responsables"`
	TotalMascotas      int            `json:"total_mascotas"`
	MascotasConTarjeta int            `json:"mascotas_con_tarjeta"`
	TotalUrbano        int            `json:"total_urbano"`
	TotalRural         int            `json:"total_rural"`
	PorcentajeUrbano   float64        `json:"porcentaje_urbano"`
	PorcentajeRural    float64        `json:"porcentaje_rural"`
	MascotasPorDia     []ConteoPorDia `json:"mascotas_por_dia"`
}

type ConteoPorDia struct {
	Dia      string `json:"dia"`
	Cantidad int    `json:"cantidad"`
}

func (s *Service) Tablero(ctx context.Context, alcance Alcance) (ResumenTablero, error) {
	detalles, err := s.cargarDetalles(ctx, alcance)
	if err != nil {
		return ResumenTablero{}, err
	}

	todasPlanillas, err := s.fuente.Planillas.ListAll(ctx)
	if err != nil {
		return ResumenTablero{}, err
	}

	out := ResumenTablero{MascotasPorDia: make([]ConteoPorDia, 0)}

	for _, p := range todasPlanillas {
		if alcance.PlanillaVisible(p) {
			out.TotalPlanillas++
		}
	}

	responsablesVistos := map[string]struct{}{}
	porDia := map[string]int{}

	for _, det := range detalles {
		out.TotalMascotas++
		if det.Mascota.AntecedenteVacunal {
			out.MascotasConTarjeta++
		}
		if det.Responsable.ID != "" {
			responsablesVistos[det.Responsable.ID] = struct{}{}
		}

		if ClasificarTablero(det.Responsable.Zona, det.FallbackZona) == ZonaUrbana {
			out.TotalUrbano++
		} else {
			out.TotalRural++
		}

		porDia[det.Mascota.Creado.Format("2006-01-02")]++
	}

	out.TotalResponsables = len(responsablesVistos)

	if out.TotalMascotas > 0 {
		out.PorcentajeUrbano = redondear1(float64(out.TotalUrbano) / float64(out.TotalMascotas) * 100)
		out.PorcentajeRural = redondear1(float64(out.TotalRural) / float64(out.TotalMascotas) * 100)
	}

	for _, dia := range clavesOrdenadas(porDia) {
		out.MascotasPorDia = append(out.MascotasPorDia, ConteoPorDia{Dia: dia, Cantidad: porDia[dia]})
	}

	return out, nil
}

// EstadisticasGenerales son los totales globales del sistema (solo admin).
type EstadisticasGenerales struct {
	TotalMascotas     int            `json:"total_mascotas"`
	TotalResponsables int            `json:"total_responsables"`
	TotalPlanillas    int            `json:"total_planillas"`
	TotalMunicipios   int            `json:"total_municipios"`
	UsuariosActivos   int            `json:"usuarios_activos"`
	MascotasPorTipo   map[string]int `json:"mascotas_por_tipo"`
	ConAntecedente    int            `json:"mascotas_con_antecedente"`
	Esterilizadas     int            `json:"mascotas_esterilizadas"`
	PorcAntecedente   float64        `json:"porcentaje_con_antecedente"`
	PorcEsterilizadas float64        `json:"porcentaje_esterilizadas"`
}

func (s *Service) EstadisticasGenerales(ctx context.Context) (EstadisticasGenerales, error) {
	todasMascotas, err := s.fuente.Mascotas.ListAll(ctx)
	if err != nil {
		return EstadisticasGenerales{}, err
	}
	todosResponsables, err := s.fuente.Responsables.ListAll(ctx)
	if err != nil {
		return EstadisticasGenerales{}, err
	}
	todasPlanillas, err := s.fuente.Planillas.ListAll(ctx)
	if err != nil {
		return EstadisticasGenerales{}, err
	}

	out := EstadisticasGenerales{
		TotalMascotas:     len(todasMascotas),
		TotalResponsables: len(todosResponsables),
		TotalPlanillas:    len(todasPlanillas),
		MascotasPorTipo:   map[string]int{},
	}

	municipios := map[string]struct{}{}
	for _, p := range todasPlanillas {
		municipios[p.Municipio] = struct{}{}
	}
	out.TotalMunicipios = len(municipios)

	activos := map[string]struct{}{}
	for _, m := range todasMascotas {
		out.MascotasPorTipo[string(m.Tipo)]++
		if m.AntecedenteVacunal {
			out.ConAntecedente++
		}
		if m.Esterilizado {
			out.Esterilizadas++
		}
		if m.CreatedBy != "" {
			activos[m.CreatedBy] = struct{}{}
		}
	}
	for _, r := range todosResponsables {
		if r.CreatedBy != "" {
			activos[r.CreatedBy] = struct{}{}
		}
	}
	out.UsuariosActivos = len(activos)

	if out.TotalMascotas > 0 {
		out.PorcAntecedente = redondear2(float64(out.ConAntecedente) / float64(out.TotalMascotas) * 100)
		out.PorcEsterilizadas = redondear2(float64(out.Esterilizadas) / float64(out.TotalMascotas) * 100)
	}

	return out, nil
}

// OpcionesFiltros alimenta los selectores del árbol de reportes.
type OpcionVacunador struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	NombreDisplay string `json:"nombre_display"`
}

type OpcionesFiltros struct {
	Municipios  []string          `json:"municipios"`
	Vacunadores []OpcionVacunador `json:"vacunadores"`
	FechaMin    string            `json:"fecha_min"`
	FechaMax    string            `json:"fecha_max"`
}

func (s *Service) OpcionesFiltros(ctx context.Context) (OpcionesFiltros, error) {
	todasPlanillas, err := s.fuente.Planillas.ListAll(ctx)
	if err != nil {
		return OpcionesFiltros{}, err
	}
	todasMascotas, err := s.fuente.Mascotas.ListAll(ctx)
	if err != nil {
		return OpcionesFiltros{}, err
	}

	out := OpcionesFiltros{
		Municipios:  make([]string, 0),
		Vacunadores: make([]OpcionVacunador, 0),
	}

	seenMun := map[string]struct{}{}
	for _, p := range todasPlanillas {
		if _, ok := seenMun[p.Municipio]; ok {
			continue
		}
		seenMun[p.Municipio] = struct{}{}
		out.Municipios = append(out.Municipios, p.Municipio)
	}
	sort.Strings(out.Municipios)

	// Vacunadores que efectivamente registraron mascotas
	conRegistros := map[string]struct{}{}
	var min, max time.Time
	for _, m := range todasMascotas {
		if m.CreatedBy != "" {
			conRegistros[m.CreatedBy] = struct{}{}
		}
		d := inicioDelDia(m.Creado)
		if min.IsZero() || d.Before(min) {
			min = d
		}
		if max.IsZero() || d.After(max) {
			max = d
		}
	}

	if usuariosTodos, err := s.fuente.Usuarios.ListAll(ctx); err == nil {
		for _, u := range usuariosTodos {
			if _, ok := conRegistros[u.ID]; !ok {
				continue
			}
			out.Vacunadores = append(out.Vacunadores, OpcionVacunador{
				ID:            u.ID,
				Username:      u.Username,
				NombreDisplay: u.NombreCompleto(),
			})
			delete(conRegistros, u.ID)
		}
	}
	// IDs sin usuario registrado (datos importados) salen igual en el filtro
	for id := range conRegistros {
		out.Vacunadores = append(out.Vacunadores, OpcionVacunador{ID: id, Username: id, NombreDisplay: id})
	}
	sort.Slice(out.Vacunadores, func(i, j int) bool {
		return out.Vacunadores[i].Username < out.Vacunadores[j].Username
	})

	if !min.IsZero() {
		out.FechaMin = min.Format("2006-01-02")
	}
	if !max.IsZero() {
		out.FechaMax = max.Format("2006-01-02")
	}

	return out, nil
}

func redondear1(f float64) float64 { return math.Round(f*10) / 10 }
func redondear2(f float64) float64 { return math.Round(f*100) / 100 }

func capitalizar(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
