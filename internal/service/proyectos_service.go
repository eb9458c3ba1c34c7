package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProyectosService interface {
	Crear(ctx context.Context, req dto.CrearProyectoRequest) (*dto.ProyectoResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProyectoResponse, error)
	List(ctx context.Context, estado string) ([]dto.ProyectoResponse, error)
	ActualizarFase(ctx context.Context, proyectoID, faseID uuid.UUID, req dto.ActualizarFaseRequest) (*dto.ProyectoResponse, error)

	CrearPlantilla(ctx context.Context, req dto.CrearPlantillaRequest) (*dto.PlantillaResponse, error)
	ListPlantillas(ctx context.Context) ([]dto.PlantillaResponse, error)
}

type proyectosService struct {
	repo           repository.ProyectoRepository
	cotizacionRepo repository.CotizacionRepository
}

func NewProyectosService(repo repository.ProyectoRepository, cotizacionRepo repository.CotizacionRepository) ProyectosService {
	return &proyectosService{repo: repo, cotizacionRepo: cotizacionRepo}
}

func (s *proyectosService) Crear(ctx context.Context, req dto.CrearProyectoRequest) (*dto.ProyectoResponse, error) {
	inicio, err := time.Parse("2006-01-02", req.FechaInicio)
	if err != nil {
		return nil, fmt.Errorf("fecha_inicio inválida: %w", err)
	}
	fin, err := time.Parse("2006-01-02", req.FechaFin)
	if err != nil {
		return nil, fmt.Errorf("fecha_fin inválida: %w", err)
	}
	if !fin.After(inicio) {
		return nil, errors.New("la fecha fin debe ser posterior a la fecha inicio")
	}
	gestorID, err := uuid.Parse(req.GestorID)
	if err != nil {
		return nil, fmt.Errorf("gestor_id inválido: %w", err)
	}

	n, err := s.repo.SiguienteCorrelativo(ctx)
	if err != nil {
		return nil, err
	}
	p := model.Proyecto{
		Codigo:      fmt.Sprintf("PRY-%04d", n),
		Nombre:      req.Nombre,
		GestorID:    gestorID,
		FechaInicio: inicio,
		FechaFin:    fin,
		Estado:      "activo",
	}

	if req.CotizacionID != nil {
		cotID, err := uuid.Parse(*req.CotizacionID)
		if err != nil {
			return nil, fmt.Errorf("cotizacion_id inválido: %w", err)
		}
		cot, err := s.cotizacionRepo.FindByID(ctx, cotID)
		if err != nil {
			return nil, errors.New("cotización no encontrada")
		}
		// Solo cotizaciones con una versión aprobada generan proyectos.
		aprobada := false
		for _, v := range cot.Versiones {
			if v.Estado == model.EstadoAprobado && !v.Superada {
				aprobada = true
				break
			}
		}
		if !aprobada {
			return nil, errors.New("la cotización no tiene una versión aprobada")
		}
		p.CotizacionID = &cotID
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}

	if req.PlantillaID != nil {
		plantillaID, err := uuid.Parse(*req.PlantillaID)
		if err != nil {
			return nil, fmt.Errorf("plantilla_id inválido: %w", err)
		}
		plantilla, err := s.repo.FindPlantillaByID(ctx, plantillaID)
		if err != nil {
			return nil, errors.New("plantilla no encontrada")
		}
		fases := GenerarCronograma(p.ID, inicio, fin, plantilla.Fases)
		if len(fases) > 0 {
			if err := s.repo.CreateFases(ctx, fases); err != nil {
				return nil, err
			}
		}
	}

	return s.responder(ctx, p.ID)
}

// GenerarCronograma reparte el rango [inicio, fin] entre las fases de la
// plantilla según porcentaje_duracion. Cada fase arranca donde terminó la
// anterior; la última siempre cierra exactamente en fin para absorber el
// redondeo a días.
func GenerarCronograma(proyectoID uuid.UUID, inicio, fin time.Time, plantilla []model.PlantillaFase) []model.FaseProyecto {
	if len(plantilla) == 0 {
		return nil
	}
	duracion := fin.Sub(inicio)
	fases := make([]model.FaseProyecto, 0, len(plantilla))
	cursor := inicio
	cien := decimal.NewFromInt(100)

	for i, pf := range plantilla {
		faseFin := fin
		if i < len(plantilla)-1 {
			horas := pf.PorcentajeDuracion.Div(cien).Mul(decimal.NewFromFloat(duracion.Hours()))
			dias := int(horas.InexactFloat64()/24 + 0.5)
			if dias < 1 {
				dias = 1
			}
			faseFin = cursor.AddDate(0, 0, dias)
			if faseFin.After(fin) {
				faseFin = fin
			}
		}
		fases = append(fases, model.FaseProyecto{
			ProyectoID:  proyectoID,
			Nombre:      pf.Nombre,
			Orden:       pf.Orden,
			FechaInicio: cursor,
			FechaFin:    faseFin,
			Estado:      "pendiente",
		})
		cursor = faseFin
	}
	return fases
}

func (s *proyectosService) Get(ctx context.Context, id uuid.UUID) (*dto.ProyectoResponse, error) {
	return s.responder(ctx, id)
}

func (s *proyectosService) List(ctx context.Context, estado string) ([]dto.ProyectoResponse, error) {
	proyectos, err := s.repo.List(ctx, estado)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProyectoResponse, 0, len(proyectos))
	for i := range proyectos {
		out = append(out, *proyectoToResponse(&proyectos[i]))
	}
	return out, nil
}

func (s *proyectosService) ActualizarFase(ctx context.Context, proyectoID, faseID uuid.UUID, req dto.ActualizarFaseRequest) (*dto.ProyectoResponse, error) {
	fases, err := s.repo.ListFases(ctx, proyectoID)
	if err != nil {
		return nil, err
	}
	var fase *model.FaseProyecto
	for i := range fases {
		if fases[i].ID == faseID {
			fase = &fases[i]
			break
		}
	}
	if fase == nil {
		return nil, errors.New("fase no encontrada")
	}

	if req.Estado != nil {
		fase.Estado = *req.Estado
		if *req.Estado == "completada" {
			fase.PorcentajeAvance = 100
		}
	}
	if req.PorcentajeAvance != nil {
		fase.PorcentajeAvance = *req.PorcentajeAvance
		if *req.PorcentajeAvance == 100 {
			fase.Estado = "completada"
		}
	}
	if err := s.repo.UpdateFase(ctx, fase); err != nil {
		return nil, err
	}

	// El proyecto se da por finalizado cuando todas sus fases lo están.
	todasCompletas := true
	for i := range fases {
		if fases[i].Estado != "completada" {
			todasCompletas = false
			break
		}
	}
	if todasCompletas {
		p, err := s.repo.FindByID(ctx, proyectoID)
		if err == nil && p.Estado == "activo" {
			p.Estado = "finalizado"
			_ = s.repo.Update(ctx, p)
		}
	}

	return s.responder(ctx, proyectoID)
}

func (s *proyectosService) CrearPlantilla(ctx context.Context, req dto.CrearPlantillaRequest) (*dto.PlantillaResponse, error) {
	total := decimal.Zero
	for _, f := range req.Fases {
		if f.PorcentajeDuracion.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("cada fase debe tener un porcentaje de duración positivo")
		}
		total = total.Add(f.PorcentajeDuracion)
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		return nil, errors.New("los porcentajes de duración deben sumar 100")
	}

	p := model.PlantillaCronograma{Nombre: req.Nombre, Activa: true}
	for _, f := range req.Fases {
		p.Fases = append(p.Fases, model.PlantillaFase{
			Nombre:             f.Nombre,
			Orden:              f.Orden,
			PorcentajeDuracion: f.PorcentajeDuracion,
		})
	}
	if err := s.repo.CreatePlantilla(ctx, &p); err != nil {
		return nil, err
	}
	resp := plantillaToResponse(&p)
	return &resp, nil
}

func (s *proyectosService) ListPlantillas(ctx context.Context) ([]dto.PlantillaResponse, error) {
	plantillas, err := s.repo.ListPlantillas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlantillaResponse, 0, len(plantillas))
	for i := range plantillas {
		out = append(out, plantillaToResponse(&plantillas[i]))
	}
	return out, nil
}

func (s *proyectosService) responder(ctx context.Context, id uuid.UUID) (*dto.ProyectoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proyecto no encontrado")
	}
	return proyectoToResponse(p), nil
}

func proyectoToResponse(p *model.Proyecto) *dto.ProyectoResponse {
	fases := make([]dto.FaseProyectoResponse, 0, len(p.Fases))
	for _, f := range p.Fases {
		fases = append(fases, dto.FaseProyectoResponse{
			ID:               f.ID.String(),
			Nombre:           f.Nombre,
			Orden:            f.Orden,
			FechaInicio:      f.FechaInicio.Format("2006-01-02"),
			FechaFin:         f.FechaFin.Format("2006-01-02"),
			Estado:           f.Estado,
			PorcentajeAvance: f.PorcentajeAvance,
		})
	}
	var cotID *string
	if p.CotizacionID != nil {
		s := p.CotizacionID.String()
		cotID = &s
	}
	return &dto.ProyectoResponse{
		ID:           p.ID.String(),
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		CotizacionID: cotID,
		GestorID:     p.GestorID.String(),
		FechaInicio:  p.FechaInicio.Format("2006-01-02"),
		FechaFin:     p.FechaFin.Format("2006-01-02"),
		Estado:       p.Estado,
		Fases:        fases,
	}
}

func plantillaToResponse(p *model.PlantillaCronograma) dto.PlantillaResponse {
	fases := make([]dto.PlantillaFaseResponse, 0, len(p.Fases))
	for _, f := range p.Fases {
		fases = append(fases, dto.PlantillaFaseResponse{
			Nombre:             f.Nombre,
			Orden:              f.Orden,
			PorcentajeDuracion: f.PorcentajeDuracion,
		})
	}
	return dto.PlantillaResponse{
		ID:     p.ID.String(),
		Nombre: p.Nombre,
		Activa: p.Activa,
		Fases:  fases,
	}
}
