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

var (
	umbralSemanal    = decimal.NewFromInt(40)
	topeSobretiempo1 = decimal.NewFromInt(8)
	factor25         = decimal.NewFromFloat(1.25)
	factor100        = decimal.NewFromInt(2)
	maxHorasDia      = decimal.NewFromInt(24)
)

type HorasService interface {
	Registrar(ctx context.Context, colaboradorID uuid.UUID, req dto.RegistrarHorasRequest) (*dto.RegistroHorasResponse, error)
	Revisar(ctx context.Context, id uuid.UUID, req dto.RevisarHorasRequest) (*dto.RegistroHorasResponse, error)
	Corregir(ctx context.Context, id, colaboradorID uuid.UUID, req dto.RegistrarHorasRequest) (*dto.RegistroHorasResponse, error)
	ListPendientes(ctx context.Context) ([]dto.RegistroHorasResponse, error)
	ListPorProyecto(ctx context.Context, proyectoID uuid.UUID, desde, hasta time.Time) ([]dto.RegistroHorasResponse, error)
	ResumenSemanal(ctx context.Context, colaboradorID uuid.UUID, semanaInicio time.Time) (*dto.ResumenSemanalResponse, error)
}

type horasService struct {
	repo         repository.HorasRepository
	proyectoRepo repository.ProyectoRepository
}

func NewHorasService(repo repository.HorasRepository, proyectoRepo repository.ProyectoRepository) HorasService {
	return &horasService{repo: repo, proyectoRepo: proyectoRepo}
}

func (s *horasService) Registrar(ctx context.Context, colaboradorID uuid.UUID, req dto.RegistrarHorasRequest) (*dto.RegistroHorasResponse, error) {
	proyectoID, fecha, err := s.validar(ctx, req)
	if err != nil {
		return nil, err
	}
	rh := model.RegistroHoras{
		ColaboradorID: colaboradorID,
		ProyectoID:    proyectoID,
		Fecha:         fecha,
		Horas:         req.Horas,
		Descripcion:   req.Descripcion,
		Estado:        "pendiente",
	}
	if err := s.repo.Create(ctx, &rh); err != nil {
		return nil, err
	}
	return registroToResponse(&rh), nil
}

func (s *horasService) Revisar(ctx context.Context, id uuid.UUID, req dto.RevisarHorasRequest) (*dto.RegistroHorasResponse, error) {
	rh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("registro de horas no encontrado")
	}
	if rh.Estado != "pendiente" {
		return nil, errors.New("solo se pueden revisar registros pendientes")
	}
	if req.Aprobar {
		rh.Estado = "aprobado"
	} else {
		if req.Motivo == nil || *req.Motivo == "" {
			return nil, errors.New("rechazar requiere un motivo")
		}
		rh.Estado = "rechazado"
		rh.Descripcion = fmt.Sprintf("%s [rechazado: %s]", rh.Descripcion, *req.Motivo)
	}
	if err := s.repo.Update(ctx, rh); err != nil {
		return nil, err
	}
	return registroToResponse(rh), nil
}

// Corregir reabre un registro rechazado: solo el colaborador que lo creó
// puede corregirlo, y vuelve a pendiente.
func (s *horasService) Corregir(ctx context.Context, id, colaboradorID uuid.UUID, req dto.RegistrarHorasRequest) (*dto.RegistroHorasResponse, error) {
	rh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("registro de horas no encontrado")
	}
	if rh.ColaboradorID != colaboradorID {
		return nil, errors.New("solo el colaborador puede corregir su registro")
	}
	if rh.Estado != "rechazado" {
		return nil, errors.New("solo se pueden corregir registros rechazados")
	}
	proyectoID, fecha, err := s.validar(ctx, req)
	if err != nil {
		return nil, err
	}
	rh.ProyectoID = proyectoID
	rh.Fecha = fecha
	rh.Horas = req.Horas
	rh.Descripcion = req.Descripcion
	rh.Estado = "pendiente"
	if err := s.repo.Update(ctx, rh); err != nil {
		return nil, err
	}
	return registroToResponse(rh), nil
}

func (s *horasService) ListPendientes(ctx context.Context) ([]dto.RegistroHorasResponse, error) {
	registros, err := s.repo.ListPendientes(ctx)
	if err != nil {
		return nil, err
	}
	return registrosToResponses(registros), nil
}

func (s *horasService) ListPorProyecto(ctx context.Context, proyectoID uuid.UUID, desde, hasta time.Time) ([]dto.RegistroHorasResponse, error) {
	registros, err := s.repo.ListPorProyecto(ctx, proyectoID, desde, hasta)
	if err != nil {
		return nil, err
	}
	return registrosToResponses(registros), nil
}

func (s *horasService) ResumenSemanal(ctx context.Context, colaboradorID uuid.UUID, semanaInicio time.Time) (*dto.ResumenSemanalResponse, error) {
	desde := semanaInicio.Truncate(24 * time.Hour)
	hasta := desde.AddDate(0, 0, 7)
	registros, err := s.repo.ListPorColaborador(ctx, colaboradorID, desde, hasta)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, rh := range registros {
		if rh.Estado == "rechazado" {
			continue
		}
		total = total.Add(rh.Horas)
	}

	resumen := CalcularSobretiempo(total)
	resumen.ColaboradorID = colaboradorID.String()
	resumen.SemanaInicio = desde.Format("2006-01-02")
	return resumen, nil
}

// CalcularSobretiempo desglosa las horas semanales: hasta 40 son normales,
// las primeras 8 extra pagan 25% de recargo y el resto 100%.
func CalcularSobretiempo(total decimal.Decimal) *dto.ResumenSemanalResponse {
	normales := total
	extra25 := decimal.Zero
	extra100 := decimal.Zero

	if total.GreaterThan(umbralSemanal) {
		normales = umbralSemanal
		extra := total.Sub(umbralSemanal)
		if extra.GreaterThan(topeSobretiempo1) {
			extra25 = topeSobretiempo1
			extra100 = extra.Sub(topeSobretiempo1)
		} else {
			extra25 = extra
		}
	}

	ponderadas := normales.
		Add(extra25.Mul(factor25)).
		Add(extra100.Mul(factor100))

	return &dto.ResumenSemanalResponse{
		HorasTotales:    total,
		HorasNormales:   normales,
		Sobretiempo25:   extra25,
		Sobretiempo100:  extra100,
		HorasPonderadas: ponderadas,
	}
}

func (s *horasService) validar(ctx context.Context, req dto.RegistrarHorasRequest) (uuid.UUID, time.Time, error) {
	proyectoID, err := uuid.Parse(req.ProyectoID)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("proyecto_id inválido: %w", err)
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("fecha inválida: %w", err)
	}
	if req.Horas.LessThanOrEqual(decimal.Zero) || req.Horas.GreaterThan(maxHorasDia) {
		return uuid.Nil, time.Time{}, errors.New("las horas deben estar entre 0 y 24")
	}
	p, err := s.proyectoRepo.FindByID(ctx, proyectoID)
	if err != nil {
		return uuid.Nil, time.Time{}, errors.New("proyecto no encontrado")
	}
	if p.Estado != "activo" {
		return uuid.Nil, time.Time{}, errors.New("el proyecto no está activo")
	}
	return proyectoID, fecha, nil
}

func registroToResponse(rh *model.RegistroHoras) *dto.RegistroHorasResponse {
	return &dto.RegistroHorasResponse{
		ID:            rh.ID.String(),
		ProyectoID:    rh.ProyectoID.String(),
		ColaboradorID: rh.ColaboradorID.String(),
		Fecha:         rh.Fecha.Format("2006-01-02"),
		Horas:         rh.Horas,
		Descripcion:   rh.Descripcion,
		Estado:        rh.Estado,
	}
}

func registrosToResponses(registros []model.RegistroHoras) []dto.RegistroHorasResponse {
	out := make([]dto.RegistroHorasResponse, 0, len(registros))
	for i := range registros {
		out = append(out, *registroToResponse(&registros[i]))
	}
	return out
}
