package service

import (
	"context"
	"errors"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"

	"github.com/google/uuid"
)

type AuditoriaService interface {
	Timeline(ctx context.Context, tipo model.TipoDocumento, documentoID uuid.UUID) (*dto.TimelineResponse, error)
	ActividadActor(ctx context.Context, actorID uuid.UUID, limit int) ([]dto.EventoAuditoriaResponse, error)

	Notificaciones(ctx context.Context, usuarioID uuid.UUID, soloNoLeidas bool) ([]dto.NotificacionResponse, error)
	MarcarLeida(ctx context.Context, id, usuarioID uuid.UUID) error
	MarcarTodasLeidas(ctx context.Context, usuarioID uuid.UUID) error
}

type auditoriaService struct {
	repo        repository.AuditoriaRepository
	notifRepo   repository.NotificacionRepository
	usuarioRepo repository.UsuarioRepository
}

func NewAuditoriaService(
	repo repository.AuditoriaRepository,
	notifRepo repository.NotificacionRepository,
	usuarioRepo repository.UsuarioRepository,
) AuditoriaService {
	return &auditoriaService{repo: repo, notifRepo: notifRepo, usuarioRepo: usuarioRepo}
}

func (s *auditoriaService) Timeline(ctx context.Context, tipo model.TipoDocumento, documentoID uuid.UUID) (*dto.TimelineResponse, error) {
	eventos, err := s.repo.ListPorDocumento(ctx, tipo, documentoID)
	if err != nil {
		return nil, err
	}
	return &dto.TimelineResponse{
		DocumentoID:   documentoID.String(),
		TipoDocumento: string(tipo),
		Eventos:       s.eventosConNombres(ctx, eventos),
	}, nil
}

func (s *auditoriaService) ActividadActor(ctx context.Context, actorID uuid.UUID, limit int) ([]dto.EventoAuditoriaResponse, error) {
	eventos, err := s.repo.ListPorActor(ctx, actorID, limit)
	if err != nil {
		return nil, err
	}
	return s.eventosConNombres(ctx, eventos), nil
}

// eventosConNombres resolves actor names once per distinct actor.
func (s *auditoriaService) eventosConNombres(ctx context.Context, eventos []model.EventoAuditoria) []dto.EventoAuditoriaResponse {
	nombres := make(map[uuid.UUID]string)
	out := make([]dto.EventoAuditoriaResponse, 0, len(eventos))
	for _, e := range eventos {
		nombre, ok := nombres[e.ActorID]
		if !ok {
			if u, err := s.usuarioRepo.FindByID(ctx, e.ActorID); err == nil {
				nombre = u.Nombre
			}
			nombres[e.ActorID] = nombre
		}
		out = append(out, dto.EventoAuditoriaResponse{
			ID:             e.ID.String(),
			DocumentoID:    e.DocumentoID.String(),
			TipoDocumento:  string(e.TipoDocumento),
			Accion:         string(e.Accion),
			EstadoAnterior: string(e.EstadoAnterior),
			EstadoNuevo:    string(e.EstadoNuevo),
			ActorID:        e.ActorID.String(),
			ActorNombre:    nombre,
			Metadata:       e.Metadata,
			CreatedAt:      e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

func (s *auditoriaService) Notificaciones(ctx context.Context, usuarioID uuid.UUID, soloNoLeidas bool) ([]dto.NotificacionResponse, error) {
	notificaciones, err := s.notifRepo.ListPorUsuario(ctx, usuarioID, soloNoLeidas)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificacionResponse, 0, len(notificaciones))
	for _, n := range notificaciones {
		out = append(out, dto.NotificacionResponse{
			ID:            n.ID.String(),
			Titulo:        n.Titulo,
			Mensaje:       n.Mensaje,
			DocumentoID:   n.DocumentoID.String(),
			TipoDocumento: string(n.TipoDocumento),
			Leida:         n.Leida,
			CreatedAt:     n.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

func (s *auditoriaService) MarcarLeida(ctx context.Context, id, usuarioID uuid.UUID) error {
	notificaciones, err := s.notifRepo.ListPorUsuario(ctx, usuarioID, false)
	if err != nil {
		return err
	}
	for _, n := range notificaciones {
		if n.ID == id {
			return s.notifRepo.MarcarLeida(ctx, id)
		}
	}
	return errors.New("notificación no encontrada")
}

func (s *auditoriaService) MarcarTodasLeidas(ctx context.Context, usuarioID uuid.UUID) error {
	return s.notifRepo.MarcarTodasLeidas(ctx, usuarioID)
}
