package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/infra"
	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"

	"github.com/google/uuid"
)

// estadosAdjuntables: solo documentos todavía abiertos aceptan evidencia nueva.
var estadosAdjuntables = map[model.EstadoDocumento]bool{
	model.EstadoBorrador:   true,
	model.EstadoAprobado:   true,
	model.EstadoDepositado: true,
	model.EstadoRechazado:  true,
	model.EstadoEmitida:    true,
	model.EstadoEnviado:    true,
}

type AdjuntosService interface {
	Subir(ctx context.Context, actorID uuid.UUID, req dto.SubirAdjuntoRequest, nombre string, contenido io.Reader) (*dto.AdjuntoResponse, error)
	ListPorDueno(ctx context.Context, req dto.SubirAdjuntoRequest) ([]dto.AdjuntoResponse, error)
	Eliminar(ctx context.Context, id, actorID uuid.UUID, rol string) error
}

type adjuntosService struct {
	repo      repository.AdjuntoRepository
	hojasRepo repository.HojaGastosRepository
	storage   *infra.StorageClient
	cb        *infra.CircuitBreaker
}

func NewAdjuntosService(
	repo repository.AdjuntoRepository,
	hojasRepo repository.HojaGastosRepository,
	storage *infra.StorageClient,
	cb *infra.CircuitBreaker,
) AdjuntosService {
	return &adjuntosService{repo: repo, hojasRepo: hojasRepo, storage: storage, cb: cb}
}

func (s *adjuntosService) Subir(ctx context.Context, actorID uuid.UUID, req dto.SubirAdjuntoRequest, nombre string, contenido io.Reader) (*dto.AdjuntoResponse, error) {
	hojaID, lineaID, cuentaID, ordenID, err := duenoUnico(req)
	if err != nil {
		return nil, err
	}
	if hojaID != nil {
		h, err := s.hojasRepo.FindByID(ctx, *hojaID)
		if err != nil {
			return nil, errors.New("hoja de gastos no encontrada")
		}
		if !estadosAdjuntables[h.Estado] {
			return nil, errors.New("el documento ya no acepta adjuntos")
		}
	}

	var resp *infra.StorageResponse
	err = s.cb.Execute(func() error {
		var uerr error
		resp, uerr = s.storage.Subir(ctx, nombre, contenido)
		return uerr
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			return nil, errors.New("el servicio de archivos no está disponible, intente más tarde")
		}
		return nil, fmt.Errorf("no se pudo subir el archivo: %w", err)
	}

	a := model.Adjunto{
		Tipo:          req.Tipo,
		Nombre:        nombre,
		URL:           resp.URL,
		Tamano:        resp.Tamano,
		SubidoPorID:   actorID,
		HojaGastosID:  hojaID,
		GastoLineaID:  lineaID,
		CuentaPagarID: cuentaID,
		OrdenCompraID: ordenID,
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, err
	}
	return adjuntoToResponse(&a), nil
}

func (s *adjuntosService) ListPorDueno(ctx context.Context, req dto.SubirAdjuntoRequest) ([]dto.AdjuntoResponse, error) {
	hojaID, lineaID, cuentaID, ordenID, err := duenoUnico(req)
	if err != nil {
		return nil, err
	}
	var adjuntos []model.Adjunto
	switch {
	case hojaID != nil:
		adjuntos, err = s.repo.ListPorHoja(ctx, *hojaID)
	case lineaID != nil:
		adjuntos, err = s.repo.ListPorLinea(ctx, *lineaID)
	case cuentaID != nil:
		adjuntos, err = s.repo.ListPorCuentaPagar(ctx, *cuentaID)
	case ordenID != nil:
		adjuntos, err = s.repo.ListPorOrdenCompra(ctx, *ordenID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdjuntoResponse, 0, len(adjuntos))
	for i := range adjuntos {
		out = append(out, *adjuntoToResponse(&adjuntos[i]))
	}
	return out, nil
}

func (s *adjuntosService) Eliminar(ctx context.Context, id, actorID uuid.UUID, rol string) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("adjunto no encontrado")
	}
	if a.SubidoPorID != actorID && rol != model.RolAdmin {
		return errors.New("solo quien subió el adjunto puede eliminarlo")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	// best-effort; el objeto huérfano no bloquea la operación
	_ = s.storage.Eliminar(ctx, a.URL)
	return nil
}

// duenoUnico enforces exactly one owner reference per adjunto.
func duenoUnico(req dto.SubirAdjuntoRequest) (hoja, linea, cuenta, orden *uuid.UUID, err error) {
	parse := func(s *string, nombre string) (*uuid.UUID, error) {
		if s == nil {
			return nil, nil
		}
		id, err := uuid.Parse(*s)
		if err != nil {
			return nil, fmt.Errorf("%s inválido: %w", nombre, err)
		}
		return &id, nil
	}
	if hoja, err = parse(req.HojaGastosID, "hoja_gastos_id"); err != nil {
		return
	}
	if linea, err = parse(req.GastoLineaID, "gasto_linea_id"); err != nil {
		return
	}
	if cuenta, err = parse(req.CuentaPagarID, "cuenta_pagar_id"); err != nil {
		return
	}
	if orden, err = parse(req.OrdenCompraID, "orden_compra_id"); err != nil {
		return
	}

	n := 0
	for _, p := range []*uuid.UUID{hoja, linea, cuenta, orden} {
		if p != nil {
			n++
		}
	}
	if n != 1 {
		err = errors.New("el adjunto debe referir exactamente un documento")
	}
	return
}

func adjuntoToResponse(a *model.Adjunto) *dto.AdjuntoResponse {
	return &dto.AdjuntoResponse{
		ID:        a.ID.String(),
		Tipo:      a.Tipo,
		Nombre:    a.Nombre,
		URL:       a.URL,
		Tamano:    a.Tamano,
		SubidoPor: a.SubidoPorID.String(),
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
