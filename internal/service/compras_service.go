package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"
	"gyscontrol/internal/worker"
	"gyscontrol/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var estadosEdicionOrden = map[model.EstadoDocumento]bool{
	model.EstadoBorrador:  true,
	model.EstadoRechazado: true,
}

type ComprasService interface {
	CrearOrden(ctx context.Context, solicitanteID uuid.UUID, req dto.CrearOrdenCompraRequest) (*dto.OrdenCompraResponse, error)
	GetOrden(ctx context.Context, id uuid.UUID) (*dto.OrdenCompraResponse, error)
	ListOrdenes(ctx context.Context, filter dto.OrdenCompraFilter) (*dto.OrdenCompraListResponse, error)

	AgregarItem(ctx context.Context, ordenID, actorID uuid.UUID, req dto.OrdenCompraItemRequest) (*dto.OrdenCompraResponse, error)
	EliminarItem(ctx context.Context, ordenID, itemID, actorID uuid.UUID) (*dto.OrdenCompraResponse, error)

	Transicionar(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.OrdenCompraResponse, error)
}

type comprasService struct {
	repo          repository.OrdenCompraRepository
	proveedorRepo repository.ProveedorRepository
	ejecutor      *workflow.Ejecutor
	dispatcher    *worker.Dispatcher
}

func NewComprasService(
	repo repository.OrdenCompraRepository,
	proveedorRepo repository.ProveedorRepository,
	ejecutor *workflow.Ejecutor,
	dispatcher *worker.Dispatcher,
) ComprasService {
	return &comprasService{repo: repo, proveedorRepo: proveedorRepo, ejecutor: ejecutor, dispatcher: dispatcher}
}

func (s *comprasService) CrearOrden(ctx context.Context, solicitanteID uuid.UUID, req dto.CrearOrdenCompraRequest) (*dto.OrdenCompraResponse, error) {
	provID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	prov, err := s.proveedorRepo.FindByID(ctx, provID)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	if !prov.Activo {
		return nil, errors.New("el proveedor está inactivo")
	}

	n, err := s.repo.SiguienteCorrelativo(ctx)
	if err != nil {
		return nil, err
	}

	o := model.OrdenCompra{
		Codigo:        fmt.Sprintf("OC-%04d", n),
		ProveedorID:   provID,
		SolicitanteID: solicitanteID,
		Estado:        model.EstadoBorrador,
	}
	if req.ProyectoID != nil {
		pid, err := uuid.Parse(*req.ProyectoID)
		if err != nil {
			return nil, fmt.Errorf("proyecto_id inválido: %w", err)
		}
		o.ProyectoID = &pid
	}
	if req.FechaRequerida != nil {
		f, err := time.Parse("2006-01-02", *req.FechaRequerida)
		if err != nil {
			return nil, fmt.Errorf("fecha_requerida inválida: %w", err)
		}
		o.FechaEntrega = &f
	}

	if err := s.repo.Create(ctx, &o); err != nil {
		return nil, err
	}
	o.Proveedor = prov
	return ordenToResponse(&o), nil
}

func (s *comprasService) GetOrden(ctx context.Context, id uuid.UUID) (*dto.OrdenCompraResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("orden de compra no encontrada")
	}
	return ordenToResponse(o), nil
}

func (s *comprasService) ListOrdenes(ctx context.Context, filter dto.OrdenCompraFilter) (*dto.OrdenCompraListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	ordenes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrdenCompraResponse, 0, len(ordenes))
	for i := range ordenes {
		items = append(items, *ordenToResponse(&ordenes[i]))
	}
	return &dto.OrdenCompraListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *comprasService) AgregarItem(ctx context.Context, ordenID, actorID uuid.UUID, req dto.OrdenCompraItemRequest) (*dto.OrdenCompraResponse, error) {
	o, err := s.itemPreflight(ctx, ordenID, actorID)
	if err != nil {
		return nil, err
	}

	if req.PrecioUnitario.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el precio unitario debe ser mayor a cero")
	}

	item := model.OrdenCompraItem{
		OrdenCompraID:  ordenID,
		Descripcion:    req.Descripcion,
		Cantidad:       req.Cantidad,
		PrecioUnitario: req.PrecioUnitario,
		Subtotal:       req.PrecioUnitario.Mul(decimal.NewFromInt(int64(req.Cantidad))),
	}
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	return s.refrescarMonto(ctx, o)
}

func (s *comprasService) EliminarItem(ctx context.Context, ordenID, itemID, actorID uuid.UUID) (*dto.OrdenCompraResponse, error) {
	o, err := s.itemPreflight(ctx, ordenID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.refrescarMonto(ctx, o)
}

func (s *comprasService) itemPreflight(ctx context.Context, ordenID, actorID uuid.UUID) (*model.OrdenCompra, error) {
	o, err := s.repo.FindByID(ctx, ordenID)
	if err != nil {
		return nil, errors.New("orden de compra no encontrada")
	}
	if o.SolicitanteID != actorID {
		return nil, errors.New("solo el solicitante puede modificar los ítems")
	}
	if !estadosEdicionOrden[o.Estado] {
		return nil, fmt.Errorf("los ítems no son editables en estado %s", o.Estado)
	}
	return o, nil
}

func (s *comprasService) refrescarMonto(ctx context.Context, o *model.OrdenCompra) (*dto.OrdenCompraResponse, error) {
	items, err := s.repo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	o.MontoTotal = total
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	o.Items = items
	return ordenToResponse(o), nil
}

func (s *comprasService) Transicionar(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.OrdenCompraResponse, error) {
	sol := workflow.Solicitud{
		Tipo:           model.TipoOrdenCompra,
		ID:             id,
		Accion:         model.AccionDocumento(req.Accion),
		Actor:          actor,
		EstadoEsperado: model.EstadoDocumento(req.EstadoEsperado),
		Monto:          req.Monto,
		Comentario:     req.Comentario,
	}

	doc, err := s.ejecutor.Ejecutar(ctx, sol)
	if err != nil {
		return nil, err
	}
	o := doc.(*model.OrdenCompra)

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueNotificacion(ctx, map[string]interface{}{
			"tipo_documento": string(model.TipoOrdenCompra),
			"documento_id":   o.ID.String(),
			"codigo":         o.Codigo,
			"accion":         string(sol.Accion),
			"estado":         string(o.Estado),
			"propietario_id": o.SolicitanteID.String(),
		})
	}

	completa, err := s.repo.FindByID(ctx, o.ID)
	if err != nil {
		return ordenToResponse(o), nil
	}
	return ordenToResponse(completa), nil
}

func ordenToResponse(o *model.OrdenCompra) *dto.OrdenCompraResponse {
	items := make([]dto.OrdenCompraItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrdenCompraItemResponse{
			ID:             it.ID.String(),
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
		})
	}
	acciones := make([]string, 0, 4)
	for _, a := range workflow.AccionesDesde(model.TipoOrdenCompra, o.Estado) {
		acciones = append(acciones, string(a))
	}
	var proyectoID *string
	if o.ProyectoID != nil {
		s := o.ProyectoID.String()
		proyectoID = &s
	}
	var fechaRequerida *string
	if o.FechaEntrega != nil {
		f := o.FechaEntrega.Format("2006-01-02")
		fechaRequerida = &f
	}
	proveedorNombre := ""
	if o.Proveedor != nil {
		proveedorNombre = o.Proveedor.RazonSocial
	}
	return &dto.OrdenCompraResponse{
		ID:                  o.ID.String(),
		Codigo:              o.Codigo,
		ProveedorID:         o.ProveedorID.String(),
		ProveedorNombre:     proveedorNombre,
		ProyectoID:          proyectoID,
		SolicitanteID:       o.SolicitanteID.String(),
		MontoTotal:          o.MontoTotal,
		Estado:              string(o.Estado),
		FechaRequerida:      fechaRequerida,
		Items:               items,
		AccionesDisponibles: acciones,
		CreatedAt:           o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
