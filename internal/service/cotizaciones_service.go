package service

import (
	"context"
	"errors"
	"fmt"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"
	"gyscontrol/internal/worker"
	"gyscontrol/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CotizacionesService interface {
	Crear(ctx context.Context, comercialID uuid.UUID, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error)
	List(ctx context.Context, clienteNombre string) ([]dto.CotizacionResponse, error)

	CrearVersion(ctx context.Context, cotizacionID, autorID uuid.UUID, req dto.CrearVersionRequest) (*dto.CotizacionVersionResponse, error)
	GetVersion(ctx context.Context, versionID uuid.UUID) (*dto.CotizacionVersionResponse, error)
	AgregarLinea(ctx context.Context, versionID, actorID uuid.UUID, req dto.CotizacionLineaRequest) (*dto.CotizacionVersionResponse, error)
	EliminarLinea(ctx context.Context, versionID, lineaID, actorID uuid.UUID) (*dto.CotizacionVersionResponse, error)
	Transicionar(ctx context.Context, versionID uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.CotizacionVersionResponse, error)
}

type cotizacionesService struct {
	repo       repository.CotizacionRepository
	ejecutor   *workflow.Ejecutor
	dispatcher *worker.Dispatcher
}

func NewCotizacionesService(
	repo repository.CotizacionRepository,
	ejecutor *workflow.Ejecutor,
	dispatcher *worker.Dispatcher,
) CotizacionesService {
	s := &cotizacionesService{repo: repo, ejecutor: ejecutor, dispatcher: dispatcher}
	// Aprobar una versión supera a sus hermanas y estampa el monto en la
	// cotización padre, dentro de la misma transacción.
	ejecutor.RegistrarCascada(model.TipoCotizacion, model.AccionAprobar, s.consolidarAprobacion)
	return s
}

func (s *cotizacionesService) Crear(ctx context.Context, comercialID uuid.UUID, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error) {
	n, err := s.repo.SiguienteCorrelativo(ctx)
	if err != nil {
		return nil, err
	}
	moneda := req.Moneda
	if moneda == "" {
		moneda = "PEN"
	}
	c := model.Cotizacion{
		Codigo:        fmt.Sprintf("COT-%04d", n),
		ClienteNombre: req.ClienteNombre,
		ComercialID:   comercialID,
		Moneda:        moneda,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}

	// Toda cotización nace con su versión 1 en borrador.
	v := model.CotizacionVersion{
		CotizacionID: c.ID,
		Numero:       1,
		AutorID:      comercialID,
		Estado:       model.EstadoBorrador,
	}
	if err := s.repo.CreateVersion(ctx, &v); err != nil {
		return nil, err
	}
	c.Versiones = []model.CotizacionVersion{v}
	return cotizacionToResponse(&c), nil
}

func (s *cotizacionesService) Get(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cotización no encontrada")
	}
	return cotizacionToResponse(c), nil
}

func (s *cotizacionesService) List(ctx context.Context, clienteNombre string) ([]dto.CotizacionResponse, error) {
	cotizaciones, err := s.repo.List(ctx, clienteNombre)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CotizacionResponse, 0, len(cotizaciones))
	for i := range cotizaciones {
		out = append(out, *cotizacionToResponse(&cotizaciones[i]))
	}
	return out, nil
}

// CrearVersion opens a fresh borrador version, optionally copying the lines
// of an existing version (the usual flow after a rechazo).
func (s *cotizacionesService) CrearVersion(ctx context.Context, cotizacionID, autorID uuid.UUID, req dto.CrearVersionRequest) (*dto.CotizacionVersionResponse, error) {
	if _, err := s.repo.FindByID(ctx, cotizacionID); err != nil {
		return nil, errors.New("cotización no encontrada")
	}
	max, err := s.repo.MaxNumeroVersion(ctx, cotizacionID)
	if err != nil {
		return nil, err
	}

	v := model.CotizacionVersion{
		CotizacionID: cotizacionID,
		Numero:       max + 1,
		AutorID:      autorID,
		Estado:       model.EstadoBorrador,
	}
	if err := s.repo.CreateVersion(ctx, &v); err != nil {
		return nil, err
	}

	if req.BaseVersionID != nil {
		baseID, err := uuid.Parse(*req.BaseVersionID)
		if err != nil {
			return nil, fmt.Errorf("base_version_id inválido: %w", err)
		}
		base, err := s.repo.FindVersionByID(ctx, baseID)
		if err != nil || base.CotizacionID != cotizacionID {
			return nil, errors.New("versión base no encontrada")
		}
		total := decimal.Zero
		for _, l := range base.Lineas {
			copia := model.CotizacionLinea{
				VersionID:      v.ID,
				Descripcion:    l.Descripcion,
				Cantidad:       l.Cantidad,
				PrecioUnitario: l.PrecioUnitario,
				Subtotal:       l.Subtotal,
			}
			if err := s.repo.CreateLinea(ctx, &copia); err != nil {
				return nil, err
			}
			total = total.Add(copia.Subtotal)
		}
		v.MontoTotal = total
		if err := s.repo.DB().WithContext(ctx).Save(&v).Error; err != nil {
			return nil, err
		}
	}

	return s.responderVersion(ctx, v.ID)
}

func (s *cotizacionesService) GetVersion(ctx context.Context, versionID uuid.UUID) (*dto.CotizacionVersionResponse, error) {
	return s.responderVersion(ctx, versionID)
}

func (s *cotizacionesService) AgregarLinea(ctx context.Context, versionID, actorID uuid.UUID, req dto.CotizacionLineaRequest) (*dto.CotizacionVersionResponse, error) {
	v, err := s.versionEditable(ctx, versionID, actorID)
	if err != nil {
		return nil, err
	}
	if req.PrecioUnitario.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el precio unitario debe ser mayor a cero")
	}

	l := model.CotizacionLinea{
		VersionID:      v.ID,
		Descripcion:    req.Descripcion,
		Cantidad:       req.Cantidad,
		PrecioUnitario: req.PrecioUnitario,
		Subtotal:       req.PrecioUnitario.Mul(decimal.NewFromInt(int64(req.Cantidad))),
	}
	if err := s.repo.CreateLinea(ctx, &l); err != nil {
		return nil, err
	}
	if err := s.refrescarMontoVersion(ctx, v); err != nil {
		return nil, err
	}
	return s.responderVersion(ctx, v.ID)
}

func (s *cotizacionesService) EliminarLinea(ctx context.Context, versionID, lineaID, actorID uuid.UUID) (*dto.CotizacionVersionResponse, error) {
	v, err := s.versionEditable(ctx, versionID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLinea(ctx, lineaID); err != nil {
		return nil, err
	}
	if err := s.refrescarMontoVersion(ctx, v); err != nil {
		return nil, err
	}
	return s.responderVersion(ctx, v.ID)
}

func (s *cotizacionesService) Transicionar(ctx context.Context, versionID uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.CotizacionVersionResponse, error) {
	doc, err := s.ejecutor.Ejecutar(ctx, workflow.Solicitud{
		Tipo:           model.TipoCotizacion,
		ID:             versionID,
		Accion:         model.AccionDocumento(req.Accion),
		Actor:          actor,
		EstadoEsperado: model.EstadoDocumento(req.EstadoEsperado),
		Comentario:     req.Comentario,
	})
	if err != nil {
		return nil, err
	}
	v := doc.(*model.CotizacionVersion)

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueNotificacion(ctx, map[string]interface{}{
			"tipo_documento": string(model.TipoCotizacion),
			"documento_id":   v.ID.String(),
			"estado":         string(v.Estado),
			"propietario_id": v.AutorID.String(),
		})
	}
	return s.responderVersion(ctx, v.ID)
}

// consolidarAprobacion runs inside the approval transaction.
func (s *cotizacionesService) consolidarAprobacion(ctx context.Context, tx *gorm.DB, doc workflow.Documento) error {
	v, ok := doc.(*model.CotizacionVersion)
	if !ok {
		return nil
	}
	if err := s.repo.MarcarSuperadasTx(tx, v.CotizacionID, v.ID); err != nil {
		return err
	}
	return s.repo.EstamparMontoTx(tx, v.CotizacionID, v.MontoTotal)
}

// versionEditable checks estado and authorship before any line mutation.
// Una versión enviada es inmutable: los cambios van a una versión nueva.
func (s *cotizacionesService) versionEditable(ctx context.Context, versionID, actorID uuid.UUID) (*model.CotizacionVersion, error) {
	v, err := s.repo.FindVersionByID(ctx, versionID)
	if err != nil {
		return nil, errors.New("versión no encontrada")
	}
	if v.Estado != model.EstadoBorrador {
		return nil, errors.New("solo se pueden editar versiones en borrador")
	}
	if v.AutorID != actorID {
		return nil, errors.New("solo el autor puede editar la versión")
	}
	return v, nil
}

func (s *cotizacionesService) refrescarMontoVersion(ctx context.Context, v *model.CotizacionVersion) error {
	lineas, err := s.repo.ListLineas(ctx, v.ID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(l.Subtotal)
	}
	v.MontoTotal = total
	return s.repo.DB().WithContext(ctx).Save(v).Error
}

func (s *cotizacionesService) responderVersion(ctx context.Context, versionID uuid.UUID) (*dto.CotizacionVersionResponse, error) {
	v, err := s.repo.FindVersionByID(ctx, versionID)
	if err != nil {
		return nil, errors.New("versión no encontrada")
	}
	return cotizacionVersionToResponse(v), nil
}

func cotizacionVersionToResponse(v *model.CotizacionVersion) *dto.CotizacionVersionResponse {
	lineas := make([]dto.CotizacionLineaResponse, 0, len(v.Lineas))
	for _, l := range v.Lineas {
		lineas = append(lineas, dto.CotizacionLineaResponse{
			ID:             l.ID.String(),
			Descripcion:    l.Descripcion,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Subtotal,
		})
	}
	acciones := make([]string, 0, 4)
	for _, a := range workflow.AccionesDesde(model.TipoCotizacion, v.Estado) {
		acciones = append(acciones, string(a))
	}
	return &dto.CotizacionVersionResponse{
		ID:                  v.ID.String(),
		Numero:              v.Numero,
		MontoTotal:          v.MontoTotal,
		Estado:              string(v.Estado),
		Superada:            v.Superada,
		Lineas:              lineas,
		AccionesDisponibles: acciones,
		CreatedAt:           v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func cotizacionToResponse(c *model.Cotizacion) *dto.CotizacionResponse {
	versiones := make([]dto.CotizacionVersionResponse, 0, len(c.Versiones))
	for i := range c.Versiones {
		versiones = append(versiones, *cotizacionVersionToResponse(&c.Versiones[i]))
	}
	return &dto.CotizacionResponse{
		ID:            c.ID.String(),
		Codigo:        c.Codigo,
		ClienteNombre: c.ClienteNombre,
		ComercialID:   c.ComercialID.String(),
		MontoTotal:    c.MontoTotal,
		Moneda:        c.Moneda,
		Versiones:     versiones,
		CreatedAt:     c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
