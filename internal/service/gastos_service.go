package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/infra"
	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"
	"gyscontrol/internal/worker"
	"gyscontrol/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados donde la cabecera o las líneas de una hoja siguen siendo editables.
// Las líneas además se editan en depositado: el colaborador registra gastos a
// medida que los ejecuta, antes de rendir.
var (
	estadosEdicionHoja   = map[model.EstadoDocumento]bool{model.EstadoBorrador: true, model.EstadoRechazado: true}
	estadosEdicionLineas = map[model.EstadoDocumento]bool{
		model.EstadoBorrador:   true,
		model.EstadoAprobado:   true,
		model.EstadoDepositado: true,
		model.EstadoRechazado:  true,
	}
)

type GastosService interface {
	CrearHoja(ctx context.Context, solicitanteID uuid.UUID, req dto.CrearHojaGastosRequest) (*dto.HojaGastosResponse, error)
	ActualizarHoja(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req dto.ActualizarHojaGastosRequest) (*dto.HojaGastosResponse, error)
	GetHoja(ctx context.Context, id uuid.UUID) (*dto.HojaGastosResponse, error)
	ListHojas(ctx context.Context, filter dto.HojaGastosFilter) (*dto.HojaGastosListResponse, error)

	AgregarLinea(ctx context.Context, hojaID, actorID uuid.UUID, req dto.CrearGastoLineaRequest) (*dto.HojaGastosResponse, error)
	ActualizarLinea(ctx context.Context, hojaID, lineaID, actorID uuid.UUID, req dto.ActualizarGastoLineaRequest) (*dto.HojaGastosResponse, error)
	EliminarLinea(ctx context.Context, hojaID, lineaID, actorID uuid.UUID) (*dto.HojaGastosResponse, error)

	Transicionar(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.HojaGastosResponse, error)

	GenerarRendicion(ctx context.Context, id uuid.UUID) (string, error)
}

type gastosService struct {
	repo       repository.HojaGastosRepository
	bancoRepo  repository.BancoRepository
	usuarios   repository.UsuarioRepository
	ejecutor   *workflow.Ejecutor
	dispatcher *worker.Dispatcher
	pdfPath    string
}

func NewGastosService(
	repo repository.HojaGastosRepository,
	bancoRepo repository.BancoRepository,
	usuarios repository.UsuarioRepository,
	ejecutor *workflow.Ejecutor,
	dispatcher *worker.Dispatcher,
	pdfPath string,
) GastosService {
	s := &gastosService{repo: repo, bancoRepo: bancoRepo, usuarios: usuarios, ejecutor: ejecutor, dispatcher: dispatcher, pdfPath: pdfPath}

	// Al validar una rendición con anticipo, el anticipo se liquida en la
	// misma transacción que la transición.
	ejecutor.RegistrarCascada(model.TipoHojaGastos, model.AccionAprobar, s.liquidarAnticipo)

	return s
}

// ── CRUD de cabecera ─────────────────────────────────────────────────────────

func (s *gastosService) CrearHoja(ctx context.Context, solicitanteID uuid.UUID, req dto.CrearHojaGastosRequest) (*dto.HojaGastosResponse, error) {
	if req.MontoSolicitado.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el monto solicitado debe ser mayor a cero")
	}

	n, err := s.repo.SiguienteCorrelativo(ctx)
	if err != nil {
		return nil, err
	}

	h := model.HojaGastos{
		Codigo:           fmt.Sprintf("HG-%04d", n),
		Descripcion:      req.Descripcion,
		SolicitanteID:    solicitanteID,
		RequiereAnticipo: req.RequiereAnticipo,
		MontoSolicitado:  req.MontoSolicitado,
		Estado:           model.EstadoBorrador,
	}
	if req.ProyectoID != nil {
		pid, err := uuid.Parse(*req.ProyectoID)
		if err != nil {
			return nil, fmt.Errorf("proyecto_id inválido: %w", err)
		}
		h.ProyectoID = &pid
	}

	if err := s.repo.Create(ctx, &h); err != nil {
		return nil, err
	}
	return hojaToResponse(&h), nil
}

func (s *gastosService) ActualizarHoja(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req dto.ActualizarHojaGastosRequest) (*dto.HojaGastosResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("hoja de gastos no encontrada")
	}
	if h.SolicitanteID != actorID {
		return nil, errors.New("solo el solicitante puede editar la hoja")
	}
	if !estadosEdicionHoja[h.Estado] {
		return nil, fmt.Errorf("la hoja en estado %s no es editable", h.Estado)
	}

	if req.Descripcion != nil {
		h.Descripcion = *req.Descripcion
	}
	if req.MontoSolicitado != nil {
		if req.MontoSolicitado.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("el monto solicitado debe ser mayor a cero")
		}
		h.MontoSolicitado = *req.MontoSolicitado
	}
	if req.ProyectoID != nil {
		pid, err := uuid.Parse(*req.ProyectoID)
		if err != nil {
			return nil, fmt.Errorf("proyecto_id inválido: %w", err)
		}
		h.ProyectoID = &pid
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return hojaToResponse(h), nil
}

func (s *gastosService) GetHoja(ctx context.Context, id uuid.UUID) (*dto.HojaGastosResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("hoja de gastos no encontrada")
	}
	return hojaToResponse(h), nil
}

func (s *gastosService) ListHojas(ctx context.Context, filter dto.HojaGastosFilter) (*dto.HojaGastosListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	hojas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.HojaGastosResponse, 0, len(hojas))
	for i := range hojas {
		items = append(items, *hojaToResponse(&hojas[i]))
	}
	return &dto.HojaGastosListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Líneas de gasto ──────────────────────────────────────────────────────────

func (s *gastosService) AgregarLinea(ctx context.Context, hojaID, actorID uuid.UUID, req dto.CrearGastoLineaRequest) (*dto.HojaGastosResponse, error) {
	h, err := s.lineaPreflight(ctx, hojaID, actorID)
	if err != nil {
		return nil, err
	}
	if req.Monto.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el monto de la línea debe ser mayor a cero")
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida: %w", err)
	}
	moneda := req.Moneda
	if moneda == "" {
		moneda = "PEN"
	}

	linea := model.GastoLinea{
		HojaGastosID: hojaID,
		Descripcion:  req.Descripcion,
		Categoria:    req.Categoria,
		Monto:        req.Monto,
		Moneda:       moneda,
		Fecha:        fecha,
	}
	if err := s.repo.CreateLinea(ctx, &linea); err != nil {
		return nil, err
	}
	return s.refrescarTotales(ctx, h)
}

func (s *gastosService) ActualizarLinea(ctx context.Context, hojaID, lineaID, actorID uuid.UUID, req dto.ActualizarGastoLineaRequest) (*dto.HojaGastosResponse, error) {
	h, err := s.lineaPreflight(ctx, hojaID, actorID)
	if err != nil {
		return nil, err
	}
	linea, err := s.repo.FindLineaByID(ctx, lineaID)
	if err != nil || linea.HojaGastosID != hojaID {
		return nil, errors.New("línea de gasto no encontrada")
	}

	if req.Descripcion != nil {
		linea.Descripcion = *req.Descripcion
	}
	if req.Categoria != nil {
		linea.Categoria = *req.Categoria
	}
	if req.Monto != nil {
		if req.Monto.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("el monto de la línea debe ser mayor a cero")
		}
		linea.Monto = *req.Monto
	}
	if req.Fecha != nil {
		fecha, err := time.Parse("2006-01-02", *req.Fecha)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida: %w", err)
		}
		linea.Fecha = fecha
	}

	if err := s.repo.UpdateLinea(ctx, linea); err != nil {
		return nil, err
	}
	return s.refrescarTotales(ctx, h)
}

func (s *gastosService) EliminarLinea(ctx context.Context, hojaID, lineaID, actorID uuid.UUID) (*dto.HojaGastosResponse, error) {
	h, err := s.lineaPreflight(ctx, hojaID, actorID)
	if err != nil {
		return nil, err
	}
	linea, err := s.repo.FindLineaByID(ctx, lineaID)
	if err != nil || linea.HojaGastosID != hojaID {
		return nil, errors.New("línea de gasto no encontrada")
	}
	if err := s.repo.DeleteLinea(ctx, lineaID); err != nil {
		return nil, err
	}
	return s.refrescarTotales(ctx, h)
}

func (s *gastosService) lineaPreflight(ctx context.Context, hojaID, actorID uuid.UUID) (*model.HojaGastos, error) {
	h, err := s.repo.FindByID(ctx, hojaID)
	if err != nil {
		return nil, errors.New("hoja de gastos no encontrada")
	}
	if h.SolicitanteID != actorID {
		return nil, errors.New("solo el solicitante puede modificar las líneas")
	}
	if !estadosEdicionLineas[h.Estado] {
		return nil, fmt.Errorf("las líneas no son editables en estado %s", h.Estado)
	}
	return h, nil
}

// refrescarTotales recomputes monto_gastado y saldo tras cada mutación de
// líneas; la transición rendir vuelve a recalcular de todos modos.
func (s *gastosService) refrescarTotales(ctx context.Context, h *model.HojaGastos) (*dto.HojaGastosResponse, error) {
	lineas, err := s.repo.ListLineas(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	montos := make([]decimal.Decimal, 0, len(lineas))
	for _, l := range lineas {
		montos = append(montos, l.Monto)
	}
	t := workflow.CalcularTotales(h.MontoBase(), montos)
	h.AplicarTotales(t.Acumulado, t.Saldo, t.Porcentaje)
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	h.Lineas = lineas
	return hojaToResponse(h), nil
}

// ── Transiciones ─────────────────────────────────────────────────────────────

func (s *gastosService) Transicionar(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.HojaGastosResponse, error) {
	sol := workflow.Solicitud{
		Tipo:           model.TipoHojaGastos,
		ID:             id,
		Accion:         model.AccionDocumento(req.Accion),
		Actor:          actor,
		EstadoEsperado: model.EstadoDocumento(req.EstadoEsperado),
		Monto:          req.Monto,
		Comentario:     req.Comentario,
	}

	if sol.Accion == model.AccionDepositar {
		if req.CuentaBancariaID == nil {
			return nil, errors.New("depositar requiere cuenta_bancaria_id")
		}
		cuentaID, err := uuid.Parse(*req.CuentaBancariaID)
		if err != nil {
			return nil, fmt.Errorf("cuenta_bancaria_id inválido: %w", err)
		}
		sol.Antes = s.registrarDeposito(cuentaID)
	}

	doc, err := s.ejecutor.Ejecutar(ctx, sol)
	if err != nil {
		return nil, err
	}
	h := doc.(*model.HojaGastos)

	s.notificar(ctx, h, sol.Accion)

	// Re-read with lines for the response.
	completa, err := s.repo.FindByID(ctx, h.ID)
	if err != nil {
		return hojaToResponse(h), nil
	}
	return hojaToResponse(completa), nil
}

// registrarDeposito descuenta el monto de la cuenta bancaria, deja el
// movimiento en el ledger y, si la hoja lo requiere, abre el anticipo. Todo
// dentro de la transacción de la transición.
func (s *gastosService) registrarDeposito(cuentaID uuid.UUID) func(ctx context.Context, tx *gorm.DB, doc workflow.Documento) error {
	return func(ctx context.Context, tx *gorm.DB, doc workflow.Documento) error {
		h, ok := doc.(*model.HojaGastos)
		if !ok {
			return errors.New("documento inesperado en depósito")
		}
		monto := h.MontoDepositado // ya aplicado por el ejecutor antes del hook

		cuenta, err := s.bancoRepo.FindCuentaForUpdateTx(tx, cuentaID)
		if err != nil {
			return errors.New("cuenta bancaria no encontrada")
		}
		if cuenta.SaldoActual.LessThan(monto) {
			return fmt.Errorf("la cuenta %s no tiene saldo suficiente", cuenta.Banco)
		}

		ref := h.ID
		mov := model.MovimientoBancario{
			CuentaBancariaID: cuenta.ID,
			Tipo:             "deposito_anticipo",
			Monto:            monto.Neg(),
			Descripcion:      fmt.Sprintf("Depósito hoja de gastos %s", h.Codigo),
			ReferenciaID:     &ref,
		}
		if err := s.bancoRepo.CreateMovimientoTx(tx, &mov); err != nil {
			return err
		}
		cuenta.SaldoActual = cuenta.SaldoActual.Sub(monto)
		if err := s.bancoRepo.UpdateSaldoTx(tx, cuenta); err != nil {
			return err
		}

		if h.RequiereAnticipo && h.AnticipoID == nil {
			ant := model.Anticipo{
				Codigo:         fmt.Sprintf("ANT-%s", h.Codigo),
				BeneficiarioID: h.SolicitanteID,
				ProyectoID:     h.ProyectoID,
				MontoOtorgado:  monto,
				MontoPendiente: monto,
			}
			if err := tx.Create(&ant).Error; err != nil {
				return err
			}
			h.AnticipoID = &ant.ID
		}
		return nil
	}
}

// liquidarAnticipo corre como cascada cuando aprobar deja la hoja en
// validado: el gasto rendido liquida el anticipo, el resto queda pendiente de
// devolución.
func (s *gastosService) liquidarAnticipo(ctx context.Context, tx *gorm.DB, doc workflow.Documento) error {
	h, ok := doc.(*model.HojaGastos)
	if !ok || h.Estado != model.EstadoValidado || h.AnticipoID == nil {
		return nil
	}
	ant, err := s.repo.FindAnticipoForUpdateTx(tx, *h.AnticipoID)
	if err != nil {
		return errors.New("anticipo no encontrado")
	}

	liquidado := h.MontoGastado
	if liquidado.GreaterThan(ant.MontoOtorgado) {
		liquidado = ant.MontoOtorgado
	}
	ant.MontoLiquidado = liquidado
	ant.MontoPendiente = ant.MontoOtorgado.Sub(liquidado)
	return s.repo.UpdateAnticipoTx(tx, ant)
}

// GenerarRendicion produce el PDF imprimible de la rendición y devuelve la
// ruta del archivo generado. Solo tiene sentido desde que la hoja fue rendida.
func (s *gastosService) GenerarRendicion(ctx context.Context, id uuid.UUID) (string, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", errors.New("hoja de gastos no encontrada")
	}
	switch h.Estado {
	case model.EstadoRendido, model.EstadoValidado, model.EstadoCerrado:
	default:
		return "", errors.New("la hoja aún no fue rendida")
	}

	nombre := ""
	if u, err := s.usuarios.FindByID(ctx, h.SolicitanteID); err == nil {
		nombre = u.Nombre
	}
	return infra.GenerarRendicionPDF(h, nombre, s.pdfPath)
}

func (s *gastosService) notificar(ctx context.Context, h *model.HojaGastos, accion model.AccionDocumento) {
	if s.dispatcher == nil {
		return
	}
	payload := map[string]interface{}{
		"tipo_documento": string(model.TipoHojaGastos),
		"documento_id":   h.ID.String(),
		"codigo":         h.Codigo,
		"accion":         string(accion),
		"estado":         string(h.Estado),
		"propietario_id": h.SolicitanteID.String(),
	}
	// La rendición viaja adjunta en el correo a los revisores.
	if accion == model.AccionRendir {
		if path, err := s.GenerarRendicion(ctx, h.ID); err == nil {
			payload["adjunto_path"] = path
		}
	}
	_ = s.dispatcher.EnqueueNotificacion(ctx, payload)
}

func hojaToResponse(h *model.HojaGastos) *dto.HojaGastosResponse {
	lineas := make([]dto.GastoLineaResponse, 0, len(h.Lineas))
	for _, l := range h.Lineas {
		lineas = append(lineas, dto.GastoLineaResponse{
			ID:          l.ID.String(),
			Fecha:       l.Fecha.Format("2006-01-02"),
			Descripcion: l.Descripcion,
			Categoria:   l.Categoria,
			Monto:       l.Monto,
			Moneda:      l.Moneda,
		})
	}
	acciones := make([]string, 0, 4)
	for _, a := range workflow.AccionesDesde(model.TipoHojaGastos, h.Estado) {
		acciones = append(acciones, string(a))
	}
	var proyectoID *string
	if h.ProyectoID != nil {
		s := h.ProyectoID.String()
		proyectoID = &s
	}
	return &dto.HojaGastosResponse{
		ID:                  h.ID.String(),
		Codigo:              h.Codigo,
		Descripcion:         h.Descripcion,
		ProyectoID:          proyectoID,
		SolicitanteID:       h.SolicitanteID.String(),
		RequiereAnticipo:    h.RequiereAnticipo,
		MontoSolicitado:     h.MontoSolicitado,
		MontoDepositado:     h.MontoDepositado,
		MontoGastado:        h.MontoGastado,
		Saldo:               h.Saldo,
		PorcentajeRendido:   h.PorcentajeRendido,
		Estado:              string(h.Estado),
		Lineas:              lineas,
		AccionesDisponibles: acciones,
		CreatedAt:           h.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
