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
	"gorm.io/gorm"
)

type FinanzasService interface {
	CrearCuentaCobrar(ctx context.Context, responsableID uuid.UUID, req dto.CrearCuentaCobrarRequest) (*dto.CuentaCobrarResponse, error)
	GetCuentaCobrar(ctx context.Context, id uuid.UUID) (*dto.CuentaCobrarResponse, error)
	ListCuentasCobrar(ctx context.Context, filter dto.CuentaFilter) (*dto.CuentaCobrarListResponse, error)
	TransicionarCobrar(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.CuentaCobrarResponse, error)
	RegistrarCobro(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.RegistrarCobroRequest) (*dto.CuentaCobrarResponse, error)

	CrearCuentaPagar(ctx context.Context, responsableID uuid.UUID, req dto.CrearCuentaPagarRequest) (*dto.CuentaPagarResponse, error)
	GetCuentaPagar(ctx context.Context, id uuid.UUID) (*dto.CuentaPagarResponse, error)
	ListCuentasPagar(ctx context.Context, filter dto.CuentaFilter) (*dto.CuentaPagarListResponse, error)
	TransicionarPagar(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.CuentaPagarResponse, error)

	CrearCuentaBancaria(ctx context.Context, req dto.CrearCuentaBancariaRequest) (*dto.CuentaBancariaResponse, error)
	ListCuentasBancarias(ctx context.Context) ([]dto.CuentaBancariaResponse, error)
	ListMovimientos(ctx context.Context, cuentaID uuid.UUID) ([]dto.MovimientoBancarioResponse, error)

	ReporteAging(ctx context.Context, corte time.Time) (*dto.AgingResponse, error)
}

type finanzasService struct {
	repo       repository.FinanzasRepository
	bancoRepo  repository.BancoRepository
	ejecutor   *workflow.Ejecutor
	dispatcher *worker.Dispatcher
}

func NewFinanzasService(
	repo repository.FinanzasRepository,
	bancoRepo repository.BancoRepository,
	ejecutor *workflow.Ejecutor,
	dispatcher *worker.Dispatcher,
) FinanzasService {
	return &finanzasService{repo: repo, bancoRepo: bancoRepo, ejecutor: ejecutor, dispatcher: dispatcher}
}

// ── Cuentas por cobrar ───────────────────────────────────────────────────────

func (s *finanzasService) CrearCuentaCobrar(ctx context.Context, responsableID uuid.UUID, req dto.CrearCuentaCobrarRequest) (*dto.CuentaCobrarResponse, error) {
	if req.MontoTotal.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el monto total debe ser mayor a cero")
	}
	venc, err := time.Parse("2006-01-02", req.FechaVencimiento)
	if err != nil {
		return nil, fmt.Errorf("fecha_vencimiento inválida: %w", err)
	}

	n, err := s.repo.SiguienteCorrelativoCobrar(ctx)
	if err != nil {
		return nil, err
	}
	moneda := req.Moneda
	if moneda == "" {
		moneda = "PEN"
	}

	c := model.CuentaCobrar{
		Codigo:           fmt.Sprintf("CC-%04d", n),
		ClienteNombre:    req.ClienteNombre,
		ClienteRUC:       req.ClienteRUC,
		ResponsableID:    responsableID,
		MontoTotal:       req.MontoTotal,
		Saldo:            req.MontoTotal,
		Moneda:           moneda,
		FechaVencimiento: venc,
		Estado:           model.EstadoBorrador,
	}
	if req.ProyectoID != nil {
		pid, err := uuid.Parse(*req.ProyectoID)
		if err != nil {
			return nil, fmt.Errorf("proyecto_id inválido: %w", err)
		}
		c.ProyectoID = &pid
	}

	if err := s.repo.CreateCuentaCobrar(ctx, &c); err != nil {
		return nil, err
	}
	return cuentaCobrarToResponse(&c), nil
}

func (s *finanzasService) GetCuentaCobrar(ctx context.Context, id uuid.UUID) (*dto.CuentaCobrarResponse, error) {
	c, err := s.repo.FindCuentaCobrarByID(ctx, id)
	if err != nil {
		return nil, errors.New("cuenta por cobrar no encontrada")
	}
	return cuentaCobrarToResponse(c), nil
}

func (s *finanzasService) ListCuentasCobrar(ctx context.Context, filter dto.CuentaFilter) (*dto.CuentaCobrarListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	cuentas, total, err := s.repo.ListCuentasCobrar(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CuentaCobrarResponse, 0, len(cuentas))
	for i := range cuentas {
		items = append(items, *cuentaCobrarToResponse(&cuentas[i]))
	}
	return &dto.CuentaCobrarListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// TransicionarCobrar covers the non-payment actions (emitir, anular, cerrar).
func (s *finanzasService) TransicionarCobrar(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.CuentaCobrarResponse, error) {
	accion := model.AccionDocumento(req.Accion)
	if accion == model.AccionCobrarParcial || accion == model.AccionCobrarTotal {
		return nil, errors.New("use el endpoint de cobros para registrar pagos")
	}
	doc, err := s.ejecutor.Ejecutar(ctx, workflow.Solicitud{
		Tipo:           model.TipoCuentaCobrar,
		ID:             id,
		Accion:         accion,
		Actor:          actor,
		EstadoEsperado: model.EstadoDocumento(req.EstadoEsperado),
		Comentario:     req.Comentario,
	})
	if err != nil {
		return nil, err
	}
	return s.responderCobrar(ctx, doc.(*model.CuentaCobrar))
}

// RegistrarCobro decides parcial vs total from the monto against the saldo and
// writes the pago, the movimiento bancario and the transition atomically.
func (s *finanzasService) RegistrarCobro(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.RegistrarCobroRequest) (*dto.CuentaCobrarResponse, error) {
	c, err := s.repo.FindCuentaCobrarByID(ctx, id)
	if err != nil {
		return nil, errors.New("cuenta por cobrar no encontrada")
	}
	if req.Monto.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el monto debe ser mayor a cero")
	}

	accion := model.AccionCobrarParcial
	if req.Monto.GreaterThanOrEqual(c.Saldo) {
		accion = model.AccionCobrarTotal
	}

	var cuentaBancariaID *uuid.UUID
	if req.CuentaBancariaID != nil {
		cbID, err := uuid.Parse(*req.CuentaBancariaID)
		if err != nil {
			return nil, fmt.Errorf("cuenta_bancaria_id inválido: %w", err)
		}
		cuentaBancariaID = &cbID
	}

	monto := req.Monto
	sol := workflow.Solicitud{
		Tipo:           model.TipoCuentaCobrar,
		ID:             id,
		Accion:         accion,
		Actor:          actor,
		EstadoEsperado: model.EstadoDocumento(req.EstadoEsperado),
		Monto:          &monto,
		Antes: func(ctx context.Context, tx *gorm.DB, doc workflow.Documento) error {
			cuenta := doc.(*model.CuentaCobrar)
			pago := model.PagoCobranza{
				CuentaCobrarID:   cuenta.ID,
				CuentaBancariaID: cuentaBancariaID,
				Monto:            monto,
				Metodo:           req.Metodo,
				Moneda:           cuenta.Moneda,
				Referencia:       req.Referencia,
			}
			if err := s.repo.CreatePagoTx(tx, &pago); err != nil {
				return err
			}
			if cuentaBancariaID == nil {
				return nil
			}
			banco, err := s.bancoRepo.FindCuentaForUpdateTx(tx, *cuentaBancariaID)
			if err != nil {
				return errors.New("cuenta bancaria no encontrada")
			}
			ref := cuenta.ID
			mov := model.MovimientoBancario{
				CuentaBancariaID: banco.ID,
				Tipo:             "cobro",
				Monto:            monto,
				Descripcion:      fmt.Sprintf("Cobro %s (%s)", cuenta.Codigo, cuenta.ClienteNombre),
				ReferenciaID:     &ref,
			}
			if err := s.bancoRepo.CreateMovimientoTx(tx, &mov); err != nil {
				return err
			}
			banco.SaldoActual = banco.SaldoActual.Add(monto)
			return s.bancoRepo.UpdateSaldoTx(tx, banco)
		},
	}

	doc, err := s.ejecutor.Ejecutar(ctx, sol)
	if err != nil {
		return nil, err
	}
	return s.responderCobrar(ctx, doc.(*model.CuentaCobrar))
}

func (s *finanzasService) responderCobrar(ctx context.Context, c *model.CuentaCobrar) (*dto.CuentaCobrarResponse, error) {
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueNotificacion(ctx, map[string]interface{}{
			"tipo_documento": string(model.TipoCuentaCobrar),
			"documento_id":   c.ID.String(),
			"codigo":         c.Codigo,
			"estado":         string(c.Estado),
			"propietario_id": c.ResponsableID.String(),
		})
	}
	completa, err := s.repo.FindCuentaCobrarByID(ctx, c.ID)
	if err != nil {
		return cuentaCobrarToResponse(c), nil
	}
	return cuentaCobrarToResponse(completa), nil
}

// ── Cuentas por pagar ────────────────────────────────────────────────────────

func (s *finanzasService) CrearCuentaPagar(ctx context.Context, responsableID uuid.UUID, req dto.CrearCuentaPagarRequest) (*dto.CuentaPagarResponse, error) {
	if req.MontoTotal.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el monto total debe ser mayor a cero")
	}
	provID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	venc, err := time.Parse("2006-01-02", req.FechaVencimiento)
	if err != nil {
		return nil, fmt.Errorf("fecha_vencimiento inválida: %w", err)
	}

	n, err := s.repo.SiguienteCorrelativoPagar(ctx)
	if err != nil {
		return nil, err
	}
	moneda := req.Moneda
	if moneda == "" {
		moneda = "PEN"
	}

	c := model.CuentaPagar{
		Codigo:           fmt.Sprintf("CP-%04d", n),
		ProveedorID:      provID,
		ResponsableID:    responsableID,
		MontoTotal:       req.MontoTotal,
		Moneda:           moneda,
		FechaVencimiento: venc,
		Estado:           model.EstadoBorrador,
	}
	if req.OrdenCompraID != nil {
		ocID, err := uuid.Parse(*req.OrdenCompraID)
		if err != nil {
			return nil, fmt.Errorf("orden_compra_id inválido: %w", err)
		}
		c.OrdenCompraID = &ocID
	}

	if err := s.repo.CreateCuentaPagar(ctx, &c); err != nil {
		return nil, err
	}
	return cuentaPagarToResponse(&c), nil
}

func (s *finanzasService) GetCuentaPagar(ctx context.Context, id uuid.UUID) (*dto.CuentaPagarResponse, error) {
	c, err := s.repo.FindCuentaPagarByID(ctx, id)
	if err != nil {
		return nil, errors.New("cuenta por pagar no encontrada")
	}
	return cuentaPagarToResponse(c), nil
}

func (s *finanzasService) ListCuentasPagar(ctx context.Context, filter dto.CuentaFilter) (*dto.CuentaPagarListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	cuentas, total, err := s.repo.ListCuentasPagar(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CuentaPagarResponse, 0, len(cuentas))
	for i := range cuentas {
		items = append(items, *cuentaPagarToResponse(&cuentas[i]))
	}
	return &dto.CuentaPagarListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *finanzasService) TransicionarPagar(ctx context.Context, id uuid.UUID, actor workflow.Actor, req dto.TransicionRequest) (*dto.CuentaPagarResponse, error) {
	sol := workflow.Solicitud{
		Tipo:           model.TipoCuentaPagar,
		ID:             id,
		Accion:         model.AccionDocumento(req.Accion),
		Actor:          actor,
		EstadoEsperado: model.EstadoDocumento(req.EstadoEsperado),
		Monto:          req.Monto,
		Comentario:     req.Comentario,
	}

	// pagar descuenta la cuenta bancaria en la misma transacción.
	if sol.Accion == model.AccionPagar {
		if req.CuentaBancariaID == nil {
			return nil, errors.New("pagar requiere cuenta_bancaria_id")
		}
		cbID, err := uuid.Parse(*req.CuentaBancariaID)
		if err != nil {
			return nil, fmt.Errorf("cuenta_bancaria_id inválido: %w", err)
		}
		sol.Antes = func(ctx context.Context, tx *gorm.DB, doc workflow.Documento) error {
			cuenta := doc.(*model.CuentaPagar)
			monto := cuenta.MontoTotal
			if req.Monto != nil {
				monto = *req.Monto
			}
			banco, err := s.bancoRepo.FindCuentaForUpdateTx(tx, cbID)
			if err != nil {
				return errors.New("cuenta bancaria no encontrada")
			}
			if banco.SaldoActual.LessThan(monto) {
				return fmt.Errorf("la cuenta %s no tiene saldo suficiente", banco.Banco)
			}
			ref := cuenta.ID
			mov := model.MovimientoBancario{
				CuentaBancariaID: banco.ID,
				Tipo:             "pago",
				Monto:            monto.Neg(),
				Descripcion:      fmt.Sprintf("Pago %s", cuenta.Codigo),
				ReferenciaID:     &ref,
			}
			if err := s.bancoRepo.CreateMovimientoTx(tx, &mov); err != nil {
				return err
			}
			banco.SaldoActual = banco.SaldoActual.Sub(monto)
			return s.bancoRepo.UpdateSaldoTx(tx, banco)
		}
	}

	doc, err := s.ejecutor.Ejecutar(ctx, sol)
	if err != nil {
		return nil, err
	}
	c := doc.(*model.CuentaPagar)
	completa, err := s.repo.FindCuentaPagarByID(ctx, c.ID)
	if err != nil {
		return cuentaPagarToResponse(c), nil
	}
	return cuentaPagarToResponse(completa), nil
}

// ── Cuentas bancarias ────────────────────────────────────────────────────────

func (s *finanzasService) CrearCuentaBancaria(ctx context.Context, req dto.CrearCuentaBancariaRequest) (*dto.CuentaBancariaResponse, error) {
	c := model.CuentaBancaria{
		Banco:       req.Banco,
		Numero:      req.NumeroCuenta,
		Moneda:      req.Moneda,
		SaldoActual: req.SaldoInicial,
		Activa:      true,
	}
	if err := s.bancoRepo.CreateCuenta(ctx, &c); err != nil {
		return nil, err
	}
	resp := cuentaBancariaToResponse(&c)
	return &resp, nil
}

func (s *finanzasService) ListCuentasBancarias(ctx context.Context) ([]dto.CuentaBancariaResponse, error) {
	cuentas, err := s.bancoRepo.ListCuentas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CuentaBancariaResponse, 0, len(cuentas))
	for i := range cuentas {
		out = append(out, cuentaBancariaToResponse(&cuentas[i]))
	}
	return out, nil
}

func (s *finanzasService) ListMovimientos(ctx context.Context, cuentaID uuid.UUID) ([]dto.MovimientoBancarioResponse, error) {
	movs, err := s.bancoRepo.ListMovimientos(ctx, cuentaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoBancarioResponse, 0, len(movs))
	for _, m := range movs {
		var ref *string
		if m.ReferenciaID != nil {
			r := m.ReferenciaID.String()
			ref = &r
		}
		out = append(out, dto.MovimientoBancarioResponse{
			ID:           m.ID.String(),
			Tipo:         m.Tipo,
			Monto:        m.Monto,
			Descripcion:  m.Descripcion,
			ReferenciaID: ref,
			CreatedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

// ── Aging ────────────────────────────────────────────────────────────────────

// agingRangos clasifica por días vencidos al corte. Cuentas aún no vencidas
// cuentan en el primer rango.
var agingRangos = []struct {
	nombre string
	hasta  int // días vencidos inclusive; -1 = sin tope
}{
	{"0-30", 30},
	{"31-60", 60},
	{"61-90", 90},
	{"90+", -1},
}

// CalcularAging is pure: bucketing is separated from the query so the report
// can be tested without a database.
func CalcularAging(cuentas []model.CuentaCobrar, corte time.Time) *dto.AgingResponse {
	resp := &dto.AgingResponse{
		FechaCorte:  corte.Format("2006-01-02"),
		TotalGlobal: decimal.Zero,
	}
	buckets := make([]dto.AgingBucket, len(agingRangos))
	for i, r := range agingRangos {
		buckets[i] = dto.AgingBucket{Rango: r.nombre, Total: decimal.Zero}
	}

	for _, c := range cuentas {
		if !c.Saldo.IsPositive() {
			continue
		}
		dias := int(corte.Sub(c.FechaVencimiento).Hours() / 24)
		if dias < 0 {
			dias = 0
		}
		for i, r := range agingRangos {
			if r.hasta == -1 || dias <= r.hasta {
				buckets[i].Cuentas++
				buckets[i].Total = buckets[i].Total.Add(c.Saldo)
				break
			}
		}
		resp.TotalGlobal = resp.TotalGlobal.Add(c.Saldo)
	}
	resp.Buckets = buckets
	return resp
}

func (s *finanzasService) ReporteAging(ctx context.Context, corte time.Time) (*dto.AgingResponse, error) {
	cuentas, err := s.repo.ListCobrarPendientes(ctx)
	if err != nil {
		return nil, err
	}
	return CalcularAging(cuentas, corte), nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func cuentaCobrarToResponse(c *model.CuentaCobrar) *dto.CuentaCobrarResponse {
	pagos := make([]dto.PagoCobranzaResponse, 0, len(c.Pagos))
	for _, p := range c.Pagos {
		pagos = append(pagos, dto.PagoCobranzaResponse{
			ID:         p.ID.String(),
			Monto:      p.Monto,
			Metodo:     p.Metodo,
			Referencia: p.Referencia,
			Fecha:      p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	acciones := make([]string, 0, 4)
	for _, a := range workflow.AccionesDesde(model.TipoCuentaCobrar, c.Estado) {
		acciones = append(acciones, string(a))
	}
	var proyectoID *string
	if c.ProyectoID != nil {
		s := c.ProyectoID.String()
		proyectoID = &s
	}
	diasVencida := 0
	if d := int(time.Since(c.FechaVencimiento).Hours() / 24); d > 0 && c.Saldo.IsPositive() {
		diasVencida = d
	}
	return &dto.CuentaCobrarResponse{
		ID:                  c.ID.String(),
		Codigo:              c.Codigo,
		ClienteNombre:       c.ClienteNombre,
		ClienteRUC:          c.ClienteRUC,
		ProyectoID:          proyectoID,
		MontoTotal:          c.MontoTotal,
		MontoCobrado:        c.MontoCobrado,
		Saldo:               c.Saldo,
		FechaVencimiento:    c.FechaVencimiento.Format("2006-01-02"),
		DiasVencida:         diasVencida,
		Estado:              string(c.Estado),
		Pagos:               pagos,
		AccionesDisponibles: acciones,
	}
}

func cuentaPagarToResponse(c *model.CuentaPagar) *dto.CuentaPagarResponse {
	acciones := make([]string, 0, 4)
	for _, a := range workflow.AccionesDesde(model.TipoCuentaPagar, c.Estado) {
		acciones = append(acciones, string(a))
	}
	var ocID *string
	if c.OrdenCompraID != nil {
		s := c.OrdenCompraID.String()
		ocID = &s
	}
	return &dto.CuentaPagarResponse{
		ID:                  c.ID.String(),
		Codigo:              c.Codigo,
		ProveedorID:         c.ProveedorID.String(),
		OrdenCompraID:       ocID,
		MontoTotal:          c.MontoTotal,
		FechaVencimiento:    c.FechaVencimiento.Format("2006-01-02"),
		Estado:              string(c.Estado),
		AccionesDisponibles: acciones,
	}
}

func cuentaBancariaToResponse(c *model.CuentaBancaria) dto.CuentaBancariaResponse {
	return dto.CuentaBancariaResponse{
		ID:           c.ID.String(),
		Banco:        c.Banco,
		NumeroCuenta: c.Numero,
		Moneda:       c.Moneda,
		Saldo:        c.SaldoActual,
		Activa:       c.Activa,
	}
}
