package repository

import (
	"context"
	"errors"
	"fmt"

	"gyscontrol/internal/model"
	"gyscontrol/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDocumentoNoEncontrado maps gorm.ErrRecordNotFound for workflow callers.
var ErrDocumentoNoEncontrado = errors.New("documento no encontrado")

// documentoAlmacen implements workflow.Almacen over GORM. Every lifecycle
// transition goes through this type; the row lock in ObtenerParaActualizar is
// what serializes concurrent transitions on the same document.
type documentoAlmacen struct{ db *gorm.DB }

func NewDocumentoAlmacen(db *gorm.DB) workflow.Almacen { return &documentoAlmacen{db: db} }

func (a *documentoAlmacen) EnTransaccion(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return a.db.WithContext(ctx).Transaction(fn)
}

func (a *documentoAlmacen) ObtenerParaActualizar(ctx context.Context, tx *gorm.DB, tipo model.TipoDocumento, id uuid.UUID) (workflow.Documento, error) {
	doc, err := vacioPorTipo(tipo)
	if err != nil {
		return nil, err
	}
	err = tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentoNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *documentoAlmacen) Guardar(ctx context.Context, tx *gorm.DB, doc workflow.Documento) error {
	return tx.WithContext(ctx).Save(doc).Error
}

// MontosLineas reads the child amounts a transition's totals derive from.
// Always re-queried inside the transaction so totals never trust a stale sum.
func (a *documentoAlmacen) MontosLineas(ctx context.Context, tx *gorm.DB, tipo model.TipoDocumento, id uuid.UUID) ([]decimal.Decimal, error) {
	var montos []decimal.Decimal
	q := tx.WithContext(ctx)
	var err error
	switch tipo {
	case model.TipoHojaGastos:
		err = q.Model(&model.GastoLinea{}).Where("hoja_gastos_id = ?", id).Pluck("monto", &montos).Error
	case model.TipoOrdenCompra:
		err = q.Model(&model.OrdenCompraItem{}).Where("orden_compra_id = ?", id).Pluck("subtotal", &montos).Error
	case model.TipoCuentaCobrar:
		err = q.Model(&model.PagoCobranza{}).Where("cuenta_cobrar_id = ?", id).Pluck("monto", &montos).Error
	case model.TipoCotizacion:
		err = q.Model(&model.CotizacionLinea{}).Where("version_id = ?", id).Pluck("subtotal", &montos).Error
	default:
		return nil, nil
	}
	return montos, err
}

func (a *documentoAlmacen) TiposAdjuntos(ctx context.Context, tx *gorm.DB, tipo model.TipoDocumento, id uuid.UUID) ([]string, error) {
	var col string
	switch tipo {
	case model.TipoHojaGastos:
		col = "hoja_gastos_id"
	case model.TipoOrdenCompra:
		col = "orden_compra_id"
	case model.TipoCuentaPagar:
		col = "cuenta_pagar_id"
	default:
		return nil, nil
	}
	var tipos []string
	err := tx.WithContext(ctx).Model(&model.Adjunto{}).
		Distinct("tipo").Where(col+" = ?", id).Pluck("tipo", &tipos).Error
	return tipos, err
}

func (a *documentoAlmacen) CrearEvento(ctx context.Context, tx *gorm.DB, ev *model.EventoAuditoria) error {
	return tx.WithContext(ctx).Create(ev).Error
}

func vacioPorTipo(tipo model.TipoDocumento) (workflow.Documento, error) {
	switch tipo {
	case model.TipoHojaGastos:
		return &model.HojaGastos{}, nil
	case model.TipoOrdenCompra:
		return &model.OrdenCompra{}, nil
	case model.TipoCuentaCobrar:
		return &model.CuentaCobrar{}, nil
	case model.TipoCuentaPagar:
		return &model.CuentaPagar{}, nil
	case model.TipoCotizacion:
		return &model.CotizacionVersion{}, nil
	default:
		return nil, fmt.Errorf("tipo de documento no soportado: %s", tipo)
	}
}
