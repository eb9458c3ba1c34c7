package workflow

import (
	"context"

	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Documento is the minimal surface every lifecycle document exposes.
// Implemented by model.HojaGastos, model.OrdenCompra, model.CuentaCobrar,
// model.CuentaPagar and model.CotizacionVersion.
type Documento interface {
	DocumentoID() uuid.UUID
	TipoDocumento() model.TipoDocumento
	EstadoActual() model.EstadoDocumento
	CambiarEstado(model.EstadoDocumento)
	PropietarioID() uuid.UUID
}

// ConTotales is implemented by documents whose aggregate monetary fields are
// derived from child lines (gasto lineas, pagos de cobranza).
type ConTotales interface {
	Documento
	// MontoBase is the amount the saldo is computed against
	// (monto depositado for hojas, monto total for cuentas).
	MontoBase() decimal.Decimal
	AplicarTotales(acumulado, saldo, porcentaje decimal.Decimal)
}

// ConDeposito is implemented by documents that receive a deposited amount as
// part of a transition payload (hojas de gastos).
type ConDeposito interface {
	Documento
	RegistrarDeposito(decimal.Decimal)
}

// Actor is the authenticated identity requesting a transition. Identity and
// coarse authorization are the session layer's problem; the engine only
// re-checks the per-action role allow-list.
type Actor struct {
	ID  uuid.UUID
	Rol string
}

// Solicitud is one transition request against a document.
type Solicitud struct {
	Tipo   model.TipoDocumento
	ID     uuid.UUID
	Accion model.AccionDocumento
	Actor  Actor

	// EstadoEsperado is the estado the caller last observed. A mismatch at
	// write time aborts with ErrEstadoObsoleto. Empty skips the check.
	EstadoEsperado model.EstadoDocumento

	// Monto is the payload for depositar / cobrar / pagar actions.
	Monto *decimal.Decimal
	// Comentario is recorded in the audit event (rechazos, anulaciones).
	Comentario string

	// Antes runs inside the transaction after guards pass and before totals
	// are recomputed. Services use it for same-unit child writes (insert the
	// pago row, append the movimiento bancario). A nil tx is passed when the
	// almacen runs without a database (unit tests).
	Antes func(ctx context.Context, tx *gorm.DB, doc Documento) error
}

// Cascada is a cross-document side effect bound to (tipo, accion), executed
// inside the same transaction as the transition itself. Used for the anticipo
// liquidation when a rendición is validated.
type Cascada func(ctx context.Context, tx *gorm.DB, doc Documento) error

// Almacen is the storage surface the executor requires. The gorm-backed
// implementation lives in internal/repository; tests use an in-memory one.
type Almacen interface {
	EnTransaccion(ctx context.Context, fn func(tx *gorm.DB) error) error
	// ObtenerParaActualizar fetches the document with a row lock (FOR UPDATE)
	// so two concurrent transitions serialize on the same row.
	ObtenerParaActualizar(ctx context.Context, tx *gorm.DB, tipo model.TipoDocumento, id uuid.UUID) (Documento, error)
	Guardar(ctx context.Context, tx *gorm.DB, doc Documento) error
	// MontosLineas returns the amounts of the document's current child lines
	// (gasto lineas, items, pagos) as a read snapshot for guards and totals.
	MontosLineas(ctx context.Context, tx *gorm.DB, tipo model.TipoDocumento, id uuid.UUID) ([]decimal.Decimal, error)
	// TiposAdjuntos returns the distinct attachment tipos present on the
	// document, for completeness guards. Metadata only — never file bytes.
	TiposAdjuntos(ctx context.Context, tx *gorm.DB, tipo model.TipoDocumento, id uuid.UUID) ([]string, error)
	CrearEvento(ctx context.Context, tx *gorm.DB, ev *model.EventoAuditoria) error
}

// Notificador receives fire-and-forget transition notices after commit.
// Implementations must never block or return an error into the transition.
type Notificador interface {
	TransicionAplicada(ctx context.Context, doc Documento, accion model.AccionDocumento, actor Actor, anterior, nuevo model.EstadoDocumento)
}
