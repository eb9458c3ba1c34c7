package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCuentaCobrarRequest struct {
	ClienteNombre    string          `json:"cliente_nombre"    validate:"required,min=3,max=200"`
	ClienteRUC       *string         `json:"cliente_ruc"       validate:"omitempty,len=11"`
	ProyectoID       *string         `json:"proyecto_id"       validate:"omitempty,uuid"`
	MontoTotal       decimal.Decimal `json:"monto_total"       validate:"required"`
	FechaVencimiento string          `json:"fecha_vencimiento" validate:"required,datetime=2006-01-02"`
	Moneda           string          `json:"moneda"            validate:"omitempty,oneof=PEN USD"`
}

// RegistrarCobroRequest feeds cobrar_parcial / cobrar_total.
type RegistrarCobroRequest struct {
	Monto            decimal.Decimal `json:"monto"              validate:"required"`
	Metodo           string          `json:"metodo"             validate:"required,oneof=efectivo transferencia cheque deposito"`
	CuentaBancariaID *string         `json:"cuenta_bancaria_id" validate:"omitempty,uuid"`
	Referencia       *string         `json:"referencia"         validate:"omitempty,max=100"`
	EstadoEsperado   string          `json:"estado_esperado"    validate:"omitempty"`
}

type CrearCuentaPagarRequest struct {
	ProveedorID      string          `json:"proveedor_id"      validate:"required,uuid"`
	OrdenCompraID    *string         `json:"orden_compra_id"   validate:"omitempty,uuid"`
	MontoTotal       decimal.Decimal `json:"monto_total"       validate:"required"`
	FechaVencimiento string          `json:"fecha_vencimiento" validate:"required,datetime=2006-01-02"`
	Moneda           string          `json:"moneda"            validate:"omitempty,oneof=PEN USD"`
}

type CrearCuentaBancariaRequest struct {
	Banco        string          `json:"banco"         validate:"required,min=2,max=100"`
	NumeroCuenta string          `json:"numero_cuenta" validate:"required,min=8,max=30"`
	Moneda       string          `json:"moneda"        validate:"required,oneof=PEN USD"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type CuentaFilter struct {
	Estado      string `form:"estado"`
	ProyectoID  string `form:"proyecto_id"  validate:"omitempty,uuid"`
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoCobranzaResponse struct {
	ID         string          `json:"id"`
	Monto      decimal.Decimal `json:"monto"`
	Metodo     string          `json:"metodo"`
	Referencia *string         `json:"referencia"`
	Fecha      string          `json:"fecha"` // created_at del pago
}

type CuentaCobrarResponse struct {
	ID                  string                 `json:"id"`
	Codigo              string                 `json:"codigo"`
	ClienteNombre       string                 `json:"cliente_nombre"`
	ClienteRUC          *string                `json:"cliente_ruc"`
	ProyectoID          *string                `json:"proyecto_id"`
	MontoTotal          decimal.Decimal        `json:"monto_total"`
	MontoCobrado        decimal.Decimal        `json:"monto_cobrado"`
	Saldo               decimal.Decimal        `json:"saldo"`
	FechaVencimiento    string                 `json:"fecha_vencimiento"`
	DiasVencida         int                    `json:"dias_vencida"`
	Estado              string                 `json:"estado"`
	Pagos               []PagoCobranzaResponse `json:"pagos,omitempty"`
	AccionesDisponibles []string               `json:"acciones_disponibles"`
}

type CuentaCobrarListResponse struct {
	Data  []CuentaCobrarResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

type CuentaPagarResponse struct {
	ID                  string          `json:"id"`
	Codigo              string          `json:"codigo"`
	ProveedorID         string          `json:"proveedor_id"`
	OrdenCompraID       *string         `json:"orden_compra_id"`
	MontoTotal          decimal.Decimal `json:"monto_total"`
	FechaVencimiento    string          `json:"fecha_vencimiento"`
	Estado              string          `json:"estado"`
	AccionesDisponibles []string        `json:"acciones_disponibles"`
}

type CuentaPagarListResponse struct {
	Data  []CuentaPagarResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type CuentaBancariaResponse struct {
	ID           string          `json:"id"`
	Banco        string          `json:"banco"`
	NumeroCuenta string          `json:"numero_cuenta"`
	Moneda       string          `json:"moneda"`
	Saldo        decimal.Decimal `json:"saldo"`
	Activa       bool            `json:"activa"`
}

type MovimientoBancarioResponse struct {
	ID           string          `json:"id"`
	Tipo         string          `json:"tipo"`
	Monto        decimal.Decimal `json:"monto"`
	Descripcion  string          `json:"descripcion"`
	ReferenciaID *string         `json:"referencia_id"`
	CreatedAt    string          `json:"created_at"`
}

// ─── Aging report ────────────────────────────────────────────────────────────

// AgingBucket agrupa saldos pendientes por antigüedad de vencimiento.
type AgingBucket struct {
	Rango   string          `json:"rango"` // "0-30" | "31-60" | "61-90" | "90+"
	Cuentas int             `json:"cuentas"`
	Total   decimal.Decimal `json:"total"`
}

type AgingResponse struct {
	FechaCorte  string          `json:"fecha_corte"`
	Buckets     []AgingBucket   `json:"buckets"`
	TotalGlobal decimal.Decimal `json:"total_global"`
}
