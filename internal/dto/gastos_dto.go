package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearHojaGastosRequest struct {
	Descripcion      string          `json:"descripcion"       validate:"required,min=5,max=300"`
	ProyectoID       *string         `json:"proyecto_id"       validate:"omitempty,uuid"`
	RequiereAnticipo bool            `json:"requiere_anticipo"`
	MontoSolicitado  decimal.Decimal `json:"monto_solicitado" validate:"required"`
}

type ActualizarHojaGastosRequest struct {
	Descripcion     *string          `json:"descripcion"      validate:"omitempty,min=5,max=300"`
	ProyectoID      *string          `json:"proyecto_id"      validate:"omitempty,uuid"`
	MontoSolicitado *decimal.Decimal `json:"monto_solicitado"`
}

type CrearGastoLineaRequest struct {
	Fecha       string          `json:"fecha"       validate:"required,datetime=2006-01-02"`
	Descripcion string          `json:"descripcion" validate:"required,min=3,max=200"`
	Categoria   string          `json:"categoria"   validate:"required,oneof=transporte alimentacion hospedaje materiales otros"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Moneda      string          `json:"moneda"      validate:"omitempty,oneof=PEN USD"`
}

type ActualizarGastoLineaRequest struct {
	Fecha       *string          `json:"fecha"       validate:"omitempty,datetime=2006-01-02"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,min=3,max=200"`
	Categoria   *string          `json:"categoria"   validate:"omitempty,oneof=transporte alimentacion hospedaje materiales otros"`
	Monto       *decimal.Decimal `json:"monto"`
}

// TransicionRequest is shared by every lifecycle endpoint: POST
// /v1/gastos/hojas/:id/transiciones, /v1/compras/ordenes/:id/transiciones, etc.
type TransicionRequest struct {
	Accion     string           `json:"accion"          validate:"required"`
	Comentario string           `json:"comentario"      validate:"omitempty,max=500"`
	Monto      *decimal.Decimal `json:"monto"`
	// EstadoEsperado guards against acting on a stale view of the document.
	EstadoEsperado string `json:"estado_esperado" validate:"omitempty"`
	// CuentaBancariaID is required for depositar and pagar.
	CuentaBancariaID *string `json:"cuenta_bancaria_id" validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type HojaGastosFilter struct {
	Estado        string `form:"estado"`
	ProyectoID    string `form:"proyecto_id"    validate:"omitempty,uuid"`
	SolicitanteID string `form:"solicitante_id" validate:"omitempty,uuid"`
	Page          int    `form:"page,default=1"  validate:"min=1"`
	Limit         int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GastoLineaResponse struct {
	ID          string          `json:"id"`
	Fecha       string          `json:"fecha"`
	Descripcion string          `json:"descripcion"`
	Categoria   string          `json:"categoria"`
	Monto       decimal.Decimal `json:"monto"`
	Moneda      string          `json:"moneda"`
}

type HojaGastosResponse struct {
	ID                string               `json:"id"`
	Codigo            string               `json:"codigo"`
	Descripcion       string               `json:"descripcion"`
	ProyectoID        *string              `json:"proyecto_id"`
	SolicitanteID     string               `json:"solicitante_id"`
	RequiereAnticipo  bool                 `json:"requiere_anticipo"`
	MontoSolicitado   decimal.Decimal      `json:"monto_solicitado"`
	MontoDepositado   decimal.Decimal      `json:"monto_depositado"`
	MontoGastado      decimal.Decimal      `json:"monto_gastado"`
	Saldo             decimal.Decimal      `json:"saldo"`
	PorcentajeRendido decimal.Decimal      `json:"porcentaje_rendido"`
	Estado            string               `json:"estado"`
	Lineas            []GastoLineaResponse `json:"lineas,omitempty"`
	// AccionesDisponibles lists the transitions legal for the current estado,
	// so the frontend renders only buttons that can succeed.
	AccionesDisponibles []string `json:"acciones_disponibles"`
	CreatedAt           string   `json:"created_at"`
}

type HojaGastosListResponse struct {
	Data  []HojaGastosResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type AnticipoResponse struct {
	ID             string          `json:"id"`
	HojaGastosID   string          `json:"hoja_gastos_id"`
	MontoOtorgado  decimal.Decimal `json:"monto_otorgado"`
	MontoLiquidado decimal.Decimal `json:"monto_liquidado"`
	MontoPendiente decimal.Decimal `json:"monto_pendiente"`
	Estado         string          `json:"estado"`
}
