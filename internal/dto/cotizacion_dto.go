package dto

import "github.com/shopspring/decimal"

type CrearCotizacionRequest struct {
	ClienteNombre string `json:"cliente_nombre" validate:"required,min=3,max=200"`
	Moneda        string `json:"moneda"         validate:"omitempty,oneof=PEN USD"`
}

type CotizacionLineaRequest struct {
	Descripcion    string          `json:"descripcion"     validate:"required,min=3,max=200"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
}

// CrearVersionRequest abre una nueva versión en borrador; las líneas se copian
// de la versión indicada cuando base_version_id viene presente.
type CrearVersionRequest struct {
	BaseVersionID *string `json:"base_version_id" validate:"omitempty,uuid"`
}

type CotizacionLineaResponse struct {
	ID             string          `json:"id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type CotizacionVersionResponse struct {
	ID                  string                    `json:"id"`
	Numero              int                       `json:"numero"`
	MontoTotal          decimal.Decimal           `json:"monto_total"`
	Estado              string                    `json:"estado"`
	Superada            bool                      `json:"superada"`
	Lineas              []CotizacionLineaResponse `json:"lineas,omitempty"`
	AccionesDisponibles []string                  `json:"acciones_disponibles"`
	CreatedAt           string                    `json:"created_at"`
}

type CotizacionResponse struct {
	ID            string                      `json:"id"`
	Codigo        string                      `json:"codigo"`
	ClienteNombre string                      `json:"cliente_nombre"`
	ComercialID   string                      `json:"comercial_id"`
	MontoTotal    decimal.Decimal             `json:"monto_total"`
	Moneda        string                      `json:"moneda"`
	Versiones     []CotizacionVersionResponse `json:"versiones,omitempty"`
	CreatedAt     string                      `json:"created_at"`
}
