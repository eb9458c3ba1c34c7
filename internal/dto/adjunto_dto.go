package dto

// SubirAdjuntoRequest acompaña al archivo multipart. Exactamente uno de los
// campos de dueño debe venir presente.
type SubirAdjuntoRequest struct {
	Tipo          string  `form:"tipo"            validate:"required,oneof=factura boleta comprobante_deposito comprobante_pago otro"`
	HojaGastosID  *string `form:"hoja_gastos_id"  validate:"omitempty,uuid"`
	GastoLineaID  *string `form:"gasto_linea_id"  validate:"omitempty,uuid"`
	CuentaPagarID *string `form:"cuenta_pagar_id" validate:"omitempty,uuid"`
	OrdenCompraID *string `form:"orden_compra_id" validate:"omitempty,uuid"`
}

type AdjuntoResponse struct {
	ID        string `json:"id"`
	Tipo      string `json:"tipo"`
	Nombre    string `json:"nombre"`
	URL       string `json:"url"`
	Tamano    int64  `json:"tamano"`
	SubidoPor string `json:"subido_por"`
	CreatedAt string `json:"created_at"`
}
