package model

// Tipos y estados compartidos por todos los documentos con ciclo de vida.
// Los valores se persisten tal cual en la columna estado de cada tabla,
// por lo que NUNCA deben renombrarse sin una migración de datos.

// TipoDocumento identifies which lifecycle table governs a document.
type TipoDocumento string

const (
	TipoHojaGastos   TipoDocumento = "hoja_gastos"
	TipoOrdenCompra  TipoDocumento = "orden_compra"
	TipoCuentaCobrar TipoDocumento = "cuenta_cobrar"
	TipoCuentaPagar  TipoDocumento = "cuenta_pagar"
	TipoCotizacion   TipoDocumento = "cotizacion"
)

// EstadoDocumento is a named lifecycle state. Not every estado applies to
// every tipo — the transition table declares which subset each tipo uses.
type EstadoDocumento string

const (
	EstadoBorrador   EstadoDocumento = "borrador"
	EstadoEnviado    EstadoDocumento = "enviado"
	EstadoAprobado   EstadoDocumento = "aprobado"
	EstadoDepositado EstadoDocumento = "depositado"
	EstadoRendido    EstadoDocumento = "rendido"
	EstadoValidado   EstadoDocumento = "validado"
	EstadoCerrado    EstadoDocumento = "cerrado"
	EstadoRechazado  EstadoDocumento = "rechazado"
	EstadoCancelado  EstadoDocumento = "cancelado"

	// Estados propios de cuentas por cobrar / pagar
	EstadoEmitida EstadoDocumento = "emitida"
	EstadoParcial EstadoDocumento = "parcial"
	EstadoPagada  EstadoDocumento = "pagada"
	EstadoAnulada EstadoDocumento = "anulada"

	// Estado propio de órdenes de compra
	EstadoAtendido EstadoDocumento = "atendido"
)

// AccionDocumento is a named transition request against a document.
type AccionDocumento string

const (
	AccionEnviar        AccionDocumento = "enviar"
	AccionAprobar       AccionDocumento = "aprobar"
	AccionRechazar      AccionDocumento = "rechazar"
	AccionCancelar      AccionDocumento = "cancelar"
	AccionDepositar     AccionDocumento = "depositar"
	AccionRendir        AccionDocumento = "rendir"
	AccionCerrar        AccionDocumento = "cerrar"
	AccionEmitir        AccionDocumento = "emitir"
	AccionCobrarParcial AccionDocumento = "cobrar_parcial"
	AccionCobrarTotal   AccionDocumento = "cobrar_total"
	AccionPagar         AccionDocumento = "pagar"
	AccionAtender       AccionDocumento = "atender"
	AccionAnular        AccionDocumento = "anular"
)
