package workflow

import "gyscontrol/internal/model"

// Transicion is one legal edge in a document type's lifecycle.
type Transicion struct {
	Desde  model.EstadoDocumento
	Accion model.AccionDocumento
	Hacia  model.EstadoDocumento
	// Guardias run in order; the first failure aborts the transition.
	Guardias []Guardia
	// RecalcularTotales forces the derived monetary fields to be recomputed
	// from the current child lines, even if no line changed since the last
	// recompute (drift guard).
	RecalcularTotales bool
}

// tablas declares every legal transition per document type. Estados cerrado,
// cancelado and anulada have no outgoing edges (terminal); rechazado re-enters
// enviado via enviar, with no resubmission cap.
var tablas = map[model.TipoDocumento][]Transicion{
	model.TipoHojaGastos: {
		{Desde: model.EstadoBorrador, Accion: model.AccionEnviar, Hacia: model.EstadoEnviado},
		{Desde: model.EstadoBorrador, Accion: model.AccionCancelar, Hacia: model.EstadoCancelado, Guardias: []Guardia{GuardiaPropietario}},
		{Desde: model.EstadoEnviado, Accion: model.AccionAprobar, Hacia: model.EstadoAprobado},
		{Desde: model.EstadoEnviado, Accion: model.AccionRechazar, Hacia: model.EstadoRechazado},
		{Desde: model.EstadoEnviado, Accion: model.AccionCancelar, Hacia: model.EstadoCancelado, Guardias: []Guardia{GuardiaPropietario}},
		{Desde: model.EstadoAprobado, Accion: model.AccionDepositar, Hacia: model.EstadoDepositado, Guardias: []Guardia{GuardiaMontoPositivo}, RecalcularTotales: true},
		// Hojas sin anticipo rinden directamente desde aprobado.
		{Desde: model.EstadoAprobado, Accion: model.AccionRendir, Hacia: model.EstadoRendido, Guardias: []Guardia{GuardiaConLineas}, RecalcularTotales: true},
		{Desde: model.EstadoDepositado, Accion: model.AccionRendir, Hacia: model.EstadoRendido, Guardias: []Guardia{GuardiaConLineas}, RecalcularTotales: true},
		{Desde: model.EstadoRendido, Accion: model.AccionAprobar, Hacia: model.EstadoValidado},
		{Desde: model.EstadoRendido, Accion: model.AccionRechazar, Hacia: model.EstadoRechazado},
		{Desde: model.EstadoValidado, Accion: model.AccionCerrar, Hacia: model.EstadoCerrado},
		{Desde: model.EstadoRechazado, Accion: model.AccionEnviar, Hacia: model.EstadoEnviado, Guardias: []Guardia{GuardiaPropietario}},
	},
	model.TipoOrdenCompra: {
		{Desde: model.EstadoBorrador, Accion: model.AccionEnviar, Hacia: model.EstadoEnviado, Guardias: []Guardia{GuardiaConLineas}},
		{Desde: model.EstadoBorrador, Accion: model.AccionCancelar, Hacia: model.EstadoCancelado, Guardias: []Guardia{GuardiaPropietario}},
		{Desde: model.EstadoEnviado, Accion: model.AccionAprobar, Hacia: model.EstadoAprobado},
		{Desde: model.EstadoEnviado, Accion: model.AccionRechazar, Hacia: model.EstadoRechazado},
		{Desde: model.EstadoEnviado, Accion: model.AccionCancelar, Hacia: model.EstadoCancelado, Guardias: []Guardia{GuardiaPropietario}},
		{Desde: model.EstadoAprobado, Accion: model.AccionAtender, Hacia: model.EstadoAtendido},
		{Desde: model.EstadoAtendido, Accion: model.AccionCerrar, Hacia: model.EstadoCerrado},
		{Desde: model.EstadoRechazado, Accion: model.AccionEnviar, Hacia: model.EstadoEnviado, Guardias: []Guardia{GuardiaPropietario}},
	},
	model.TipoCuentaCobrar: {
		{Desde: model.EstadoBorrador, Accion: model.AccionEmitir, Hacia: model.EstadoEmitida},
		{Desde: model.EstadoBorrador, Accion: model.AccionAnular, Hacia: model.EstadoAnulada},
		{Desde: model.EstadoEmitida, Accion: model.AccionCobrarParcial, Hacia: model.EstadoParcial, Guardias: []Guardia{GuardiaMontoPositivo, GuardiaCobroParcial}, RecalcularTotales: true},
		{Desde: model.EstadoEmitida, Accion: model.AccionCobrarTotal, Hacia: model.EstadoPagada, Guardias: []Guardia{GuardiaMontoPositivo, GuardiaCubreSaldo}, RecalcularTotales: true},
		{Desde: model.EstadoEmitida, Accion: model.AccionAnular, Hacia: model.EstadoAnulada},
		{Desde: model.EstadoParcial, Accion: model.AccionCobrarParcial, Hacia: model.EstadoParcial, Guardias: []Guardia{GuardiaMontoPositivo, GuardiaCobroParcial}, RecalcularTotales: true},
		{Desde: model.EstadoParcial, Accion: model.AccionCobrarTotal, Hacia: model.EstadoPagada, Guardias: []Guardia{GuardiaMontoPositivo, GuardiaCubreSaldo}, RecalcularTotales: true},
		{Desde: model.EstadoPagada, Accion: model.AccionCerrar, Hacia: model.EstadoCerrado},
	},
	model.TipoCuentaPagar: {
		{Desde: model.EstadoBorrador, Accion: model.AccionEmitir, Hacia: model.EstadoEmitida},
		{Desde: model.EstadoBorrador, Accion: model.AccionAnular, Hacia: model.EstadoAnulada},
		{Desde: model.EstadoEmitida, Accion: model.AccionAprobar, Hacia: model.EstadoAprobado},
		{Desde: model.EstadoEmitida, Accion: model.AccionAnular, Hacia: model.EstadoAnulada},
		{Desde: model.EstadoAprobado, Accion: model.AccionPagar, Hacia: model.EstadoPagada, Guardias: []Guardia{GuardiaMontoPositivo, GuardiaAdjunto("comprobante_pago")}},
		{Desde: model.EstadoPagada, Accion: model.AccionCerrar, Hacia: model.EstadoCerrado},
	},
	model.TipoCotizacion: {
		{Desde: model.EstadoBorrador, Accion: model.AccionEnviar, Hacia: model.EstadoEnviado, Guardias: []Guardia{GuardiaConLineas}},
		{Desde: model.EstadoBorrador, Accion: model.AccionCancelar, Hacia: model.EstadoCancelado, Guardias: []Guardia{GuardiaPropietario}},
		{Desde: model.EstadoEnviado, Accion: model.AccionAprobar, Hacia: model.EstadoAprobado},
		{Desde: model.EstadoEnviado, Accion: model.AccionRechazar, Hacia: model.EstadoRechazado},
		{Desde: model.EstadoRechazado, Accion: model.AccionEnviar, Hacia: model.EstadoEnviado, Guardias: []Guardia{GuardiaPropietario}},
	},
}

// permisos is the declarative role allow-list per (tipo, accion), loaded once
// at process start. Actions without an entry are open to any authenticated
// role; creation/edition authorization stays at the route layer.
var permisos = map[model.TipoDocumento]map[model.AccionDocumento][]string{
	model.TipoHojaGastos: {
		model.AccionAprobar:   {model.RolAdmin, model.RolGerente, model.RolCoordinador},
		model.AccionRechazar:  {model.RolAdmin, model.RolGerente, model.RolCoordinador},
		model.AccionDepositar: {model.RolAdmin, model.RolAdministracion},
		model.AccionCerrar:    {model.RolAdmin, model.RolGerente, model.RolCoordinador, model.RolAdministracion},
	},
	model.TipoOrdenCompra: {
		model.AccionAprobar:  {model.RolAdmin, model.RolGerente},
		model.AccionRechazar: {model.RolAdmin, model.RolGerente},
		model.AccionAtender:  {model.RolAdmin, model.RolAdministracion},
		model.AccionCerrar:   {model.RolAdmin, model.RolGerente, model.RolCoordinador, model.RolAdministracion},
	},
	model.TipoCuentaCobrar: {
		model.AccionEmitir:        {model.RolAdmin, model.RolAdministracion},
		model.AccionCobrarParcial: {model.RolAdmin, model.RolAdministracion},
		model.AccionCobrarTotal:   {model.RolAdmin, model.RolAdministracion},
		model.AccionAnular:        {model.RolAdmin, model.RolGerente, model.RolAdministracion},
		model.AccionCerrar:        {model.RolAdmin, model.RolGerente, model.RolAdministracion},
	},
	model.TipoCuentaPagar: {
		model.AccionEmitir:  {model.RolAdmin, model.RolAdministracion},
		model.AccionAprobar: {model.RolAdmin, model.RolGerente},
		model.AccionPagar:   {model.RolAdmin, model.RolAdministracion},
		model.AccionAnular:  {model.RolAdmin, model.RolGerente, model.RolAdministracion},
		model.AccionCerrar:  {model.RolAdmin, model.RolGerente, model.RolAdministracion},
	},
	model.TipoCotizacion: {
		model.AccionAprobar:  {model.RolAdmin, model.RolGerente, model.RolCoordinador},
		model.AccionRechazar: {model.RolAdmin, model.RolGerente, model.RolCoordinador},
	},
}

// TransicionPara returns the declared transition for (tipo, desde, accion).
func TransicionPara(tipo model.TipoDocumento, desde model.EstadoDocumento, accion model.AccionDocumento) (Transicion, bool) {
	for _, tr := range tablas[tipo] {
		if tr.Desde == desde && tr.Accion == accion {
			return tr, true
		}
	}
	return Transicion{}, false
}

// AccionesDesde lists the actions legal from an estado, for UI menus.
func AccionesDesde(tipo model.TipoDocumento, desde model.EstadoDocumento) []model.AccionDocumento {
	var acciones []model.AccionDocumento
	for _, tr := range tablas[tipo] {
		if tr.Desde == desde {
			acciones = append(acciones, tr.Accion)
		}
	}
	return acciones
}

// EsTerminal reports whether an estado has no outgoing edges for the tipo.
func EsTerminal(tipo model.TipoDocumento, estado model.EstadoDocumento) bool {
	return len(AccionesDesde(tipo, estado)) == 0
}

// Estados returns the distinct estados reachable for a tipo, initial first.
func Estados(tipo model.TipoDocumento) []model.EstadoDocumento {
	vistos := map[model.EstadoDocumento]bool{}
	var orden []model.EstadoDocumento
	add := func(e model.EstadoDocumento) {
		if !vistos[e] {
			vistos[e] = true
			orden = append(orden, e)
		}
	}
	for _, tr := range tablas[tipo] {
		add(tr.Desde)
		add(tr.Hacia)
	}
	return orden
}
