package workflow_test

import (
	"testing"

	"gyscontrol/internal/model"
	"gyscontrol/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccionesDesde(t *testing.T) {
	acciones := workflow.AccionesDesde(model.TipoHojaGastos, model.EstadoAprobado)
	assert.ElementsMatch(t, []model.AccionDocumento{model.AccionDepositar, model.AccionRendir}, acciones)

	acciones = workflow.AccionesDesde(model.TipoCuentaCobrar, model.EstadoParcial)
	assert.ElementsMatch(t, []model.AccionDocumento{model.AccionCobrarParcial, model.AccionCobrarTotal}, acciones)

	// Un estado terminal no ofrece acciones.
	assert.Empty(t, workflow.AccionesDesde(model.TipoHojaGastos, model.EstadoCancelado))
}

func TestTransicionPara(t *testing.T) {
	tr, ok := workflow.TransicionPara(model.TipoOrdenCompra, model.EstadoAprobado, model.AccionAtender)
	require.True(t, ok)
	assert.Equal(t, model.EstadoAtendido, tr.Hacia)

	_, ok = workflow.TransicionPara(model.TipoOrdenCompra, model.EstadoBorrador, model.AccionAprobar)
	assert.False(t, ok)
}

func TestEstadosTerminales(t *testing.T) {
	casos := []struct {
		tipo     model.TipoDocumento
		estado   model.EstadoDocumento
		terminal bool
	}{
		{model.TipoHojaGastos, model.EstadoCerrado, true},
		{model.TipoHojaGastos, model.EstadoCancelado, true},
		{model.TipoHojaGastos, model.EstadoRechazado, false},
		{model.TipoCuentaCobrar, model.EstadoAnulada, true},
		{model.TipoCuentaCobrar, model.EstadoPagada, false}, // admite cerrar
		{model.TipoCotizacion, model.EstadoAprobado, true},
		{model.TipoCotizacion, model.EstadoRechazado, false}, // admite reenviar
	}
	for _, c := range casos {
		assert.Equal(t, c.terminal, workflow.EsTerminal(c.tipo, c.estado),
			"%s / %s", c.tipo, c.estado)
	}
}

func TestEstadosAlcanzables(t *testing.T) {
	estados := workflow.Estados(model.TipoCuentaPagar)
	assert.Equal(t, model.EstadoBorrador, estados[0])
	assert.Contains(t, estados, model.EstadoPagada)
	assert.Contains(t, estados, model.EstadoAnulada)
	assert.NotContains(t, estados, model.EstadoDepositado)
}
