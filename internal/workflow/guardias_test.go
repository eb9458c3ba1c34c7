package workflow_test

import (
	"testing"

	"gyscontrol/internal/model"
	"gyscontrol/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardiaPropietario(t *testing.T) {
	dueno := uuid.New()
	hoja := &model.HojaGastos{ID: uuid.New(), SolicitanteID: dueno}

	err := workflow.GuardiaPropietario(workflow.Contexto{
		Doc: hoja, Actor: workflow.Actor{ID: dueno, Rol: model.RolColaborador},
	})
	assert.NoError(t, err)

	err = workflow.GuardiaPropietario(workflow.Contexto{
		Doc: hoja, Actor: workflow.Actor{ID: uuid.New(), Rol: model.RolColaborador},
	})
	require.True(t, workflow.EsGuardError(err))
	assert.Contains(t, err.Error(), "creador")
}

func TestGuardiaConLineas(t *testing.T) {
	assert.Error(t, workflow.GuardiaConLineas(workflow.Contexto{Lineas: 0}))
	assert.NoError(t, workflow.GuardiaConLineas(workflow.Contexto{Lineas: 3}))
}

func TestGuardiaMontoPositivo(t *testing.T) {
	assert.Error(t, workflow.GuardiaMontoPositivo(workflow.Contexto{}))

	cero := decimal.Zero
	assert.Error(t, workflow.GuardiaMontoPositivo(workflow.Contexto{Monto: &cero}))

	negativo := decimal.NewFromInt(-10)
	assert.Error(t, workflow.GuardiaMontoPositivo(workflow.Contexto{Monto: &negativo}))

	positivo := decimal.NewFromInt(100)
	assert.NoError(t, workflow.GuardiaMontoPositivo(workflow.Contexto{Monto: &positivo}))
}

func TestGuardiaAdjunto(t *testing.T) {
	g := workflow.GuardiaAdjunto("comprobante_pago")

	err := g(workflow.Contexto{Adjuntos: []string{"factura"}})
	require.True(t, workflow.EsGuardError(err))
	assert.Contains(t, err.Error(), "comprobante_pago")

	assert.NoError(t, g(workflow.Contexto{Adjuntos: []string{"factura", "comprobante_pago"}}))
}

func TestGuardiasDeCobro(t *testing.T) {
	cuenta := &model.CuentaCobrar{
		ID:         uuid.New(),
		MontoTotal: decimal.NewFromInt(1000),
	}
	suma := decimal.NewFromInt(300) // cobros ya registrados

	// 300 pagados + 400 nuevos = 700 < 1000: parcial válido, total inválido.
	parcial := decimal.NewFromInt(400)
	ctx := workflow.Contexto{Doc: cuenta, SumaLineas: suma, Monto: &parcial}
	assert.NoError(t, workflow.GuardiaCobroParcial(ctx))
	assert.Error(t, workflow.GuardiaCubreSaldo(ctx))

	// 300 pagados + 700 nuevos = 1000: cubre el saldo, ya no es parcial.
	resto := decimal.NewFromInt(700)
	ctx = workflow.Contexto{Doc: cuenta, SumaLineas: suma, Monto: &resto}
	assert.Error(t, workflow.GuardiaCobroParcial(ctx))
	assert.NoError(t, workflow.GuardiaCubreSaldo(ctx))
}
