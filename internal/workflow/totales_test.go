package workflow_test

import (
	"testing"

	"gyscontrol/internal/workflow"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalcularTotales(t *testing.T) {
	tot := workflow.CalcularTotales(d(1000), []decimal.Decimal{d(250), d(150)})

	assert.True(t, tot.Acumulado.Equal(d(400)))
	assert.True(t, tot.Saldo.Equal(d(600)))
	assert.True(t, tot.Porcentaje.Equal(d(40)))
}

func TestCalcularTotalesSinLineas(t *testing.T) {
	tot := workflow.CalcularTotales(d(500), nil)

	assert.True(t, tot.Acumulado.IsZero())
	assert.True(t, tot.Saldo.Equal(d(500)))
	assert.True(t, tot.Porcentaje.IsZero())
}

func TestCalcularTotalesBaseCero(t *testing.T) {
	// Hoja sin depósito: el porcentaje no se calcula (división por cero).
	tot := workflow.CalcularTotales(decimal.Zero, []decimal.Decimal{d(100)})

	assert.True(t, tot.Acumulado.Equal(d(100)))
	assert.True(t, tot.Saldo.Equal(d(-100)))
	assert.True(t, tot.Porcentaje.IsZero())
}

func TestCalcularTotalesSobregiro(t *testing.T) {
	// Gastar más de lo depositado deja saldo negativo y porcentaje > 100.
	tot := workflow.CalcularTotales(d(400), []decimal.Decimal{d(300), d(200)})

	assert.True(t, tot.Saldo.Equal(d(-100)))
	assert.True(t, tot.Porcentaje.Equal(d(125)))
}

func TestCalcularTotalesRedondeo(t *testing.T) {
	tot := workflow.CalcularTotales(d(3), []decimal.Decimal{d(1)})

	// 1/3 = 33.33%, redondeado a dos decimales
	assert.Equal(t, "33.33", tot.Porcentaje.String())
}
