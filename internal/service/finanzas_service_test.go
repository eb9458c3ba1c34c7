package service_test

import (
	"testing"
	"time"

	"gyscontrol/internal/model"
	"gyscontrol/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func cuentaVencida(saldo decimal.Decimal, diasVencida int, corte time.Time) model.CuentaCobrar {
	return model.CuentaCobrar{
		Saldo:            saldo,
		FechaVencimiento: corte.AddDate(0, 0, -diasVencida),
	}
}

func TestCalcularAging_Buckets(t *testing.T) {
	corte := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	cuentas := []model.CuentaCobrar{
		cuentaVencida(d(1000), 5, corte),   // 0-30
		cuentaVencida(d(2000), 30, corte),  // 0-30 (límite inclusive)
		cuentaVencida(d(500), 45, corte),   // 31-60
		cuentaVencida(d(800), 90, corte),   // 61-90 (límite inclusive)
		cuentaVencida(d(3000), 120, corte), // 90+
	}

	resp := service.CalcularAging(cuentas, corte)

	require.Len(t, resp.Buckets, 4)
	assert.Equal(t, "0-30", resp.Buckets[0].Rango)
	assert.Equal(t, 2, resp.Buckets[0].Cuentas)
	assert.True(t, resp.Buckets[0].Total.Equal(d(3000)))

	assert.Equal(t, 1, resp.Buckets[1].Cuentas)
	assert.True(t, resp.Buckets[1].Total.Equal(d(500)))

	assert.Equal(t, 1, resp.Buckets[2].Cuentas)
	assert.True(t, resp.Buckets[2].Total.Equal(d(800)))

	assert.Equal(t, "90+", resp.Buckets[3].Rango)
	assert.Equal(t, 1, resp.Buckets[3].Cuentas)
	assert.True(t, resp.Buckets[3].Total.Equal(d(3000)))

	assert.True(t, resp.TotalGlobal.Equal(d(7300)))
	assert.Equal(t, "2026-03-15", resp.FechaCorte)
}

func TestCalcularAging_NoVencidaCuentaEnPrimerRango(t *testing.T) {
	corte := time.Now()
	// Vence en 10 días: aún no vencida, cuenta como 0 días.
	cuentas := []model.CuentaCobrar{cuentaVencida(d(400), -10, corte)}

	resp := service.CalcularAging(cuentas, corte)

	assert.Equal(t, 1, resp.Buckets[0].Cuentas)
	assert.True(t, resp.TotalGlobal.Equal(d(400)))
}

func TestCalcularAging_IgnoraSaldosNoPositivos(t *testing.T) {
	corte := time.Now()
	cuentas := []model.CuentaCobrar{
		cuentaVencida(decimal.Zero, 40, corte),
		cuentaVencida(d(-100), 40, corte),
		cuentaVencida(d(250), 40, corte),
	}

	resp := service.CalcularAging(cuentas, corte)

	assert.Equal(t, 1, resp.Buckets[1].Cuentas)
	assert.True(t, resp.TotalGlobal.Equal(d(250)))
}

func TestCalcularAging_SinCuentas(t *testing.T) {
	resp := service.CalcularAging(nil, time.Now())

	require.Len(t, resp.Buckets, 4)
	for _, b := range resp.Buckets {
		assert.Zero(t, b.Cuentas)
		assert.True(t, b.Total.IsZero())
	}
	assert.True(t, resp.TotalGlobal.IsZero())
}
