package service_test

import (
	"testing"

	"gyscontrol/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalcularSobretiempo_SemanaNormal(t *testing.T) {
	r := service.CalcularSobretiempo(d(38))

	assert.True(t, r.HorasNormales.Equal(d(38)))
	assert.True(t, r.Sobretiempo25.IsZero())
	assert.True(t, r.Sobretiempo100.IsZero())
	assert.True(t, r.HorasPonderadas.Equal(d(38)))
}

func TestCalcularSobretiempo_ExactoUmbral(t *testing.T) {
	r := service.CalcularSobretiempo(d(40))

	assert.True(t, r.HorasNormales.Equal(d(40)))
	assert.True(t, r.Sobretiempo25.IsZero())
	assert.True(t, r.HorasPonderadas.Equal(d(40)))
}

func TestCalcularSobretiempo_PrimerTramo(t *testing.T) {
	// 45h: 40 normales + 5 al 25%
	r := service.CalcularSobretiempo(d(45))

	assert.True(t, r.HorasNormales.Equal(d(40)))
	assert.True(t, r.Sobretiempo25.Equal(d(5)))
	assert.True(t, r.Sobretiempo100.IsZero())
	// 40 + 5*1.25 = 46.25
	assert.Equal(t, "46.25", r.HorasPonderadas.String())
}

func TestCalcularSobretiempo_SegundoTramo(t *testing.T) {
	// 52h: 40 normales + 8 al 25% + 4 al 100%
	r := service.CalcularSobretiempo(d(52))

	assert.True(t, r.HorasNormales.Equal(d(40)))
	assert.True(t, r.Sobretiempo25.Equal(d(8)))
	assert.True(t, r.Sobretiempo100.Equal(d(4)))
	// 40 + 8*1.25 + 4*2 = 58
	assert.True(t, r.HorasPonderadas.Equal(d(58)))
}

func TestCalcularSobretiempo_SinHoras(t *testing.T) {
	r := service.CalcularSobretiempo(decimal.Zero)

	assert.True(t, r.HorasTotales.IsZero())
	assert.True(t, r.HorasPonderadas.IsZero())
}
