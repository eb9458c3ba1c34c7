package service_test

import (
	"testing"
	"time"

	"gyscontrol/internal/model"
	"gyscontrol/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fase(nombre string, orden int, porcentaje int64) model.PlantillaFase {
	return model.PlantillaFase{
		Nombre:             nombre,
		Orden:              orden,
		PorcentajeDuracion: decimal.NewFromInt(porcentaje),
	}
}

func TestGenerarCronograma_RepartoProporcional(t *testing.T) {
	proyectoID := uuid.New()
	inicio := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fin := inicio.AddDate(0, 0, 100)

	fases := service.GenerarCronograma(proyectoID, inicio, fin, []model.PlantillaFase{
		fase("Ingeniería", 1, 20),
		fase("Procura", 2, 30),
		fase("Construcción", 3, 50),
	})

	require.Len(t, fases, 3)

	// Continuidad: cada fase arranca donde terminó la anterior.
	assert.Equal(t, inicio, fases[0].FechaInicio)
	for i := 1; i < len(fases); i++ {
		assert.Equal(t, fases[i-1].FechaFin, fases[i].FechaInicio)
	}

	// La última fase absorbe el redondeo y termina exactamente en fin.
	assert.Equal(t, fin, fases[2].FechaFin)

	// 20% de 100 días = 20 días; 30% = 30 días.
	assert.Equal(t, 20.0, fases[0].FechaFin.Sub(fases[0].FechaInicio).Hours()/24)
	assert.Equal(t, 30.0, fases[1].FechaFin.Sub(fases[1].FechaInicio).Hours()/24)

	for _, f := range fases {
		assert.Equal(t, proyectoID, f.ProyectoID)
		assert.Equal(t, "pendiente", f.Estado)
	}
}

func TestGenerarCronograma_FaseMinimaUnDia(t *testing.T) {
	inicio := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fin := inicio.AddDate(0, 0, 10)

	// 1% de 10 días redondea a 0: se fuerza un día mínimo por fase.
	fases := service.GenerarCronograma(uuid.New(), inicio, fin, []model.PlantillaFase{
		fase("Kickoff", 1, 1),
		fase("Ejecución", 2, 99),
	})

	require.Len(t, fases, 2)
	assert.Equal(t, 1.0, fases[0].FechaFin.Sub(fases[0].FechaInicio).Hours()/24)
	assert.Equal(t, fin, fases[1].FechaFin)
}

func TestGenerarCronograma_UnaSolaFase(t *testing.T) {
	inicio := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fin := inicio.AddDate(0, 1, 0)

	fases := service.GenerarCronograma(uuid.New(), inicio, fin, []model.PlantillaFase{
		fase("Todo", 1, 100),
	})

	require.Len(t, fases, 1)
	assert.Equal(t, inicio, fases[0].FechaInicio)
	assert.Equal(t, fin, fases[0].FechaFin)
}

func TestGenerarCronograma_PlantillaVacia(t *testing.T) {
	fases := service.GenerarCronograma(uuid.New(), time.Now(), time.Now().AddDate(0, 0, 30), nil)
	assert.Nil(t, fases)
}
