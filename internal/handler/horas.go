package handler

import (
	"fmt"
	"net/http"
	"time"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/dto"
	"gyscontrol/internal/middleware"
	"gyscontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HorasHandler struct{ svc service.HorasService }

func NewHorasHandler(svc service.HorasService) *HorasHandler { return &HorasHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar horas trabajadas
// @Tags         horas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarHorasRequest true "Registro de horas"
// @Success      201  {object} dto.RegistroHorasResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/horas [post]
func (h *HorasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarHorasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	colaboradorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Registrar(c.Request.Context(), colaboradorID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Revisar godoc
// @Summary      Aprobar o rechazar un registro de horas
// @Description  Solo registros pendientes. Rechazar exige un motivo.
// @Tags         horas
// @Security     BearerAuth
// @Param        id   path string                 true "UUID del registro"
// @Param        body body dto.RevisarHorasRequest true "Veredicto"
// @Success      200  {object} dto.RegistroHorasResponse
// @Router       /v1/horas/{id}/revision [post]
func (h *HorasHandler) Revisar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RevisarHorasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Revisar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Corregir godoc
// @Summary      Corregir un registro rechazado
// @Description  Solo el colaborador dueño puede corregir; el registro vuelve a pendiente.
// @Tags         horas
// @Security     BearerAuth
// @Param        id   path string                   true "UUID del registro"
// @Param        body body dto.RegistrarHorasRequest true "Datos corregidos"
// @Success      200  {object} dto.RegistroHorasResponse
// @Router       /v1/horas/{id} [put]
func (h *HorasHandler) Corregir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarHorasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	colaboradorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Corregir(c.Request.Context(), id, colaboradorID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPendientes godoc
// @Summary      Registros de horas pendientes de revisión
// @Tags         horas
// @Security     BearerAuth
// @Success      200 {array} dto.RegistroHorasResponse
// @Router       /v1/horas/pendientes [get]
func (h *HorasHandler) ListPendientes(c *gin.Context) {
	resp, err := h.svc.ListPendientes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar registros"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPorProyecto godoc
// @Summary      Registros de horas de un proyecto
// @Tags         horas
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del proyecto"
// @Param        desde query string false "Fecha inicial (YYYY-MM-DD)"
// @Param        hasta query string false "Fecha final (YYYY-MM-DD)"
// @Success      200 {array} dto.RegistroHorasResponse
// @Router       /v1/horas/proyectos/{id} [get]
func (h *HorasHandler) ListPorProyecto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	desde, hasta, err := rangoFechas(c.Query("desde"), c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListPorProyecto(c.Request.Context(), id, desde, hasta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar registros"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumenSemanal godoc
// @Summary      Resumen semanal de horas con sobretiempo
// @Description  Calcula horas normales, extra al 25% y extra al 100% para la semana que inicia en la fecha dada.
// @Tags         horas
// @Security     BearerAuth
// @Param        semana query string true "Lunes de la semana (YYYY-MM-DD)"
// @Success      200 {object} dto.ResumenSemanalResponse
// @Router       /v1/horas/resumen-semanal [get]
func (h *HorasHandler) ResumenSemanal(c *gin.Context) {
	semana, err := time.Parse("2006-01-02", c.Query("semana"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("semana invalida, se espera YYYY-MM-DD"))
		return
	}
	claims := middleware.GetClaims(c)
	colaboradorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ResumenSemanal(c.Request.Context(), colaboradorID, semana)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// rangoFechas interpreta los límites opcionales de un listado por fechas.
// Sin desde se asume el inicio de epoch; sin hasta, el momento actual.
func rangoFechas(desdeStr, hastaStr string) (time.Time, time.Time, error) {
	desde := time.Unix(0, 0)
	hasta := time.Now()
	if desdeStr != "" {
		t, err := time.Parse("2006-01-02", desdeStr)
		if err != nil {
			return desde, hasta, fmt.Errorf("desde invalido, se espera YYYY-MM-DD")
		}
		desde = t
	}
	if hastaStr != "" {
		t, err := time.Parse("2006-01-02", hastaStr)
		if err != nil {
			return desde, hasta, fmt.Errorf("hasta invalido, se espera YYYY-MM-DD")
		}
		hasta = t.Add(24 * time.Hour)
	}
	return desde, hasta, nil
}
