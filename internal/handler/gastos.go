package handler

import (
	"net/http"
	"path/filepath"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/dto"
	"gyscontrol/internal/middleware"
	"gyscontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GastosHandler struct{ svc service.GastosService }

func NewGastosHandler(svc service.GastosService) *GastosHandler { return &GastosHandler{svc: svc} }

// CrearHoja godoc
// @Summary      Crear hoja de gastos
// @Description  Crea una hoja de gastos en borrador con correlativo HG-NNNN.
// @Tags         gastos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearHojaGastosRequest true "Datos de la hoja"
// @Success      201  {object} dto.HojaGastosResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/gastos/hojas [post]
func (h *GastosHandler) CrearHoja(c *gin.Context) {
	var req dto.CrearHojaGastosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	solicitanteID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearHoja(c.Request.Context(), solicitanteID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarHoja godoc
// @Summary      Actualizar hoja de gastos
// @Description  Edita la cabecera. Solo en borrador o rechazado, y solo el solicitante.
// @Tags         gastos
// @Security     BearerAuth
// @Param        id   path string                         true "UUID de la hoja"
// @Param        body body dto.ActualizarHojaGastosRequest true "Cambios"
// @Success      200  {object} dto.HojaGastosResponse
// @Router       /v1/gastos/hojas/{id} [patch]
func (h *GastosHandler) ActualizarHoja(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarHojaGastosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorDesdeClaims(c)
	resp, err := h.svc.ActualizarHoja(c.Request.Context(), id, actor.ID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetHoja godoc
// @Summary      Detalle de hoja de gastos
// @Tags         gastos
// @Security     BearerAuth
// @Param        id path string true "UUID de la hoja"
// @Success      200 {object} dto.HojaGastosResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/gastos/hojas/{id} [get]
func (h *GastosHandler) GetHoja(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.GetHoja(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListHojas godoc
// @Summary      Listar hojas de gastos
// @Tags         gastos
// @Security     BearerAuth
// @Param        estado        query string false "Filtro por estado"
// @Param        solicitante_id query string false "Filtro por solicitante"
// @Param        page          query int    false "Página (default 1)"
// @Param        limit         query int    false "Registros por página (default 20)"
// @Success      200 {object} dto.HojaGastosListResponse
// @Router       /v1/gastos/hojas [get]
func (h *GastosHandler) ListHojas(c *gin.Context) {
	var filter dto.HojaGastosFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListHojas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar hojas de gastos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarLinea godoc
// @Summary      Agregar línea de gasto
// @Description  Agrega una línea a la hoja. Permitido en borrador, aprobado, depositado y rechazado.
// @Tags         gastos
// @Security     BearerAuth
// @Param        id   path string                    true "UUID de la hoja"
// @Param        body body dto.CrearGastoLineaRequest true "Línea de gasto"
// @Success      201  {object} dto.HojaGastosResponse
// @Router       /v1/gastos/hojas/{id}/lineas [post]
func (h *GastosHandler) AgregarLinea(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearGastoLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorDesdeClaims(c)
	resp, err := h.svc.AgregarLinea(c.Request.Context(), id, actor.ID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarLinea godoc
// @Summary      Actualizar línea de gasto
// @Tags         gastos
// @Security     BearerAuth
// @Param        id       path string                        true "UUID de la hoja"
// @Param        linea_id path string                        true "UUID de la línea"
// @Param        body     body dto.ActualizarGastoLineaRequest true "Cambios"
// @Success      200      {object} dto.HojaGastosResponse
// @Router       /v1/gastos/hojas/{id}/lineas/{linea_id} [patch]
func (h *GastosHandler) ActualizarLinea(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	lineaID, err := uuid.Parse(c.Param("linea_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linea invalido"))
		return
	}
	var req dto.ActualizarGastoLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorDesdeClaims(c)
	resp, err := h.svc.ActualizarLinea(c.Request.Context(), id, lineaID, actor.ID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarLinea godoc
// @Summary      Eliminar línea de gasto
// @Tags         gastos
// @Security     BearerAuth
// @Param        id       path string true "UUID de la hoja"
// @Param        linea_id path string true "UUID de la línea"
// @Success      200      {object} dto.HojaGastosResponse
// @Router       /v1/gastos/hojas/{id}/lineas/{linea_id} [delete]
func (h *GastosHandler) EliminarLinea(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	lineaID, err := uuid.Parse(c.Param("linea_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linea invalido"))
		return
	}
	actor := actorDesdeClaims(c)
	resp, err := h.svc.EliminarLinea(c.Request.Context(), id, lineaID, actor.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transicionar godoc
// @Summary      Aplicar acción de ciclo de vida
// @Description  Ejecuta una transición del documento (enviar, aprobar, depositar, rendir, cerrar, rechazar, cancelar) de forma atómica.
// @Tags         gastos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "UUID de la hoja"
// @Param        body body dto.TransicionRequest true "Acción y contexto"
// @Success      200  {object} dto.HojaGastosResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/gastos/hojas/{id}/transiciones [post]
func (h *GastosHandler) Transicionar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.TransicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transicionar(c.Request.Context(), id, actorDesdeClaims(c), req)
	if err != nil {
		responderTransicion(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RendicionPDF godoc
// @Summary      Descargar la rendición en PDF
// @Description  Genera y descarga el reporte imprimible de la rendición. Disponible desde que la hoja está rendida.
// @Tags         gastos
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la hoja"
// @Success      200 {file} file
// @Failure      400 {object} apierror.APIError
// @Router       /v1/gastos/hojas/{id}/pdf [get]
func (h *GastosHandler) RendicionPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	path, err := h.svc.GenerarRendicion(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
