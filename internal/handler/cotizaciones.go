package handler

import (
	"net/http"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/dto"
	"gyscontrol/internal/middleware"
	"gyscontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CotizacionesHandler struct{ svc service.CotizacionesService }

func NewCotizacionesHandler(svc service.CotizacionesService) *CotizacionesHandler {
	return &CotizacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear cotización
// @Description  Crea una cotización con su versión 1 en borrador.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCotizacionRequest true "Datos de la cotización"
// @Success      201  {object} dto.CotizacionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cotizaciones [post]
func (h *CotizacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	comercialID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), comercialID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Detalle de cotización con sus versiones
// @Tags         cotizaciones
// @Security     BearerAuth
// @Param        id path string true "UUID de la cotización"
// @Success      200 {object} dto.CotizacionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cotizaciones/{id} [get]
func (h *CotizacionesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         cotizaciones
// @Security     BearerAuth
// @Param        cliente query string false "Filtro por nombre de cliente"
// @Success      200 {array} dto.CotizacionResponse
// @Router       /v1/cotizaciones [get]
func (h *CotizacionesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("cliente"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cotizaciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearVersion godoc
// @Summary      Crear nueva versión de cotización
// @Description  Numera la versión de forma incremental. Puede copiar las líneas de una versión base.
// @Tags         cotizaciones
// @Security     BearerAuth
// @Param        id   path string                 true "UUID de la cotización"
// @Param        body body dto.CrearVersionRequest true "Datos de la versión"
// @Success      201  {object} dto.CotizacionVersionResponse
// @Router       /v1/cotizaciones/{id}/versiones [post]
func (h *CotizacionesHandler) CrearVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearVersionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorDesdeClaims(c)
	resp, err := h.svc.CrearVersion(c.Request.Context(), id, actor.ID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetVersion godoc
// @Summary      Detalle de una versión de cotización
// @Tags         cotizaciones
// @Security     BearerAuth
// @Param        version_id path string true "UUID de la versión"
// @Success      200 {object} dto.CotizacionVersionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cotizaciones/versiones/{version_id} [get]
func (h *CotizacionesHandler) GetVersion(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("version_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.GetVersion(c.Request.Context(), versionID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarLinea godoc
// @Summary      Agregar línea a una versión
// @Description  Solo sobre versiones en borrador y solo por su autor.
// @Tags         cotizaciones
// @Security     BearerAuth
// @Param        version_id path string                    true "UUID de la versión"
// @Param        body       body dto.CotizacionLineaRequest true "Línea"
// @Success      201        {object} dto.CotizacionVersionResponse
// @Router       /v1/cotizaciones/versiones/{version_id}/lineas [post]
func (h *CotizacionesHandler) AgregarLinea(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("version_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CotizacionLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorDesdeClaims(c)
	resp, err := h.svc.AgregarLinea(c.Request.Context(), versionID, actor.ID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarLinea godoc
// @Summary      Eliminar línea de una versión
// @Tags         cotizaciones
// @Security     BearerAuth
// @Param        version_id path string true "UUID de la versión"
// @Param        linea_id   path string true "UUID de la línea"
// @Success      200        {object} dto.CotizacionVersionResponse
// @Router       /v1/cotizaciones/versiones/{version_id}/lineas/{linea_id} [delete]
func (h *CotizacionesHandler) EliminarLinea(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("version_id"))
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
	resp, err := h.svc.EliminarLinea(c.Request.Context(), versionID, lineaID, actor.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transicionar godoc
// @Summary      Aplicar acción a una versión
// @Description  Ejecuta una transición de la versión (enviar, aprobar, rechazar, cancelar). Aprobar supera a las versiones hermanas.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        version_id path string               true "UUID de la versión"
// @Param        body       body dto.TransicionRequest true "Acción y contexto"
// @Success      200        {object} dto.CotizacionVersionResponse
// @Failure      409        {object} apierror.APIError
// @Failure      422        {object} apierror.APIError
// @Router       /v1/cotizaciones/versiones/{version_id}/transiciones [post]
func (h *CotizacionesHandler) Transicionar(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("version_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.TransicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transicionar(c.Request.Context(), versionID, actorDesdeClaims(c), req)
	if err != nil {
		responderTransicion(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
