package handler

import (
	"net/http"
	"strconv"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/middleware"
	"gyscontrol/internal/model"
	"gyscontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var tiposDocumento = map[string]model.TipoDocumento{
	string(model.TipoHojaGastos):   model.TipoHojaGastos,
	string(model.TipoOrdenCompra):  model.TipoOrdenCompra,
	string(model.TipoCuentaCobrar): model.TipoCuentaCobrar,
	string(model.TipoCuentaPagar):  model.TipoCuentaPagar,
	string(model.TipoCotizacion):   model.TipoCotizacion,
}

type AuditoriaHandler struct{ svc service.AuditoriaService }

func NewAuditoriaHandler(svc service.AuditoriaService) *AuditoriaHandler {
	return &AuditoriaHandler{svc: svc}
}

// Timeline godoc
// @Summary      Timeline de un documento
// @Description  Eventos de auditoría del documento en orden cronológico, con el nombre de cada actor.
// @Tags         auditoria
// @Security     BearerAuth
// @Param        tipo path string true "hoja_gastos, orden_compra, cuenta_cobrar, cuenta_pagar o cotizacion"
// @Param        id   path string true "UUID del documento"
// @Success      200  {object} dto.TimelineResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/auditoria/{tipo}/{id} [get]
func (h *AuditoriaHandler) Timeline(c *gin.Context) {
	tipo, ok := tiposDocumento[c.Param("tipo")]
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.New("tipo de documento invalido"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Timeline(c.Request.Context(), tipo, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar el timeline"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActividadActor godoc
// @Summary      Actividad reciente de un usuario
// @Tags         auditoria
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del usuario"
// @Param        limit query int    false "Máximo de eventos (default 50)"
// @Success      200   {array} dto.EventoAuditoriaResponse
// @Router       /v1/auditoria/actores/{id} [get]
func (h *AuditoriaHandler) ActividadActor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	limit := 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, apierror.New("limit invalido"))
			return
		}
		limit = n
	}
	resp, err := h.svc.ActividadActor(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar la actividad"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Notificaciones godoc
// @Summary      Notificaciones del usuario autenticado
// @Tags         notificaciones
// @Security     BearerAuth
// @Param        solo_no_leidas query bool false "Solo notificaciones sin leer"
// @Success      200 {array} dto.NotificacionResponse
// @Router       /v1/notificaciones [get]
func (h *AuditoriaHandler) Notificaciones(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	soloNoLeidas := c.Query("solo_no_leidas") == "true"
	resp, err := h.svc.Notificaciones(c.Request.Context(), usuarioID, soloNoLeidas)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar notificaciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarLeida godoc
// @Summary      Marcar notificación como leída
// @Tags         notificaciones
// @Security     BearerAuth
// @Param        id path string true "UUID de la notificación"
// @Success      204 "Sin contenido"
// @Failure      400 {object} apierror.APIError
// @Router       /v1/notificaciones/{id}/leida [post]
func (h *AuditoriaHandler) MarcarLeida(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.MarcarLeida(c.Request.Context(), id, usuarioID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// MarcarTodasLeidas godoc
// @Summary      Marcar todas las notificaciones como leídas
// @Tags         notificaciones
// @Security     BearerAuth
// @Success      204 "Sin contenido"
// @Router       /v1/notificaciones/leidas [post]
func (h *AuditoriaHandler) MarcarTodasLeidas(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.MarcarTodasLeidas(c.Request.Context(), usuarioID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al marcar notificaciones"))
		return
	}
	c.Status(http.StatusNoContent)
}
