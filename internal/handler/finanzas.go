package handler

import (
	"net/http"
	"time"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/dto"
	"gyscontrol/internal/middleware"
	"gyscontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FinanzasHandler struct{ svc service.FinanzasService }

func NewFinanzasHandler(svc service.FinanzasService) *FinanzasHandler {
	return &FinanzasHandler{svc: svc}
}

// CrearCuentaCobrar godoc
// @Summary      Crear cuenta por cobrar
// @Tags         finanzas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCuentaCobrarRequest true "Datos de la cuenta"
// @Success      201  {object} dto.CuentaCobrarResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/finanzas/cuentas-cobrar [post]
func (h *FinanzasHandler) CrearCuentaCobrar(c *gin.Context) {
	var req dto.CrearCuentaCobrarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	responsableID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearCuentaCobrar(c.Request.Context(), responsableID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetCuentaCobrar godoc
// @Summary      Detalle de cuenta por cobrar
// @Tags         finanzas
// @Security     BearerAuth
// @Param        id path string true "UUID de la cuenta"
// @Success      200 {object} dto.CuentaCobrarResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/finanzas/cuentas-cobrar/{id} [get]
func (h *FinanzasHandler) GetCuentaCobrar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.GetCuentaCobrar(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCuentasCobrar godoc
// @Summary      Listar cuentas por cobrar
// @Tags         finanzas
// @Security     BearerAuth
// @Param        estado      query string false "Filtro por estado"
// @Param        proyecto_id query string false "Filtro por proyecto"
// @Param        page        query int    false "Página"
// @Param        limit       query int    false "Registros por página"
// @Success      200 {object} dto.CuentaCobrarListResponse
// @Router       /v1/finanzas/cuentas-cobrar [get]
func (h *FinanzasHandler) ListCuentasCobrar(c *gin.Context) {
	var filter dto.CuentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListCuentasCobrar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cuentas por cobrar"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TransicionarCobrar godoc
// @Summary      Aplicar acción a cuenta por cobrar
// @Description  Emite o anula la cuenta. Los cobros van por el endpoint de cobros.
// @Tags         finanzas
// @Security     BearerAuth
// @Param        id   path string               true "UUID de la cuenta"
// @Param        body body dto.TransicionRequest true "Acción y contexto"
// @Success      200  {object} dto.CuentaCobrarResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/finanzas/cuentas-cobrar/{id}/transiciones [post]
func (h *FinanzasHandler) TransicionarCobrar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.TransicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.TransicionarCobrar(c.Request.Context(), id, actorDesdeClaims(c), req)
	if err != nil {
		responderTransicion(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarCobro godoc
// @Summary      Registrar cobro
// @Description  Registra un cobro parcial o total. El pago, el movimiento bancario y el cambio de estado se aplican en una sola transacción.
// @Tags         finanzas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la cuenta"
// @Param        body body dto.RegistrarCobroRequest true "Datos del cobro"
// @Success      200  {object} dto.CuentaCobrarResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/finanzas/cuentas-cobrar/{id}/cobros [post]
func (h *FinanzasHandler) RegistrarCobro(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarCobroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarCobro(c.Request.Context(), id, actorDesdeClaims(c), req)
	if err != nil {
		responderTransicion(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReporteAging godoc
// @Summary      Reporte de antigüedad de cuentas por cobrar
// @Description  Agrupa el saldo pendiente en rangos de 0-30, 31-60, 61-90 y más de 90 días de vencimiento.
// @Tags         finanzas
// @Security     BearerAuth
// @Param        corte query string false "Fecha de corte (YYYY-MM-DD, default hoy)"
// @Success      200 {object} dto.AgingResponse
// @Router       /v1/finanzas/cuentas-cobrar/aging [get]
func (h *FinanzasHandler) ReporteAging(c *gin.Context) {
	corte := time.Now()
	if s := c.Query("corte"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("corte invalido, se espera YYYY-MM-DD"))
			return
		}
		corte = t
	}
	resp, err := h.svc.ReporteAging(c.Request.Context(), corte)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearCuentaPagar godoc
// @Summary      Crear cuenta por pagar
// @Tags         finanzas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCuentaPagarRequest true "Datos de la cuenta"
// @Success      201  {object} dto.CuentaPagarResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/finanzas/cuentas-pagar [post]
func (h *FinanzasHandler) CrearCuentaPagar(c *gin.Context) {
	var req dto.CrearCuentaPagarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	responsableID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearCuentaPagar(c.Request.Context(), responsableID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetCuentaPagar godoc
// @Summary      Detalle de cuenta por pagar
// @Tags         finanzas
// @Security     BearerAuth
// @Param        id path string true "UUID de la cuenta"
// @Success      200 {object} dto.CuentaPagarResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/finanzas/cuentas-pagar/{id} [get]
func (h *FinanzasHandler) GetCuentaPagar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.GetCuentaPagar(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCuentasPagar godoc
// @Summary      Listar cuentas por pagar
// @Tags         finanzas
// @Security     BearerAuth
// @Param        estado       query string false "Filtro por estado"
// @Param        proveedor_id query string false "Filtro por proveedor"
// @Param        page         query int    false "Página"
// @Param        limit        query int    false "Registros por página"
// @Success      200 {object} dto.CuentaPagarListResponse
// @Router       /v1/finanzas/cuentas-pagar [get]
func (h *FinanzasHandler) ListCuentasPagar(c *gin.Context) {
	var filter dto.CuentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListCuentasPagar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cuentas por pagar"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TransicionarPagar godoc
// @Summary      Aplicar acción a cuenta por pagar
// @Description  Emite, paga o anula la cuenta. Pagar descuenta el saldo de la cuenta bancaria en la misma transacción.
// @Tags         finanzas
// @Security     BearerAuth
// @Param        id   path string               true "UUID de la cuenta"
// @Param        body body dto.TransicionRequest true "Acción y contexto"
// @Success      200  {object} dto.CuentaPagarResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/finanzas/cuentas-pagar/{id}/transiciones [post]
func (h *FinanzasHandler) TransicionarPagar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.TransicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.TransicionarPagar(c.Request.Context(), id, actorDesdeClaims(c), req)
	if err != nil {
		responderTransicion(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearCuentaBancaria godoc
// @Summary      Crear cuenta bancaria
// @Tags         finanzas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCuentaBancariaRequest true "Datos de la cuenta bancaria"
// @Success      201  {object} dto.CuentaBancariaResponse
// @Router       /v1/finanzas/cuentas-bancarias [post]
func (h *FinanzasHandler) CrearCuentaBancaria(c *gin.Context) {
	var req dto.CrearCuentaBancariaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCuentaBancaria(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCuentasBancarias godoc
// @Summary      Listar cuentas bancarias
// @Tags         finanzas
// @Security     BearerAuth
// @Success      200 {array} dto.CuentaBancariaResponse
// @Router       /v1/finanzas/cuentas-bancarias [get]
func (h *FinanzasHandler) ListCuentasBancarias(c *gin.Context) {
	resp, err := h.svc.ListCuentasBancarias(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cuentas bancarias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMovimientos godoc
// @Summary      Movimientos de una cuenta bancaria
// @Tags         finanzas
// @Security     BearerAuth
// @Param        id path string true "UUID de la cuenta bancaria"
// @Success      200 {array} dto.MovimientoBancarioResponse
// @Router       /v1/finanzas/cuentas-bancarias/{id}/movimientos [get]
func (h *FinanzasHandler) ListMovimientos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListMovimientos(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
