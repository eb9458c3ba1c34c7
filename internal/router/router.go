package router

import (
	"time"

	"gyscontrol/internal/config"
	"gyscontrol/internal/handler"
	"gyscontrol/internal/infra"
	"gyscontrol/internal/middleware"
	"gyscontrol/internal/repository"
	"gyscontrol/internal/service"
	"gyscontrol/internal/worker"
	"gyscontrol/internal/workflow"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, storageCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	storageClient := infra.NewStorageClient(cfg.StorageURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	hojasRepo := repository.NewHojaGastosRepository(db)
	ordenRepo := repository.NewOrdenCompraRepository(db)
	finanzasRepo := repository.NewFinanzasRepository(db)
	bancoRepo := repository.NewBancoRepository(db)
	cotizacionRepo := repository.NewCotizacionRepository(db)
	proyectoRepo := repository.NewProyectoRepository(db)
	horasRepo := repository.NewHorasRepository(db)
	adjuntoRepo := repository.NewAdjuntoRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)
	notificacionRepo := repository.NewNotificacionRepository(db)

	// ── Workflow engine ──────────────────────────────────────────────────────
	almacen := repository.NewDocumentoAlmacen(db)
	ejecutor := workflow.NewEjecutor(almacen).ConNotificador(infra.NewNotificadorLog())

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	gastosSvc := service.NewGastosService(hojasRepo, bancoRepo, usuarioRepo, ejecutor, dispatcher, cfg.PDFStoragePath)
	comprasSvc := service.NewComprasService(ordenRepo, proveedorRepo, ejecutor, dispatcher)
	finanzasSvc := service.NewFinanzasService(finanzasRepo, bancoRepo, ejecutor, dispatcher)
	cotizacionesSvc := service.NewCotizacionesService(cotizacionRepo, ejecutor, dispatcher)
	proyectosSvc := service.NewProyectosService(proyectoRepo, cotizacionRepo)
	horasSvc := service.NewHorasService(horasRepo, proyectoRepo)
	adjuntosSvc := service.NewAdjuntosService(adjuntoRepo, hojasRepo, storageClient, storageCB)
	auditoriaSvc := service.NewAuditoriaService(auditoriaRepo, notificacionRepo, usuarioRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	gastosH := handler.NewGastosHandler(gastosSvc)
	comprasH := handler.NewComprasHandler(comprasSvc)
	finanzasH := handler.NewFinanzasHandler(finanzasSvc)
	cotizacionesH := handler.NewCotizacionesHandler(cotizacionesSvc)
	proyectosH := handler.NewProyectosHandler(proyectosSvc)
	horasH := handler.NewHorasHandler(horasSvc)
	adjuntosH := handler.NewAdjuntosHandler(adjuntosSvc)
	auditoriaH := handler.NewAuditoriaHandler(auditoriaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Role checks here gate creation and edition; the
	// workflow engine re-checks the per-action allow-list on transitions.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		prov := v1.Group("/proveedores", middleware.RequireRole("admin", "gerente", "coordinador", "administracion"))
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PATCH("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
			prov.POST("/:id/contactos", proveedoresH.AgregarContacto)
			prov.DELETE("/contactos/:contacto_id", proveedoresH.EliminarContacto)
		}

		// Hojas de gastos — cualquier usuario autenticado crea y consulta las
		// suyas; las transiciones pasan por el allow-list del workflow.
		gastos := v1.Group("/gastos/hojas")
		{
			gastos.POST("", gastosH.CrearHoja)
			gastos.GET("", gastosH.ListHojas)
			gastos.GET("/:id", gastosH.GetHoja)
			gastos.PATCH("/:id", gastosH.ActualizarHoja)
			gastos.POST("/:id/lineas", gastosH.AgregarLinea)
			gastos.PATCH("/:id/lineas/:linea_id", gastosH.ActualizarLinea)
			gastos.DELETE("/:id/lineas/:linea_id", gastosH.EliminarLinea)
			gastos.POST("/:id/transiciones", gastosH.Transicionar)
			gastos.GET("/:id/pdf", gastosH.RendicionPDF)
		}

		compras := v1.Group("/compras/ordenes")
		{
			compras.POST("", comprasH.CrearOrden)
			compras.GET("", comprasH.ListOrdenes)
			compras.GET("/:id", comprasH.GetOrden)
			compras.POST("/:id/items", comprasH.AgregarItem)
			compras.DELETE("/:id/items/:item_id", comprasH.EliminarItem)
			compras.POST("/:id/transiciones", comprasH.Transicionar)
		}

		finRoles := middleware.RequireRole("admin", "gerente", "administracion")
		fin := v1.Group("/finanzas", finRoles)
		{
			fin.POST("/cuentas-cobrar", finanzasH.CrearCuentaCobrar)
			fin.GET("/cuentas-cobrar", finanzasH.ListCuentasCobrar)
			fin.GET("/cuentas-cobrar/aging", finanzasH.ReporteAging)
			fin.GET("/cuentas-cobrar/:id", finanzasH.GetCuentaCobrar)
			fin.POST("/cuentas-cobrar/:id/transiciones", finanzasH.TransicionarCobrar)
			fin.POST("/cuentas-cobrar/:id/cobros", finanzasH.RegistrarCobro)

			fin.POST("/cuentas-pagar", finanzasH.CrearCuentaPagar)
			fin.GET("/cuentas-pagar", finanzasH.ListCuentasPagar)
			fin.GET("/cuentas-pagar/:id", finanzasH.GetCuentaPagar)
			fin.POST("/cuentas-pagar/:id/transiciones", finanzasH.TransicionarPagar)

			fin.POST("/cuentas-bancarias", finanzasH.CrearCuentaBancaria)
			fin.GET("/cuentas-bancarias", finanzasH.ListCuentasBancarias)
			fin.GET("/cuentas-bancarias/:id/movimientos", finanzasH.ListMovimientos)
		}

		cot := v1.Group("/cotizaciones")
		{
			cot.POST("", cotizacionesH.Crear)
			cot.GET("", cotizacionesH.List)
			cot.GET("/:id", cotizacionesH.Get)
			cot.POST("/:id/versiones", cotizacionesH.CrearVersion)
			cot.GET("/versiones/:version_id", cotizacionesH.GetVersion)
			cot.POST("/versiones/:version_id/lineas", cotizacionesH.AgregarLinea)
			cot.DELETE("/versiones/:version_id/lineas/:linea_id", cotizacionesH.EliminarLinea)
			cot.POST("/versiones/:version_id/transiciones", cotizacionesH.Transicionar)
		}

		gestionRoles := middleware.RequireRole("admin", "gerente", "coordinador")
		proy := v1.Group("/proyectos")
		{
			proy.POST("", gestionRoles, proyectosH.Crear)
			proy.GET("", proyectosH.List)
			proy.GET("/:id", proyectosH.Get)
			proy.PATCH("/:id/fases/:fase_id", gestionRoles, proyectosH.ActualizarFase)
			proy.POST("/plantillas", gestionRoles, proyectosH.CrearPlantilla)
			proy.GET("/plantillas", proyectosH.ListPlantillas)
		}

		horas := v1.Group("/horas")
		{
			horas.POST("", horasH.Registrar)
			horas.PUT("/:id", horasH.Corregir)
			horas.POST("/:id/revision", gestionRoles, horasH.Revisar)
			horas.GET("/pendientes", gestionRoles, horasH.ListPendientes)
			horas.GET("/proyectos/:id", horasH.ListPorProyecto)
			horas.GET("/resumen-semanal", horasH.ResumenSemanal)
		}

		adj := v1.Group("/adjuntos")
		{
			adj.POST("", adjuntosH.Subir)
			adj.GET("", adjuntosH.ListPorDueno)
			adj.DELETE("/:id", adjuntosH.Eliminar)
		}

		v1.GET("/auditoria/actores/:id", gestionRoles, auditoriaH.ActividadActor)
		v1.GET("/auditoria/:tipo/:id", auditoriaH.Timeline)

		notif := v1.Group("/notificaciones")
		{
			notif.GET("", auditoriaH.Notificaciones)
			notif.POST("/leidas", auditoriaH.MarcarTodasLeidas)
			notif.POST("/:id/leida", auditoriaH.MarcarLeida)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
