package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/annel0/masonry/internal/config"
	"github.com/annel0/masonry/internal/engine"
	"github.com/annel0/masonry/internal/eventbus"
	"github.com/annel0/masonry/internal/logging"
	"github.com/annel0/masonry/internal/middleware"
	"github.com/annel0/masonry/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RestServer представляет REST API движка укладки
type RestServer struct {
	router     *gin.Engine
	httpServer *http.Server
	engine     *engine.Engine
	store      storage.SceneStore
	thickness  *config.ThicknessTable
	bus        eventbus.EventBus
	metrics    *ServerMetrics

	pendingMu sync.Mutex
	pending   *engine.Pending
}

// Config содержит зависимости REST сервера
type Config struct {
	Port       string                 // адрес, например ":8088"
	Engine     *engine.Engine         // движок укладки
	Store      storage.SceneStore     // хранилище сцен
	Thickness  *config.ThicknessTable // пользовательские толщины швов (может быть nil)
	Bus        eventbus.EventBus      // для статистики шины (может быть nil)
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Logger     *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(cfg Config) *RestServer {
	if cfg.Port == "" {
		cfg.Port = ":8088"
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("masonry_api"))
	router.Use(middleware.NewRequestLogger(cfg.Logger).Handler())

	promMw := middleware.NewPrometheusMiddleware("masonry_api", cfg.Registerer)
	router.Use(promMw.Handler())
	middleware.RegisterMetricsEndpoint(router, cfg.Gatherer)

	rs := &RestServer{
		router:    router,
		engine:    cfg.Engine,
		store:     cfg.Store,
		thickness: cfg.Thickness,
		bus:       cfg.Bus,
		metrics:   NewServerMetrics(),
	}
	rs.httpServer = &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rs.setupRoutes()
	return rs
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := rs.router.Group("/api")

	units := api.Group("/units")
	{
		units.POST("", rs.handlePlace)
		units.GET("", rs.handleListUnits)
		units.GET("/:id", rs.handleGetUnit)
		units.DELETE("/:id", rs.handleRemoveUnit)
		units.GET("/:id/neighbors", rs.handleNeighbors)
	}

	// Двухфазная укладка: предпросмотр, затем фиксация или отмена
	placement := api.Group("/placement")
	{
		placement.POST("", rs.handleBeginPlacement)
		placement.POST("/commit", rs.handleCommitPlacement)
		placement.DELETE("", rs.handleCancelPlacement)
	}

	scenes := api.Group("/scenes")
	{
		scenes.GET("", rs.handleListScenes)
		scenes.POST("/:name/save", rs.handleSaveScene)
		scenes.POST("/:name/load", rs.handleLoadScene)
		scenes.DELETE("/:name", rs.handleDeleteScene)
	}

	joints := api.Group("/joints/thickness")
	{
		joints.GET("", rs.handleListThickness)
		joints.PUT("/:subType", rs.handleSetThickness)
		joints.DELETE("/:subType", rs.handleClearThickness)
	}

	api.GET("/formats", rs.handleFormats)
	api.GET("/stats", rs.handleStats)

	rs.router.GET("/health", rs.handleHealth)
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, GenericResponse{Success: true, Message: message, Data: data})
}

// respondError переводит доменные ошибки в HTTP статусы
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidGeometry),
		errors.Is(err, storage.ErrInvalidSceneName):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrUnitNotFound),
		errors.Is(err, storage.ErrSceneNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrPlacementCancelled),
		errors.Is(err, engine.ErrAlreadyCommitted):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		logging.Error("Ошибка обработки %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, GenericResponse{Success: false, Message: err.Error()})
}

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

func (rs *RestServer) handleStats(c *gin.Context) {
	stats := gin.H{
		"scene":  rs.engine.Stats(),
		"server": rs.metrics.Snapshot(),
	}
	if rs.bus != nil {
		stats["eventbus"] = rs.bus.Metrics()
	}
	respondOK(c, http.StatusOK, "Статистика получена", stats)
}

// Start запускает HTTP сервер; блокирует до остановки
func (rs *RestServer) Start() error {
	logging.Info("🌐 REST API слушает %s", rs.httpServer.Addr)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop выполняет graceful shutdown
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.httpServer.Shutdown(ctx)
}
