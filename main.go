package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // Driver de PostgreSQL
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pedidos/src/pedidos/application/usecase"
	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
	pedidosCache "pedidos/src/pedidos/infrastructure/cache"
	pedidosClient "pedidos/src/pedidos/infrastructure/client"
	pedidosController "pedidos/src/pedidos/infrastructure/controller"
	pedidosPersistence "pedidos/src/pedidos/infrastructure/persistence"
	sharedConfig "pedidos/src/shared/infrastructure/config"
	"pedidos/src/shared/infrastructure/logging"
)

func main() {
	cfg, err := sharedConfig.Load()
	if err != nil {
		log.Fatalf("Error en la configuración: %v", err)
	}

	zlog, err := logging.NewZapLog(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error al crear el logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Infow("Iniciando servicio Pedidos", "store_driver", cfg.StoreDriver, "port", cfg.Port)

	// Construir el store de registros según el driver configurado
	var store port.RecordStore
	switch cfg.StoreDriver {
	case "http":
		if cfg.StoreBaseURL == "" {
			zlog.Fatal("STORE_BASE_URL es obligatorio con STORE_DRIVER=http")
		}
		store = pedidosClient.NewRecordStoreHTTP(cfg.StoreBaseURL, cfg.StoreToken)
		zlog.Infow("Store remoto vía HTTP", "base_url", cfg.StoreBaseURL)
	default:
		dsn := cfg.DSN()
		if err := pedidosPersistence.RunMigrations(dsn); err != nil {
			zlog.Fatalw("Error al aplicar migraciones", "error", err)
		}
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			zlog.Fatalw("Error al conectar a la base de datos", "error", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			zlog.Fatalw("Error al verificar la conexión a la base de datos", "error", err)
		}
		store = pedidosPersistence.NewRecordStorePostgres(db, cfg.WriteGrants)
		zlog.Info("Conexión a la base de datos establecida con éxito")
	}

	// Cargar el cache de métodos de pago
	metodos := pedidosCache.NewMetodoPagoCache()
	if err := metodos.Load(context.Background(), store); err != nil {
		zlog.Fatalw("Error al cargar métodos de pago", "error", err)
	}
	zlog.Infow("Métodos de pago cargados", "total", metodos.Len())

	// Política de estados por línea de producto (inyectada desde config)
	policy := entity.NewStatusPolicy(cfg.BrandPolicies)

	// Casos de uso
	confirmarSeleccionUC := usecase.NewConfirmarSeleccionUseCase(store, zlog)
	confirmarPedidoUC := usecase.NewConfirmarPedidoUseCase(store, policy, metodos, zlog)
	registrarPagosUC := usecase.NewRegistrarPagosUseCase(store, policy, metodos, zlog)

	// Router y rutas
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	pedidoCtrl := pedidosController.NewPedidoController(
		confirmarSeleccionUC, confirmarPedidoUC, registrarPagosUC, store, zlog)
	pedidoCtrl.RegisterRoutes(v1)

	zlog.Infow("Servicio Pedidos iniciado", "addr", ":"+cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatalw("Error del servidor HTTP", "error", err)
	}
}
