package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"kubeserve/internal/adapters/primary/http/handlers"
	"kubeserve/internal/adapters/primary/http/middleware"
	"kubeserve/internal/adapters/secondary/helm"
	"kubeserve/internal/adapters/secondary/k8s"
	"kubeserve/internal/adapters/secondary/minio"
	"kubeserve/internal/adapters/secondary/postgres"
	"kubeserve/internal/config"
	output "kubeserve/internal/core/ports/output"
	"kubeserve/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Secondary adapters
	userRepo := postgres.NewUserRepository(pool)
	modelRepo := postgres.NewModelRepository(pool)
	versionRepo := postgres.NewModelVersionRepository(pool)
	deploymentRepo := postgres.NewDeploymentRepository(pool)

	// Object store (optional - artifact uploads fail closed without it)
	var store output.ObjectStore
	s, err := minio.NewObjectStore(context.Background(), cfg.Storage)
	if err != nil {
		log.Warnf("object store init failed (continuing without artifact uploads): %v", err)
	} else {
		store = s
		log.Info("object store initialized")
	}

	// Tenant manager (optional - based on config)
	var tenants output.TenantManager
	if cfg.Kubernetes.Enabled {
		mgr, err := k8s.NewTenantManager(&cfg.Kubernetes, cfg.Storage.Endpoint)
		if err != nil {
			log.Warnf("tenant manager init failed (continuing without tenant provisioning): %v", err)
		} else {
			tenants = mgr
			log.Info("tenant manager initialized")
		}
	} else {
		log.Info("kubernetes integration disabled")
	}

	provisioner := helm.NewProvisioner(&cfg.Helm, cfg.Storage, cfg.Ingress)

	// Core services
	userSvc := services.NewUserService(userRepo, tenants, cfg.JWT.Secret, cfg.JWT.TTL)
	modelSvc := services.NewModelService(modelRepo)
	versionSvc := services.NewModelVersionService(versionRepo, modelRepo)
	artifactSvc := services.NewArtifactService(versionRepo, modelRepo, store)
	deploymentSvc := services.NewDeploymentService(deploymentRepo, versionRepo, modelRepo, provisioner)

	// Primary adapter
	h := handlers.New(userSvc, modelSvc, versionSvc, artifactSvc, deploymentSvc)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1")
	h.RegisterRoutes(api, middleware.Auth(cfg.JWT.Secret))

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
