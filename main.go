package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/rollahub/rolla-admin/handlers"
	"github.com/rollahub/rolla-admin/internal/collection"
	"github.com/rollahub/rolla-admin/internal/config"
	"github.com/rollahub/rolla-admin/internal/database"
	"github.com/rollahub/rolla-admin/internal/identity"
	"github.com/rollahub/rolla-admin/internal/storage"
	"github.com/rollahub/rolla-admin/internal/store"
	"github.com/rollahub/rolla-admin/internal/upload"
	"github.com/rollahub/rolla-admin/internal/users"
	"github.com/rollahub/rolla-admin/pkg/logger"
	"github.com/rollahub/rolla-admin/pkg/metrics"
	"github.com/rollahub/rolla-admin/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v firebase=%v redis=%v",
		cfg.MongoDB.URI != "",
		cfg.Firebase.CredentialsJSON != "" || cfg.Firebase.CredentialsFile != "",
		cfg.Redis.Host != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for the admin frontend dev server.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Redis is only used for the distributed rate limiter
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Document store: Mongo-backed when configured, memory-backed otherwise
	// (keeps local frontend development possible without a database).
	var st store.Store
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongo(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Fatalf("cannot connect to MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())
		ms := store.NewMongoStore(client.Database(cfg.MongoDB.Database))
		indexed := []string{users.Collection}
		for name := range collection.RefFields {
			indexed = append(indexed, name)
		}
		if err := ms.EnsureIndexes(context.Background(), indexed...); err != nil {
			logger.Warnf("index setup: %v", err)
		}
		st = ms
		logger.Infof("using MongoDB document store (db=%s)", cfg.MongoDB.Database)
	} else {
		st = store.NewMemoryStore()
		logger.Warnf("MONGODB_URI not set — using in-memory document store")
	}

	// Identity provider: user create/update/delete mirror into Firebase Auth.
	var userSvc *users.Service
	if cfg.Firebase.CredentialsJSON != "" || cfg.Firebase.CredentialsFile != "" {
		provider, err := identity.NewFirebaseProvider(context.Background(), cfg.Firebase.CredentialsJSON, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Fatalf("cannot initialize Firebase auth: %v", err)
		}
		userSvc = users.NewService(st, provider)
	} else {
		logger.Warnf("no Firebase credentials configured — users collection served generically, no auth subjects will be provisioned")
	}

	// Object storage for image uploads.
	var uploadSvc *upload.Service
	minioCfg := storage.LoadMinIOConfig()
	if minioCfg.Endpoint != "" {
		objStore, err := storage.NewMinIOStorage(minioCfg)
		if err != nil {
			logger.Fatalf("cannot initialize MinIO storage: %v", err)
		}
		uploadSvc = upload.NewService(objStore)
	} else {
		logger.Warnf("MINIO_ENDPOINT not set — /api/upload disabled")
	}

	reg := collection.NewRegistry(st, userSvc)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: the store is always present (memory fallback), the rest is reported
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{
			"store":    true,
			"identity": userSvc != nil,
			"storage":  uploadSvc != nil,
			"redis":    redisClient != nil || cfg.Redis.Host == "",
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Prometheus metrics on a dedicated registry
	promReg := prometheus.NewRegistry()
	metrics.RegisterCollectors(promReg)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	handlers.RegisterCollectionRoutes(r, reg)
	if uploadSvc != nil {
		handlers.RegisterUploadRoutes(r, uploadSvc)
	}
	handlers.RegisterSwagger(r)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("rolla-admin gateway listening on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
