package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/insurehub/insurehub/backend/go-services/handlers"
	"github.com/insurehub/insurehub/backend/go-services/internal/config"
	"github.com/insurehub/insurehub/backend/go-services/internal/database"
	dochandler "github.com/insurehub/insurehub/backend/go-services/internal/documents/handler"
	docrepo "github.com/insurehub/insurehub/backend/go-services/internal/documents/repository"
	docservice "github.com/insurehub/insurehub/backend/go-services/internal/documents/service"
	"github.com/insurehub/insurehub/backend/go-services/internal/lifeapp"
	"github.com/insurehub/insurehub/backend/go-services/internal/oidc"
	"github.com/insurehub/insurehub/backend/go-services/internal/storage"
	"github.com/insurehub/insurehub/backend/go-services/internal/users"
	"github.com/insurehub/insurehub/backend/go-services/pkg/logger"
	"github.com/insurehub/insurehub/backend/go-services/pkg/metrics"
	"github.com/insurehub/insurehub/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env controls verbosity: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: postgres=%v mongo=%v redis=%v oidc=%v",
		cfg.Postgres.DSN != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.OIDC.Issuer != "")

	ctx := context.Background()
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Permissive CORS for dev/test; production sits behind a stricter proxy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Redis connects early so the rate limiter can use it when configured.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
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

	// Relational layer: documents and users. Without a DSN the service runs in
	// a non-persistent demo mode on in-memory repositories.
	var documentRepo docrepo.Repository
	var userRepo users.UserRepository
	if cfg.Postgres.DSN != "" {
		pool, err := database.ConnectPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatalf("postgres: %v", err)
		}
		defer pool.Close()

		if err := docrepo.EnsureSchema(ctx, pool); err != nil {
			logger.Fatalf("documents schema: %v", err)
		}
		documentRepo = docrepo.NewPostgresRepo(pool)

		pgUsers := users.NewPostgresUserRepository(pool)
		if err := pgUsers.EnsureSchema(ctx); err != nil {
			logger.Fatalf("users schema: %v", err)
		}
		userRepo = pgUsers
	} else {
		logger.Warnf("POSTGRES_DSN not set; using in-memory repositories (data is not persisted)")
		documentRepo = docrepo.NewMemoryRepo()
		userRepo = users.NewMemoryUserRepository()
	}
	userSvc := users.NewService(userRepo)

	// Blob storage: MinIO when configured, local filesystem otherwise.
	var blobStore storage.BlobStore
	minioStore, err := storage.NewMinIOStore(storage.LoadMinIOConfig())
	if err != nil {
		logger.Fatalf("minio: %v", err)
	}
	if minioStore.Configured() {
		blobStore = minioStore
		logger.Infof("document storage: minio bucket %q", minioStore.Bucket())
	} else {
		blobStore = storage.NewLocalStore(cfg.Upload.UploadsDir, cfg.Upload.BaseURL)
		r.Static("/uploads", cfg.Upload.UploadsDir)
		logger.Warnf("MINIO_ENDPOINT not set; storing documents under %s", cfg.Upload.UploadsDir)
	}

	docSvc := docservice.New(documentRepo, blobStore).WithUserCheck(userSvc)
	dochandler.RegisterDocumentRoutes(r, docSvc)

	// Life-insurance applications live in MongoDB; its open payload shape
	// does not fit the relational schema.
	var lifeRepo lifeapp.Repository
	if cfg.MongoDB.URI != "" {
		// tolerate startup races against the database container
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			var err error
			client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				break
			}
			client = nil
			logger.Warnf("attempt %d/%d: mongo connect failed: %v", attempt, maxAttempts, err)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if client != nil {
			defer func() { _ = client.Disconnect(ctx) }()
			col := client.Database(cfg.MongoDB.Database).Collection("life_applications")
			lifeRepo = lifeapp.NewMongoRepo(col)
		} else {
			logger.Warnf("mongo unavailable; life-insurance applications held in memory")
		}
	}
	if lifeRepo == nil {
		lifeRepo = lifeapp.NewMemoryRepo()
	}
	lifeapp.RegisterRoutes(r, lifeRepo)

	// Token verification: OIDC when an issuer is configured, with an insecure
	// fallback strictly for integration tests.
	var verifier middleware.Verifier
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("oidc verifier init failed: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
		logger.Warn("enabling insecure token verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	}

	api := r.Group("/api/v1")
	if verifier != nil {
		api.GET("/me", middleware.AuthMiddleware(verifier), func(c *gin.Context) {
			claims := middleware.ClaimsFrom(c)
			if u, err := userSvc.UpsertFromClaims(c.Request.Context(), claims); err == nil && u != nil {
				c.JSON(http.StatusOK, gin.H{"user": u})
				return
			}
			c.JSON(http.StatusOK, gin.H{"claims": claims})
		})
	} else {
		api.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "OIDC not configured"})
		})
	}

	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"documents": documentRepo != nil,
			"storage":   blobStore != nil,
		}
		if cfg.OIDC.Issuer != "" {
			deps["oidc"] = verifier != nil
			ready = ready && verifier != nil
		}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			ready = ready && redisClient != nil
		}
		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting insurehub api on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
