package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/speakpost/speakpost-backend/internal/auth"
	"github.com/speakpost/speakpost-backend/internal/config"
	"github.com/speakpost/speakpost-backend/internal/coordinator"
	"github.com/speakpost/speakpost-backend/internal/generator"
	"github.com/speakpost/speakpost-backend/internal/handler"
	"github.com/speakpost/speakpost-backend/internal/media"
	"github.com/speakpost/speakpost-backend/internal/middleware"
	"github.com/speakpost/speakpost-backend/internal/publish"
	"github.com/speakpost/speakpost-backend/internal/repository"
	"github.com/speakpost/speakpost-backend/internal/routes"
	"github.com/speakpost/speakpost-backend/internal/ws"
	pkges "github.com/speakpost/speakpost-backend/pkg/elasticsearch"
	pkglogger "github.com/speakpost/speakpost-backend/pkg/logger"
	pkgredis "github.com/speakpost/speakpost-backend/pkg/redis"
	pkgstorage "github.com/speakpost/speakpost-backend/pkg/storage"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL (draft history; the pipeline runs without it)
	var draftRepo repository.DraftRepository
	db, err := initDB(cfg)
	if err != nil {
		pkglogger.Warn("Failed to connect to database: %v (continuing without draft history)", err)
	} else {
		pkglogger.Info("Connected to MySQL")
		if err := repository.AutoMigrate(db); err != nil {
			pkglogger.Warn("Migration warning: %v", err)
		}
		draftRepo = repository.NewDraftRepository(db)
	}

	// Redis (auth revocation fan-in)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without revocation stream)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	// Elasticsearch (media metadata index)
	var esClient *pkges.Client
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		var esErr error
		esClient, esErr = pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if esErr != nil {
			pkglogger.Warn("Elasticsearch connection failed: %v (continuing without ES)", esErr)
			esClient = nil
		} else {
			pkglogger.Info("Connected to Elasticsearch")
		}
	}

	// S3-compatible media library storage
	var s3Client *pkgstorage.S3Client
	if cfg.S3.Enabled && cfg.S3.Bucket != "" {
		var s3Err error
		s3Client, s3Err = pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			CDNURL:          cfg.S3.CDNURL,
			BasePath:        cfg.S3.BasePath,
			ForcePathStyle:  cfg.S3.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Warn("S3 storage init failed: %v (continuing without media library)", s3Err)
			s3Client = nil
		} else {
			pkglogger.Info("Connected to S3 storage")
		}
	}

	// Media resolver: library-backed when storage is configured,
	// in-memory otherwise (local development)
	var resolver media.Resolver
	if s3Client != nil {
		resolver = media.NewLibraryResolver(s3Client, esClient, cfg.Elasticsearch.Index)
	} else {
		pkglogger.Info("Using in-memory media resolver")
		resolver = media.NewMemoryResolver()
	}
	mediaValidator := media.NewValidator(resolver)

	// Auth state tracker
	authTracker := auth.NewTracker()
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	if redisClient != nil {
		go authTracker.SubscribeRevocations(rootCtx, redisClient)
	}

	// Publishing
	dispatcher := publish.NewDispatcher(publish.DryRunPublishers(), mediaValidator, authTracker)

	// Voice pipeline coordinator
	fallback := generator.NewFallback(cfg.Hashtags)
	coord := coordinator.New(coordinator.Deps{
		Fallback:   fallback,
		Resolver:   resolver,
		Validator:  mediaValidator,
		Dispatcher: dispatcher,
		Repo:       draftRepo,
		Auth:       authTracker,
	}, cfg.Pipeline)
	defer coord.Dispose()

	// WebSocket hub mirrors coordinator events to connected UIs
	wsHub := ws.NewHub()
	go wsHub.Run()
	defer wsHub.Shutdown()
	coord.Subscribe(func(ev coordinator.Event) {
		wsHub.Publish(ev)
		if ev.Type == coordinator.EventStateChanged {
			middleware.SetCoordinatorState(string(ev.State), allStates())
		}
	})

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.Server.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "speakpost-backend",
			"state":   string(coord.State()),
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(
		router,
		handler.NewPipelineHandler(coord),
		handler.NewDraftHandler(coord, draftRepo),
		handler.NewPublishHandler(coord),
		handler.NewMediaHandler(resolver),
		handler.NewPlatformHandler(coord, authTracker),
		handler.NewWSHandler(wsHub, strings.Join(allowOrigins, ",")),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func allStates() []string {
	return []string{
		string(coordinator.StateIdle),
		string(coordinator.StateRecording),
		string(coordinator.StateProcessing),
		string(coordinator.StateReady),
		string(coordinator.StateNeedsMedia),
		string(coordinator.StateError),
	}
}

// initDB MySQL connection setup
func initDB(cfg *config.Config) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
