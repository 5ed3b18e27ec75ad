package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/faceverify/internal/auth"
	"github.com/example/faceverify/internal/blobstore"
	"github.com/example/faceverify/internal/config"
	"github.com/example/faceverify/internal/embedder"
	"github.com/example/faceverify/internal/grpcclient"
	"github.com/example/faceverify/internal/handlers"
	"github.com/example/faceverify/internal/logging"
	"github.com/example/faceverify/internal/refcache"
	"github.com/example/faceverify/internal/repository"
	"github.com/example/faceverify/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db := initDatabase(ctx, cfg, logger)
	repo := repository.NewVerificationRepository(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	redisCtx, redisCancel := context.WithTimeout(ctx, 5*time.Second)
	defer redisCancel()
	redisClient := initRedis(redisCtx, cfg, logger)

	store := initBlobStore(ctx, cfg, logger)

	embedderClient, conn, err := grpcclient.DialEmbedder(ctx, cfg.EmbedderAddr, logger)
	if err != nil {
		logger.Fatal("failed to connect to embedder", zap.Error(err))
	}
	defer conn.Close()

	backends := make([]embedder.Backend, 0, len(cfg.Detectors))
	for _, detector := range cfg.Detectors {
		if detector == cfg.FallbackDetector && cfg.FallbackEmbedderURL != "" {
			backends = append(backends, embedder.NewHTTPBackend(cfg.FallbackEmbedderURL, cfg.Model, detector))
			continue
		}
		backends = append(backends, grpcclient.NewBackend(embedderClient, cfg.Model, detector, logger))
	}

	extractor := embedder.NewExtractor(backends, cfg.ExtractTimeout, logger)
	hot := refcache.NewRedisCache(redisClient)
	refs := refcache.New(store, extractor, hot, refcache.Options{
		Model:        cfg.Model,
		ArtifactName: cfg.CacheArtifactName,
		Enabled:      cfg.CacheEnabled,
		Parallelism:  cfg.ExtractParallelism,
	}, logger)

	uc := usecase.NewVerificationUseCase(refs, extractor, store, repo, hot, cfg.Threshold, logger)

	r := gin.Default()
	r.MaxMultipartMemory = handlers.MaxUploadSize

	authMiddleware := auth.JWTMiddleware(cfg.JWTSecret, cfg.JWTAudience)
	handlers.RegisterRoutes(r, uc, authMiddleware)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	logger.Info("face verification API listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("model", cfg.Model),
		zap.Strings("detectors", cfg.Detectors))
	if err := serveHTTPServer(server, 15*time.Second, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func initDatabase(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("failed to access db handle", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		zapLogger.Fatal("database ping failed", zap.Error(err))
	}

	return db
}

func initRedis(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	return client
}

func initBlobStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) blobstore.Store {
	switch cfg.BlobDriver {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			zapLogger.Fatal("failed to load AWS config", zap.Error(err))
		}
		return blobstore.NewS3Store(s3.NewFromConfig(awsCfg), cfg.BucketName)
	case "minio":
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  miniocreds.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			zapLogger.Fatal("failed to create MinIO client", zap.Error(err))
		}
		return blobstore.NewMinioStore(client, cfg.BucketName)
	case "memory":
		zapLogger.Warn("using in-memory blob store; references do not survive restarts")
		return blobstore.NewMemoryStore()
	default:
		zapLogger.Fatal("unknown blob driver", zap.String("driver", cfg.BlobDriver))
		return nil
	}
}

func serveHTTPServer(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	return serveHTTPServerWithOptions(server, shutdownTimeout, logger, nil, nil)
}

func serveHTTPServerWithOptions(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener, signalCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var (
		sigCh       <-chan os.Signal
		stopSignals func()
	)

	if signalCh != nil {
		sigCh = signalCh
		stopSignals = func() {}
	} else {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		sigCh = ch
		stopSignals = func() {
			signal.Stop(ch)
		}
	}
	defer stopSignals()

	select {
	case err := <-errCh:
		return err
	case sig, ok := <-sigCh:
		if !ok {
			return <-errCh
		}
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}
