package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/storeforge/backend/internal/cfg"
	v1Http "github.com/storeforge/backend/internal/delivery/v1/http"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/internal/infrastructure/email"
	"github.com/storeforge/backend/internal/infrastructure/fetcher"
	"github.com/storeforge/backend/internal/infrastructure/kafka"
	"github.com/storeforge/backend/internal/infrastructure/magento"
	"github.com/storeforge/backend/internal/infrastructure/payment"
	"github.com/storeforge/backend/internal/infrastructure/sms"
	"github.com/storeforge/backend/internal/infrastructure/worker"
	s3Repo "github.com/storeforge/backend/internal/repository/minio"
	"github.com/storeforge/backend/internal/repository/pgdb"
	pgdbConv "github.com/storeforge/backend/internal/repository/pgdb/converter"
	"github.com/storeforge/backend/internal/repository/redis"
	redisConv "github.com/storeforge/backend/internal/repository/redis/converter"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/clients"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
	"github.com/storeforge/backend/pkg/postgres"
)

func Run() {
	logger := logger.NewZapLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}

	trManager := manager.Must(trmpgx.NewDefaultFactory(db.Pool))

	entryRepo := pgdb.NewEntryRepo(db.Pool, pgdbConv.EntryConverter{})
	categoryMappingRepo := pgdb.NewCategoryMappingRepo(db.Pool, pgdbConv.MappingConverter{})
	attributeMappingRepo := pgdb.NewAttributeMappingRepo(db.Pool, pgdbConv.MappingConverter{})
	storeRepo := pgdb.NewStoreRepo(db.Pool, pgdbConv.StoreConverter{})
	taskRepo := pgdb.NewTaskRepo(db.Pool, pgdbConv.TaskConverter{})
	ledgerRepo := pgdb.NewLedgerRepo(db.Pool, pgdbConv.LedgerConverter{})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.EntryInfoConverter{}, cfg.Redis, logger)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		os.Exit(1)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		os.Exit(1)
	}
	minioCancel()

	blobRepo := s3Repo.NewBlobRepo(minioClient, cfg.Minio)

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}

	magentoClient := magento.NewClient(cfg.Magento, logger)
	sessionFactory := magento.NewSessionFactory(magentoClient)

	smsProviders, err := sms.BuildProviders(cfg.Sms, logger)
	if err != nil {
		logger.Errorf(err, "failed to build sms providers")
		os.Exit(1)
	}
	emailSender := email.NewSmtpSender(cfg.Smtp, logger)
	imageFetcher := fetcher.NewHTTPFetcher(logger)
	paymentClient := payment.NewPayPing(cfg.Payment, logger)

	mappingUC := usecase.NewMappingUC(categoryMappingRepo, attributeMappingRepo, logger)
	catalogUC := usecase.NewCatalogUC(entryRepo, taskRepo, cacheRepo, imageFetcher, blobRepo, trManager, cfg.Worker, logger)
	syncUC := usecase.NewSyncUC(
		entryRepo,
		taskRepo,
		cacheRepo,
		mappingUC,
		magentoClient,
		sessionFactory,
		producer,
		cfg.Worker,
		logger,
	)
	mediaUC := usecase.NewMediaUC(magentoClient, blobRepo, cfg.Worker, logger)
	storeUC := usecase.NewStoreUC(storeRepo, magentoClient, cfg.Magento, logger)
	notificationUC := usecase.NewNotificationUC(
		smsProviders,
		cfg.Sms.FailoverOrder,
		cfg.Sms.Default,
		emailSender,
		logger,
	)
	ledgerUC := usecase.NewLedgerUC(ledgerRepo, paymentClient, trManager, logger)

	taskWorker := worker.NewWorker(taskRepo, cfg.Worker, logger, db.Dsn)
	taskWorker.Register(domain.TaskProductSync, func(ctx context.Context, payload []byte) error {
		var p usecase.ProductSyncPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		return syncUC.SyncEntry(ctx, p.Sku)
	})
	taskWorker.Register(domain.TaskImageUpload, func(ctx context.Context, payload []byte) error {
		var req usecase.ImageUploadReq
		if err := json.Unmarshal(payload, &req); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		return mediaUC.UploadEntryImage(ctx, &req)
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	taskWorker.Start(workerCtx)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(catalogUC, mappingUC, storeUC, notificationUC, ledgerUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Errorf(err, "HTTP server shutdown error")
	} else {
		logger.Infof("HTTP server stopped")
	}

	workerCancel()
	taskWorker.Stop()
	logger.Infof("Task worker stopped")

	if err := producer.Close(); err != nil {
		logger.Warnf("Kafka producer close error: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Client.Close(); err != nil {
			logger.Warnf("Redis close error: %v", err)
		}
	}

	if db != nil {
		db.Close()
	}

	logger.Infof("Application shutdown complete")
	if appErr != nil {
		os.Exit(1)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
