// Package bootstrap wires configuration, infrastructure clients,
// adapters and services into the API server and the worker.
package bootstrap

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"einvoice_server/adapter/in/worker"
	"einvoice_server/adapter/out/messaging"
	"einvoice_server/adapter/out/persistence"
	"einvoice_server/adapter/out/provider"
	"einvoice_server/config"
	"einvoice_server/core/service/auth"
	"einvoice_server/core/service/ingest"
	"einvoice_server/infra/database"
	"einvoice_server/internal/stream"
	"einvoice_server/pkg/logger"
)

type Dependencies struct {
	Config *config.Config

	DB    *pgxpool.Pool
	SQLx  *sqlx.DB
	Redis *redis.Client

	GoogleConfig *oauth2.Config

	Gmail  *provider.GmailAdapter
	Drive  *provider.DriveAdapter
	Sheets *provider.SheetsAdapter

	TokenRepo   *persistence.TokenAdapter
	BindingRepo *persistence.BindingAdapter

	Stream   *stream.RedisStream
	Producer *messaging.RedisProducer

	OAuthService *auth.OAuthService
	Validator    *ingest.SubjectValidator
	Decoder      *ingest.AttachmentDecoder
	Resolver     *ingest.DestinationResolver
	Pipeline     *ingest.Pipeline
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, func() { db.Close() })

	sqlxDB, err := database.NewSQLx(cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, func() { sqlxDB.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := persistence.EnsureSchema(ctx, sqlxDB); err != nil {
		cleanup()
		return nil, nil, err
	}

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, func() { redisClient.Close() })

	googleConfig := auth.NewGoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	gmail := provider.NewGmailAdapter(googleConfig)
	drive := provider.NewDriveAdapter(googleConfig)
	sheets := provider.NewSheetsAdapter(googleConfig)

	tokenRepo := persistence.NewTokenAdapter(sqlxDB)
	bindingRepo := persistence.NewBindingAdapter(sqlxDB)

	redisStream := stream.NewRedisStream(redisClient, "einvoice-workers")
	producer := messaging.NewRedisProducer(redisStream)

	oauthService := auth.NewOAuthService(googleConfig, tokenRepo, gmail)
	validator := ingest.NewSubjectValidator(cfg.SubjectMarker)
	decoder := ingest.NewAttachmentDecoder(gmail, cfg.IngestConcurrent)
	resolver := ingest.NewDestinationResolver(drive)
	pipeline := ingest.NewPipeline(
		oauthService, gmail, bindingRepo, sheets,
		validator, decoder, resolver, cfg.IngestTimeout,
	)

	logger.Info("Dependencies initialized (worker_id=%s)", cfg.WorkerID)

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		SQLx:         sqlxDB,
		Redis:        redisClient,
		GoogleConfig: googleConfig,
		Gmail:        gmail,
		Drive:        drive,
		Sheets:       sheets,
		TokenRepo:    tokenRepo,
		BindingRepo:  bindingRepo,
		Stream:       redisStream,
		Producer:     producer,
		OAuthService: oauthService,
		Validator:    validator,
		Decoder:      decoder,
		Resolver:     resolver,
		Pipeline:     pipeline,
	}, cleanup, nil
}

// NewWorkerHandler builds the job dispatcher for the stream consumer.
func NewWorkerHandler(deps *Dependencies) *worker.Handler {
	return worker.NewHandler(worker.NewIngestProcessor(deps.Pipeline))
}
