package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"infosight-worker/config"
	"infosight-worker/constant"
	submissionHandler "infosight-worker/handler"
	"infosight-worker/pkg/llm"
	"infosight-worker/pkg/rabbitmq"
	"infosight-worker/pkg/storage"
	"infosight-worker/pkg/transcribe"
	"infosight-worker/repository"
	"infosight-worker/service"
)

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn")
	}

	repo := repository.NewRepo(cfg.DB)
	store := storage.NewMinioStore(cfg.Storage, cfg.MinIOBucket)
	transcriber := transcribe.NewClient(cfg.Transcribe)
	llmClient := llm.NewClient(cfg.LLM)

	submissionService := service.NewService(repo, store, transcriber, llmClient, cfg)
	reprocessService := service.NewReprocessService(repo, llmClient, cfg)
	exporter := service.NewExporter(repo)

	serviceDeps := submissionHandler.ServiceDependencies{
		SubmissionService: submissionService,
		ReprocessService:  reprocessService,
	}

	// Start submission consumer
	if conn != nil {
		consumer := rabbitmq.NewConsumer(conn, cfg.Queue, cfg.Server.Workers, submissionHandler.SubmissionHandler)
		go func() {
			err := consumer.Consume(ctx, serviceDeps)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("Submission consumer error")
			}
		}()
	}

	r := gin.Default()
	addHealth(r)
	addRoutes(r, ctx, &httpHandler{
		repo:              repo,
		submissionService: submissionService,
		reprocessService:  reprocessService,
		exporter:          exporter,
	})

	handler := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("start http server")
		if err := handler.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	if err := handler.Shutdown(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
