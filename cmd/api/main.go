package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"

	"shootapi/config"
	"shootapi/controllers"
	"shootapi/dbhelper"
	"shootapi/history"
	"shootapi/logger"
	"shootapi/services"
	"shootapi/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config.Load: %s", err)
	}

	sugar, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger.New: %s", err)
	}
	defer sugar.Sync()

	err = sentry.Init(sentry.ClientOptions{
		// An empty DSN disables reporting.
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		Release:          "shootapi@1.0.0",
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		sugar.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store history.Store
	if cfg.UseDatabase() {
		db, err := dbhelper.SetupDB(cfg)
		if err != nil {
			sugar.Fatalf("dbhelper.SetupDB: %s", err)
		}
		store = history.NewGormStore(db, nil)
	} else {
		store = history.NewMemoryStore(nil)
	}
	sugar.Infow("history store ready", "kind", cfg.HistoryStore)

	awsService := &services.AWSService{}
	err = awsService.InitPresignClient(ctx, services.R2Credentials{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		AccessKeySecret: cfg.R2AccessKeySecret,
	})
	if err != nil {
		sugar.Fatalf("InitPresignClient: %s", err)
	}
	urlCache, err := services.NewURLCacheService(awsService, cfg.R2BucketName, sugar)
	if err != nil {
		sugar.Fatalf("NewURLCacheService: %s", err)
	}

	genModels, err := services.NewGenAIModels(ctx, cfg.GoogleAPIKey)
	if err != nil {
		sugar.Fatalf("NewGenAIModels: %s", err)
	}

	sess := session.New(session.Options{
		Uploader: &services.R2UploadService{
			AWS:        awsService,
			BucketName: cfg.R2BucketName,
			Log:        sugar,
		},
		Agent: &services.GeminiAgentService{
			Models:     genModels,
			Model:      cfg.AgentModel,
			AgentID:    cfg.AgentID,
			URLs:       urlCache,
			AWS:        awsService,
			BucketName: cfg.R2BucketName,
			HTTPClient: &http.Client{Timeout: time.Minute},
			Log:        sugar,
		},
		Store:   store,
		AgentID: cfg.AgentID,
		Log:     sugar,
	})
	defer sess.Close()

	e := controllers.SetupServer(sess, store, sugar)
	e.Debug = cfg.Env == "local"
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("12M"))
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown", "error", err)
	}
}
