package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"transcript-eval-platform/backend/internal/apigateway"
	"transcript-eval-platform/backend/internal/appconfig"
	"transcript-eval-platform/backend/internal/auth"
	"transcript-eval-platform/backend/internal/coreengine/evaluationengine"
	"transcript-eval-platform/backend/internal/coreengine/serviceclients"
	"transcript-eval-platform/backend/internal/datastore"
	"transcript-eval-platform/backend/internal/jobmanagement"
	"transcript-eval-platform/backend/internal/logger"
	"transcript-eval-platform/backend/internal/objectstore"
)

func main() {
	cfg, err := appconfig.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.WithComponent("main")

	auth.SetCredentials(cfg.AdminUsername, cfg.AdminPassword)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := datastore.InitMongo(startupCtx, cfg.MongoURI, cfg.MongoDBName,
		cfg.MongoInputCollection, cfg.MongoOutputCollection, cfg.MongoJobsCollection); err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := datastore.CloseMongo(shutdownCtx); err != nil {
			log.Errorf("Failed to close MongoDB connection: %v", err)
		}
	}()

	if err := objectstore.InitMinioClient(startupCtx, cfg.MinioEndpoint, cfg.MinioAccessKeyID,
		cfg.MinioSecretAccessKey, cfg.MinioBucketName, cfg.MinioUseSSL); err != nil {
		log.Fatalf("Failed to initialize MinIO client: %v", err)
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	analyzer := serviceclients.NewAnalyzerClient(cfg.TranscriptAnalyzerURL, timeout)
	judge := serviceclients.NewJudgeClient(cfg.JudgeBaseURL, cfg.JudgeAPIKey, cfg.JudgeModel, timeout)

	evaluator := evaluationengine.NewRowEvaluator(analyzer, judge, cfg.JudgeConcurrency)
	processor := evaluationengine.NewBatchProcessor(evaluator)
	jobmanagement.InitJobService(jobmanagement.NewJobService(processor, cfg.MaxWorkers))

	router := apigateway.SetupRouter()

	log.Infof("Starting server on %s", cfg.ServerAddress)
	if err := router.Run(cfg.ServerAddress); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
