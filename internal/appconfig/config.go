package appconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the platform, loaded from
// environment variables (optionally seeded from a .env file).
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":8080"`

	// Admin credentials for the session-cookie auth layer.
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// MongoDB document store.
	MongoURI              string `env:"MONGO_URI,required"`
	MongoDBName           string `env:"MONGO_DB_NAME,required"`
	MongoInputCollection  string `env:"MONGO_INPUT_COLLECTION" envDefault:"eval_inputs"`
	MongoOutputCollection string `env:"MONGO_OUTPUT_COLLECTION" envDefault:"eval_outputs"`
	MongoJobsCollection   string `env:"MONGO_JOBS_COLLECTION" envDefault:"evaluation_jobs"`

	// MinIO object storage for uploaded and generated workbooks.
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// External transcript analyzer service.
	TranscriptAnalyzerURL string `env:"TRANSCRIPT_ANALYZER_URL,required"`

	// External LLM judge service (chat-completion shaped endpoint).
	JudgeBaseURL string `env:"JUDGE_BASE_URL" envDefault:"https://api.openai.com/v1"`
	JudgeModel   string `env:"JUDGE_MODEL" envDefault:"gpt-4o-mini"`
	JudgeAPIKey  string `env:"JUDGE_API_KEY"`

	// Per-call timeout (seconds) applied to both external clients.
	RequestTimeoutSeconds int `env:"REQUEST_TIMEOUT" envDefault:"60"`

	// Bound on concurrent blocking file/dataset work in the job service.
	MaxWorkers int `env:"MAX_WORKERS" envDefault:"4"`

	// Capacity of the semaphore gating judge calls. The default of 1
	// serializes judge calls; raise it to allow parallel scoring within
	// the judge service's rate cap.
	JudgeConcurrency int `env:"JUDGE_CONCURRENCY" envDefault:"1"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is fine; deployments set real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration from environment: %w", err)
	}
	return cfg, nil
}
