// Package config loads the function's settings from environment variables.
package config

import (
	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvLocal = "LOCAL"

	StoreBackendDynamoDB = "dynamodb"
	StoreBackendBolt     = "bolt"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between deployments (ENV)
// - default: values shared by every deployment of the function
// -----------------------------------------------------------------------------

// Config is the whole environment of the add-commitment function.
type Config struct {
	Env              string `envconfig:"ENV" required:"true"`
	ExposeErrorStack bool   `envconfig:"EXPOSE_ERROR_STACK" default:"false"`
	Store            StoreConfig
	Log              LogConfig
	Local            LocalConfig
}

type StoreConfig struct {
	Backend          string `envconfig:"STORE_BACKEND" default:"dynamodb"`
	TableName        string `envconfig:"TABLE_NAME" default:"CommitmentsTable"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT"`
	BoltPath         string `envconfig:"BOLT_PATH" default:"commitments.db"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type LocalConfig struct {
	Addr string `envconfig:"LOCAL_ADDR" default:":8080"`
}

// IsLocal reports whether the function runs as a local HTTP server.
func (c Config) IsLocal() bool {
	return c.Env == EnvLocal
}

// LoadConfig reads the environment. ENV must be set, and the bolt backend is
// only allowed when ENV is LOCAL.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errs.Wrap(err, "failed to process env config")
	}
	if cfg.Env == "" {
		return Config{}, errs.New("Environment variable ENV is required")
	}
	switch cfg.Store.Backend {
	case StoreBackendDynamoDB:
	case StoreBackendBolt:
		if !cfg.IsLocal() {
			return Config{}, errs.Newf("STORE_BACKEND %q requires ENV=%s, got ENV=%q", cfg.Store.Backend, EnvLocal, cfg.Env)
		}
	default:
		return Config{}, errs.Newf("unsupported STORE_BACKEND %q", cfg.Store.Backend)
	}
	return cfg, nil
}

// NewTestConfig returns the defaults with a test environment and quiet logging.
func NewTestConfig() Config {
	return Config{
		Env: "test",
		Store: StoreConfig{
			Backend:   StoreBackendDynamoDB,
			TableName: "CommitmentsTable",
			BoltPath:  "commitments.db",
		},
		Log: LogConfig{
			Level: "error",
		},
		Local: LocalConfig{
			Addr: ":8080",
		},
	}
}
