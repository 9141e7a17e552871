package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/adapter"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	backendAPI       = "api"
	backendFirestore = "firestore"

	logLevelOff = "off"
)

// config holds configuration values
type config struct {
	configFile string

	// Local state
	storage  string
	logLevel string

	// Backend
	backend  string
	apiURL   string
	project  string
	database string

	// Backup
	bucket string
}

// fileConfig is the layout of the YAML config file
type fileConfig struct {
	Storage  string `yaml:"storage"`
	LogLevel string `yaml:"log_level"`
	Backend  struct {
		Kind      string `yaml:"kind"`
		URL       string `yaml:"url"`
		Firestore struct {
			Project  string `yaml:"project"`
			Database string `yaml:"database"`
		} `yaml:"firestore"`
	} `yaml:"backend"`
	Backup struct {
		Bucket string `yaml:"bucket"`
	} `yaml:"backup"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("BLOSSOMER_CONFIG"),
			Destination: &cfg.configFile,
		},
		&cli.StringFlag{
			Name:        "storage",
			Usage:       "Path to the local state database",
			Sources:     cli.EnvVars("BLOSSOMER_STORAGE"),
			Destination: &cfg.storage,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error, off)",
			Sources:     cli.EnvVars("BLOSSOMER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "backend",
			Usage:       "Backend kind (api, firestore)",
			Sources:     cli.EnvVars("BLOSSOMER_BACKEND"),
			Destination: &cfg.backend,
		},
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Base URL of the backend API",
			Sources:     cli.EnvVars("BLOSSOMER_API_URL"),
			Destination: &cfg.apiURL,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
	}
}

// backupFlags returns flags for draft backups with destination config
func backupFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for draft backups",
			Sources:     cli.EnvVars("BLOSSOMER_BACKUP_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// resolve fills values not given by flags or environment from the config
// file, then applies defaults
func (cfg *config) resolve() error {
	if cfg.configFile != "" {
		fc, err := loadConfigFile(cfg.configFile)
		if err != nil {
			return err
		}
		fill(&cfg.storage, fc.Storage)
		fill(&cfg.logLevel, fc.LogLevel)
		fill(&cfg.backend, fc.Backend.Kind)
		fill(&cfg.apiURL, fc.Backend.URL)
		fill(&cfg.project, fc.Backend.Firestore.Project)
		fill(&cfg.database, fc.Backend.Firestore.Database)
		fill(&cfg.bucket, fc.Backup.Bucket)
	}

	if cfg.storage == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return goerr.Wrap(err, "failed to locate config directory, set --storage")
		}
		cfg.storage = filepath.Join(dir, "blossomer", "state.db")
	}
	fill(&cfg.logLevel, "info")
	fill(&cfg.backend, backendAPI)
	fill(&cfg.database, "(default)")

	if cfg.logLevel != logLevelOff {
		if _, err := logging.ParseLevel(cfg.logLevel); err != nil {
			return err
		}
	}

	switch cfg.backend {
	case backendAPI, backendFirestore:
	default:
		return goerr.New("unknown backend", goerr.V("backend", cfg.backend))
	}
	return nil
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func loadConfigFile(path string) (*fileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("file", path))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML config", goerr.V("file", path))
	}
	return &fc, nil
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket, adapter.WithPrefix("backups/"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
