package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

func TestConfigResolveFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "blossomer.yaml")
	content := `storage: /var/lib/blossomer/state.db
log_level: debug
backend:
  kind: firestore
  url: https://api.example.com
  firestore:
    project: gtm-project
backup:
  bucket: gtm-backups
`
	gt.NoError(t, os.WriteFile(file, []byte(content), 0644))

	// flag values win over the file
	cfg := config{configFile: file, logLevel: "warn"}
	gt.NoError(t, cfg.resolve())

	gt.Equal(t, cfg.storage, "/var/lib/blossomer/state.db")
	gt.Equal(t, cfg.logLevel, "warn")
	gt.Equal(t, cfg.backend, backendFirestore)
	gt.Equal(t, cfg.apiURL, "https://api.example.com")
	gt.Equal(t, cfg.project, "gtm-project")
	gt.Equal(t, cfg.database, "(default)")
	gt.Equal(t, cfg.bucket, "gtm-backups")
}

func TestConfigResolveDefaults(t *testing.T) {
	cfg := config{storage: filepath.Join(t.TempDir(), "state.db")}
	gt.NoError(t, cfg.resolve())

	gt.Equal(t, cfg.logLevel, "info")
	gt.Equal(t, cfg.backend, backendAPI)
	gt.Equal(t, cfg.database, "(default)")

	off := config{storage: "state.db", logLevel: logLevelOff}
	gt.NoError(t, off.resolve())
}

func TestConfigResolveErrors(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		cfg := config{storage: "state.db", backend: "dynamodb"}
		gt.Error(t, cfg.resolve())
	})

	t.Run("unknown log level", func(t *testing.T) {
		cfg := config{storage: "state.db", logLevel: "verbose"}
		gt.Error(t, cfg.resolve()).Is(logging.ErrInvalidLevel)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := config{configFile: filepath.Join(t.TempDir(), "none.yaml")}
		gt.Error(t, cfg.resolve())
	})

	t.Run("broken YAML", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "broken.yaml")
		gt.NoError(t, os.WriteFile(file, []byte("backend: [unclosed"), 0644))
		cfg := config{configFile: file}
		gt.Error(t, cfg.resolve())
	})
}
