package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets key for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadSQLiteDefaults(t *testing.T) {
	clearEnv(t, "APP_ENV", "PORT", "JWT_SECRET", "PASSWORD_SCHEME", "TAG_PREFIX", "MAX_PAGE_SIZE", "DB_PATH", "CORS_ORIGINS")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, PasswordBcrypt, cfg.PasswordScheme)
	assert.Equal(t, "MLCA", cfg.TagPrefix)
	assert.Equal(t, 0, cfg.MaxPageSize)
	assert.Equal(t, "assetinv.sqlite3", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnectTimeout)
	assert.Empty(t, cfg.JWTSecret)
	assert.False(t, cfg.Development())
}

func TestLoadMySQLRequiresCredentials(t *testing.T) {
	clearEnv(t, "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Host")
	assert.Contains(t, err.Error(), "Password")
}

func TestLoadMySQL(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "inventory")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "assets")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.Development())
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Driver")

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PASSWORD_SCHEME", "sha1")

	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PasswordScheme")
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t, "DB_DRIVER", "DB_PATH", "TAG_PREFIX")
	t.Setenv("PORT", "9000")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DB_DRIVER=sqlite\nDB_PATH=/tmp/from-file.sqlite3\nTAG_PREFIX=ASSET\nPORT=1234\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"DB_DRIVER", "DB_PATH", "TAG_PREFIX"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/from-file.sqlite3", cfg.Database.Path)
	assert.Equal(t, "ASSET", cfg.TagPrefix)
	// Process environment wins over the file.
	assert.Equal(t, 9000, cfg.Port)
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
