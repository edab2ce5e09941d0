package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Password schemes.
const (
	PasswordBcrypt = "bcrypt"
	PasswordMD5    = "md5"
)

type (
	Config struct {
		Env            string   `env:"APP_ENV"         env-default:"production" validate:"oneof=development production test"`
		Port           int      `env:"PORT"            env-default:"3000"       validate:"gte=1,lte=65535"`
		JWTSecret      string   `env:"JWT_SECRET"`
		PasswordScheme string   `env:"PASSWORD_SCHEME" env-default:"bcrypt"     validate:"oneof=bcrypt md5"`
		TagPrefix      string   `env:"TAG_PREFIX"      env-default:"MLCA"       validate:"required,alpha"`
		CORSOrigins    []string `env:"CORS_ORIGINS"    env-separator:","`
		MaxPageSize    int      `env:"MAX_PAGE_SIZE"   env-default:"0"          validate:"gte=0"`
		MetricsAddr    string   `env:"METRICS_ADDR"`

		Database Database `env-prefix:"DB_"`
		Log      Log      `env-prefix:"LOG_"`
		Admin    Admin    `env-prefix:"ADMIN_"`
	}

	Database struct {
		Driver         string        `env:"DRIVER"          env-default:"mysql"            validate:"oneof=mysql sqlite"`
		Host           string        `env:"HOST"                                           validate:"required_if=Driver mysql"`
		Port           int           `env:"PORT"            env-default:"3306"             validate:"gte=1,lte=65535"`
		User           string        `env:"USER"                                           validate:"required_if=Driver mysql"`
		Password       string        `env:"PASSWORD"                                       validate:"required_if=Driver mysql"`
		Name           string        `env:"NAME"                                           validate:"required_if=Driver mysql"`
		Path           string        `env:"PATH"            env-default:"assetinv.sqlite3" validate:"required_if=Driver sqlite"`
		MaxOpenConns   int           `env:"MAX_OPEN_CONNS"  env-default:"10"               validate:"min=1,max=100"`
		ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" env-default:"30s"              validate:"gte=1s,lte=5m"`
	}

	Log struct {
		Level      string `env:"LEVEL"          env-default:"info" validate:"oneof=debug info warn error"`
		File       string `env:"FILE"`
		MaxSizeMB  int    `env:"MAX_SIZE_MB"    env-default:"100"  validate:"min=1,max=1000"`
		MaxBackups int    `env:"MAX_BACKUPS"    env-default:"3"    validate:"min=0,max=20"`
		MaxAgeDays int    `env:"MAX_AGE_DAYS"   env-default:"28"   validate:"min=1,max=365"`
	}

	Admin struct {
		Email    string `env:"EMAIL"    env-default:"admin@localhost" validate:"required"`
		Username string `env:"USERNAME" env-default:"admin"           validate:"required"`
	}
)

// Load reads envFile (if it exists) into the process environment and then
// builds and validates the configuration from environment variables.
// Variables already present in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	const op = "config.Load"

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: loading %s: %w", op, envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: read env: %w", op, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := make([]string, 0, len(validationErrs))
			for _, ve := range validationErrs {
				msgs = append(msgs, fmt.Sprintf("%s=%v must satisfy '%s'", ve.Namespace(), ve.Value(), ve.Tag()))
			}
			return nil, fmt.Errorf("%s: config validation: %s", op, strings.Join(msgs, "; "))
		}
		return nil, fmt.Errorf("%s: config validation: %w", op, err)
	}

	return &cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Development reports whether diagnostic detail may be returned to clients.
func (c *Config) Development() bool {
	return c.Env == EnvDevelopment
}
