package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string
	LogLevel    string
	SnowflakeID int64

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	// DBDSN overrides the discrete DB fields when set.
	DBDSN string

	Otel      OtelConfig
	Storage   StorageConfig
	Render    RenderConfig
	Scheduler SchedulerConfig
	Bootstrap BootstrapConfig
}

type OtelConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

type RenderConfig struct {
	TemplateCacheTTL time.Duration
	PDFFontSize      float64
	// RateLimit caps render and export requests per organization per
	// RateWindow. Zero disables the limit.
	RateLimit  int
	RateWindow time.Duration
}

// SchedulerConfig drives the outbox relay.
type SchedulerConfig struct {
	Enabled   bool
	Interval  time.Duration
	BatchSize int
}

type BootstrapConfig struct {
	EnsureMainOrg          bool
	EnsureDefaultTemplates bool
}

// Load reads configuration from the environment, an optional .env file and an
// optional config file named by CONFIG_NAME.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if name := strings.TrimSpace(os.Getenv("CONFIG_NAME")); name != "" {
		v.SetConfigName(name)
		v.AddConfigPath("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, err
			}
		}
	}

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppVersion:  v.GetString("app.version"),
		Environment: v.GetString("environment"),
		HTTPPort:    v.GetString("http.port"),
		LogLevel:    v.GetString("log.level"),
		SnowflakeID: v.GetInt64("snowflake.node"),

		DBType:     strings.ToLower(v.GetString("db.type")),
		DBHost:     v.GetString("db.host"),
		DBPort:     v.GetString("db.port"),
		DBName:     v.GetString("db.name"),
		DBUser:     v.GetString("db.user"),
		DBPassword: v.GetString("db.password"),
		DBSSLMode:  v.GetString("db.sslmode"),
		DBDSN:      v.GetString("db.dsn"),

		Otel: OtelConfig{
			Enabled:       v.GetBool("otel.enabled"),
			Endpoint:      v.GetString("otel.endpoint"),
			Protocol:      v.GetString("otel.protocol"),
			SamplingRatio: v.GetFloat64("otel.sampling.ratio"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("storage.enabled"),
			Endpoint:  v.GetString("storage.endpoint"),
			AccessKey: v.GetString("storage.access.key"),
			SecretKey: v.GetString("storage.secret.key"),
			Bucket:    v.GetString("storage.bucket"),
			UseSSL:    v.GetBool("storage.use.ssl"),
			URLExpiry: v.GetDuration("storage.url.expiry"),
		},
		Render: RenderConfig{
			TemplateCacheTTL: v.GetDuration("render.template.cache.ttl"),
			PDFFontSize:      v.GetFloat64("render.pdf.font.size"),
			RateLimit:        v.GetInt("render.rate.limit"),
			RateWindow:       v.GetDuration("render.rate.window"),
		},
		Scheduler: SchedulerConfig{
			Enabled:   v.GetBool("scheduler.enabled"),
			Interval:  v.GetDuration("scheduler.interval"),
			BatchSize: v.GetInt("scheduler.batch.size"),
		},
		Bootstrap: BootstrapConfig{
			EnsureMainOrg:          v.GetBool("bootstrap.main.org"),
			EnsureDefaultTemplates: v.GetBool("bootstrap.default.templates"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "quotely")
	v.SetDefault("app.version", "dev")
	v.SetDefault("environment", "development")
	v.SetDefault("http.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("snowflake.node", 1)

	v.SetDefault("db.type", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.name", "quotely")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("otel.protocol", "grpc")
	v.SetDefault("otel.sampling.ratio", 0.1)

	v.SetDefault("storage.bucket", "quotations")
	v.SetDefault("storage.url.expiry", 15*time.Minute)

	v.SetDefault("render.template.cache.ttl", 5*time.Minute)
	v.SetDefault("render.pdf.font.size", 10)
	v.SetDefault("render.rate.limit", 60)
	v.SetDefault("render.rate.window", time.Minute)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", 5*time.Second)
	v.SetDefault("scheduler.batch.size", 100)

	v.SetDefault("bootstrap.main.org", true)
	v.SetDefault("bootstrap.default.templates", true)
}

func (c Config) validate() error {
	switch c.DBType {
	case "postgres", "sqlite":
	default:
		return errors.New("config: db type must be postgres or sqlite")
	}
	if strings.TrimSpace(c.HTTPPort) == "" {
		return errors.New("config: http port is required")
	}
	if c.Storage.Enabled && strings.TrimSpace(c.Storage.Endpoint) == "" {
		return errors.New("config: storage endpoint is required when storage is enabled")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}
