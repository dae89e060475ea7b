package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultPageURL     = "https://www.imdpune.gov.in/cmpg/Griddata/Rainfall_25_NetCDF.html"
	defaultDownloadURL = "https://www.imdpune.gov.in/cmpg/Griddata/RF25.php"
)

// validate reports failures by environment variable name.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}()

// Config holds settings shared by the fetch, visualize and serve commands,
// populated from environment variables (and an optional .env file).
type Config struct {
	DataDir string `env:"DATA_DIR" validate:"required"`
	VisDir  string `env:"VIS_DIR" validate:"required"`

	// IMD portal endpoints.
	PageURL     string        `env:"IMD_PAGE_URL" validate:"required,url"`
	DownloadURL string        `env:"IMD_DOWNLOAD_URL" validate:"required,url"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" validate:"gte=0s"` // 0 disables the client timeout

	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"omitempty,oneof=text json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// Animation rendering.
	RenderScale int `env:"RENDER_SCALE" validate:"gte=1,lte=16"`
	RenderFPS   int `env:"RENDER_FPS" validate:"gte=1,lte=60"`

	// MetricsTextfile, when set, receives the metrics registry on exit.
	MetricsTextfile string `env:"METRICS_TEXTFILE"`

	// Dataset notifications (disabled when KafkaBrokers is empty).
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" validate:"required_if=KafkaEnabled true"`
	KafkaEnabled bool     `env:"KAFKA_ENABLED"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	httpTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("HTTP_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	scale, err := parseInt("RENDER_SCALE", 4)
	if err != nil {
		return nil, err
	}
	fps, err := parseInt("RENDER_FPS", 5)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		DataDir:         sharedcfg.EnvOrDefault("DATA_DIR", "./data"),
		VisDir:          sharedcfg.EnvOrDefault("VIS_DIR", "./vis"),
		PageURL:         sharedcfg.EnvOrDefault("IMD_PAGE_URL", defaultPageURL),
		DownloadURL:     sharedcfg.EnvOrDefault("IMD_DOWNLOAD_URL", defaultDownloadURL),
		HTTPTimeout:     httpTimeout,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "text")),
		ShutdownTimeout: shutdownTimeout,
		RenderScale:     scale,
		RenderFPS:       fps,
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "rainfall-datasets"),
		KafkaEnabled:    len(brokers) > 0,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	return cfg, nil
}

// describe flattens validator errors into one message naming each variable.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("invalid %s %q: must satisfy %s", fe.Field(), fmt.Sprint(fe.Value()), rule))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", key)
	}
	return n, nil
}
