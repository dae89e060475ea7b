package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "./vis", cfg.VisDir)
	assert.Equal(t, defaultPageURL, cfg.PageURL)
	assert.Equal(t, defaultDownloadURL, cfg.DownloadURL)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 4, cfg.RenderScale)
	assert.Equal(t, 5, cfg.RenderFPS)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "rainfall-datasets", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/imd/data")
	t.Setenv("VIS_DIR", "/srv/imd/vis")
	t.Setenv("IMD_PAGE_URL", "http://localhost:9000/page.html")
	t.Setenv("IMD_DOWNLOAD_URL", "http://localhost:9000/RF25.php")
	t.Setenv("HTTP_TIMEOUT", "2m")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("RENDER_SCALE", "8")
	t.Setenv("RENDER_FPS", "12")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/rainfall.prom")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "imd-datasets")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/imd/data", cfg.DataDir)
	assert.Equal(t, "/srv/imd/vis", cfg.VisDir)
	assert.Equal(t, "http://localhost:9000/page.html", cfg.PageURL)
	assert.Equal(t, "http://localhost:9000/RF25.php", cfg.DownloadURL)
	assert.Equal(t, 2*time.Minute, cfg.HTTPTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 8, cfg.RenderScale)
	assert.Equal(t, 12, cfg.RenderFPS)
	assert.Equal(t, "/var/lib/node_exporter/rainfall.prom", cfg.MetricsTextfile)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "imd-datasets", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidHTTPTimeout(t *testing.T) {
	for _, v := range []string{"soon", "-5s"} {
		t.Setenv("HTTP_TIMEOUT", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
	}
}

func TestLoad_RenderScaleOutOfRange(t *testing.T) {
	for _, v := range []string{"0", "17", "big"} {
		t.Setenv("RENDER_SCALE", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "RENDER_SCALE")
	}
}

func TestLoad_RenderFPSOutOfRange(t *testing.T) {
	t.Setenv("RENDER_FPS", "61")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RENDER_FPS")
}

func TestLoad_InvalidPageURL(t *testing.T) {
	t.Setenv("IMD_PAGE_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMD_PAGE_URL")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_ReportsEveryInvalidVariable(t *testing.T) {
	t.Setenv("RENDER_SCALE", "0")
	t.Setenv("IMD_DOWNLOAD_URL", "RF25.php")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RENDER_SCALE")
	assert.Contains(t, err.Error(), "IMD_DOWNLOAD_URL")
}
