package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
labels:
  service: demo
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultMetricsPath, cfg.Server.MetricsPath)
	assert.Equal(t, map[string]string{"service": "demo"}, cfg.Labels)
	assert.Nil(t, cfg.Workload)
	assert.Nil(t, cfg.OTEL)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  metrics_path: /m

workload:
  interval: 2s
  sources:
    load:
      type: random_int
      min: 1
      max: 10
  values:
    current:
      source: load

otel:
  enabled: true
  transport: http
  resource:
    deployment: staging
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/m", cfg.Server.MetricsPath)

	require.NotNil(t, cfg.Workload)
	assert.Equal(t, 2*time.Second, cfg.Workload.Interval)
	assert.Equal(t, "random_int", cfg.Workload.Sources["load"].Type)

	require.NotNil(t, cfg.OTEL)
	assert.Equal(t, "http", cfg.OTEL.Transport)
	assert.Equal(t, DefaultOTELPortHTTP, cfg.OTEL.Port)
	assert.Equal(t, DefaultOTELPushInterval, cfg.OTEL.Interval)
	assert.Equal(t, "localhost:4318", cfg.OTEL.GetEndpoint())
	assert.Equal(t, DefaultServiceName, cfg.OTEL.Resource["service.name"])
	assert.Equal(t, "staging", cfg.OTEL.Resource["deployment"])
}

func TestLoadInvalidPort(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 99999
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

func TestLoadInvalidTransport(t *testing.T) {
	path := writeConfig(t, `
otel:
  enabled: true
  transport: udp
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport")
}

func TestLoadValueWithoutSource(t *testing.T) {
	path := writeConfig(t, `
workload:
  values:
    orphan: {}
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either source or clone_from")
}

func TestLoadUndefinedSource(t *testing.T) {
	path := writeConfig(t, `
workload:
  values:
    current:
      source: missing
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `source "missing" not defined`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
