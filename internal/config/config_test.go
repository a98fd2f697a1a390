package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  env: production
database:
  host: db.internal
  port: 3306
  user: speakpost
  password: secret
  name: speakpost
pipeline:
  watchdog_seconds: 45
  speech_threshold_db: -35
hashtags:
  max_tags: 4
  keywords:
    coffee: [coffee, coffeetime]
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 45, cfg.Pipeline.WatchdogSeconds)
	assert.Equal(t, -35.0, cfg.Pipeline.SpeechThresholdDB)
	assert.Equal(t, 4, cfg.Hashtags.MaxTags)
	assert.Equal(t, []string{"coffee", "coffeetime"}, cfg.Hashtags.Keywords["coffee"])
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "server: {}\n")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 30, cfg.Pipeline.WatchdogSeconds)
	assert.Equal(t, -40.0, cfg.Pipeline.SpeechThresholdDB)
	assert.Equal(t, 5, cfg.Pipeline.StatusAutoClearSeconds)
	assert.Equal(t, 6, cfg.Hashtags.MaxTags)
	assert.Equal(t, "media", cfg.Elasticsearch.Index)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
database:
  host: from-file
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DB_HOST", "from-env")
	t.Setenv("DB_PASSWORD", "env-secret")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, "env-secret", cfg.Database.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a map\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "pw",
		Name:     "speakpost",
	}.GetDSN()
	assert.Equal(t, "root:pw@tcp(localhost:3306)/speakpost?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestPipelineConfig_Durations(t *testing.T) {
	assert.Equal(t, 30*time.Second, PipelineConfig{}.WatchdogWindow())
	assert.Equal(t, 45*time.Second, PipelineConfig{WatchdogSeconds: 45}.WatchdogWindow())
	assert.Equal(t, 5*time.Second, PipelineConfig{}.StatusAutoClear())
	assert.Equal(t, 2*time.Second, PipelineConfig{StatusAutoClearSeconds: 2}.StatusAutoClear())
}
