package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, 4, cfg.Engine.NumRanks)
	assert.True(t, cfg.Engine.DonationEnabled)
	assert.Equal(t, 0, cfg.Engine.Threshold)
	assert.Equal(t, "", cfg.Database.Type)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
engine:
  num_ranks: 8
  donation_enabled: false
  threshold: 50
database:
  type: postgres
  host: db.example.com
  port: 5432
  database: cliquecount
  user: admin
  password: secret
storage:
  type: local
  local_path: /tmp/storage
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Engine.NumRanks)
	assert.False(t, cfg.Engine.DonationEnabled)
	assert.Equal(t, 50, cfg.Engine.Threshold)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "cliquecount", cfg.Database.Database)
	assert.Equal(t, "/tmp/storage", cfg.Storage.LocalPath)
}

func TestLoad_InvalidDatabaseType(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: oracle
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(configFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestLoad_COSWithCredentials(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
storage:
  type: cos
  bucket: test-bucket
  region: ap-guangzhou
  secret_id: test-id
  secret_key: test-key
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "cos", cfg.Storage.Type)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
}

func TestValidate_NoDatabaseIsValid(t *testing.T) {
	cfg := &Config{
		Engine:  EngineConfig{NumRanks: 4},
		Storage: StorageConfig{Type: "local"},
	}

	assert.NoError(t, cfg.Validate())
}

func TestValidate_InvalidNumRanks(t *testing.T) {
	cfg := &Config{
		Engine:  EngineConfig{NumRanks: 0},
		Storage: StorageConfig{Type: "local"},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "num_ranks must be at least 1")
}

func TestValidate_InvalidStorageType(t *testing.T) {
	cfg := &Config{
		Engine:  EngineConfig{NumRanks: 4},
		Storage: StorageConfig{Type: "s3"},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage type")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFromReader(t *testing.T) {
	content := []byte(`
database:
  type: mysql
  host: mysql.local
storage:
  type: local
`)
	cfg, err := LoadFromReader("yaml", content)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "mysql.local", cfg.Database.Host)
}
