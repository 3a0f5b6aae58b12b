package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.transfer/pkg/client"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transfer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
host: sftp://files.example.com
username: exporter
password: s3cret
port: 2222
secure: true
directory_path: /exports
timeout: 45s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sftp://files.example.com", cfg.Host)
	assert.Equal(t, "exporter", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 2222, cfg.Port)
	assert.True(t, cfg.Secure)
	assert.Equal(t, "/exports", cfg.DirectoryPath)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
host: ftp.example.com
password: from-file
`)
	t.Setenv("TRANSFER_PASSWORD", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Password)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("TRANSFER_HOST", "ftp://env.example.com")
	t.Setenv("TRANSFER_USERNAME", "envuser")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ftp://env.example.com", cfg.Host)
	assert.Equal(t, "envuser", cfg.Username)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrInvalidConfig))
}

func TestLoad_MissingHost(t *testing.T) {
	path := writeConfigFile(t, `
username: nobody
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&client.ConnectionConfig{Host: "example.com"}))

	err := Validate(&client.ConnectionConfig{})
	assert.True(t, errors.Is(err, client.ErrInvalidConfig))

	err = Validate(nil)
	assert.True(t, errors.Is(err, client.ErrInvalidConfig))

	err = Validate(&client.ConnectionConfig{Host: "example.com", Port: 70000})
	assert.True(t, errors.Is(err, client.ErrInvalidConfig))
}
