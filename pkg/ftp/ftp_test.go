package ftp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.transfer/pkg/client"
)

// Verify the FTP handler implements the client.Handler interface.
var _ client.Handler = (*Handler)(nil)

func TestNewHandler(t *testing.T) {
	config := &client.ConnectionConfig{
		Host:     "ftp.example.com",
		Username: "user",
		Password: "pass",
	}
	h := NewHandler(config, false)
	require.NotNil(t, h)
	assert.Equal(t, config, h.config)
	assert.False(t, h.connected)
	assert.Nil(t, h.conn)
}

func TestHandler_Protocol(t *testing.T) {
	assert.Equal(t, client.ProtocolFTP, NewHandler(&client.ConnectionConfig{}, false).Protocol())
	assert.Equal(t, client.ProtocolFTPS, NewHandler(&client.ConnectionConfig{}, true).Protocol())
}

func TestHandler_Config(t *testing.T) {
	config := &client.ConnectionConfig{Host: "ftp.example.com", Port: 2121}
	h := NewHandler(config, false)
	assert.Equal(t, config, h.Config())
}

func TestHandler_Address_DefaultPort(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{Host: "example.com"}, false)
	assert.Equal(t, "example.com:21", h.address())
}

func TestHandler_Address_ConfiguredPort(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{Host: "example.com", Port: 2121}, false)
	assert.Equal(t, "example.com:2121", h.address())
}

func TestHandler_Address_StripsScheme(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{Host: "ftp://example.com"}, false)
	assert.Equal(t, "example.com:21", h.address())
}

func TestHandler_Address_HostCarriesPort(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{Host: "ftp://example.com:2121"}, false)
	assert.Equal(t, "example.com:2121", h.address())
}

func TestHandler_Address_StripsPathSuffix(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{Host: "ftp://example.com/pub/data"}, false)
	assert.Equal(t, "example.com:21", h.address())
}

func TestHandler_IsConnected_NotConnected(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	assert.False(t, h.IsConnected())
}

func TestHandler_IsConnected_FlagTrueButNilConn(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	h.connected = true
	assert.False(t, h.IsConnected())
}

func TestHandler_List_NotConnected(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	files, err := h.List(context.Background(), "/")
	assert.Nil(t, files)
	assert.True(t, errors.Is(err, client.ErrNotConnected))
}

func TestHandler_Download_NotConnected(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	data, err := h.Download(context.Background(), "file.txt")
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, client.ErrNotConnected))
}

func TestHandler_Upload_NotConnected(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	err := h.Upload(context.Background(), "local.txt", "remote.txt")
	assert.True(t, errors.Is(err, client.ErrNotConnected))
}

func TestHandler_Stat_NotConnected(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	info, err := h.Stat(context.Background(), "file.txt")
	assert.Nil(t, info)
	assert.True(t, errors.Is(err, client.ErrNotConnected))
}

func TestHandler_Exists_NotConnected(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	exists, err := h.Exists(context.Background(), "file.txt")
	assert.False(t, exists)
	assert.True(t, errors.Is(err, client.ErrNotConnected))
}

func TestHandler_LastModified_NotConnected(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	ts, err := h.LastModified(context.Background(), "file.txt")
	assert.Nil(t, ts)
	assert.True(t, errors.Is(err, client.ErrNotConnected))
}

func TestHandler_Disconnect_NilConn(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{}, false)
	err := h.Disconnect(context.Background())
	assert.NoError(t, err)
	assert.False(t, h.connected)
}

func TestHandler_Connect_InvalidServer(t *testing.T) {
	h := NewHandler(&client.ConnectionConfig{
		Host:    "127.0.0.1",
		Port:    1, // port 1 is unlikely to have an FTP server
		Timeout: time.Second,
	}, false)
	err := h.Connect(context.Background())
	assert.Error(t, err)
	assert.False(t, h.IsConnected())
}
