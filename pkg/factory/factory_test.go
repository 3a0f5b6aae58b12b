package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.transfer/pkg/client"
)

// Verify the default factory implements the client.HandlerFactory interface.
var _ client.HandlerFactory = (*DefaultFactory)(nil)

func TestDefaultFactory_SupportedProtocols(t *testing.T) {
	f := NewDefaultFactory()
	assert.Equal(t, client.Protocols(), f.SupportedProtocols())
}

func TestDefaultFactory_CreateHandler_FTP(t *testing.T) {
	f := NewDefaultFactory()
	h, err := f.CreateHandler(client.ProtocolFTP, &client.ConnectionConfig{Host: "ftp.example.com"})
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, client.ProtocolFTP, h.Protocol())
}

func TestDefaultFactory_CreateHandler_FTP_SecureFlag(t *testing.T) {
	// An ftp tag with the secure flag produces the TLS variant.
	f := NewDefaultFactory()
	h, err := f.CreateHandler(client.ProtocolFTP, &client.ConnectionConfig{Host: "ftp.example.com", Secure: true})
	require.NoError(t, err)
	assert.Equal(t, client.ProtocolFTPS, h.Protocol())
}

func TestDefaultFactory_CreateHandler_FTPS(t *testing.T) {
	f := NewDefaultFactory()
	h, err := f.CreateHandler(client.ProtocolFTPS, &client.ConnectionConfig{Host: "ftps.example.com"})
	require.NoError(t, err)
	assert.Equal(t, client.ProtocolFTPS, h.Protocol())
}

func TestDefaultFactory_CreateHandler_SFTP(t *testing.T) {
	f := NewDefaultFactory()
	h, err := f.CreateHandler(client.ProtocolSFTP, &client.ConnectionConfig{Host: "sftp.example.com"})
	require.NoError(t, err)
	assert.Equal(t, client.ProtocolSFTP, h.Protocol())
}

func TestDefaultFactory_CreateHandler_HTTP(t *testing.T) {
	f := NewDefaultFactory()
	h, err := f.CreateHandler(client.ProtocolHTTP, &client.ConnectionConfig{Host: "http://example.com"})
	require.NoError(t, err)
	assert.Equal(t, client.ProtocolHTTP, h.Protocol())
}

func TestDefaultFactory_CreateHandler_HTTPS(t *testing.T) {
	f := NewDefaultFactory()
	h, err := f.CreateHandler(client.ProtocolHTTPS, &client.ConnectionConfig{Host: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, client.ProtocolHTTPS, h.Protocol())
}

func TestDefaultFactory_CreateHandler_Unsupported(t *testing.T) {
	f := NewDefaultFactory()
	h, err := f.CreateHandler(client.Protocol("smb"), &client.ConnectionConfig{Host: "example.com"})
	assert.Nil(t, h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrUnsupportedProtocol))
}
