// Package factory provides the default implementation of the
// client.HandlerFactory interface, creating protocol handlers for a detected
// protocol tag.
package factory

import (
	"fmt"

	"digital.vasic.transfer/pkg/client"
	"digital.vasic.transfer/pkg/ftp"
	"digital.vasic.transfer/pkg/sftp"
	"digital.vasic.transfer/pkg/web"
)

// DefaultFactory implements client.HandlerFactory for all supported
// protocols.
type DefaultFactory struct{}

// NewDefaultFactory creates a new default handler factory.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{}
}

// CreateHandler creates the handler variant matching the protocol. FTP and
// FTPS share the FTP handler with TLS toggled; HTTP and HTTPS share the
// read-only web handler.
func (f *DefaultFactory) CreateHandler(protocol client.Protocol, config *client.ConnectionConfig) (client.Handler, error) {
	switch protocol {
	case client.ProtocolFTP:
		return ftp.NewHandler(config, config.Secure), nil
	case client.ProtocolFTPS:
		return ftp.NewHandler(config, true), nil
	case client.ProtocolSFTP:
		return sftp.NewHandler(config), nil
	case client.ProtocolHTTP:
		return web.NewHandler(config, false), nil
	case client.ProtocolHTTPS:
		return web.NewHandler(config, true), nil
	default:
		return nil, fmt.Errorf("%w: %s", client.ErrUnsupportedProtocol, protocol)
	}
}

// SupportedProtocols returns the closed set of supported protocol tags.
func (f *DefaultFactory) SupportedProtocols() []client.Protocol {
	return client.Protocols()
}
