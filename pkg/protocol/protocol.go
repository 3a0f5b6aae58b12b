// Package protocol detects the transfer protocol encoded in a connection
// string and normalizes host strings for handler consumption.
package protocol

import (
	"fmt"
	"net/url"
	"strings"

	"digital.vasic.transfer/pkg/client"
)

// detectionOrder checks more specific tags before their prefixes:
// sftp before ftp, ftps before ftp, https before http.
var detectionOrder = []client.Protocol{
	client.ProtocolSFTP,
	client.ProtocolFTPS,
	client.ProtocolFTP,
	client.ProtocolHTTPS,
	client.ProtocolHTTP,
}

// Detect resolves the protocol for a connection string. A non-empty hint
// takes priority over the host string; an explicit unrecognized scheme fails
// with client.ErrUnsupportedProtocol. Hosts without a scheme fall back to
// substring heuristics and finally default to FTP.
//
// The substring heuristics are a known sharp edge: a schemeless host that
// merely contains "sftp" (for example "mysftpbackup.com") detects as SFTP.
func Detect(host, hint string) (client.Protocol, error) {
	if hint != "" {
		lowered := strings.ToLower(hint)
		for _, p := range detectionOrder {
			if strings.HasPrefix(lowered, string(p)) {
				return p, nil
			}
		}
	}

	lowered := strings.ToLower(host)
	for _, p := range detectionOrder {
		if strings.HasPrefix(lowered, string(p)+"://") || strings.HasPrefix(lowered, string(p)+":") {
			return p, nil
		}
	}

	if idx := strings.Index(lowered, "://"); idx >= 0 {
		return "", fmt.Errorf("%w: %s", client.ErrUnsupportedProtocol, lowered[:idx])
	}

	switch {
	case strings.Contains(lowered, "sftp"):
		return client.ProtocolSFTP, nil
	case strings.Contains(lowered, "https"):
		return client.ProtocolHTTPS, nil
	case strings.Contains(lowered, "http"):
		return client.ProtocolHTTP, nil
	}

	// Legacy compatibility fallback.
	return client.ProtocolFTP, nil
}

// NormalizeHost strips exactly one leading recognized scheme prefix
// ("sftp://" or "sftp:") and leaves the remainder untouched, path suffix
// included. Callers needing a bare host must parse further.
func NormalizeHost(host string) string {
	lowered := strings.ToLower(host)
	for _, p := range detectionOrder {
		if prefix := string(p) + "://"; strings.HasPrefix(lowered, prefix) {
			return host[len(prefix):]
		}
		if prefix := string(p) + ":"; strings.HasPrefix(lowered, prefix) {
			return host[len(prefix):]
		}
	}
	return host
}

// IsValidURL reports structural URL validity only; it performs no
// reachability check.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
