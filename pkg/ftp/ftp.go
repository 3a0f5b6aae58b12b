// Package ftp implements the transfer handler for FTP and FTPS. Both share
// this implementation; FTPS switches the dial to explicit TLS.
package ftp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	goftp "github.com/jlaffaye/ftp"

	"digital.vasic.transfer/pkg/client"
	"digital.vasic.transfer/pkg/protocol"
)

const defaultPort = 21

// Handler implements client.Handler for FTP and FTPS.
type Handler struct {
	config    *client.ConnectionConfig
	secure    bool
	conn      *goftp.ServerConn
	connected bool
}

// NewHandler creates a new FTP handler. With secure set the connection is
// established over explicit TLS (FTPS).
func NewHandler(config *client.ConnectionConfig, secure bool) *Handler {
	return &Handler{
		config: config,
		secure: secure,
	}
}

// address derives the dial address from the configured host, stripping any
// scheme prefix and path suffix and applying the default port when none is
// present.
func (h *Handler) address() string {
	host := protocol.NormalizeHost(h.config.Host)
	if idx := strings.Index(host, "/"); idx >= 0 {
		host = host[:idx]
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	port := h.config.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, fmt.Sprintf("%d", port))
}

func (h *Handler) timeout() time.Duration {
	if h.config.Timeout > 0 {
		return h.config.Timeout
	}
	return 30 * time.Second
}

// Connect establishes the FTP connection, logs in and changes into the
// configured initial directory.
func (h *Handler) Connect(ctx context.Context) error {
	opts := []goftp.DialOption{
		goftp.DialWithContext(ctx),
		goftp.DialWithTimeout(h.timeout()),
	}
	if h.secure {
		opts = append(opts, goftp.DialWithExplicitTLS(&tls.Config{
			ServerName: hostOnly(h.address()),
		}))
	}

	conn, err := goftp.Dial(h.address(), opts...)
	if err != nil {
		return fmt.Errorf("FTP connection failed: %w", err)
	}

	user := h.config.Username
	if user == "" {
		user = "anonymous"
	}
	if err := conn.Login(user, h.config.Password); err != nil {
		conn.Quit()
		return fmt.Errorf("FTP login failed: %w", err)
	}

	if h.config.DirectoryPath != "" {
		if err := conn.ChangeDir(h.config.DirectoryPath); err != nil {
			conn.Quit()
			return fmt.Errorf("failed to change to directory %s: %w", h.config.DirectoryPath, err)
		}
	}

	h.conn = conn
	h.connected = true
	return nil
}

// Disconnect closes the FTP connection.
func (h *Handler) Disconnect(ctx context.Context) error {
	if h.conn != nil {
		err := h.conn.Quit()
		h.conn = nil
		h.connected = false
		return err
	}
	h.connected = false
	return nil
}

// IsConnected returns true if the handler holds a live connection.
func (h *Handler) IsConnected() bool {
	return h.connected && h.conn != nil
}

// List lists the entries of a remote directory.
func (h *Handler) List(ctx context.Context, dirPath string) ([]*client.FileInfo, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	entries, err := h.conn.List(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list FTP directory %s: %w", dirPath, err)
	}

	var files []*client.FileInfo
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		size := int64(entry.Size)
		if entry.Size > uint64(1<<63-1) {
			size = 1<<63 - 1
		}
		files = append(files, client.NewFileInfo(entry.Name, size, entry.Time, entry.Type == goftp.EntryTypeFolder))
	}
	return files, nil
}

// Download retrieves a remote file's contents.
func (h *Handler) Download(ctx context.Context, remotePath string) ([]byte, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	resp, err := h.conn.Retr(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve FTP file %s: %w", remotePath, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read FTP file %s: %w", remotePath, err)
	}
	return data, nil
}

// Upload stores a local file at the remote path.
func (h *Handler) Upload(ctx context.Context, localPath, remotePath string) error {
	if !h.IsConnected() {
		return client.ErrNotConnected
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer f.Close()

	if err := h.conn.Stor(remotePath, f); err != nil {
		return fmt.Errorf("failed to store FTP file %s: %w", remotePath, err)
	}
	return nil
}

// Stat looks the path up in its parent directory listing. A missing entry
// returns (nil, nil); only listing failures surface as errors.
func (h *Handler) Stat(ctx context.Context, remotePath string) (*client.FileInfo, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	dir := path.Dir(remotePath)
	name := path.Base(remotePath)

	entries, err := h.conn.List(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat FTP path %s: %w", remotePath, err)
	}
	for _, entry := range entries {
		if entry.Name != name {
			continue
		}
		size := int64(entry.Size)
		return client.NewFileInfo(entry.Name, size, entry.Time, entry.Type == goftp.EntryTypeFolder), nil
	}
	return nil, nil
}

// Exists checks whether the path exists.
func (h *Handler) Exists(ctx context.Context, remotePath string) (bool, error) {
	info, err := h.Stat(ctx, remotePath)
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

// LastModified returns the remote file's modification time, preferring the
// MDTM command when the server supports it.
func (h *Handler) LastModified(ctx context.Context, remotePath string) (*time.Time, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	if t, err := h.conn.GetTime(remotePath); err == nil {
		return &t, nil
	}

	info, err := h.Stat(ctx, remotePath)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	t := info.Timestamp()
	return &t, nil
}

// Protocol returns the protocol tag.
func (h *Handler) Protocol() client.Protocol {
	if h.secure {
		return client.ProtocolFTPS
	}
	return client.ProtocolFTP
}

// Config returns the connection configuration.
func (h *Handler) Config() *client.ConnectionConfig {
	return h.config
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
