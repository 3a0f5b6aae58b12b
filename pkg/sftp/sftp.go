// Package sftp implements the transfer handler for SFTP over SSH.
package sftp

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	gosftp "github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"digital.vasic.transfer/pkg/client"
	"digital.vasic.transfer/pkg/protocol"
)

const defaultPort = 22

// Handler implements client.Handler for SFTP.
type Handler struct {
	config    *client.ConnectionConfig
	sshConn   *ssh.Client
	conn      *gosftp.Client
	connected bool
}

// NewHandler creates a new SFTP handler.
func NewHandler(config *client.ConnectionConfig) *Handler {
	return &Handler{config: config}
}

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

// resolvePath resolves a relative path within the configured base directory.
func (h *Handler) resolvePath(p string) string {
	if h.config.DirectoryPath == "" || strings.HasPrefix(p, "/") {
		return p
	}
	return path.Join(h.config.DirectoryPath, p)
}

// Connect dials the SSH endpoint and opens an SFTP session over it.
// Host keys are not verified; the handler targets endpoints addressed by
// connection string without a known_hosts store.
func (h *Handler) Connect(ctx context.Context) error {
	sshConfig := &ssh.ClientConfig{
		User: h.config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(h.config.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         h.timeout(),
	}

	sshConn, err := ssh.Dial("tcp", h.address(), sshConfig)
	if err != nil {
		return fmt.Errorf("SFTP connection failed: %w", err)
	}

	conn, err := gosftp.NewClient(sshConn)
	if err != nil {
		sshConn.Close()
		return fmt.Errorf("failed to open SFTP session: %w", err)
	}

	h.sshConn = sshConn
	h.conn = conn
	h.connected = true
	return nil
}

// Disconnect closes the SFTP session and the underlying SSH connection.
func (h *Handler) Disconnect(ctx context.Context) error {
	var err error
	if h.conn != nil {
		err = h.conn.Close()
		h.conn = nil
	}
	if h.sshConn != nil {
		if closeErr := h.sshConn.Close(); err == nil {
			err = closeErr
		}
		h.sshConn = nil
	}
	h.connected = false
	return err
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

	entries, err := h.conn.ReadDir(h.resolvePath(dirPath))
	if err != nil {
		return nil, fmt.Errorf("failed to list SFTP directory %s: %w", dirPath, err)
	}

	var files []*client.FileInfo
	for _, entry := range entries {
		files = append(files, client.NewFileInfo(entry.Name(), entry.Size(), entry.ModTime(), entry.IsDir()))
	}
	return files, nil
}

// Download retrieves a remote file's contents.
func (h *Handler) Download(ctx context.Context, remotePath string) ([]byte, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	f, err := h.conn.Open(h.resolvePath(remotePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open SFTP file %s: %w", remotePath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read SFTP file %s: %w", remotePath, err)
	}
	return data, nil
}

// Upload stores a local file at the remote path.
func (h *Handler) Upload(ctx context.Context, localPath, remotePath string) error {
	if !h.IsConnected() {
		return client.ErrNotConnected
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := h.conn.Create(h.resolvePath(remotePath))
	if err != nil {
		return fmt.Errorf("failed to create SFTP file %s: %w", remotePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write SFTP file %s: %w", remotePath, err)
	}
	return nil
}

// Stat returns metadata for the path, or (nil, nil) when it does not exist.
func (h *Handler) Stat(ctx context.Context, remotePath string) (*client.FileInfo, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	info, err := h.conn.Stat(h.resolvePath(remotePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat SFTP path %s: %w", remotePath, err)
	}
	return client.NewFileInfo(path.Base(remotePath), info.Size(), info.ModTime(), info.IsDir()), nil
}

// Exists checks whether the path exists.
func (h *Handler) Exists(ctx context.Context, remotePath string) (bool, error) {
	info, err := h.Stat(ctx, remotePath)
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

// LastModified returns the remote file's modification time.
func (h *Handler) LastModified(ctx context.Context, remotePath string) (*time.Time, error) {
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
	return client.ProtocolSFTP
}

// Config returns the connection configuration.
func (h *Handler) Config() *client.ConnectionConfig {
	return h.config
}
