// Package client defines the unified file transfer handler contract
// supporting multiple protocols (FTP, FTPS, SFTP, HTTP, HTTPS).
package client

import (
	"context"
	"time"
)

// Protocol identifies a supported transfer protocol.
type Protocol string

// The closed set of supported protocols. FTP and FTPS share one handler
// implementation with TLS toggled; HTTP and HTTPS share the read-only
// web handler.
const (
	ProtocolFTP   Protocol = "ftp"
	ProtocolFTPS  Protocol = "ftps"
	ProtocolSFTP  Protocol = "sftp"
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

// Protocols lists every supported protocol tag in detection order.
func Protocols() []Protocol {
	return []Protocol{ProtocolSFTP, ProtocolFTPS, ProtocolFTP, ProtocolHTTPS, ProtocolHTTP}
}

// FileType distinguishes files from directories in listings.
type FileType string

const (
	TypeFile      FileType = "file"
	TypeDirectory FileType = "directory"
)

// FileInfo represents file metadata from any remote backend.
// ModifyTime, when present, is the authoritative modification timestamp;
// ModTime is the best-known fallback. Type and IsDir are kept consistent.
type FileInfo struct {
	Name       string
	Size       int64
	ModTime    time.Time
	Type       FileType
	IsDir      bool
	ModifyTime *time.Time
}

// Timestamp returns the authoritative modification time: ModifyTime when
// present, otherwise ModTime.
func (f *FileInfo) Timestamp() time.Time {
	if f.ModifyTime != nil {
		return *f.ModifyTime
	}
	return f.ModTime
}

// NewFileInfo builds a FileInfo with Type and IsDir set consistently.
func NewFileInfo(name string, size int64, modTime time.Time, isDir bool) *FileInfo {
	t := TypeFile
	if isDir {
		t = TypeDirectory
	}
	return &FileInfo{
		Name:    name,
		Size:    size,
		ModTime: modTime,
		Type:    t,
		IsDir:   isDir,
	}
}

// ConnectionConfig holds the settings for one remote endpoint. It is treated
// as immutable once passed to a handler or the transfer client.
type ConnectionConfig struct {
	// Host is required and may carry a scheme prefix ("sftp://example.com").
	Host     string `json:"host" mapstructure:"host"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	// Port 0 selects the protocol default (21 for FTP/FTPS, 22 for SFTP).
	Port int `json:"port" mapstructure:"port"`
	// Secure forces TLS for FTP connections (equivalent to the ftps scheme).
	Secure bool `json:"secure" mapstructure:"secure"`
	// DirectoryPath is the initial working directory for file transfer
	// protocols, entered right after login.
	DirectoryPath string        `json:"directory_path" mapstructure:"directory_path"`
	Timeout       time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Handler is the capability contract every protocol adapter implements.
// A handler is constructed around one ConnectionConfig and owns at most one
// live connection, released by Disconnect.
type Handler interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool

	// Data operations
	List(ctx context.Context, path string) ([]*FileInfo, error)
	Download(ctx context.Context, remotePath string) ([]byte, error)
	Upload(ctx context.Context, localPath, remotePath string) error

	// Stat returns (nil, nil) when the path does not exist; errors are
	// reserved for genuine faults.
	Stat(ctx context.Context, path string) (*FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
	// LastModified returns (nil, nil) when the timestamp is unknown.
	LastModified(ctx context.Context, path string) (*time.Time, error)

	// Metadata
	Protocol() Protocol
	Config() *ConnectionConfig
}

// ResourceMeta describes an HTTP resource's content metadata, used by
// update detection over web protocols.
type ResourceMeta struct {
	IsJSON       bool
	LastModified *time.Time
}

// ResourceProber is implemented by handlers that can report content metadata
// beyond the base contract. Only the web handler does.
type ResourceProber interface {
	Resource(ctx context.Context, path string) (*ResourceMeta, error)
}

// HandlerFactory creates protocol handlers for a detected protocol.
type HandlerFactory interface {
	CreateHandler(protocol Protocol, config *ConnectionConfig) (Handler, error)
	SupportedProtocols() []Protocol
}
