// Package transfer provides the orchestrating client that hides
// protocol-specific handlers behind one interface: protocol detection,
// handler selection, tolerant file lookup, retried downloads and update
// detection.
package transfer

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"digital.vasic.transfer/pkg/client"
	"digital.vasic.transfer/pkg/factory"
	"digital.vasic.transfer/pkg/logger"
	"digital.vasic.transfer/pkg/match"
	"digital.vasic.transfer/pkg/protocol"
	"digital.vasic.transfer/pkg/retry"
)

// Client dispatches every operation to the single active protocol handler.
// A Client is not safe for concurrent use: connect, disconnect and data
// operations race on the handler reference when issued in parallel on one
// instance. Distinct instances are fully independent.
type Client struct {
	factory client.HandlerFactory
	log     *logrus.Entry

	handler  client.Handler
	protocol client.Protocol
	config   *client.ConnectionConfig
}

// NewClient creates a transfer client backed by the default handler factory.
func NewClient() *Client {
	return &Client{
		factory: factory.NewDefaultFactory(),
		log:     logger.New("transfer"),
	}
}

// NewClientWithFactory creates a transfer client with a custom handler
// factory.
func NewClientWithFactory(f client.HandlerFactory) *Client {
	return &Client{
		factory: f,
		log:     logger.Discard(),
	}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(log *logrus.Entry) {
	if log != nil {
		c.log = log
	}
}

// ListOptions controls directory listing behavior.
type ListOptions struct {
	// IncludeDirectories keeps directory entries in the result. They are
	// filtered out by default.
	IncludeDirectories bool
}

// DownloadOptions controls the download retry budget.
type DownloadOptions struct {
	// Retries is the number of retries after the initial attempt.
	Retries int
	// RetryDelay is the base backoff, doubled after each failed attempt.
	RetryDelay time.Duration
}

// DefaultDownloadOptions returns the standard download retry budget:
// 3 retries with a 1 second base delay.
func DefaultDownloadOptions() DownloadOptions {
	return DownloadOptions{Retries: 3, RetryDelay: time.Second}
}

// FoundFile is a located file together with the path it was actually found
// under, which may differ from the requested path when fuzzy matching was
// needed.
type FoundFile struct {
	*client.FileInfo
	ActualPath string
}

// UpdateStatus reports whether a tracked file changed since a known
// timestamp.
type UpdateStatus struct {
	HasUpdate bool
	File      *FoundFile
}

// Connect detects the protocol from the configured host, constructs the
// matching handler and connects it. On handler failure the client stays
// disconnected.
func (c *Client) Connect(ctx context.Context, config *client.ConnectionConfig) error {
	return c.ConnectWithMode(ctx, config, "")
}

// ConnectWithMode is Connect with an explicit transfer mode hint that takes
// priority over the host string during protocol detection.
func (c *Client) ConnectWithMode(ctx context.Context, config *client.ConnectionConfig, mode string) error {
	if config == nil || config.Host == "" {
		return fmt.Errorf("%w: host is required", client.ErrInvalidConfig)
	}

	proto, err := protocol.Detect(config.Host, mode)
	if err != nil {
		return err
	}

	cfg := *config
	handler, err := c.factory.CreateHandler(proto, &cfg)
	if err != nil {
		return err
	}

	if err := handler.Connect(ctx); err != nil {
		c.log.WithFields(logrus.Fields{"protocol": proto, "host": cfg.Host}).WithError(err).Warn("connect failed")
		return err
	}

	c.handler = handler
	c.protocol = proto
	c.config = &cfg
	c.log.WithFields(logrus.Fields{"protocol": proto, "host": cfg.Host}).Info("connected")
	return nil
}

// Disconnect releases the active handler. The client's local state is
// cleared even when the handler's own disconnect fails.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.handler == nil {
		return nil
	}

	err := c.handler.Disconnect(ctx)

	c.handler = nil
	c.protocol = ""
	c.config = nil
	c.log.Info("disconnected")
	return err
}

// IsConnected returns true if an active handler exists.
func (c *Client) IsConnected() bool {
	return c.handler != nil
}

// Protocol returns the active protocol tag, or empty when disconnected.
func (c *Client) Protocol() client.Protocol {
	return c.protocol
}

// ConnectionConfig returns a copy of the active connection configuration,
// or nil when disconnected.
func (c *Client) ConnectionConfig() *client.ConnectionConfig {
	if c.config == nil {
		return nil
	}
	cfg := *c.config
	return &cfg
}

// List lists a remote directory, filtering out directory entries unless
// requested, preserving the handler's order.
func (c *Client) List(ctx context.Context, dirPath string, opts ListOptions) ([]*client.FileInfo, error) {
	if c.handler == nil {
		return nil, client.ErrNotConnected
	}

	entries, err := c.handler.List(ctx, dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dirPath, err)
	}
	if opts.IncludeDirectories {
		return entries, nil
	}

	files := make([]*client.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		files = append(files, entry)
	}
	return files, nil
}

// Download retrieves a remote file with the default retry budget.
func (c *Client) Download(ctx context.Context, remotePath string) ([]byte, error) {
	return c.DownloadWithOptions(ctx, remotePath, DefaultDownloadOptions())
}

// DownloadWithOptions retrieves a remote file, retrying failed attempts with
// exponential backoff. The final attempt's error is surfaced unwrapped so
// callers can inspect the original cause.
func (c *Client) DownloadWithOptions(ctx context.Context, remotePath string, opts DownloadOptions) ([]byte, error) {
	if c.handler == nil {
		return nil, client.ErrNotConnected
	}
	if remotePath == "" {
		return nil, fmt.Errorf("%w: remote path is required", client.ErrInvalidArgument)
	}

	attempt := 0
	return retry.Do(ctx, retry.Options{Retries: opts.Retries, Delay: opts.RetryDelay}, func(ctx context.Context) ([]byte, error) {
		attempt++
		data, err := c.handler.Download(ctx, remotePath)
		if err != nil {
			c.log.WithFields(logrus.Fields{"path": remotePath, "attempt": attempt}).WithError(err).Debug("download attempt failed")
		}
		return data, err
	})
}

// Upload stores a local file at the remote path.
func (c *Client) Upload(ctx context.Context, localPath, remotePath string) error {
	if c.handler == nil {
		return client.ErrNotConnected
	}
	if localPath == "" || remotePath == "" {
		return fmt.Errorf("%w: local and remote paths are required", client.ErrInvalidArgument)
	}

	if err := c.handler.Upload(ctx, localPath, remotePath); err != nil {
		return fmt.Errorf("failed to upload %s to %s: %w", localPath, remotePath, err)
	}
	return nil
}

// Stat returns metadata for a remote path, or (nil, nil) when it does not
// exist.
func (c *Client) Stat(ctx context.Context, remotePath string) (*client.FileInfo, error) {
	if c.handler == nil {
		return nil, client.ErrNotConnected
	}
	if remotePath == "" {
		return nil, fmt.Errorf("%w: remote path is required", client.ErrInvalidArgument)
	}
	return c.handler.Stat(ctx, remotePath)
}

// Exists reports whether a remote path exists. Underlying failures map to
// false: the predicate is total by design, and callers needing diagnostics
// use Stat instead.
func (c *Client) Exists(ctx context.Context, remotePath string) (bool, error) {
	if c.handler == nil {
		return false, client.ErrNotConnected
	}
	if remotePath == "" {
		return false, fmt.Errorf("%w: remote path is required", client.ErrInvalidArgument)
	}

	exists, err := c.handler.Exists(ctx, remotePath)
	if err != nil {
		return false, nil
	}
	return exists, nil
}

// LastModified returns the modification time of a remote path, or (nil, nil)
// when it is unknown.
func (c *Client) LastModified(ctx context.Context, remotePath string) (*time.Time, error) {
	if c.handler == nil {
		return nil, client.ErrNotConnected
	}
	if remotePath == "" {
		return nil, fmt.Errorf("%w: remote path is required", client.ErrInvalidArgument)
	}
	return c.handler.LastModified(ctx, remotePath)
}

// FindFile locates a file whose exact name may be unknown. An exact stat on
// the target short-circuits without a directory listing; otherwise the
// parent directory is listed and matched under the given strategy. No match
// returns (nil, nil).
func (c *Client) FindFile(ctx context.Context, targetPath string, strategy match.Strategy) (*FoundFile, error) {
	if c.handler == nil {
		return nil, client.ErrNotConnected
	}
	if targetPath == "" {
		return nil, fmt.Errorf("%w: target path is required", client.ErrInvalidArgument)
	}
	if strategy == "" {
		strategy = match.StrategySmart
	}

	info, err := c.handler.Stat(ctx, targetPath)
	if err != nil {
		return nil, err
	}
	if info != nil {
		return &FoundFile{FileInfo: info, ActualPath: targetPath}, nil
	}

	dir := path.Dir(targetPath)
	base := path.Base(targetPath)
	ext := path.Ext(base)

	opts := match.Options{
		Basename: strings.TrimSuffix(base, ext),
		Filepath: targetPath,
		Extname:  ext,
	}
	if strategy == match.StrategyRegex {
		// In regex mode the whole name component is the pattern.
		opts.Basename = base
		opts.Extname = ""
	}

	entries, err := c.handler.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s while matching %s: %w", dir, base, err)
	}

	best := match.FindBestMatch(entries, opts, strategy)
	if best == nil {
		return nil, nil
	}
	return &FoundFile{FileInfo: best, ActualPath: path.Join(dir, best.Name)}, nil
}

// CheckForUpdates reconciles a last-known timestamp against the remote file.
// Over HTTP/HTTPS the resource's content metadata is probed: JSON resources
// always count as updated, and a missing Last-Modified header counts as no
// update. Other protocols compare the matched file's own timestamp.
func (c *Client) CheckForUpdates(ctx context.Context, targetPath string, lastKnown time.Time, strategy match.Strategy) (*UpdateStatus, error) {
	found, err := c.FindFile(ctx, targetPath, strategy)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return &UpdateStatus{HasUpdate: false}, nil
	}

	if c.protocol == client.ProtocolHTTP || c.protocol == client.ProtocolHTTPS {
		if prober, ok := c.handler.(client.ResourceProber); ok {
			meta, err := prober.Resource(ctx, found.ActualPath)
			if err != nil {
				return nil, fmt.Errorf("failed to probe %s: %w", found.ActualPath, err)
			}
			switch {
			case meta.IsJSON:
				// API responses are treated as always updated; their
				// modification time is not a usable cache key.
				return &UpdateStatus{HasUpdate: true, File: found}, nil
			case meta.LastModified == nil:
				return &UpdateStatus{HasUpdate: false, File: found}, nil
			default:
				return &UpdateStatus{HasUpdate: meta.LastModified.After(lastKnown), File: found}, nil
			}
		}
	}

	return &UpdateStatus{HasUpdate: found.Timestamp().After(lastKnown), File: found}, nil
}
