// Package web implements the read-only transfer handler for HTTP and HTTPS.
// Listing and uploading are not part of plain HTTP and always fail with
// client.ErrNotSupported.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"digital.vasic.transfer/pkg/client"
)

// Handler implements client.Handler for HTTP and HTTPS.
type Handler struct {
	config    *client.ConnectionConfig
	secure    bool
	client    *http.Client
	baseURL   *url.URL
	connected bool
}

// NewHandler creates a new web handler. With secure set, a schemeless host
// defaults to https instead of http.
func NewHandler(config *client.ConnectionConfig, secure bool) *Handler {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	raw := config.Host
	if !strings.Contains(raw, "://") {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		raw = scheme + "://" + raw
	}
	baseURL, _ := url.Parse(raw)

	return &Handler{
		config:  config,
		secure:  secure,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// resolveURL resolves a path against the base URL. Absolute URLs pass
// through untouched so callers can address resources directly.
func (h *Handler) resolveURL(p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	if h.baseURL == nil {
		return p
	}
	u := *h.baseURL
	u.Path = path.Join(u.Path, p)
	return u.String()
}

func (h *Handler) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if h.config.Username != "" {
		req.SetBasicAuth(h.config.Username, h.config.Password)
	}
	return req, nil
}

// Connect probes the base URL with a HEAD request. Any completed response
// counts as reachable; endpoints that 404 their root are still usable for
// per-resource requests.
func (h *Handler) Connect(ctx context.Context) error {
	if h.baseURL == nil {
		return fmt.Errorf("%w: unparseable host %q", client.ErrInvalidConfig, h.config.Host)
	}

	req, err := h.newRequest(ctx, http.MethodHead, h.baseURL.String())
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP connection failed: %w", err)
	}
	resp.Body.Close()

	h.connected = true
	return nil
}

// Disconnect marks the handler disconnected. HTTP keeps no persistent
// session state to tear down.
func (h *Handler) Disconnect(ctx context.Context) error {
	h.connected = false
	return nil
}

// IsConnected returns true if the handler has been connected.
func (h *Handler) IsConnected() bool {
	return h.connected
}

// List is not supported over plain HTTP.
func (h *Handler) List(ctx context.Context, dirPath string) ([]*client.FileInfo, error) {
	return nil, fmt.Errorf("%w: HTTP handler cannot list directories", client.ErrNotSupported)
}

// Download retrieves the resource body with a GET request.
func (h *Handler) Download(ctx context.Context, remotePath string) ([]byte, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	fullURL := h.resolveURL(remotePath)
	req, err := h.newRequest(ctx, http.MethodGet, fullURL)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve HTTP resource %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP server returned status %d for %s", resp.StatusCode, fullURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTTP resource %s: %w", fullURL, err)
	}
	return data, nil
}

// Upload is not supported over plain HTTP.
func (h *Handler) Upload(ctx context.Context, localPath, remotePath string) error {
	return fmt.Errorf("%w: HTTP handler is read-only", client.ErrNotSupported)
}

// head issues a HEAD request for the resource.
func (h *Handler) head(ctx context.Context, remotePath string) (*http.Response, string, error) {
	fullURL := h.resolveURL(remotePath)
	req, err := h.newRequest(ctx, http.MethodHead, fullURL)
	if err != nil {
		return nil, fullURL, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fullURL, fmt.Errorf("failed to probe HTTP resource %s: %w", fullURL, err)
	}
	resp.Body.Close()
	return resp, fullURL, nil
}

// Stat describes the resource from HEAD response headers. A 404 or 410
// returns (nil, nil).
func (h *Handler) Stat(ctx context.Context, remotePath string) (*client.FileInfo, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	resp, fullURL, err := h.head(ctx, remotePath)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP server returned status %d for %s", resp.StatusCode, fullURL)
	}

	var size int64
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if s, err := strconv.ParseInt(cl, 10, 64); err == nil {
			size = s
		}
	}

	info := client.NewFileInfo(path.Base(remotePath), size, time.Now(), false)
	if t := parseLastModified(resp); t != nil {
		info.ModTime = *t
		info.ModifyTime = t
	}
	return info, nil
}

// Exists checks whether the resource responds with 200 to a HEAD request.
func (h *Handler) Exists(ctx context.Context, remotePath string) (bool, error) {
	if !h.IsConnected() {
		return false, client.ErrNotConnected
	}

	resp, _, err := h.head(ctx, remotePath)
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusOK, nil
}

// LastModified returns the resource's Last-Modified header, or (nil, nil)
// when the header is absent.
func (h *Handler) LastModified(ctx context.Context, remotePath string) (*time.Time, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	resp, fullURL, err := h.head(ctx, remotePath)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP server returned status %d for %s", resp.StatusCode, fullURL)
	}
	return parseLastModified(resp), nil
}

// Resource reports content metadata used by update detection: whether the
// resource serves JSON and its Last-Modified timestamp.
func (h *Handler) Resource(ctx context.Context, remotePath string) (*client.ResourceMeta, error) {
	if !h.IsConnected() {
		return nil, client.ErrNotConnected
	}

	resp, fullURL, err := h.head(ctx, remotePath)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP server returned status %d for %s", resp.StatusCode, fullURL)
	}

	contentType := resp.Header.Get("Content-Type")
	return &client.ResourceMeta{
		IsJSON:       strings.Contains(contentType, "application/json") || strings.Contains(contentType, "+json"),
		LastModified: parseLastModified(resp),
	}, nil
}

// Protocol returns the protocol tag.
func (h *Handler) Protocol() client.Protocol {
	if h.secure {
		return client.ProtocolHTTPS
	}
	return client.ProtocolHTTP
}

// Config returns the connection configuration.
func (h *Handler) Config() *client.ConnectionConfig {
	return h.config
}

func parseLastModified(resp *http.Response) *time.Time {
	lm := resp.Header.Get("Last-Modified")
	if lm == "" {
		return nil
	}
	if t, err := http.ParseTime(lm); err == nil {
		return &t
	}
	return nil
}
