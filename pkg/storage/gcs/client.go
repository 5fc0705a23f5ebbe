package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/prodeel-backend/pkg/config"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"golang.org/x/oauth2"
)

const (
	apiBase     = "https://storage.googleapis.com/storage/v1"
	uploadBase  = "https://storage.googleapis.com/upload/storage/v1"
	pingTimeout = 5 * time.Second
)

// ErrNotConfigured is returned when no bucket is configured.
var ErrNotConfigured = errors.New("gcs bucket not configured")

// Client talks to the Cloud Storage JSON API for a single bucket.
type Client struct {
	httpClient    *http.Client
	bucket        string
	publicBaseURL string
	maxUpload     int64

	apiBase    string
	uploadBase string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient authenticates with Google and probes the bucket. It returns
// ErrNotConfigured when no bucket is set so callers can run without images.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	ts, err := tokenSourceFor(ctx, gcp)
	if err != nil {
		return nil, err
	}
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = 30 * time.Second

	client := newClient(httpClient, cfg)
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs.client.initialized")
	}
	return client, nil
}

// newClient expects httpClient to attach the bearer token itself.
func newClient(httpClient *http.Client, cfg config.GCSConfig) *Client {
	maxUpload := int64(cfg.MaxUploadMB) << 20
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	return &Client{
		httpClient:    httpClient,
		bucket:        cfg.BucketName,
		publicBaseURL: base,
		maxUpload:     maxUpload,
		apiBase:       apiBase,
		uploadBase:    uploadBase,
	}
}

// MaxUploadBytes is the largest object Upload accepts.
func (c *Client) MaxUploadBytes() int64 {
	return c.maxUpload
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.httpClient == nil {
		return errors.New("gcs client not initialized")
	}
	if c.bucket == "" {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/b/%s/o?maxResults=1", c.apiBase, url.PathEscape(c.bucket))
	resp, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

// Upload stores body at object and returns its public URL.
func (c *Client) Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error) {
	if c == nil || c.httpClient == nil {
		return "", errors.New("gcs client not initialized")
	}
	object = strings.TrimLeft(object, "/")
	if object == "" {
		return "", errors.New("object name required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	u := fmt.Sprintf("%s/b/%s/o?uploadType=media&name=%s", c.uploadBase, url.PathEscape(c.bucket), url.QueryEscape(object))
	resp, err := c.do(ctx, http.MethodPost, u, io.LimitReader(body, c.maxUpload+1), contentType)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("gcs upload failed", resp)
	}
	return c.ObjectURL(object), nil
}

// DeleteObject removes object. A missing object is not an error.
func (c *Client) DeleteObject(ctx context.Context, object string) error {
	if c == nil || c.httpClient == nil {
		return errors.New("gcs client not initialized")
	}
	object = strings.TrimLeft(object, "/")
	if object == "" {
		return nil
	}

	u := fmt.Sprintf("%s/b/%s/o/%s", c.apiBase, url.PathEscape(c.bucket), url.PathEscape(object))
	resp, err := c.do(ctx, http.MethodDelete, u, nil, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return statusError("gcs delete failed", resp)
	}
}

// ObjectURL is the public URL of object.
func (c *Client) ObjectURL(object string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, strings.TrimLeft(object, "/"))
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpClient.Do(req)
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, msg)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
