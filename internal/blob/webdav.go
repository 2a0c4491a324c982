package blob

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebDAVConfig configures a WebDAVStore.
type WebDAVConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// WebDAVStore keeps objects in a Nextcloud user's files over WebDAV.
type WebDAVStore struct {
	client *resty.Client
}

// NewWebDAVStore builds the store. Objects live under {url}/remote.php/dav/files/{user}/.
func NewWebDAVStore(cfg WebDAVConfig) *WebDAVStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	base := strings.TrimRight(cfg.URL, "/") + "/remote.php/dav/files/" + url.PathEscape(cfg.Username)

	cli := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.Username, cfg.Password)

	return &WebDAVStore{client: cli}
}

func (s *WebDAVStore) Name() string {
	return "webdav"
}

func (s *WebDAVStore) Put(ctx context.Context, key string, data []byte) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		Put(objectPath(key))
	if err != nil {
		return fmt.Errorf("webdav put %s: %w", key, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webdav put %s: http %d", key, resp.StatusCode())
	}
	return nil
}

func (s *WebDAVStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(objectPath(key))
	if err != nil {
		return nil, fmt.Errorf("webdav get %s: %w", key, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrObjectNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("webdav get %s: http %d", key, resp.StatusCode())
	}
	return resp.Body(), nil
}

func objectPath(key string) string {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(parts, "/")
}
