// Package http wraps retryablehttp.Client for outbound requests.
package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type HTTPDoer interface {
	Do(*retryablehttp.Request) (*http.Response, error)
}

type HTTP struct {
	*retryablehttp.Client
}

var _ HTTPDoer = (*retryablehttp.Client)(nil)

func DefaultConfig() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = 2 * time.Minute
	return client
}

func New(client *retryablehttp.Client) *HTTP {
	return &HTTP{
		Client: client,
	}
}

func ExpectStatus2xx(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
