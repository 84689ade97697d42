// Package extract fetches a web page and reduces it to plain text
// suitable for prompting.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"regexp"
	"strings"

	mHttp "github.com/colebaker/mise/internal/http"

	"github.com/hashicorp/go-retryablehttp"
)

const maxPageBytes = 4 << 20 // ~ 4 MB

// Page is the extraction result.
type Page struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var ErrInvalidURL = fmt.Errorf("invalid url")

// Tag stripping is regexp-based and lossy for malformed HTML. Good enough
// for prompt input; not a faithful DOM extraction.
var (
	titleRe  = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
	scriptRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// ValidateURL rejects anything that does not parse as an absolute
// http(s) URL.
func ValidateURL(raw string) error {
	u, err := neturl.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

// Fetch retrieves the URL and returns its title and stripped text content.
func Fetch(ctx context.Context, client mHttp.HTTPDoer, url string) (Page, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetching url: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := mHttp.ExpectStatus2xx(resp); err != nil {
		return Page{}, fmt.Errorf("fetching url: %w", err)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Page{}, fmt.Errorf("reading response body: %w", err)
	}

	return Strip(string(html)), nil
}

// Strip reduces raw HTML to a title and whitespace-collapsed text.
func Strip(html string) Page {
	var title string
	if m := titleRe.FindStringSubmatch(html); m != nil {
		title = strings.TrimSpace(m[1])
	}

	content := scriptRe.ReplaceAllString(html, "")
	content = styleRe.ReplaceAllString(content, "")
	content = tagRe.ReplaceAllString(content, "\n")
	content = spaceRe.ReplaceAllString(content, " ")

	return Page{
		Title:   title,
		Content: strings.TrimSpace(content),
	}
}
