package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	mHttp "github.com/colebaker/mise/internal/http"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https url", url: "https://example.com/recipe"},
		{name: "http url", url: "http://example.com"},
		{name: "missing scheme", url: "example.com/recipe", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com", wantErr: true},
		{name: "empty", url: "", wantErr: true},
		{name: "garbage", url: "http://%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	html := `<html>
<head>
  <title> Best Bread Ever </title>
  <style>body { color: red; }</style>
  <script>console.log("tracker");</script>
</head>
<body>
  <h1>Best Bread</h1>
  <p>Mix   flour and
  water.</p>
  <SCRIPT type="text/javascript">more();</SCRIPT>
</body>
</html>`

	page := Strip(html)

	if page.Title != "Best Bread Ever" {
		t.Errorf("title = %q, want %q", page.Title, "Best Bread Ever")
	}
	if page.Content != "Best Bread Ever Best Bread Mix flour and water." {
		t.Errorf("content = %q", page.Content)
	}
}

func TestStripNoTitle(t *testing.T) {
	page := Strip("<p>just text</p>")
	if page.Title != "" {
		t.Errorf("expected empty title, got %q", page.Title)
	}
	if page.Content != "just text" {
		t.Errorf("content = %q", page.Content)
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<title>Soup</title><p>Boil water</p>"))
	}))
	defer server.Close()

	client := mHttp.DefaultConfig()
	page, err := Fetch(context.Background(), client, server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.Title != "Soup" {
		t.Errorf("title = %q, want Soup", page.Title)
	}
	if page.Content != "Soup Boil water" {
		t.Errorf("content = %q", page.Content)
	}
}

func TestFetchNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := mHttp.DefaultConfig()
	if _, err := Fetch(context.Background(), client, server.URL); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
