package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/config"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
)

func testMetadataConfig() config.MetadataConfig {
	return config.MetadataConfig{
		FetchTimeout: 2 * time.Second,
		MaxBodyBytes: 1 << 20,
		UserAgent:    "test-agent",
	}
}

// localService bypasses the dial-time IP guard so tests can hit httptest
// servers on loopback.
func localService(t *testing.T, cfg config.MetadataConfig) Service {
	t.Helper()
	return &service{
		client: &http.Client{Timeout: cfg.FetchTimeout},
		cfg:    cfg,
	}
}

func TestValidateTargetBlocked(t *testing.T) {
	cases := []string{
		"http://localhost/admin",
		"http://127.0.0.1/",
		"http://10.0.0.5/secret",
		"http://172.16.1.1/",
		"http://192.168.1.1/router",
		"http://169.254.169.254/latest/meta-data/",
		"http://metadata.google.internal/computeMetadata/v1/",
		"http://0.0.0.0/",
		"http://100.64.0.1/",
		"http://198.18.0.1/",
		"http://[::1]/",
	}

	for _, raw := range cases {
		_, err := ValidateTarget(raw)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeBlockedTarget {
			t.Errorf("%s: expected BLOCKED_TARGET, got %v", raw, err)
		}
	}
}

func TestValidateTargetInvalid(t *testing.T) {
	cases := []string{
		"",
		"not a url",
		"ftp://example.com/file",
		"file:///etc/passwd",
		"//example.com/schemeless",
	}

	for _, raw := range cases {
		_, err := ValidateTarget(raw)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: expected VALIDATION_ERROR, got %v", raw, err)
		}
	}
}

func TestFetchBlockedTargetMakesNoNetworkCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	svc := localService(t, testMetadataConfig())
	if _, err := svc.Fetch(context.Background(), "http://169.254.169.254/latest/meta-data/"); err == nil {
		t.Fatalf("expected blocked target error")
	}
	if calls != 0 {
		t.Fatalf("blocked target must never be fetched")
	}
}

func TestFetchExtractsJSONLDFirst(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head>
<title>Fallback Title</title>
<meta property="og:title" content="OG Title">
<meta property="og:image" content="/og.png">
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Product","name":"Dutch Oven","description":"Enameled cast iron","image":"https://cdn.example.com/pot.jpg","offers":{"@type":"Offer","price":"89.99","priceCurrency":"USD"}}
</script>
</head><body><img src="/body.png"></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	svc := localService(t, testMetadataConfig())
	result, err := svc.Fetch(context.Background(), srv.URL+"/product")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if result.Title == nil || *result.Title != "Dutch Oven" {
		t.Fatalf("expected JSON-LD title, got %v", result.Title)
	}
	if result.Description == nil || *result.Description != "Enameled cast iron" {
		t.Fatalf("expected JSON-LD description, got %v", result.Description)
	}
	if result.ImageURL == nil || *result.ImageURL != "https://cdn.example.com/pot.jpg" {
		t.Fatalf("expected JSON-LD image, got %v", result.ImageURL)
	}
	if result.PriceCents == nil || *result.PriceCents != 8999 {
		t.Fatalf("expected 8999 cents, got %v", result.PriceCents)
	}
}

func TestFetchFallsBackToOpenGraph(t *testing.T) {
	page := `<html><head>
<title>Page Title</title>
<meta property="og:title" content="Weighted Blanket">
<meta property="og:description" content="15 lb, queen size">
<meta property="og:image" content="/images/blanket.jpg">
<meta property="product:price:amount" content="49.00">
</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	svc := localService(t, testMetadataConfig())
	result, err := svc.Fetch(context.Background(), srv.URL+"/item")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if result.Title == nil || *result.Title != "Weighted Blanket" {
		t.Fatalf("expected OG title, got %v", result.Title)
	}
	if result.ImageURL == nil || *result.ImageURL != srv.URL+"/images/blanket.jpg" {
		t.Fatalf("expected resolved relative image, got %v", result.ImageURL)
	}
	if result.PriceCents == nil || *result.PriceCents != 4900 {
		t.Fatalf("expected 4900 cents, got %v", result.PriceCents)
	}
}

func TestFetchNaiveFallback(t *testing.T) {
	page := `<html><head>
<title>  Plain Kettle  </title>
<meta name="description" content="Stovetop kettle, 2 quarts">
</head><body><img src="kettle.png"><img src="second.png"></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	svc := localService(t, testMetadataConfig())
	result, err := svc.Fetch(context.Background(), srv.URL+"/shop/kettle")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if result.Title == nil || *result.Title != "Plain Kettle" {
		t.Fatalf("expected page title, got %v", result.Title)
	}
	if result.Description == nil || *result.Description != "Stovetop kettle, 2 quarts" {
		t.Fatalf("expected meta description, got %v", result.Description)
	}
	if result.ImageURL == nil || !strings.HasSuffix(*result.ImageURL, "/shop/kettle.png") {
		t.Fatalf("expected first image resolved against page path, got %v", result.ImageURL)
	}
	if result.PriceCents != nil {
		t.Fatalf("expected nil price, got %v", *result.PriceCents)
	}
}

func TestFetchDegradesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := localService(t, testMetadataConfig())
	result, err := svc.Fetch(context.Background(), srv.URL+"/broken")
	if err != nil {
		t.Fatalf("degraded fetch must not error: %v", err)
	}

	if result.Title != nil || result.Description != nil || result.ImageURL != nil || result.PriceCents != nil {
		t.Fatalf("expected null-filled result, got %+v", result)
	}
	if result.SourceURL != srv.URL+"/broken" {
		t.Fatalf("source url must echo back, got %s", result.SourceURL)
	}
	if result.Retailer == "" {
		t.Fatalf("retailer must derive from the url even on failure")
	}
}

func TestFetchDegradesOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testMetadataConfig()
	cfg.FetchTimeout = 50 * time.Millisecond
	svc := localService(t, cfg)

	result, err := svc.Fetch(context.Background(), srv.URL+"/slow")
	if err != nil {
		t.Fatalf("timeout must degrade, not error: %v", err)
	}
	if result.Title != nil {
		t.Fatalf("expected null title on timeout")
	}
}

func TestParsePriceCents(t *testing.T) {
	cases := []struct {
		raw  string
		want *int64
	}{
		{"$1,234.56", int64Ptr(123456)},
		{"19.99 USD", int64Ptr(1999)},
		{"89.99", int64Ptr(8999)},
		{"0", int64Ptr(0)},
		{"free", nil},
		{"", nil},
		{"1.2.3", nil},
		{"9999999999", nil},
	}

	for _, tc := range cases {
		got := parsePriceCents(tc.raw)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("%q: expected nil, got %d", tc.raw, *got)
		case tc.want != nil && got == nil:
			t.Errorf("%q: expected %d, got nil", tc.raw, *tc.want)
		case tc.want != nil && got != nil && *tc.want != *got:
			t.Errorf("%q: expected %d, got %d", tc.raw, *tc.want, *got)
		}
	}
}

func TestDetectRetailer(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"www.amazon.com", "Amazon"},
		{"smile.amazon.com", "Amazon"},
		{"target.com", "Target"},
		{"www.bestbuy.com", "Best Buy"},
		{"www.ikea.com", "IKEA"},
		{"chewy.com", "Chewy"},
		{"shop.example.com", "shop.example.com"},
	}

	for _, tc := range cases {
		if got := DetectRetailer(tc.host); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.host, tc.want, got)
		}
	}
}

func int64Ptr(v int64) *int64 { return &v }
