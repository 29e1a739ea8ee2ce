package metadata

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/config"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
)

// Result is the best-effort product summary returned to the form prefill.
// Nil fields mean "could not extract"; Retailer and SourceURL are always set.
type Result struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	PriceCents  *int64  `json:"price_cents"`
	Retailer    string  `json:"retailer"`
	SourceURL   string  `json:"source_url"`
}

// Service fetches and extracts product metadata from external pages.
type Service interface {
	Fetch(ctx context.Context, rawURL string) (*Result, error)
}

type service struct {
	client *http.Client
	cfg    config.MetadataConfig
	logg   *logger.Logger
}

// NewService builds the fetcher. The HTTP client's dialer re-validates every
// resolved IP so DNS answers cannot route the fetch into private networks.
func NewService(cfg config.MetadataConfig, logg *logger.Logger) Service {
	dialer := &net.Dialer{
		Timeout: cfg.FetchTimeout,
		Control: dialControl,
	}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &service{
		client: &http.Client{
			Timeout:   cfg.FetchTimeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				// Redirect targets go through the same hostname screen.
				if _, err := ValidateTarget(req.URL.String()); err != nil {
					return err
				}
				return nil
			},
		},
		cfg:  cfg,
		logg: logg,
	}
}

// Fetch validates the target and extracts product fields from the page.
// Transport failures degrade to a null-filled result; only validation and
// blocked-target failures surface as errors.
func (s *service) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	target, err := ValidateTarget(rawURL)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Retailer:  DetectRetailer(target.Hostname()),
		SourceURL: target.String(),
	}

	page, err := s.download(ctx, target)
	if err != nil {
		if s.logg != nil {
			fields := map[string]any{"url": target.String()}
			s.logg.Warn(s.logg.WithFields(ctx, fields), "metadata fetch degraded")
		}
		return result, nil
	}

	applyExtracted(result, page, target)
	return result, nil
}

func (s *service) download(ctx context.Context, target *url.URL) (*extracted, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body := io.LimitReader(resp.Body, s.cfg.MaxBodyBytes)
	return parsePage(body), nil
}

// applyExtracted picks each field from the highest-priority source that
// produced a value: JSON-LD product markup, then Open Graph, then the page
// title / meta description / first image.
func applyExtracted(result *Result, page *extracted, base *url.URL) {
	result.Title = firstNonEmpty(page.ldTitle, page.ogTitle, page.pageTitle)
	result.Description = firstNonEmpty(page.ldDescription, page.ogDescription, page.metaDescription)

	for _, candidate := range []string{page.ldImage, page.ogImage, page.firstImage} {
		if candidate == "" {
			continue
		}
		if normalized := normalizeImageURL(candidate, base); normalized != nil {
			result.ImageURL = normalized
			break
		}
	}

	for _, candidate := range []string{page.ldPrice, page.ogPrice} {
		if candidate == "" {
			continue
		}
		if cents := parsePriceCents(candidate); cents != nil {
			result.PriceCents = cents
			break
		}
	}
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v != "" {
			value := v
			return &value
		}
	}
	return nil
}
