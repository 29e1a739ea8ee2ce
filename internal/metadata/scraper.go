package metadata

import (
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

// maxPriceCents mirrors the registry item price bound.
const maxPriceCents = 99_999_999

// extracted holds everything the parser pulled out of one page, before the
// per-field priority rules are applied.
type extracted struct {
	ldTitle       string
	ldDescription string
	ldImage       string
	ldPrice       string

	ogTitle       string
	ogDescription string
	ogImage       string
	ogPrice       string

	pageTitle       string
	metaDescription string
	firstImage      string
}

// parsePage walks the HTML document collecting structured product markup,
// Open Graph tags, and naive fallbacks in one pass.
func parsePage(body io.Reader) *extracted {
	out := &extracted{}

	doc, err := html.Parse(body)
	if err != nil {
		return out
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "title":
				if out.pageTitle == "" {
					out.pageTitle = strings.TrimSpace(textContent(n))
				}
			case "meta":
				handleMeta(n, out)
			case "img":
				if out.firstImage == "" {
					if src := attr(n, "src"); src != "" {
						out.firstImage = src
					}
				}
			case "script":
				if strings.EqualFold(attr(n, "type"), "application/ld+json") {
					handleJSONLD(textContent(n), out)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return out
}

func handleMeta(n *html.Node, out *extracted) {
	key := attr(n, "property")
	if key == "" {
		key = attr(n, "name")
	}
	content := strings.TrimSpace(attr(n, "content"))
	if key == "" || content == "" {
		return
	}

	switch strings.ToLower(key) {
	case "og:title":
		if out.ogTitle == "" {
			out.ogTitle = content
		}
	case "og:description":
		if out.ogDescription == "" {
			out.ogDescription = content
		}
	case "og:image":
		if out.ogImage == "" {
			out.ogImage = content
		}
	case "og:price:amount", "product:price:amount":
		if out.ogPrice == "" {
			out.ogPrice = content
		}
	case "description":
		if out.metaDescription == "" {
			out.metaDescription = content
		}
	}
}

// handleJSONLD digs a schema.org Product out of a JSON-LD block. Pages embed
// these as a single object, an array, or under @graph.
func handleJSONLD(raw string, out *extracted) {
	if out.ldTitle != "" {
		return
	}

	var parsed any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return
	}

	product := findProduct(parsed)
	if product == nil {
		return
	}

	out.ldTitle = stringField(product, "name")
	out.ldDescription = stringField(product, "description")
	out.ldImage = imageField(product["image"])
	out.ldPrice = offerPrice(product["offers"])
}

func findProduct(node any) map[string]any {
	switch v := node.(type) {
	case map[string]any:
		if typeMatches(v["@type"], "Product") {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findProduct(graph)
		}
	case []any:
		for _, item := range v {
			if found := findProduct(item); found != nil {
				return found
			}
		}
	}
	return nil
}

func typeMatches(raw any, want string) bool {
	switch v := raw.(type) {
	case string:
		return strings.EqualFold(v, want)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func imageField(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		for _, item := range v {
			if found := imageField(item); found != "" {
				return found
			}
		}
	case map[string]any:
		return stringField(v, "url")
	}
	return ""
}

func offerPrice(raw any) string {
	switch v := raw.(type) {
	case map[string]any:
		switch price := v["price"].(type) {
		case string:
			return strings.TrimSpace(price)
		case float64:
			return decimal.NewFromFloat(price).String()
		}
		if spec, ok := v["priceSpecification"].(map[string]any); ok {
			return offerPrice(map[string]any{"price": spec["price"]})
		}
	case []any:
		for _, item := range v {
			if found := offerPrice(item); found != "" {
				return found
			}
		}
	}
	return ""
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// parsePriceCents turns a free-form price string into integer cents. All
// characters except digits and periods are stripped first; anything that
// still fails to parse, or falls outside the allowed range, becomes nil.
func parsePriceCents(raw string) *int64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}

	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents < 0 || cents > maxPriceCents {
		return nil
	}
	return &cents
}

// normalizeImageURL resolves relative image paths against the page URL and
// drops anything that does not survive as a valid http(s) URL.
func normalizeImageURL(raw string, base *url.URL) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	if resolved.Host == "" {
		return nil
	}

	result := resolved.String()
	return &result
}
