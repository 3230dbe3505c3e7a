package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-shiori/go-readability"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	toolcfg "github.com/jarvisdesk/jarvis/internal/config/tool"
)

const (
	webUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36"
	maxRedirects = 5

	tavilyEndpoint = "https://api.tavily.com/search"
	braveEndpoint  = "https://api.search.brave.com/res/v1/web/search"

	searchCacheSize = 128
	maxFetchBytes   = 5 << 20
)

// validateURL checks that url is http(s) with a valid domain.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http/https allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing domain in URL")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Search backends
// ---------------------------------------------------------------------------

// SearchResult is one hit returned by a SearchBackend.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// SearchBackend runs a web query against one search provider.
type SearchBackend interface {
	// Label is the human-readable provider name, e.g. "Tavily".
	Label() string
	Configured() bool
	Search(ctx context.Context, query string, n int) ([]SearchResult, error)
}

// TavilyBackend queries the Tavily search API.
type TavilyBackend struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewTavilyBackend(apiKey string) *TavilyBackend {
	return &TavilyBackend{
		apiKey:     apiKey,
		endpoint:   tavilyEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *TavilyBackend) Label() string    { return "Tavily" }
func (b *TavilyBackend) Configured() bool { return b.apiKey != "" }

func (b *TavilyBackend) Search(ctx context.Context, query string, n int) ([]SearchResult, error) {
	payload, err := json.Marshal(map[string]any{
		"query":       query,
		"max_results": n,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("tavily HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse tavily response: %w", err)
	}
	out := make([]SearchResult, 0, len(data.Results))
	for _, r := range data.Results {
		out = append(out, SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}
	return out, nil
}

// BraveBackend queries the Brave Search API.
type BraveBackend struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewBraveBackend(apiKey string) *BraveBackend {
	return &BraveBackend{
		apiKey:     apiKey,
		endpoint:   braveEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *BraveBackend) Label() string    { return "Brave" }
func (b *BraveBackend) Configured() bool { return b.apiKey != "" }

func (b *BraveBackend) Search(ctx context.Context, query string, n int) ([]SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", n))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("brave HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse brave response: %w", err)
	}
	out := make([]SearchResult, 0, len(data.Web.Results))
	for _, r := range data.Web.Results {
		out = append(out, SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}
	return out, nil
}

// NewSearchBackend picks the backend named in cfg.
func NewSearchBackend(cfg toolcfg.SearchToolConfig) SearchBackend {
	if cfg.Backend == toolcfg.SearchBackendBrave {
		return NewBraveBackend(cfg.APIKey)
	}
	return NewTavilyBackend(cfg.APIKey)
}

// ---------------------------------------------------------------------------
// WebSearchTool
// ---------------------------------------------------------------------------

type searchCacheEntry struct {
	text     string
	storedAt time.Time
}

// WebSearchTool searches the web through a SearchBackend.
type WebSearchTool struct {
	backend    SearchBackend
	maxResults int
	cache      *lru.Cache[string, searchCacheEntry]
	ttl        time.Duration
}

// NewWebSearchTool creates a WebSearchTool. maxResults defaults to 2.
// A non-positive ttl disables result caching.
func NewWebSearchTool(backend SearchBackend, maxResults int, ttl time.Duration) *WebSearchTool {
	if maxResults <= 0 {
		maxResults = 2
	}
	t := &WebSearchTool{backend: backend, maxResults: maxResults, ttl: ttl}
	if ttl > 0 {
		// lru.New only errors on non-positive size.
		t.cache, _ = lru.New[string, searchCacheEntry](searchCacheSize)
	}
	return t
}

func (t *WebSearchTool) Name() string { return string(ToolSearch) }
func (t *WebSearchTool) Description() string {
	return "Search the web for current information. Returns titles, URLs, and snippets."
}
func (t *WebSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Search query"
			},
			"max_results": {
				"type": "integer",
				"description": "Results (1-10)",
				"minimum": 1,
				"maximum": 10
			}
		},
		"required": ["query"]
	}`)
}

func (t *WebSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	if t.backend == nil || !t.backend.Configured() {
		label := "Tavily"
		if t.backend != nil {
			label = t.backend.Label()
		}
		return fmt.Sprintf("Web search is currently unavailable. Please check your %s API key.", label), nil
	}
	query := strings.TrimSpace(stringParam(params, "query"))
	if query == "" {
		return "Error: query is required", nil
	}

	n := t.maxResults
	if v, ok := intParam(params, "max_results"); ok {
		n = v
	}
	n = clamp(n, 1, 10)

	key := fmt.Sprintf("%s|%s|%d", t.backend.Label(), strings.ToLower(query), n)
	if t.cache != nil {
		if entry, ok := t.cache.Get(key); ok {
			if time.Since(entry.storedAt) < t.ttl {
				zap.L().Debug("search cache hit", zap.String("query", query))
				return entry.text, nil
			}
			t.cache.Remove(key)
		}
	}

	results, err := t.backend.Search(ctx, query, n)
	if err != nil {
		zap.L().Warn("web search failed", zap.String("backend", t.backend.Label()), zap.Error(err))
		return fmt.Sprintf("Error searching the web: %v", err), nil
	}

	text := formatSearchResults(query, results, n)
	if t.cache != nil {
		t.cache.Add(key, searchCacheEntry{text: text, storedAt: time.Now()})
	}
	return text, nil
}

func formatSearchResults(query string, results []SearchResult, n int) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results for: %s", query)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Results for: %s\n\n", query))
	for i, item := range results {
		if i >= n {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s", i+1, item.Title, item.URL))
		if item.Snippet != "" {
			sb.WriteString("\n   " + item.Snippet)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// WebFetchTool
// ---------------------------------------------------------------------------

// WebFetchTool fetches a URL and extracts readable content.
type WebFetchTool struct {
	maxChars   int
	httpClient *http.Client
}

// NewWebFetchTool creates a WebFetchTool. maxChars defaults to 50000.
func NewWebFetchTool(maxChars int) *WebFetchTool {
	if maxChars <= 0 {
		maxChars = 50000
	}
	client := &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &WebFetchTool{maxChars: maxChars, httpClient: client}
}

func (t *WebFetchTool) Name() string { return string(ToolWebFetch) }
func (t *WebFetchTool) Description() string {
	return "Fetch a URL and return its main content as markdown."
}
func (t *WebFetchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {
				"type": "string",
				"description": "URL to fetch"
			},
			"maxChars": {
				"type": "integer",
				"minimum": 100
			}
		},
		"required": ["url"]
	}`)
}

func (t *WebFetchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	rawURL := strings.TrimSpace(stringParam(params, "url"))
	if rawURL == "" {
		return "Error: url is required", nil
	}
	if err := validateURL(rawURL); err != nil {
		return fetchError(rawURL, fmt.Errorf("URL validation failed: %w", err)), nil
	}

	maxChars := t.maxChars
	if v, ok := intParam(params, "maxChars"); ok && v >= 100 {
		maxChars = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fetchError(rawURL, err), nil
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fetchError(rawURL, err), nil
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return fetchError(rawURL, err), nil
	}

	ctype := resp.Header.Get("Content-Type")
	finalURL := resp.Request.URL.String()

	var text, extractor string
	switch {
	case strings.Contains(ctype, "application/json"):
		var jsonData any
		if err := json.Unmarshal(bodyBytes, &jsonData); err == nil {
			formatted, _ := json.MarshalIndent(jsonData, "", "  ")
			text = string(formatted)
		} else {
			text = string(bodyBytes)
		}
		extractor = "json"

	case strings.Contains(ctype, "text/html") || isHTMLPrefix(bodyBytes):
		text, extractor = extractArticle(bodyBytes, resp.Request.URL)

	default:
		text = string(bodyBytes)
		extractor = "raw"
	}

	runes := []rune(text)
	truncated := len(runes) > maxChars
	if truncated {
		runes = runes[:maxChars]
		text = string(runes)
	}

	out, _ := json.Marshal(map[string]any{
		"url":       rawURL,
		"finalUrl":  finalURL,
		"status":    resp.StatusCode,
		"extractor": extractor,
		"truncated": truncated,
		"length":    len(runes),
		"text":      text,
	})
	return string(out), nil
}

// extractArticle runs readability over an HTML page and renders the main
// content as markdown. Pages readability rejects are converted whole.
func extractArticle(body []byte, pageURL *url.URL) (string, string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		md, mdErr := htmltomarkdown.ConvertString(article.Content)
		if mdErr != nil {
			md = article.TextContent
		}
		if article.Title != "" {
			md = "# " + article.Title + "\n\n" + md
		}
		return strings.TrimSpace(md), "readability"
	}

	md, mdErr := htmltomarkdown.ConvertString(string(body))
	if mdErr != nil {
		return string(body), "raw"
	}
	return strings.TrimSpace(md), "markdown"
}

func fetchError(rawURL string, err error) string {
	out, _ := json.Marshal(map[string]any{"error": err.Error(), "url": rawURL})
	return string(out)
}

// isHTMLPrefix returns true if the body starts with an HTML declaration.
func isHTMLPrefix(b []byte) bool {
	prefix := strings.ToLower(strings.TrimSpace(string(b[:min(256, len(b))])))
	return strings.HasPrefix(prefix, "<!doctype") || strings.HasPrefix(prefix, "<html")
}
