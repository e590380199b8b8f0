package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/xhad/infographic/internal/models"
)

const maxBodySize = 10 << 20

// ErrSkipped is returned for URLs the scraper is configured not to fetch.
var ErrSkipped = errors.New("url not allowed")

type ScraperConfig struct {
	RateLimit         float64 // requests per second
	IgnorePatterns    []string
	AllowedExtensions []string
	Timeout           time.Duration
	UserAgent         string
	HTTPClient        *http.Client
	OnProgress        func(url string)
	Logger            logrus.FieldLogger
}

// Scraper fetches web pages and turns their main article into
// ExtractedContent.
type Scraper struct {
	config  ScraperConfig
	client  *http.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

func NewWithConfig(config ScraperConfig) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // 2 requests per second by default
	}
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = []string{".html", ".htm", "/", ""}
	}
	if config.UserAgent == "" {
		config.UserAgent = "infographic/1.0"
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Scraper{
		config:  config,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		log:     config.Logger,
	}
}

func New() *Scraper {
	return NewWithConfig(ScraperConfig{})
}

// IsURL reports whether source looks like an http(s) URL.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *Scraper) shouldProcessURL(urlStr string) bool {
	if !IsURL(urlStr) {
		return false
	}
	parsedURL, _ := url.Parse(urlStr)

	// Check extensions
	p := strings.ToLower(parsedURL.Path)
	var ext string
	switch {
	case p == "" || strings.HasSuffix(p, "/"):
		ext = "/"
	default:
		ext = path.Ext(p)
	}
	validExt := false
	for _, allowedExt := range s.config.AllowedExtensions {
		if ext == strings.ToLower(allowedExt) {
			validExt = true
			break
		}
	}
	if !validExt {
		return false
	}

	// Check ignore patterns
	for _, pattern := range s.config.IgnorePatterns {
		if strings.Contains(urlStr, pattern) {
			return false
		}
	}

	return true
}

// Extract fetches source; it lets the scraper serve as a types.Extractor.
func (s *Scraper) Extract(ctx context.Context, source string) (*models.ExtractedContent, error) {
	return s.Fetch(ctx, source)
}

// Fetch downloads one page and extracts its main article.
func (s *Scraper) Fetch(ctx context.Context, urlStr string) (*models.ExtractedContent, error) {
	if !s.shouldProcessURL(urlStr) {
		return nil, fmt.Errorf("%w: %s", ErrSkipped, urlStr)
	}
	if s.config.OnProgress != nil {
		s.config.OnProgress(urlStr)
	}

	// Apply rate limiting
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, urlStr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", urlStr, err)
	}

	pageURL, _ := url.Parse(urlStr)
	content, err := s.parse(body, pageURL)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"url":      urlStr,
		"sections": len(content.Sections),
	}).Debug("page extracted")
	return content, nil
}

// parse isolates the main article with readability and falls back to the
// whole page when that fails.
func (s *Scraper) parse(body []byte, pageURL *url.URL) (*models.ExtractedContent, error) {
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := ""
	root := page.Find("body")
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		title = article.Title
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if err == nil {
			root = doc.Selection
		}
	} else {
		s.log.WithError(err).WithField("url", pageURL.String()).Debug("readability failed, using full page")
	}

	if title == "" {
		title = page.Find("title").First().Text()
	}
	if title == "" {
		title = page.Find("h1").First().Text()
	}

	content := extractSections(root)
	content.Title = collapse(title)
	return content, nil
}

// extractSections walks h1-h3, p and li in document order. Each heading opens
// a section; paragraph and list text fills the open one. Every block, headings
// included, goes into RawText separated by blank lines.
func extractSections(root *goquery.Selection) *models.ExtractedContent {
	sections := []models.Section{}
	var (
		blocks  []string
		title   string
		open    bool
		content []string
	)
	flush := func() {
		if open && len(content) > 0 {
			sections = append(sections, models.Section{
				Title:   title,
				Content: models.LinesContent(content...),
			})
		}
	}

	root.Find("h1, h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		if tag == "li" && sel.Find("p").Length() > 0 {
			return
		}
		text := collapse(sel.Text())
		if text == "" {
			return
		}

		switch tag {
		case "h1", "h2", "h3":
			flush()
			title, open, content = text, true, nil
			blocks = append(blocks, "# "+text)
		case "li":
			content = append(content, text)
			blocks = append(blocks, "- "+text)
		default:
			content = append(content, text)
			blocks = append(blocks, text)
		}
	})
	flush()

	return &models.ExtractedContent{
		RawText:  strings.Join(blocks, "\n\n"),
		Sections: sections,
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
