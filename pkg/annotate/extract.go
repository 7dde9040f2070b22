package annotate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/go-shiori/go-readability"
)

// maxBodySize bounds fetched HTML documents.
const maxBodySize = 10 * 1024 * 1024

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// Article is the readable part of an HTML page.
type Article struct {
	Title string
	Text  string
}

// SanitizeRuby removes <rt> and <rp> ruby annotations, which readability
// would otherwise merge into the text ("漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, nil)
	return reRP.ReplaceAll(cleaned, nil)
}

// ExtractArticle pulls the readable title and text out of an HTML document.
// pageURL resolves relative links and may be nil.
func ExtractArticle(html []byte, pageURL *url.URL) (Article, error) {
	if pageURL == nil {
		pageURL = &url.URL{Scheme: "http", Host: "localhost"}
	}
	article, err := readability.FromReader(bytes.NewReader(SanitizeRuby(html)), pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("extract article: %w", err)
	}
	return Article{Title: article.Title, Text: article.TextContent}, nil
}

// FetchArticle downloads rawURL and extracts its readable text.
func FetchArticle(ctx context.Context, client *http.Client, rawURL string) (Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return Article{}, fmt.Errorf("parse url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Article{}, err
	}
	req.Header.Set("User-Agent", "wnris-cli")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Article{}, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > maxBodySize {
		return Article{}, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return Article{}, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return Article{}, fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBodySize)
	}
	return ExtractArticle(body, pageURL)
}
