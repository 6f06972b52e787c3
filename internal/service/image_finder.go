package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ImageFinder locates a product image URL from an external source.
// Lookups are best-effort: callers treat any failure as "no image".
type ImageFinder interface {
	FindProductImage(ctx context.Context, name, brand string) (string, error)
}

var imageURLPattern = regexp.MustCompile(`https?://[^"]+\.(?:jpg|jpeg|png|webp)[^"]*`)

type scraperImageFinder struct {
	client *http.Client
	logger *zap.Logger
}

// NewImageFinder creates an ImageFinder scraping the Google Images
// result page, with a bounded per-request timeout.
func NewImageFinder(timeout time.Duration, logger *zap.Logger) ImageFinder {
	return &scraperImageFinder{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (f *scraperImageFinder) FindProductImage(ctx context.Context, name, brand string) (string, error) {
	query := strings.TrimSpace(strings.Join([]string{brand, name}, " "))
	if query == "" {
		return "", fmt.Errorf("empty image query")
	}

	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query) + "&tbm=isch"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image search request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse image search page: %w", err)
	}

	imageURL := extractImageURL(doc)
	if imageURL == "" {
		f.logger.Debug("No image found", zap.String("query", query))
		return "", nil
	}
	return imageURL, nil
}

// extractImageURL tries the result page's inline script blobs first,
// then visible <img> tags (skipping the first, which is the site logo),
// then lazy-loaded data-src attributes.
func extractImageURL(doc *goquery.Document) string {
	var candidate string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if m := imageURLPattern.FindString(sel.Text()); m != "" {
			candidate = m
			return false
		}
		return true
	})
	if candidate != "" {
		return candidate
	}

	imgs := doc.Find(`img[src^="http"]`)
	if imgs.Length() > 1 {
		if src, ok := imgs.Eq(1).Attr("src"); ok {
			return src
		}
	}

	if dataSrc, ok := doc.Find(`[data-src^="http"]`).First().Attr("data-src"); ok {
		return dataSrc
	}
	return ""
}

type noopImageFinder struct{}

// NewNoopImageFinder returns a finder that never finds anything, used
// when external image lookup is disabled.
func NewNoopImageFinder() ImageFinder {
	return noopImageFinder{}
}

func (noopImageFinder) FindProductImage(context.Context, string, string) (string, error) {
	return "", nil
}
