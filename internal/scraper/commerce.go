package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/utafrali/reviewhub/internal/domain"
	apperrors "github.com/utafrali/reviewhub/pkg/errors"
	"github.com/utafrali/reviewhub/pkg/httpclient"
)

// CommerceSource is a thin wrapper around a real commerce review API. The
// upstream payload shape varies across providers, so every field is read with
// fallbacks and missing values get safe defaults.
type CommerceSource struct {
	baseURL string
	apiKey  string
	client  *httpclient.Client
}

// NewCommerceSource creates a source backed by the commerce API at baseURL.
func NewCommerceSource(baseURL, apiKey string, client *httpclient.Client) *CommerceSource {
	return &CommerceSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// Name identifies the source for logging.
func (c *CommerceSource) Name() string { return "commerce" }

// commerceReview mirrors the union of review field names observed across
// commerce API providers.
type commerceReview struct {
	ID           string  `json:"id"`
	ReviewID     string  `json:"review_id"`
	Source       string  `json:"source"`
	Vendor       string  `json:"vendor"`
	Author       string  `json:"author"`
	ReviewerName string  `json:"reviewer_name"`
	Rating       float64 `json:"rating"`
	Score        float64 `json:"score"`
	Title        string  `json:"title"`
	Headline     string  `json:"headline"`
	Content      string  `json:"content"`
	Body         string  `json:"body"`
	Text         string  `json:"text"`
	CreatedAt    string  `json:"created_at"`
	ReviewDate   string  `json:"review_date"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	FlagReason   *string `json:"flag_reason"`
	LikeCount    int     `json:"like_count"`
	DislikeCount int     `json:"dislike_count"`
}

type commerceEnvelope[T any] struct {
	Data T `json:"data"`
}

// FetchReviews retrieves and normalizes the product's reviews from the
// commerce API.
func (c *CommerceSource) FetchReviews(ctx context.Context, productID string) ([]domain.RawReview, error) {
	var list []commerceReview
	if err := c.getJSON(ctx, fmt.Sprintf("%s/products/%s/reviews", c.baseURL, productID), &list); err != nil {
		return nil, fmt.Errorf("fetch commerce reviews: %w", err)
	}

	out := make([]domain.RawReview, 0, len(list))
	for i, r := range list {
		raw := domain.RawReview{
			Source:       firstNonEmpty(r.Source, r.Vendor, "CommerceAPI"),
			ExternalID:   firstNonEmpty(r.ID, r.ReviewID, fmt.Sprintf("%s-commerce-%d", productID, i)),
			ReviewerName: firstNonEmpty(r.Author, r.ReviewerName, "Anonymous"),
			Rating:       int(firstNonZero(r.Rating, r.Score)),
			Title:        firstNonEmpty(r.Title, r.Headline, "Review"),
			Content:      firstNonEmpty(r.Content, r.Body, r.Text),
			Status:       r.Status,
			FlagReason:   r.FlagReason,
			LikeCount:    r.LikeCount,
			DislikeCount: r.DislikeCount,
		}
		if t, ok := parseReviewDate(firstNonEmpty(r.CreatedAt, r.ReviewDate, r.Date)); ok {
			raw.ReviewDate = &t
		}
		out = append(out, raw)
	}

	return out, nil
}

// commerceProduct mirrors the product payload field variants.
type commerceProduct struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Title     string  `json:"title"`
	ImageURL  *string `json:"image_url"`
	Image     *string `json:"image"`
	Thumbnail *string `json:"thumbnail"`
	URL       *string `json:"url"`
	Link      *string `json:"link"`
}

// FetchProductMetadata retrieves product metadata from the commerce API.
func (c *CommerceSource) FetchProductMetadata(ctx context.Context, productID string) (*domain.ProductMetadata, error) {
	var p commerceProduct
	if err := c.getJSON(ctx, fmt.Sprintf("%s/products/%s", c.baseURL, productID), &p); err != nil {
		return nil, fmt.Errorf("fetch commerce product: %w", err)
	}

	meta := &domain.ProductMetadata{
		ID:        firstNonEmpty(p.ID, productID),
		Name:      firstNonEmpty(p.Name, p.Title, productID),
		ImageURL:  firstNonNil(p.ImageURL, p.Image, p.Thumbnail),
		SourceURL: firstNonNil(p.URL, p.Link),
	}

	return meta, nil
}

func (c *CommerceSource) getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return apperrors.Unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NotFound("commerce resource", url)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("commerce api returned %d", resp.StatusCode)
	}

	// Providers wrap payloads in a data envelope inconsistently; try the
	// envelope first, then the bare shape.
	body := json.NewDecoder(resp.Body)
	var raw json.RawMessage
	if err := body.Decode(&raw); err != nil {
		return fmt.Errorf("decode commerce response: %w", err)
	}

	var env commerceEnvelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err == nil {
			return nil
		}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode commerce payload: %w", err)
	}
	return nil
}

func parseReviewDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
