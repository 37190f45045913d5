package basehiring

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	openingListPath = "/opening/list"
	openingsKey     = "openings"

	// StatusOpen is the status code the platform uses for openings accepting applications.
	StatusOpen = "10"
)

type Openings struct {
	Items []*Opening
}

type Opening struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Content is the job description. ListOpenings replaces the HTML with its text.
	Content string `json:"content"`
	Status  string `json:"status"`
}

// ListOpenings returns every opening of the account in listing order with
// descriptions reduced to plain text. A response without openings is an empty list.
func (c *Client) ListOpenings(ctx context.Context) (*Openings, error) {
	payload, err := c.postForm(ctx, openingListPath, nil)
	if err != nil {
		return nil, err
	}

	items, ok := payload.items(openingsKey)
	if !ok {
		c.logger.Warn("response has no openings", zap.String("key", openingsKey))
		return &Openings{}, nil
	}

	openings := &Openings{Items: make([]*Opening, 0, len(items))}
	for _, item := range items {
		var opening Opening
		if err := decodeItem(item, &opening); err != nil {
			c.logger.Warn("skipping undecodable opening", zap.Error(err))
			continue
		}

		opening.Content = StripHTML(opening.Content)
		openings.Items = append(openings.Items, &opening)
	}

	return openings, nil
}

// StripHTML returns the text content of an HTML fragment. Surrounding
// whitespace is kept and counts toward the description length.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	return doc.Text()
}

func (o *Opening) IsOpen() bool {
	return strings.TrimSpace(o.Status) == StatusOpen
}

func (o *Openings) Len() int {
	return len(o.Items)
}

// Filter drops every opening for which keep returns false and returns the
// dropped ids. The order of the remaining openings is preserved.
func (o *Openings) Filter(keep func(*Opening) bool) []string {
	var dropped []string
	kept := o.Items[:0]
	for _, opening := range o.Items {
		if keep(opening) {
			kept = append(kept, opening)
			continue
		}
		dropped = append(dropped, opening.ID)
	}
	o.Items = kept
	return dropped
}

// Exclude removes openings with the given ids.
func (o *Openings) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[strings.TrimSpace(id)] = struct{}{}
	}

	return o.Filter(func(opening *Opening) bool {
		_, excluded := set[opening.ID]
		return !excluded
	})
}
