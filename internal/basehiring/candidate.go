package basehiring

import (
	"context"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	candidateListPath = "/candidate/list"
	candidatesKey     = "candidates"
	dateLayout        = "2006-01-02"
)

type Candidates struct {
	Items []*Candidate
	// Present reports whether the response carried a candidates collection at all.
	Present bool
}

type Candidate struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	CVs  []string `json:"cvs"`
	// Since is the application time in Unix seconds.
	Since int64 `json:"since"`
}

// ListCandidates returns candidates who applied to the opening inside the
// client's application window.
func (c *Client) ListCandidates(ctx context.Context, openingID string) (*Candidates, error) {
	start, end := c.Window()

	form := url.Values{}
	form.Set("opening_id", openingID)
	form.Set("num_per_page", strconv.Itoa(c.PageSize))
	form.Set("start_date", start.Format(dateLayout))
	form.Set("end_date", end.Format(dateLayout))

	payload, err := c.postForm(ctx, candidateListPath, form)
	if err != nil {
		return nil, err
	}

	items, ok := payload.items(candidatesKey)
	if !ok {
		return &Candidates{}, nil
	}

	candidates := &Candidates{Present: true, Items: make([]*Candidate, 0, len(items))}
	for _, item := range items {
		var candidate Candidate
		if err := decodeItem(item, &candidate); err != nil {
			c.logger.Warn("skipping undecodable candidate",
				zap.String("opening_id", openingID),
				zap.Error(err),
			)
			continue
		}
		candidates.Items = append(candidates.Items, &candidate)
	}

	return candidates, nil
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// DisplayName returns the candidate name with HTML entities decoded.
func (c *Candidate) DisplayName() string {
	return html.UnescapeString(c.Name)
}

// ResumeURL returns the first listed resume file or an empty string.
func (c *Candidate) ResumeURL() string {
	if len(c.CVs) == 0 {
		return ""
	}
	return strings.TrimSpace(c.CVs[0])
}

// AppliedAt converts the application timestamp into loc.
func (c *Candidate) AppliedAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(c.Since, 0).In(loc)
}
