package basehiring

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://hiring.base.vn"
	apiPath        = "/publicapi/v2"
	userAgent      = "FOX2920/Automated-CV-Scoring"
	// The candidate list endpoint has no pagination cursor, so ask for everything at once.
	defaultPageSize = 10000
	// Applications received before this hour belong to the previous report.
	defaultWindowEndHour = 8
	defaultWindowDays    = 1
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	// BaseURL is the web root of the platform. API calls go to BaseURL + /publicapi/v2.
	BaseURL  string
	Location *time.Location

	PageSize      int
	WindowEndHour int
	WindowDays    int

	now func() time.Time
}

func New(logger *zap.Logger, token string) *Client {
	return &Client{
		token:   token,
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:        logger,
		UserAgent:     userAgent,
		Location:      time.Local,
		PageSize:      defaultPageSize,
		WindowEndHour: defaultWindowEndHour,
		WindowDays:    defaultWindowDays,
		now:           time.Now,
	}
}

func (c *Client) apiURL(endpoint string) string {
	return strings.TrimRight(c.BaseURL, "/") + apiPath + endpoint
}

// Window returns the trailing application window: it ends at WindowEndHour
// today and spans WindowDays days.
func (c *Client) Window() (time.Time, time.Time) {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}

	now := c.now().In(loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), c.WindowEndHour, 0, 0, 0, loc)
	start := end.AddDate(0, 0, -c.WindowDays)

	return start, end
}
