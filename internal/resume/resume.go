// Package resume downloads candidate resume files and turns them into plain text.
package resume

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; CVScoring/1.0)"
	// Resumes larger than this are not worth scoring.
	maxDownloadSize = 25 << 20
)

// Kind is the document family inferred from a resume URL.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPDF
	KindWord
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindWord:
		return "word"
	default:
		return "unsupported"
	}
}

// DetectKind infers the document kind from the URL path suffix, ignoring case.
func DetectKind(rawURL string) Kind {
	p := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		p = parsed.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".pdf":
		return KindPDF
	case ".doc", ".docx":
		return KindWord
	default:
		return KindUnsupported
	}
}

type Extractor struct {
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
	chains     map[Kind][]Strategy
}

func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		UserAgent:  defaultUserAgent,
		logger:     logger,
		chains: map[Kind][]Strategy{
			KindPDF:  pdfChain(),
			KindWord: {DocxParagraphs(), PrintableText()},
		},
	}
}

// Extract returns the text of the resume behind rawURL. Any failure is logged
// and reported as ok == false.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		e.logger.Warn("empty resume url provided")
		return "", false
	}

	kind := DetectKind(rawURL)
	chain, ok := e.chains[kind]
	if !ok || len(chain) == 0 {
		e.logger.Warn("unsupported resume format", zap.String("url", rawURL))
		return "", false
	}

	log := e.logger.With(zap.String("url", rawURL), zap.Stringer("kind", kind))

	data, err := e.download(ctx, rawURL)
	if err != nil {
		log.Warn("downloading resume", zap.Error(err))
		return "", false
	}

	result := Run(chain, data)
	for _, failure := range result.Failures {
		log.Debug("extraction strategy failed", zap.String("strategy", failure.Strategy), zap.Error(failure.Err))
	}

	if !result.OK {
		log.Warn("no text extracted from resume", zap.Int("size", len(data)))
		return "", false
	}

	log.Debug("extracted resume text",
		zap.String("strategy", result.Strategy),
		zap.Int("length", len([]rune(result.Text))),
	)

	return result.Text, true
}

func (e *Extractor) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.UserAgent)

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("resume exceeds %d bytes", maxDownloadSize)
	}

	return data, nil
}
