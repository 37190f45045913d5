package filtering

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/FOX2920/Automated-CV-Scoring/internal/basehiring"
)

func sampleOpenings() *basehiring.Openings {
	return &basehiring.Openings{Items: []*basehiring.Opening{
		{ID: "1", Name: "Backend", Content: "Phát triển dịch vụ Go", Status: "10"},
		{ID: "2", Name: "Closed", Content: "Phát triển dịch vụ Go", Status: "20"},
		{ID: "3", Name: "Short", Content: "Tuyển gấp", Status: "10"},
		{ID: "4", Name: "Exactly ten", Content: "Mười ký tự", Status: "10"},
		{ID: "5", Name: "Excluded", Content: "Kế toán tổng hợp", Status: "10"},
	}}
}

func intPtr(v int) *int {
	return &v
}

func ids(o *basehiring.Openings) string {
	result := make([]string, 0, o.Len())
	for _, opening := range o.Items {
		result = append(result, opening.ID)
	}
	return strings.Join(result, ",")
}

func TestRunDefaultFilters(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	cfg := &Config{ExcludeOpenings: []string{"5"}}
	got, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, Default(), sampleOpenings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ids(got) != "1,4" {
		t.Fatalf("unexpected openings left: %s", ids(got))
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 3 {
		t.Fatalf("expected 3 step entries, got %d", len(steps))
	}

	if steps[0].ContextMap()["dropped"] != int64(1) {
		t.Fatalf("expected status filter to drop 1 opening, got %v", steps[0].ContextMap()["dropped"])
	}
}

func TestRunOnlyOpenAndLongEnough(t *testing.T) {
	got, err := Run(context.Background(), nil, Deps{}, Default(), sampleOpenings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, opening := range got.Items {
		if !opening.IsOpen() {
			t.Fatalf("opening %s is not open", opening.ID)
		}
		if len([]rune(opening.Content)) < DefaultMinDescriptionLength {
			t.Fatalf("opening %s has a short description", opening.ID)
		}
	}

	if ids(got) != "1,4,5" {
		t.Fatalf("unexpected openings left: %s", ids(got))
	}
}

func TestRunCustomMinimum(t *testing.T) {
	got, err := Run(context.Background(), &Config{MinDescriptionLength: intPtr(15)}, Deps{}, Default(), sampleOpenings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ids(got) != "1,5" {
		t.Fatalf("unexpected openings left: %s", ids(got))
	}
}

func TestRunRejectsNegativeMinimum(t *testing.T) {
	_, err := Run(context.Background(), &Config{MinDescriptionLength: intPtr(-1)}, Deps{}, Default(), sampleOpenings())
	if err == nil || !strings.Contains(err.Error(), "description") {
		t.Fatalf("expected validation error from description filter, got %v", err)
	}
}

func TestRunCountsWhitespaceInDescription(t *testing.T) {
	openings := &basehiring.Openings{Items: []*basehiring.Opening{
		{ID: "1", Content: "  Tuyển gấp  ", Status: "10"},
		{ID: "2", Content: "Tuyển gấp", Status: "10"},
	}}

	got, err := Run(context.Background(), nil, Deps{}, Default(), openings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ids(got) != "1" {
		t.Fatalf("unexpected openings left: %s", ids(got))
	}
}

func TestRunZeroMinimumKeepsShortDescriptions(t *testing.T) {
	got, err := Run(context.Background(), &Config{MinDescriptionLength: intPtr(0)}, Deps{}, Default(), sampleOpenings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ids(got) != "1,3,4,5" {
		t.Fatalf("unexpected openings left: %s", ids(got))
	}
}

func TestDisableByName(t *testing.T) {
	steps := Default()
	DisableByName(steps, "description", "testing")

	got, err := Run(context.Background(), nil, Deps{}, steps, sampleOpenings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ids(got) != "1,3,4,5" {
		t.Fatalf("unexpected openings left: %s", ids(got))
	}

	for _, status := range Describe(steps) {
		if status.Name == "description" && (status.Enabled || status.Reason != "testing") {
			t.Fatalf("unexpected description status: %+v", status)
		}
	}
}
