package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/FOX2920/Automated-CV-Scoring/internal/basehiring"
)

// DefaultMinDescriptionLength is the shortest description worth sending to the model.
const DefaultMinDescriptionLength = 10

type openStatusFilter struct{}

// NewOpenStatus creates a filter that keeps only openings accepting applications.
func NewOpenStatus() Filter {
	return &openStatusFilter{}
}

func (f *openStatusFilter) Name() string { return "open_status" }

func (f *openStatusFilter) Disable(string) {}

func (f *openStatusFilter) IsEnabled() bool { return true }

func (f *openStatusFilter) Validate(*Config) error { return nil }

func (f *openStatusFilter) Apply(_ context.Context, deps Deps, o *basehiring.Openings) (*basehiring.Openings, Step, error) {
	initial := o.Len()
	dropped := o.Filter(func(opening *basehiring.Opening) bool {
		return opening.IsOpen()
	})
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding openings that are not open",
			zap.Strings("excluded_openings", dropped),
		)
	}

	return o, Step{Initial: initial, Dropped: len(dropped), Left: o.Len()}, nil
}

func (f *openStatusFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{"status": basehiring.StatusOpen}}
}

type descriptionFilter struct {
	disabled  bool
	reason    string
	minLength int
}

// NewDescription creates a filter that removes openings with a too short description.
func NewDescription() Filter {
	return &descriptionFilter{}
}

func (f *descriptionFilter) Name() string { return "description" }

func (f *descriptionFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *descriptionFilter) IsEnabled() bool { return !f.disabled }

func (f *descriptionFilter) Validate(cfg *Config) error {
	f.minLength = DefaultMinDescriptionLength
	if cfg != nil && cfg.MinDescriptionLength != nil {
		f.minLength = *cfg.MinDescriptionLength
	}
	if f.minLength < 0 {
		return fmt.Errorf("minimum description length must not be negative, got %d", f.minLength)
	}
	return nil
}

func (f *descriptionFilter) Apply(_ context.Context, deps Deps, o *basehiring.Openings) (*basehiring.Openings, Step, error) {
	initial := o.Len()
	dropped := o.Filter(func(opening *basehiring.Opening) bool {
		return utf8.RuneCountInString(opening.Content) >= f.minLength
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding openings with short descriptions",
			zap.Strings("excluded_openings", dropped),
			zap.Int("minimum_length", f.minLength),
		)
	}

	return o, Step{Initial: initial, Dropped: len(dropped), Left: o.Len()}, nil
}

func (f *descriptionFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_length": strconv.Itoa(f.minLength)},
	}
}

type excludedOpeningsFilter struct {
	ids []string
}

// NewExcludedOpenings creates a filter that removes openings listed in the config.
func NewExcludedOpenings() Filter {
	return &excludedOpeningsFilter{}
}

func (f *excludedOpeningsFilter) Name() string { return "excluded_openings" }

func (f *excludedOpeningsFilter) Disable(string) {}

func (f *excludedOpeningsFilter) IsEnabled() bool { return true }

func (f *excludedOpeningsFilter) Validate(cfg *Config) error {
	f.ids = nil
	if cfg != nil {
		f.ids = append(f.ids, cfg.ExcludeOpenings...)
	}
	return nil
}

func (f *excludedOpeningsFilter) Apply(_ context.Context, deps Deps, o *basehiring.Openings) (*basehiring.Openings, Step, error) {
	initial := o.Len()
	if len(f.ids) == 0 {
		return o, Step{Initial: initial, Dropped: 0, Left: o.Len()}, nil
	}

	excluded := o.Exclude(f.ids)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding openings by config",
			zap.Strings("excluded_openings", excluded),
			zap.Int("openings_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: len(excluded), Left: o.Len()}, nil
}

func (f *excludedOpeningsFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["openings"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
