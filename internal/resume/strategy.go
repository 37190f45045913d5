package resume

import (
	"errors"
	"fmt"
	"strings"
)

var errNoText = errors.New("no text found")

// Strategy turns raw document bytes into text.
type Strategy struct {
	Name    string
	Extract func(data []byte) (string, error)
}

// Failure records why a strategy produced nothing.
type Failure struct {
	Strategy string
	Err      error
}

// Result is the outcome of running a chain of strategies.
type Result struct {
	Text     string
	Strategy string
	OK       bool
	Failures []Failure
}

// Run tries the strategies in order and stops at the first one that yields
// non-empty text. Panics inside a parser count as that strategy's failure.
func Run(strategies []Strategy, data []byte) Result {
	var result Result

	for _, strategy := range strategies {
		text, err := safeExtract(strategy, data)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errNoText
		}
		if err != nil {
			result.Failures = append(result.Failures, Failure{Strategy: strategy.Name, Err: err})
			continue
		}

		result.Text = text
		result.Strategy = strategy.Name
		result.OK = true
		return result
	}

	return result
}

func safeExtract(strategy Strategy, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panicked: %v", r)
		}
	}()

	return strategy.Extract(data)
}
