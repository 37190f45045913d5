package gemini

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FOX2920/Automated-CV-Scoring/internal/ai"
	"github.com/FOX2920/Automated-CV-Scoring/internal/utils"
)

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// Evaluator scores resumes against job descriptions with the rubric schema.
type Evaluator struct {
	generator jsonGenerator
	schema    *genai.Schema
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewEvaluator(generator jsonGenerator, logger *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		generator: generator,
		schema:    ResponseSchema(),
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, jobDescription, resumeText string) (*ai.Evaluation, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.New("job description is required")
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.New("resume text is required")
	}

	prompt := buildPrompt(jobDescription, resumeText)

	e.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateJSON(ctx, prompt, e.schema)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(jobDescription, resumeText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job description:\n{{JOB_DESCRIPTION}}\n\nResume:\n{{RESUME_TEXT}}\n\nJSON Response:"
	}
	// Resume text is substituted last so placeholders inside a resume stay literal.
	prompt := strings.ReplaceAll(template, "{{JOB_DESCRIPTION}}", jobDescription)
	prompt = strings.Replace(prompt, "{{RESUME_TEXT}}", resumeText, 1)
	return prompt
}
