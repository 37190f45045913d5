package ai

import "context"

// Evaluation is the rubric verdict for one resume against one job description.
// Every score is in the 0-10 range.
type Evaluation struct {
	Fit        int
	Technical  int
	Experience int
	Education  int
	SoftSkills int
	Summary    string
	Raw        string
}

// Scores returns the five rubric scores in report column order.
func (e *Evaluation) Scores() []int {
	return []int{e.Fit, e.Technical, e.Experience, e.Education, e.SoftSkills}
}

type Evaluator interface {
	Evaluate(ctx context.Context, jobDescription, resumeText string) (*Evaluation, error)
}
