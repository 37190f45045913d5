// Package scoring combines an opening, a candidate and the rubric verdict into
// one report record.
package scoring

import (
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/FOX2920/Automated-CV-Scoring/internal/ai"
	"github.com/FOX2920/Automated-CV-Scoring/internal/basehiring"
)

// Record is one row of the evaluation report.
type Record struct {
	JobID         string
	JobName       string
	CandidateID   string
	CandidateName string
	CVURL         string
	AppliedAt     time.Time
	Fit           int
	Technical     int
	Experience    int
	Education     int
	SoftSkills    int
	Overall       float64
	Summary       string
	Link          string
}

// Aggregator builds records. It holds no state besides its settings.
type Aggregator struct {
	// BaseURL is the hiring platform address used for candidate deep links.
	BaseURL  string
	Location *time.Location
}

func (a Aggregator) Aggregate(opening *basehiring.Opening, candidate *basehiring.Candidate, evaluation *ai.Evaluation) Record {
	return Record{
		JobID:         opening.ID,
		JobName:       opening.Name,
		CandidateID:   candidate.ID,
		CandidateName: candidate.DisplayName(),
		CVURL:         candidate.ResumeURL(),
		AppliedAt:     candidate.AppliedAt(a.Location),
		Fit:           evaluation.Fit,
		Technical:     evaluation.Technical,
		Experience:    evaluation.Experience,
		Education:     evaluation.Education,
		SoftSkills:    evaluation.SoftSkills,
		Overall:       OverallScore(evaluation.Scores()...),
		Summary:       evaluation.Summary,
		Link:          CandidateLink(a.BaseURL, opening.ID, candidate.ID),
	}
}

// OverallScore is the arithmetic mean of the scores rounded to two decimals.
func OverallScore(scores ...int) float64 {
	if len(scores) == 0 {
		return 0
	}

	var sum int
	for _, score := range scores {
		sum += score
	}

	return Round(float64(sum)/float64(len(scores)), 2)
}

// Round rounds half away from zero at the given number of decimals.
func Round(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

// CandidateLink points at the candidate inside the opening on the hiring platform.
func CandidateLink(baseURL, openingID, candidateID string) string {
	return strings.TrimRight(baseURL, "/") + "/opening/" + url.PathEscape(openingID) +
		"?candidate=" + url.QueryEscape(candidateID)
}
