package study

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

var (
	// ErrTopicsRequired signals a contract violation: the caller asked for a
	// prediction but supplied no topics slice at all (nil, as opposed to an
	// empty subject).
	ErrTopicsRequired = errors.New("study: subject topics are required")

	// ErrNoTopics marks a subject with zero active topics. Such subjects are
	// excluded from predictions rather than reported as NaN.
	ErrNoTopics = errors.New("study: subject has no active topics")
)

// PredictionParams are the blend weights and simulation knobs of the grade
// prediction engine. The factor weights must sum to 1; DefaultPredictionParams
// documents the chosen constants.
type PredictionParams struct {
	MasteryWeight  float64 `json:"mastery_weight" yaml:"mastery_weight"`
	CoverageWeight float64 `json:"coverage_weight" yaml:"coverage_weight"`
	RecencyWeight  float64 `json:"recency_weight" yaml:"recency_weight"`
	// FormatMaxAdjust bounds the exam-format fit adjustment (+/- grade points).
	FormatMaxAdjust float64 `json:"format_max_adjust" yaml:"format_max_adjust"`
	// GrayBaseline is the grade equivalent of an untouched topic.
	GrayBaseline float64 `json:"gray_baseline" yaml:"gray_baseline"`
	// Trials is the Monte Carlo sample count, floored at 500.
	Trials int `json:"trials" yaml:"trials"`
	// DrawFraction is the share of topics one exam is assumed to sample.
	DrawFraction float64 `json:"draw_fraction" yaml:"draw_fraction"`
}

func DefaultPredictionParams() PredictionParams {
	return PredictionParams{
		MasteryWeight:   0.5,
		CoverageWeight:  0.2,
		RecencyWeight:   0.3,
		FormatMaxAdjust: 0.3,
		GrayBaseline:    2.5,
		Trials:          500,
		DrawFraction:    0.4,
	}
}

func (p PredictionParams) normalized() PredictionParams {
	if p.MasteryWeight <= 0 && p.CoverageWeight <= 0 && p.RecencyWeight <= 0 {
		def := DefaultPredictionParams()
		p.MasteryWeight = def.MasteryWeight
		p.CoverageWeight = def.CoverageWeight
		p.RecencyWeight = def.RecencyWeight
	}
	sum := p.MasteryWeight + p.CoverageWeight + p.RecencyWeight
	p.MasteryWeight /= sum
	p.CoverageWeight /= sum
	p.RecencyWeight /= sum
	if p.GrayBaseline < domain.GradeMin || p.GrayBaseline > domain.GradeMax {
		p.GrayBaseline = DefaultPredictionParams().GrayBaseline
	}
	if p.Trials < 500 {
		p.Trials = 500
	}
	if p.DrawFraction <= 0 || p.DrawFraction > 1 {
		p.DrawFraction = DefaultPredictionParams().DrawFraction
	}
	return p
}

// GradePrediction is the engine output for one subject.
type GradePrediction struct {
	SubjectID uuid.UUID `json:"subject_id"`
	// Current is the deterministic estimate, clamped to [2.00, 6.00].
	Current float64 `json:"current"`
	// Potential recomputes the blend as if every weak topic were green. It is
	// always >= Current.
	Potential float64 `json:"potential"`
	// Simulation carries the Monte Carlo bounds, nil when the subject is too
	// small to simulate.
	Simulation *SimulationResult `json:"simulation,omitempty"`
}

type predictionFactors struct {
	mastery   float64 // mean grade equivalent, 2..6
	coverage  float64 // covered share, 0..1
	freshness float64 // share of topics inside their review threshold, 0..1
	formatAdj float64 // +/- grade points
}

// PredictGrade produces the deterministic grade estimate for a subject. A nil
// Topics slice is a contract violation (ErrTopicsRequired); a subject with no
// active topics returns ErrNoTopics so callers can exclude it without
// special-casing zero values.
func PredictGrade(now time.Time, s *domain.Subject, params PredictionParams) (GradePrediction, error) {
	if s.Topics == nil {
		return GradePrediction{}, ErrTopicsRequired
	}
	p := params.normalized()
	topics := s.ActiveTopics()
	if len(topics) == 0 {
		return GradePrediction{}, ErrNoTopics
	}

	cur := blend(currentFactors(now, s, topics, p), p)
	pot := blend(potentialFactors(now, s, topics, p), p)
	if pot < cur {
		pot = cur
	}

	return GradePrediction{
		SubjectID: s.ID,
		Current:   cur,
		Potential: pot,
	}, nil
}

func blend(f predictionFactors, p PredictionParams) float64 {
	coverageGrade := domain.GradeMin + (domain.GradeMax-domain.GradeMin)*f.coverage
	recencyGrade := domain.GradeMin + (domain.GradeMax-domain.GradeMin)*f.freshness
	g := p.MasteryWeight*f.mastery +
		p.CoverageWeight*coverageGrade +
		p.RecencyWeight*recencyGrade +
		f.formatAdj
	return ClampGrade(g)
}

func currentFactors(now time.Time, s *domain.Subject, topics []domain.Topic, p PredictionParams) predictionFactors {
	var f predictionFactors
	total := len(topics)
	covered := 0
	fresh := 0
	sum := 0.0
	for i := range topics {
		t := &topics[i]
		sum += gradeEquivalent(t, p.GrayBaseline)
		if t.Covered() {
			covered++
		}
		if !NeedsReview(now, t) {
			fresh++
		}
	}
	f.mastery = sum / float64(total)
	f.coverage = float64(covered) / float64(total)
	f.freshness = float64(fresh) / float64(total)
	f.formatAdj = formatFit(s, topics, p)
	return f
}

// potentialFactors assumes every weak topic (gray, orange, or graded below 4)
// has been brought to green, freshly reviewed and covered. Each factor
// dominates its current counterpart, so the blended potential dominates the
// current estimate before clamping.
func potentialFactors(now time.Time, s *domain.Subject, topics []domain.Topic, p PredictionParams) predictionFactors {
	var f predictionFactors
	total := len(topics)
	sum := 0.0
	for i := range topics {
		t := &topics[i]
		eq := gradeEquivalent(t, p.GrayBaseline)
		if isWeakTopic(t) {
			eq = domain.GradeMax
		}
		sum += eq
	}
	f.mastery = sum / float64(total)
	f.coverage = 1
	f.freshness = 1
	f.formatAdj = formatFit(s, topics, p)
	return f
}

func isWeakTopic(t *domain.Topic) bool {
	if t.Status == domain.StatusGray || t.Status == domain.StatusOrange {
		return true
	}
	return t.AvgGrade != nil && *t.AvgGrade < 4.0
}

// higher-order bloom levels stand in for case-study / open-question item
// types in the quiz history.
var openFormatBloomLevels = map[string]bool{
	"apply":    true,
	"analyze":  true,
	"evaluate": true,
	"create":   true,
}

var openFormatMarkers = []string{
	"fallstudie", "case", "offene", "open", "essay", "transfer",
}

// formatFit compares historical performance on higher-order quiz items with
// overall quiz performance when the exam format asks for case-study or
// open-question work. No format hint or no relevant history means no
// adjustment.
func formatFit(s *domain.Subject, topics []domain.Topic, p PredictionParams) float64 {
	format := strings.ToLower(s.ExamFormat)
	if format == "" {
		return 0
	}
	open := false
	for _, marker := range openFormatMarkers {
		if strings.Contains(format, marker) {
			open = true
			break
		}
	}
	if !open {
		return 0
	}

	var openSum, openN, allSum, allN float64
	for i := range topics {
		for _, q := range topics[i].QuizHistory {
			if math.IsNaN(q.Score) || math.IsInf(q.Score, 0) {
				continue
			}
			allSum += q.Score
			allN++
			if openFormatBloomLevels[strings.ToLower(q.BloomLevel)] {
				openSum += q.Score
				openN++
			}
		}
	}
	if openN == 0 || allN == 0 {
		return 0
	}
	// delta in score points, scaled into +/- FormatMaxAdjust grade points.
	delta := (openSum/openN - allSum/allN) / 100
	adj := delta * 2 * p.FormatMaxAdjust
	return math.Min(math.Max(adj, -p.FormatMaxAdjust), p.FormatMaxAdjust)
}
