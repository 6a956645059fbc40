package study

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

// SimulationResult reports Monte Carlo bounds for one subject. Scores are on
// the 2.00-6.00 grade scale.
type SimulationResult struct {
	Trials   int     `json:"trials"`
	DrawSize int     `json:"draw_size"`
	Mean     float64 `json:"mean"`
	// BestCase / WorstCase are the 95th / 5th percentile trial scores:
	// favorable and unfavorable topic draws.
	BestCase  float64 `json:"best_case"`
	WorstCase float64 `json:"worst_case"`
	StdDev    float64 `json:"std_dev"`
	// CriticalTopics are weak topics that show up most often in the worst
	// decile of trials.
	CriticalTopics []TopicImpact `json:"critical_topics,omitempty"`
	// ImpactTopics rank topics by how much mastering them would lift the
	// worst-case score, descending, ties by topic number ascending.
	ImpactTopics []TopicImpact `json:"impact_topics,omitempty"`
}

// TopicImpact is one entry of the critical/impact rankings.
type TopicImpact struct {
	TopicID uuid.UUID `json:"topic_id"`
	Number  int       `json:"number"`
	Name    string    `json:"name"`
	// Impact is the counterfactual worst-case lift in grade points (impact
	// ranking) or the appearance share in worst-decile trials (critical
	// ranking).
	Impact float64 `json:"impact"`
	// Appearances counts worst-decile trials containing the topic.
	Appearances int `json:"appearances"`
}

// PredictWithSimulation runs the deterministic estimate and attaches Monte
// Carlo bounds. A nil rng skips the simulation; contract errors propagate
// from PredictGrade unchanged.
func PredictWithSimulation(now time.Time, s *domain.Subject, params PredictionParams, rng *rand.Rand) (GradePrediction, error) {
	pred, err := PredictGrade(now, s, params)
	if err != nil {
		return pred, err
	}
	pred.Simulation = Simulate(s, pred.Current, params, rng)
	return pred, nil
}

// Simulate draws repeated exam-sized topic subsets and spreads the trial
// scores around the deterministic base estimate: each trial shifts the base
// by the mastery-weighted deviation of the drawn topics from the subject
// mean, so the worst case can never exceed the base nor the best case fall
// below it in expectation. The random source is injected; a fixed seed
// reproduces the exact result. Degenerate inputs (no active topics, nil rng)
// return nil rather than an error: the deterministic estimate stands on its
// own with null bounds.
func Simulate(s *domain.Subject, base float64, params PredictionParams, rng *rand.Rand) *SimulationResult {
	if rng == nil {
		return nil
	}
	p := params.normalized()
	topics := s.ActiveTopics()
	n := len(topics)
	if n == 0 {
		return nil
	}

	equivalents := make([]float64, n)
	overall := 0.0
	for i := range topics {
		equivalents[i] = gradeEquivalent(&topics[i], p.GrayBaseline)
		overall += equivalents[i]
	}
	overall /= float64(n)

	drawSize := int(math.Round(float64(n) * p.DrawFraction))
	if drawSize < 1 {
		drawSize = 1
	}
	if drawSize > n {
		drawSize = n
	}

	trials := p.Trials
	scores := make([]float64, trials)
	draws := make([][]int, trials)
	for trial := 0; trial < trials; trial++ {
		idx := rng.Perm(n)[:drawSize]
		sum := 0.0
		for _, j := range idx {
			sum += equivalents[j]
		}
		drawMean := sum / float64(drawSize)
		scores[trial] = ClampGrade(base + p.MasteryWeight*(drawMean-overall))
		draws[trial] = idx
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	mean := 0.0
	for _, v := range scores {
		mean += v
	}
	mean /= float64(trials)
	variance := 0.0
	for _, v := range scores {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(trials)

	out := &SimulationResult{
		Trials:    trials,
		DrawSize:  drawSize,
		Mean:      mean,
		BestCase:  percentile(sorted, 0.95),
		WorstCase: percentile(sorted, 0.05),
		StdDev:    math.Sqrt(variance),
	}
	out.CriticalTopics = criticalTopics(topics, equivalents, scores, draws)
	out.ImpactTopics = impactTopics(topics, equivalents, scores, draws, drawSize, p.MasteryWeight)
	return out
}

// percentile reads a quantile from an already sorted slice (nearest-rank).
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// criticalTopics counts, for every weak topic, how often it was drawn in the
// worst decile of trials. Low mastery combined with frequent worst-trial
// presence marks the topics most responsible for bad outcomes.
func criticalTopics(topics []domain.Topic, equivalents, scores []float64, draws [][]int) []TopicImpact {
	trials := len(scores)
	tail := trials / 10
	if tail < 1 {
		tail = 1
	}

	order := make([]int, trials)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	counts := make([]int, len(topics))
	for _, trial := range order[:tail] {
		for _, j := range draws[trial] {
			counts[j]++
		}
	}

	out := make([]TopicImpact, 0, len(topics))
	for j := range topics {
		if equivalents[j] >= 4.0 || counts[j] == 0 {
			continue
		}
		out = append(out, TopicImpact{
			TopicID:     topics[j].ID,
			Number:      topics[j].Number,
			Name:        topics[j].Name,
			Impact:      float64(counts[j]) / float64(tail),
			Appearances: counts[j],
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Appearances != out[b].Appearances {
			return out[a].Appearances > out[b].Appearances
		}
		return out[a].Number < out[b].Number
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// impactTopics replays the recorded trial draws with one topic
// counterfactually mastered and measures the lift of the 5th-percentile
// score.
func impactTopics(topics []domain.Topic, equivalents, scores []float64, draws [][]int, drawSize int, masteryWeight float64) []TopicImpact {
	trials := len(scores)
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	baseline := percentile(sorted, 0.05)

	replay := make([]float64, trials)
	out := make([]TopicImpact, 0, len(topics))
	for j := range topics {
		if equivalents[j] >= domain.GradeMax {
			continue
		}
		lift := masteryWeight * (domain.GradeMax - equivalents[j]) / float64(drawSize)
		for trial := 0; trial < trials; trial++ {
			v := scores[trial]
			for _, drawn := range draws[trial] {
				if drawn == j {
					v = ClampGrade(v + lift)
					break
				}
			}
			replay[trial] = v
		}
		sort.Float64s(replay)
		impact := percentile(replay, 0.05) - baseline
		if impact <= 0 {
			continue
		}
		out = append(out, TopicImpact{
			TopicID: topics[j].ID,
			Number:  topics[j].Number,
			Name:    topics[j].Name,
			Impact:  impact,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Impact != out[b].Impact {
			return out[a].Impact > out[b].Impact
		}
		return out[a].Number < out[b].Number
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
