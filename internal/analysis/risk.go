package analysis

import (
	"math"
	"time"

	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/pkg/models"
)

// DefaultWeeklyVelocity is the assumed throughput in effort points per week.
const DefaultWeeklyVelocity = 5.0

// Estimator classifies the risk of missing a target date given the effort
// still outstanding and an assumed weekly throughput.
type Estimator struct {
	// WeeklyVelocity is the number of effort points finished per 7 days
	WeeklyVelocity float64

	// Now returns the current time; defaults to time.Now
	Now func() time.Time
}

// NewEstimator returns an Estimator using the default velocity and clock.
func NewEstimator() *Estimator {
	return &Estimator{WeeklyVelocity: DefaultWeeklyVelocity, Now: time.Now}
}

// Estimate computes the risk assessment for the given effort sums. The
// target date must be formatted YYYY-MM-DD; an unparsable date yields an
// UNKNOWN assessment with zero confidence and zero days remaining.
func (e *Estimator) Estimate(total, completed float64, targetDate string) models.RiskAssessment {
	assessment := models.RiskAssessment{
		TotalPoints:     total,
		CompletedPoints: completed,
		RemainingPoints: total - completed,
	}
	if total > 0 {
		assessment.CompletionRate = math.Round(completed/total*1000) / 10
	}

	target, err := time.Parse(dateLayout, targetDate)
	if err != nil {
		logging.Warn("cannot assess timeline risk",
			"target_date", targetDate,
			"error", err)
		assessment.Level = models.RiskUnknown
		return assessment
	}

	assessment.DaysRemaining = daysBetween(e.now(), target)

	velocity := e.WeeklyVelocity
	if velocity <= 0 {
		velocity = DefaultWeeklyVelocity
	}
	capacity := float64(assessment.DaysRemaining) / 7 * velocity

	switch remaining := assessment.RemainingPoints; {
	case remaining > capacity:
		assessment.Level, assessment.Confidence = models.RiskHigh, 30
	case remaining > 0.8*capacity:
		assessment.Level, assessment.Confidence = models.RiskMedium, 60
	default:
		assessment.Level, assessment.Confidence = models.RiskLow, 85
	}

	return assessment
}

// TimelineRisk sums the graph's effort weights and estimates against them.
func (e *Estimator) TimelineRisk(graph *models.DependencyGraph, targetDate string) models.RiskAssessment {
	var total, completed float64
	if graph != nil {
		for _, node := range graph.Nodes {
			total += node.Weight
			if node.Finished() {
				completed += node.Weight
			}
		}
	}
	return e.Estimate(total, completed, targetDate)
}

func (e *Estimator) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// daysBetween counts calendar days from the date of now to target.
func daysBetween(now, target time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(target.Sub(today).Hours() / 24))
}
