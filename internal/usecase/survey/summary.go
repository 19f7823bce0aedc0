package survey

import (
	"unicode/utf8"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	"github.com/rondagdag/audience-survey/internal/usecase/keywords"
)

// feedbackMinLength is the rune count a free-text answer must exceed to be listed
const feedbackMinLength = 10

// Summarize aggregates records into a session summary. An empty record list
// yields the zero summary.
func Summarize(sessionID string, records []*entities.SurveyRecord, extractor *keywords.Extractor) *entities.SessionSummary {
	summary := entities.EmptySessionSummary(sessionID)
	if len(records) == 0 {
		return summary
	}
	if extractor == nil {
		extractor = keywords.Default()
	}

	var (
		sums     entities.PresentationFeedback
		scoreSum int
		texts    []string
	)
	for _, r := range records {
		if r.AttendeeType != "" {
			summary.AttendeeTypeCounts[string(r.AttendeeType)]++
		}
		if r.AILevel != "" {
			summary.AILevelCounts[string(r.AILevel)]++
		}
		if r.UsedAzureAI != "" {
			summary.AzureAIUsageCounts[string(r.UsedAzureAI)]++
		}

		sums.Engaging += r.PresentationFeedback.Engaging
		sums.Clear += r.PresentationFeedback.Clear
		sums.UsefulDemos += r.PresentationFeedback.UsefulDemos
		sums.RightLevel += r.PresentationFeedback.RightLevel
		sums.LearnedSomething += r.PresentationFeedback.LearnedSomething

		score := clamp(int64(r.RecommendScore), entities.RecommendScoreMin, entities.RecommendScoreMax)
		summary.NPSDistribution[score-entities.RecommendScoreMin]++
		scoreSum += score

		texts = append(texts, r.FreeText()...)
	}

	n := float64(len(records))
	summary.TotalSubmissions = len(records)
	summary.AverageFeedback = entities.AverageFeedback{
		Engaging:         float64(sums.Engaging) / n,
		Clear:            float64(sums.Clear) / n,
		UsefulDemos:      float64(sums.UsefulDemos) / n,
		RightLevel:       float64(sums.RightLevel) / n,
		LearnedSomething: float64(sums.LearnedSomething) / n,
	}
	summary.NPSScore = float64(scoreSum) / n
	summary.TopWords = extractor.Extract(texts)

	for _, t := range texts {
		if utf8.RuneCountInString(t) > feedbackMinLength {
			summary.FeedbackList = append(summary.FeedbackList, t)
		}
	}

	return summary
}
