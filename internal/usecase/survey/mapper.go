package survey

import (
	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

// Mapper converts analyzer output into survey records
type Mapper struct {
	// minConfidence flags records whose lowest field confidence is below it.
	// Zero disables the check.
	minConfidence float64
}

// NewMapper creates a Mapper. minConfidence <= 0 disables uncertainty flagging.
func NewMapper(minConfidence float64) *Mapper {
	if minConfidence < 0 {
		minConfidence = 0
	}
	return &Mapper{minConfidence: minConfidence}
}

// MapRecord builds a normalized record from payload. It never fails: missing
// or mistyped fields fall back to defaults and out-of-range ratings are clamped.
func (m *Mapper) MapRecord(payload entities.ExtractionPayload, sessionID, imagePath string) *entities.SurveyRecord {
	r := entities.NewSurveyRecord(sessionID)
	r.ImagePath = imagePath

	r.PresentationFeedback = entities.PresentationFeedback{
		Engaging:         rating(payload, entities.FieldTopicEngagement),
		Clear:            rating(payload, entities.FieldConceptClarity),
		UsefulDemos:      rating(payload, entities.FieldDemoUsefulness),
		RightLevel:       rating(payload, entities.FieldSkillLevelAppropriateness),
		LearnedSomething: rating(payload, entities.FieldLearningOutcome),
	}
	r.RecommendScore = intField(payload, entities.FieldRecommendScore,
		entities.DefaultRecommendScore, entities.RecommendScoreMin, entities.RecommendScoreMax)

	if v, ok := payload.String(entities.FieldRole); ok {
		if t, ok := entities.ParseAttendeeType(v); ok {
			r.AttendeeType = t
		}
	}
	if v, ok := payload.String(entities.FieldAIKnowledgeLevel); ok {
		if l, ok := entities.ParseAILevel(v); ok {
			r.AILevel = l
		}
	}
	if v, ok := payload.String(entities.FieldUsedAzureAI); ok {
		if u, ok := entities.ParseAzureAIUsage(v); ok {
			r.UsedAzureAI = u
		}
	}

	r.BestPart, _ = payload.String(entities.FieldBestPart)
	r.Improve, _ = payload.String(entities.FieldImprovementSuggestions)
	r.FutureTopics, _ = payload.String(entities.FieldFutureTopics)

	if m != nil && m.minConfidence > 0 {
		if lowest, ok := payload.MinConfidence(); ok && lowest < m.minConfidence {
			r.Uncertain = true
		}
	}

	return r
}

func rating(p entities.ExtractionPayload, name string) int {
	return intField(p, name, entities.DefaultRating, entities.RatingMin, entities.RatingMax)
}

func intField(p entities.ExtractionPayload, name string, def, lo, hi int) int {
	v, ok := p.Integer(name)
	if !ok {
		return def
	}
	return clamp(v, lo, hi)
}

func clamp(v int64, lo, hi int) int {
	switch {
	case v < int64(lo):
		return lo
	case v > int64(hi):
		return hi
	default:
		return int(v)
	}
}
