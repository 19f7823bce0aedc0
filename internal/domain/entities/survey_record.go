package entities

import (
	"time"

	"github.com/google/uuid"
)

// AttendeeType is the self-reported role of an attendee
type AttendeeType string

const (
	AttendeeTypeStudent    AttendeeType = "Student"
	AttendeeTypeDeveloper  AttendeeType = "Developer"
	AttendeeTypeManager    AttendeeType = "Manager"
	AttendeeTypeResearcher AttendeeType = "Researcher"
	AttendeeTypeHobbyist   AttendeeType = "Hobbyist"
	AttendeeTypeOther      AttendeeType = "Other"
)

// AttendeeTypes lists the attendee vocabulary in form order
var AttendeeTypes = []AttendeeType{
	AttendeeTypeStudent,
	AttendeeTypeDeveloper,
	AttendeeTypeManager,
	AttendeeTypeResearcher,
	AttendeeTypeHobbyist,
	AttendeeTypeOther,
}

// AILevel is the self-reported AI experience level
type AILevel string

const (
	AILevelBeginner     AILevel = "Beginner"
	AILevelIntermediate AILevel = "Intermediate"
	AILevelAdvanced     AILevel = "Advanced"
	AILevelExpert       AILevel = "Expert"
)

// AILevels lists the experience vocabulary in form order
var AILevels = []AILevel{
	AILevelBeginner,
	AILevelIntermediate,
	AILevelAdvanced,
	AILevelExpert,
}

// AzureAIUsage answers "have you used Azure AI before"
type AzureAIUsage string

const (
	AzureAIUsageYes        AzureAIUsage = "Yes"
	AzureAIUsageNo         AzureAIUsage = "No"
	AzureAIUsagePlanningTo AzureAIUsage = "Planning to"
)

// Rating bounds for the survey scales
const (
	RatingMin             = 1
	RatingMax             = 5
	DefaultRating         = 3
	RecommendScoreMin     = 0
	RecommendScoreMax     = 10
	DefaultRecommendScore = 5
)

// PresentationFeedback holds the five 1-5 Likert ratings
type PresentationFeedback struct {
	Engaging         int `json:"engaging"`
	Clear            int `json:"clear"`
	UsefulDemos      int `json:"usefulDemos"`
	RightLevel       int `json:"rightLevel"`
	LearnedSomething int `json:"learnedSomething"`
}

// DefaultPresentationFeedback returns neutral ratings
func DefaultPresentationFeedback() PresentationFeedback {
	return PresentationFeedback{
		Engaging:         DefaultRating,
		Clear:            DefaultRating,
		UsefulDemos:      DefaultRating,
		RightLevel:       DefaultRating,
		LearnedSomething: DefaultRating,
	}
}

// SurveyRecord is one normalized, immutable survey submission
type SurveyRecord struct {
	ID                   string               `json:"id"`
	SessionID            string               `json:"sessionId"`
	ImagePath            string               `json:"imagePath,omitempty"`
	AttendeeType         AttendeeType         `json:"attendeeType,omitempty"`
	AILevel              AILevel              `json:"aiLevel,omitempty"`
	UsedAzureAI          AzureAIUsage         `json:"usedAzureAI,omitempty"`
	PresentationFeedback PresentationFeedback `json:"presentationFeedback"`
	RecommendScore       int                  `json:"recommendScore"`
	BestPart             string               `json:"bestPart,omitempty"`
	Improve              string               `json:"improve,omitempty"`
	FutureTopics         string               `json:"futureTopics,omitempty"`
	SubmittedAt          time.Time            `json:"submittedAt"`
	Uncertain            bool                 `json:"uncertain"`
}

// NewSurveyRecord creates a record with default ratings for a session
func NewSurveyRecord(sessionID string) *SurveyRecord {
	return &SurveyRecord{
		ID:                   uuid.NewString(),
		SessionID:            sessionID,
		PresentationFeedback: DefaultPresentationFeedback(),
		RecommendScore:       DefaultRecommendScore,
		SubmittedAt:          time.Now().UTC(),
	}
}

// FreeText returns the non-empty open-ended answers in form order
func (r *SurveyRecord) FreeText() []string {
	texts := make([]string, 0, 3)
	for _, t := range []string{r.BestPart, r.Improve, r.FutureTopics} {
		if t != "" {
			texts = append(texts, t)
		}
	}
	return texts
}

// Clone returns a copy of the record
func (r *SurveyRecord) Clone() *SurveyRecord {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}
