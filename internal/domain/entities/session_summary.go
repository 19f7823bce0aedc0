package entities

// NPSBuckets is the number of 0-10 recommendation buckets
const NPSBuckets = RecommendScoreMax - RecommendScoreMin + 1

// Keyword is a weighted word or phrase for word-cloud display
type Keyword struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

// AverageFeedback holds per-dimension rating means
type AverageFeedback struct {
	Engaging         float64 `json:"engaging"`
	Clear            float64 `json:"clear"`
	UsefulDemos      float64 `json:"usefulDemos"`
	RightLevel       float64 `json:"rightLevel"`
	LearnedSomething float64 `json:"learnedSomething"`
}

// SessionSummary is recomputed from a session's records on every read
type SessionSummary struct {
	SessionID          string          `json:"sessionId"`
	TotalSubmissions   int             `json:"totalSubmissions"`
	AttendeeTypeCounts map[string]int  `json:"attendeeTypeCounts"`
	AILevelCounts      map[string]int  `json:"aiLevelCounts"`
	AzureAIUsageCounts map[string]int  `json:"azureAIUsageCounts"`
	AverageFeedback    AverageFeedback `json:"averageFeedback"`
	NPSScore           float64         `json:"npsScore"`
	NPSDistribution    []int           `json:"npsDistribution"`
	TopWords           []Keyword       `json:"topWords"`
	FeedbackList       []string        `json:"feedbackList"`
}

// EmptySessionSummary returns the zero summary for a session without records
func EmptySessionSummary(sessionID string) *SessionSummary {
	return &SessionSummary{
		SessionID:          sessionID,
		AttendeeTypeCounts: map[string]int{},
		AILevelCounts:      map[string]int{},
		AzureAIUsageCounts: map[string]int{},
		NPSDistribution:    make([]int, NPSBuckets),
		TopWords:           []Keyword{},
		FeedbackList:       []string{},
	}
}
