package survey

import (
	"testing"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

func TestMapRecord_FullPayload(t *testing.T) {
	payload := entities.ExtractionPayload{
		entities.FieldRole:                      entities.StringField("  developer "),
		entities.FieldAIKnowledgeLevel:          entities.StringField("ADVANCED"),
		entities.FieldUsedAzureAI:               entities.StringField("Planning to use it"),
		entities.FieldTopicEngagement:           entities.IntegerField(5),
		entities.FieldConceptClarity:            entities.IntegerField(4),
		entities.FieldDemoUsefulness:            entities.IntegerField(2),
		entities.FieldSkillLevelAppropriateness: entities.IntegerField(1),
		entities.FieldLearningOutcome:           entities.IntegerField(3),
		entities.FieldRecommendScore:            entities.IntegerField(9),
		entities.FieldBestPart:                  entities.StringField("The live demos"),
		entities.FieldImprovementSuggestions:    entities.StringField("More time for Q&A"),
		entities.FieldFutureTopics:              entities.StringField("Agents"),
		entities.FieldIndustry:                  entities.StringField("Retail"),
	}

	r := NewMapper(0).MapRecord(payload, "s1", "https://img/1.png")

	if r.ID == "" || r.SessionID != "s1" || r.ImagePath != "https://img/1.png" {
		t.Fatalf("unexpected identity fields: %+v", r)
	}
	if r.AttendeeType != entities.AttendeeTypeDeveloper {
		t.Fatalf("attendee type = %q", r.AttendeeType)
	}
	if r.AILevel != entities.AILevelAdvanced {
		t.Fatalf("ai level = %q", r.AILevel)
	}
	if r.UsedAzureAI != entities.AzureAIUsagePlanningTo {
		t.Fatalf("azure usage = %q", r.UsedAzureAI)
	}
	want := entities.PresentationFeedback{Engaging: 5, Clear: 4, UsefulDemos: 2, RightLevel: 1, LearnedSomething: 3}
	if r.PresentationFeedback != want {
		t.Fatalf("feedback = %+v want %+v", r.PresentationFeedback, want)
	}
	if r.RecommendScore != 9 {
		t.Fatalf("recommend = %d", r.RecommendScore)
	}
	if r.BestPart != "The live demos" || r.Improve != "More time for Q&A" || r.FutureTopics != "Agents" {
		t.Fatalf("free text = %q %q %q", r.BestPart, r.Improve, r.FutureTopics)
	}
	if r.Uncertain {
		t.Fatal("expected certain record")
	}
	if r.SubmittedAt.IsZero() {
		t.Fatal("expected submission timestamp")
	}
}

func TestMapRecord_EmptyPayloadUsesDefaults(t *testing.T) {
	r := NewMapper(0).MapRecord(entities.ExtractionPayload{}, "s1", "")

	if r.PresentationFeedback != entities.DefaultPresentationFeedback() {
		t.Fatalf("expected default ratings, got %+v", r.PresentationFeedback)
	}
	if r.RecommendScore != entities.DefaultRecommendScore {
		t.Fatalf("expected default score, got %d", r.RecommendScore)
	}
	if r.AttendeeType != "" || r.AILevel != "" || r.UsedAzureAI != "" {
		t.Fatalf("expected unset categoricals, got %+v", r)
	}
	if r.BestPart != "" || r.Improve != "" || r.FutureTopics != "" {
		t.Fatalf("expected empty free text, got %+v", r)
	}
}

func TestMapRecord_MistypedFieldsFallBack(t *testing.T) {
	payload := entities.ExtractionPayload{
		entities.FieldTopicEngagement: entities.StringField("5"),
		entities.FieldRecommendScore:  {Type: entities.ExtractionFieldInteger},
		entities.FieldRole:            entities.IntegerField(2),
		entities.FieldBestPart:        entities.StringField(""),
	}
	r := NewMapper(0).MapRecord(payload, "s1", "")

	if r.PresentationFeedback.Engaging != entities.DefaultRating {
		t.Fatalf("string-typed rating should be ignored, got %d", r.PresentationFeedback.Engaging)
	}
	if r.RecommendScore != entities.DefaultRecommendScore {
		t.Fatalf("missing integer should default, got %d", r.RecommendScore)
	}
	if r.AttendeeType != "" {
		t.Fatalf("integer-typed role should be ignored, got %q", r.AttendeeType)
	}
	if r.BestPart != "" {
		t.Fatalf("empty string should stay unset, got %q", r.BestPart)
	}
}

func TestMapRecord_ClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		engaging  int64
		score     int64
		wantRate  int
		wantScore int
	}{
		{"above", 9, 14, 5, 10},
		{"below", 0, -3, 1, 0},
		{"edges", 1, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := entities.ExtractionPayload{
				entities.FieldTopicEngagement: entities.IntegerField(tt.engaging),
				entities.FieldRecommendScore:  entities.IntegerField(tt.score),
			}
			r := NewMapper(0).MapRecord(payload, "s1", "")
			if r.PresentationFeedback.Engaging != tt.wantRate {
				t.Fatalf("engaging = %d want %d", r.PresentationFeedback.Engaging, tt.wantRate)
			}
			if r.RecommendScore != tt.wantScore {
				t.Fatalf("score = %d want %d", r.RecommendScore, tt.wantScore)
			}
		})
	}
}

func TestMapRecord_UnknownVocabularyIsUnset(t *testing.T) {
	payload := entities.ExtractionPayload{
		entities.FieldRole:             entities.StringField("Architect"),
		entities.FieldAIKnowledgeLevel: entities.StringField("guru"),
		entities.FieldUsedAzureAI:      entities.StringField("maybe"),
	}
	r := NewMapper(0).MapRecord(payload, "s1", "")
	if r.AttendeeType != "" || r.AILevel != "" || r.UsedAzureAI != "" {
		t.Fatalf("expected unset categoricals, got %q %q %q", r.AttendeeType, r.AILevel, r.UsedAzureAI)
	}
}

func TestMapRecord_LowConfidenceIsUncertain(t *testing.T) {
	low, high := 0.42, 0.97
	payload := entities.ExtractionPayload{
		entities.FieldTopicEngagement: {Type: entities.ExtractionFieldInteger, ValueInteger: ptr(int64(4)), Confidence: &high},
		entities.FieldBestPart:        {Type: entities.ExtractionFieldString, ValueString: ptr("demos"), Confidence: &low},
	}

	if r := NewMapper(0.7).MapRecord(payload, "s1", ""); !r.Uncertain {
		t.Fatal("expected uncertain record below threshold")
	}
	if r := NewMapper(0).MapRecord(payload, "s1", ""); r.Uncertain {
		t.Fatal("threshold disabled should never flag")
	}
	if r := NewMapper(0.4).MapRecord(payload, "s1", ""); r.Uncertain {
		t.Fatal("confidence above threshold should not flag")
	}
}

func ptr[T any](v T) *T { return &v }
