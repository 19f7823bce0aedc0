package entities

import "strings"

// ExtractionFieldType discriminates the value carried by an ExtractionField
type ExtractionFieldType string

const (
	ExtractionFieldString  ExtractionFieldType = "string"
	ExtractionFieldInteger ExtractionFieldType = "integer"
)

// Analyzer field names produced by the audience-survey analyzer
const (
	FieldRole                      = "Role"
	FieldYearsOfExperience         = "YearsOfExperience"
	FieldIndustry                  = "Industry"
	FieldAIKnowledgeLevel          = "AIKnowledgeLevel"
	FieldUsedAzureAI               = "UsedAzureAI"
	FieldTopicEngagement           = "TopicEngagement"
	FieldConceptClarity            = "ConceptClarity"
	FieldDemoUsefulness            = "DemoUsefulness"
	FieldSkillLevelAppropriateness = "SkillLevelAppropriateness"
	FieldLearningOutcome           = "LearningOutcome"
	FieldRecommendScore            = "RecommendScore"
	FieldBestPart                  = "BestPart"
	FieldImprovementSuggestions    = "ImprovementSuggestions"
	FieldFutureTopics              = "FutureTopics"
)

// ExtractionField is one typed value returned by the document analyzer.
// Only the value matching Type is meaningful.
type ExtractionField struct {
	Type         ExtractionFieldType `json:"type"`
	ValueString  *string             `json:"valueString,omitempty"`
	ValueInteger *int64              `json:"valueInteger,omitempty"`
	Confidence   *float64            `json:"confidence,omitempty"`
}

// StringField builds a string-typed field
func StringField(v string) ExtractionField {
	return ExtractionField{Type: ExtractionFieldString, ValueString: &v}
}

// IntegerField builds an integer-typed field
func IntegerField(v int64) ExtractionField {
	return ExtractionField{Type: ExtractionFieldInteger, ValueInteger: &v}
}

// ExtractionPayload maps analyzer field names to typed values
type ExtractionPayload map[string]ExtractionField

// String returns the field's string value when it is string-typed and non-empty
func (p ExtractionPayload) String(name string) (string, bool) {
	f, ok := p[name]
	if !ok {
		return "", false
	}
	switch f.Type {
	case ExtractionFieldString:
		if f.ValueString == nil || *f.ValueString == "" {
			return "", false
		}
		return *f.ValueString, true
	default:
		return "", false
	}
}

// Integer returns the field's integer value when it is integer-typed
func (p ExtractionPayload) Integer(name string) (int64, bool) {
	f, ok := p[name]
	if !ok {
		return 0, false
	}
	switch f.Type {
	case ExtractionFieldInteger:
		if f.ValueInteger == nil {
			return 0, false
		}
		return *f.ValueInteger, true
	default:
		return 0, false
	}
}

// MinConfidence returns the lowest confidence reported by any field.
// ok is false when no field carries a confidence.
func (p ExtractionPayload) MinConfidence() (lowest float64, ok bool) {
	for _, f := range p {
		if f.Confidence == nil {
			continue
		}
		if !ok || *f.Confidence < lowest {
			lowest = *f.Confidence
			ok = true
		}
	}
	return lowest, ok
}

// normalizeToken trims and lowercases a free-form answer for vocabulary matching
func normalizeToken(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ParseAttendeeType matches v case-insensitively against the attendee vocabulary
func ParseAttendeeType(v string) (AttendeeType, bool) {
	n := normalizeToken(v)
	for _, t := range AttendeeTypes {
		if strings.ToLower(string(t)) == n {
			return t, true
		}
	}
	return "", false
}

// ParseAILevel matches v case-insensitively against the experience vocabulary
func ParseAILevel(v string) (AILevel, bool) {
	n := normalizeToken(v)
	for _, l := range AILevels {
		if strings.ToLower(string(l)) == n {
			return l, true
		}
	}
	return "", false
}

// ParseAzureAIUsage maps "yes", "no" and anything mentioning "planning"
func ParseAzureAIUsage(v string) (AzureAIUsage, bool) {
	n := normalizeToken(v)
	switch {
	case n == "yes":
		return AzureAIUsageYes, true
	case n == "no":
		return AzureAIUsageNo, true
	case strings.Contains(n, "planning"):
		return AzureAIUsagePlanningTo, true
	}
	return "", false
}
