package survey

import "github.com/rondagdag/audience-survey/internal/domain/entities"

// SubmitResponse is returned after a survey photo is read
type SubmitResponse struct {
	Success      bool                   `json:"success"`
	SurveyResult *entities.SurveyRecord `json:"survey_result"`
	Message      string                 `json:"message"`
}
