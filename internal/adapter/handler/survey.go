package handler

import (
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/errors"
	surveyDTO "github.com/rondagdag/audience-survey/internal/adapter/dto/survey"
	"github.com/rondagdag/audience-survey/internal/usecase/submission"
)

// ImageFormField is the multipart field carrying the survey photo
const ImageFormField = "image"

// Survey handles survey photo submissions
type Survey struct {
	submissionService submission.Service
	logger            *zap.Logger
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(submissionService submission.Service, logger *zap.Logger) *Survey {
	return &Survey{
		submissionService: submissionService,
		logger:            logger,
	}
}

// Analyze handles POST /analyze
// @Summary      Submit a survey photo
// @Description  Reads a photographed paper survey and records it for the active session
// @Tags         Surveys
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Survey photo (JPEG, PNG or WebP, max 10MB)"
// @Success      200    {object}  survey.SubmitResponse
// @Failure      400    {object}  map[string]interface{}  "No active session, invalid image or unreadable survey"
// @Failure      500    {object}  map[string]interface{}  "Storage or extraction service failure"
// @Router       /analyze [post]
func (h *Survey) Analyze(c echo.Context) error {
	fh, err := c.FormFile(ImageFormField)
	if err != nil {
		return h.submit(c, submission.SubmitInput{})
	}
	f, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer f.Close()

	// one extra byte so oversize uploads are still detected
	data, err := io.ReadAll(io.LimitReader(f, submission.MaxImageSize+1))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	return h.submit(c, submission.SubmitInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
}

func (h *Survey) submit(c echo.Context, input submission.SubmitInput) error {
	record, err := h.submissionService.Submit(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &surveyDTO.SubmitResponse{
		Success:      true,
		SurveyResult: record,
		Message:      "Survey submitted successfully! Thank you for your feedback.",
	})
}
