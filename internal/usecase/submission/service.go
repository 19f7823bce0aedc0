package submission

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
	"github.com/rondagdag/audience-survey/internal/usecase/survey"
	"github.com/rondagdag/audience-survey/pkg/ai"
)

// MaxImageSize is the largest accepted survey photo
const MaxImageSize = 10 << 20

// allowedTypes maps accepted content types to the extension used for stored photos
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Analyzer extracts survey fields from a photo
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (*ai.AnalyzeResult, error)
}

var _ Analyzer = (*ai.ContentUnderstandingClient)(nil)

// SubmitInput is one uploaded survey photo
type SubmitInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Service defines the survey submission use case
type Service interface {
	// Submit stores, reads and records a survey photo for the active session
	Submit(ctx context.Context, input SubmitInput) (*entities.SurveyRecord, error)
}

var _ Service = (*SubmissionService)(nil)

// SubmissionService implements Service
type SubmissionService struct {
	store     *survey.Store
	mapper    *survey.Mapper
	analyzer  Analyzer
	images    repo.ImageStore
	snapshots repo.SnapshotRepository
	events    repo.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubmissionService creates a new submission service.
// images and snapshots may be nil.
func NewSubmissionService(
	store *survey.Store,
	mapper *survey.Mapper,
	analyzer Analyzer,
	images repo.ImageStore,
	snapshots repo.SnapshotRepository,
	events repo.EventPublisher,
	logger *zap.Logger,
) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mapper == nil {
		mapper = survey.NewMapper(0)
	}
	return &SubmissionService{
		store:     store,
		mapper:    mapper,
		analyzer:  analyzer,
		images:    images,
		snapshots: snapshots,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, input SubmitInput) (*entities.SurveyRecord, error) {
	session, ok := s.store.ActiveSession()
	if !ok {
		return nil, entities.ErrNoActiveSession
	}

	ext, err := validateImage(input)
	if err != nil {
		return nil, err
	}

	imagePath := ""
	if s.images != nil {
		name := s.blobName(input.FileName, ext)
		imagePath, err = s.images.UploadImage(ctx, name, input.Data, normalizeContentType(input.ContentType))
		if err != nil {
			s.logger.Error("failed to upload survey image", zap.String("session_id", session.ID), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", entities.ErrImageUpload, err)
		}
	}

	payload, err := s.extract(ctx, input.Data)
	if err != nil {
		return nil, err
	}

	record := s.mapper.MapRecord(payload, session.ID, imagePath)
	s.store.AddRecord(record)
	s.logger.Info("survey submitted",
		zap.String("session_id", session.ID),
		zap.String("record_id", record.ID),
		zap.Int("recommend_score", record.RecommendScore),
		zap.Bool("uncertain", record.Uncertain),
	)

	if err := s.store.Persist(ctx, s.snapshots); err != nil {
		s.logger.Error("failed to persist snapshot", zap.Error(err))
	}
	if s.events != nil {
		ev := entities.NewEvent(entities.EventSurveySubmitted, session.ID)
		ev.Record = record.Clone()
		if err := s.events.Publish(ctx, ev); err != nil {
			s.logger.Warn("failed to publish event", zap.Error(err))
		}
	}

	return record, nil
}

func (s *SubmissionService) extract(ctx context.Context, data []byte) (entities.ExtractionPayload, error) {
	if s.analyzer == nil {
		return nil, entities.ErrExtractionNotConfigured
	}
	res, err := s.analyzer.Analyze(ctx, data)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return nil, entities.ErrExtractionNotConfigured
		}
		s.logger.Warn("survey extraction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", entities.ErrExtractionFailed, err)
	}
	return PayloadFromFields(res.Fields), nil
}

// blobName is {unixMillis}-{uuid}{ext}
func (s *SubmissionService) blobName(fileName, fallbackExt string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = fallbackExt
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
}

// validateImage checks type and size and returns the stored extension
func validateImage(input SubmitInput) (string, error) {
	if len(input.Data) == 0 {
		return "", entities.ErrEmptyImage
	}
	ext, ok := allowedTypes[normalizeContentType(input.ContentType)]
	if !ok {
		return "", entities.ErrInvalidImageType
	}
	if len(input.Data) > MaxImageSize {
		return "", entities.ErrImageTooLarge
	}
	return ext, nil
}

func normalizeContentType(ct string) string {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}

// PayloadFromFields converts analyzer fields into the mapper's payload.
// Whole numbers reported as "number" are treated as integers. Type
// discriminators are matched exactly.
func PayloadFromFields(fields map[string]ai.Field) entities.ExtractionPayload {
	payload := make(entities.ExtractionPayload, len(fields))
	for name, f := range fields {
		out := entities.ExtractionField{
			Type:         entities.ExtractionFieldType(f.Type),
			ValueString:  f.ValueString,
			ValueInteger: f.ValueInteger,
			Confidence:   f.Confidence,
		}
		if out.Type == "number" && f.ValueNumber != nil && *f.ValueNumber == math.Trunc(*f.ValueNumber) {
			v := int64(*f.ValueNumber)
			out.Type = entities.ExtractionFieldInteger
			out.ValueInteger = &v
		}
		payload[name] = out
	}
	return payload
}
