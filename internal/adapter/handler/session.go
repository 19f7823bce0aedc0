package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/errors"
	sessionDTO "github.com/rondagdag/audience-survey/internal/adapter/dto/session"
	"github.com/rondagdag/audience-survey/internal/adapter/presenter"
	"github.com/rondagdag/audience-survey/internal/domain/entities"
	sessionUsecase "github.com/rondagdag/audience-survey/internal/usecase/session"
)

// LiveStreamer upgrades a request into a live event stream for one session
type LiveStreamer interface {
	ServeSession(w http.ResponseWriter, r *http.Request, sessionID string) error
}

// Session handles session administration and reporting
type Session struct {
	sessionService sessionUsecase.Service
	live           LiveStreamer
	logger         *zap.Logger
}

// NewSessionHandler creates a new session handler. live may be nil.
func NewSessionHandler(sessionService sessionUsecase.Service, live LiveStreamer, logger *zap.Logger) *Session {
	return &Session{
		sessionService: sessionService,
		live:           live,
		logger:         logger,
	}
}

// fail reports err, attaching the session ID to not-found errors
func (h *Session) fail(c echo.Context, id string, err error) error {
	if stdErrors.Is(err, entities.ErrSessionNotFound) {
		return HandleError(h.logger, c, errors.ErrSessionNotFound(id))
	}
	return HandleError(h.logger, c, err)
}

// ListSessions handles GET /sessions
// @Summary      List sessions
// @Description  Lists every session newest first together with the active one
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  session.ListSessionsResponse
// @Router       /sessions [get]
func (h *Session) ListSessions(c echo.Context) error {
	sessions, active := h.sessionService.List(c.Request().Context())
	return HandleSuccess(h.logger, c, &sessionDTO.ListSessionsResponse{
		Sessions:      presenter.ToSessionResponses(sessions),
		ActiveSession: presenter.ToSessionResponse(active),
	})
}

// CreateSession handles POST /sessions
// @Summary      Create a session
// @Description  Starts a new active session; the previous active session is closed
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      session.CreateSessionRequest  true  "Session name"
// @Success      200      {object}  session.SessionResponse
// @Failure      400      {object}  map[string]interface{}  "Session name is required"
// @Failure      401      {object}  map[string]interface{}  "Unauthorized"
// @Router       /sessions [post]
func (h *Session) CreateSession(c echo.Context) error {
	var req sessionDTO.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrSessionNameRequired())
	}

	s, err := h.sessionService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// CloseSession handles PATCH /sessions/:id/close
// @Summary      Close a session
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  session.SessionResponse
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id}/close [patch]
func (h *Session) CloseSession(c echo.Context) error {
	id := c.Param("id")
	s, err := h.sessionService.Close(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, id, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// ReactivateSession handles PUT /sessions/:id/reactivate
// @Summary      Reactivate a session
// @Description  Makes the session the only active one
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  session.MessageResponse
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id}/reactivate [put]
func (h *Session) ReactivateSession(c echo.Context) error {
	id := c.Param("id")
	s, err := h.sessionService.Reactivate(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, id, err)
	}
	return HandleSuccess(h.logger, c, &sessionDTO.MessageResponse{
		Message: "Session reactivated successfully",
		Session: presenter.ToSessionResponse(s),
	})
}

// DeleteSession handles DELETE /sessions/:id
// @Summary      Delete a session
// @Description  Removes the session, its survey results and their stored images
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  session.MessageResponse
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id} [delete]
func (h *Session) DeleteSession(c echo.Context) error {
	id := c.Param("id")
	if err := h.sessionService.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, id, err)
	}
	return HandleSuccess(h.logger, c, &sessionDTO.MessageResponse{Message: "Session deleted successfully"})
}

// GetSummary handles GET /sessions/:id/summary
// @Summary      Session summary
// @Description  Aggregated ratings, NPS, demographics and keywords for a session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  session.SummaryResponse
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id}/summary [get]
func (h *Session) GetSummary(c echo.Context) error {
	id := c.Param("id")
	summary, s, err := h.sessionService.Summary(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, id, err)
	}
	return HandleSuccess(h.logger, c, &sessionDTO.SummaryResponse{
		Session: presenter.ToSessionResponse(s),
		Summary: summary,
	})
}

// ExportCSV handles GET /sessions/:id/export
// @Summary      Export survey results
// @Description  Downloads every survey result of the session as CSV
// @Tags         Sessions
// @Produce      text/csv
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {string}  string  "CSV file"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id}/export [get]
func (h *Session) ExportCSV(c echo.Context) error {
	id := c.Param("id")
	csv, err := h.sessionService.ExportCSV(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, id, err)
	}

	filename := fmt.Sprintf("session-%s-%d.csv", id, time.Now().UnixMilli())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "text/csv", []byte(csv))
}

// Live handles GET /sessions/:id/live
// @Summary      Live session events
// @Description  Websocket stream of submissions and session changes
// @Tags         Sessions
// @Param        id   path  string  true  "Session ID"
// @Success      101  "Switching Protocols"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id}/live [get]
func (h *Session) Live(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.sessionService.Get(c.Request().Context(), id); err != nil {
		return h.fail(c, id, err)
	}
	if h.live == nil {
		return HandleError(h.logger, c, errors.ErrForbidden("Live updates are disabled"))
	}
	if err := h.live.ServeSession(c.Response(), c.Request(), id); err != nil {
		if h.logger != nil {
			h.logger.Warn("live stream ended", zap.String("session_id", id), zap.Error(err))
		}
	}
	return nil
}

// Clear handles POST /test/clear
// @Summary      Clear all data
// @Description  Removes every session and result. Not available in production.
// @Tags         Testing
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}  "Not available in production"
// @Router       /test/clear [post]
func (h *Session) Clear(c echo.Context) error {
	if err := h.sessionService.Reset(c.Request().Context()); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"cleared": true})
}
