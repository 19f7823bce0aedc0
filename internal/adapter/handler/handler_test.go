package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rondagdag/audience-survey/internal/adapter/handler"
	httpmw "github.com/rondagdag/audience-survey/internal/infrastructure/http/middleware"
	"github.com/rondagdag/audience-survey/internal/usecase/auth"
	sessionUsecase "github.com/rondagdag/audience-survey/internal/usecase/session"
	"github.com/rondagdag/audience-survey/internal/usecase/submission"
	"github.com/rondagdag/audience-survey/internal/usecase/survey"
	"github.com/rondagdag/audience-survey/pkg/ai"
	"github.com/rondagdag/audience-survey/pkg/config"
	"github.com/rondagdag/audience-survey/pkg/jwt"
	pkgvalidator "github.com/rondagdag/audience-survey/pkg/validator"
)

const adminSecret = "letmein"

type stubAnalyzer struct {
	err error
}

func (s stubAnalyzer) Analyze(ctx context.Context, image []byte) (*ai.AnalyzeResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	score := int64(10)
	best := "live demos"
	return &ai.AnalyzeResult{Fields: map[string]ai.Field{
		"RecommendScore": {Type: "integer", ValueInteger: &score},
		"BestPart":       {Type: "string", ValueString: &best},
	}}, nil
}

type envelope struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T, analyzer submission.Analyzer, allowReset bool) *echo.Echo {
	t.Helper()

	store := survey.NewStore(nil)
	sessions := sessionUsecase.NewSessionService(store, nil, nil, nil, allowReset, nil)
	submissions := submission.NewSubmissionService(store, nil, analyzer, nil, nil, nil, nil)
	admin := auth.NewAdminService(adminSecret, jwt.NewManager("jwt-secret", time.Hour), nil)

	e := echo.New()
	e.Validator = pkgvalidator.New()
	router := handler.NewRouter(
		&config.Config{Server: config.ServerConfig{Environment: "test"}},
		handler.NewAuth(admin, nil),
		handler.NewSessionHandler(sessions, nil, nil),
		handler.NewSurveyHandler(submissions, nil),
		httpmw.EchoAdmin(admin, nil),
	)
	router.Setup(e)
	return e
}

func do(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("invalid data %q: %v", env.Data, err)
		}
	}
	return env
}

func adminHeader() map[string]string {
	return map[string]string{httpmw.AdminSecretHeader: adminSecret}
}

func createSession(t *testing.T, e *echo.Echo, name string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/v1/sessions", map[string]string{"name": name}, adminHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("create session: %d %s", rec.Code, rec.Body.String())
	}
	var s struct {
		ID string `json:"id"`
	}
	decode(t, rec, &s)
	return s.ID
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="survey.jpg"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data)
	w.Close()
	return &buf, w.FormDataContentType()
}

func analyze(e *echo.Echo, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)
	rec := do(e, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"environment":"test"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestVerify(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)

	rec := do(e, http.MethodPost, "/v1/auth/verify", map[string]string{"admin_secret": "nope"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/v1/auth/verify", map[string]string{"admin_secret": adminSecret}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, rec, &tok)
	if tok.AccessToken == "" || tok.TokenType != "Bearer" {
		t.Fatalf("unexpected token %+v", tok)
	}

	// the token opens admin routes
	rec = do(e, http.MethodPost, "/v1/sessions", map[string]string{"name": "talk"},
		map[string]string{"Authorization": "Bearer " + tok.AccessToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong secret", map[string]string{httpmw.AdminSecretHeader: "nope"}, http.StatusUnauthorized},
		{"bad token", map[string]string{"Authorization": "Bearer garbage"}, http.StatusUnauthorized},
		{"secret", adminHeader(), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/v1/sessions", map[string]string{"name": "talk"}, tt.headers)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateSession_RequiresName(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)
	rec := do(e, http.MethodPost, "/v1/sessions", map[string]string{"name": ""}, adminHeader())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decode(t, rec, nil); env.Message != "Session name is required" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestSessionLifecycle(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)
	first := createSession(t, e, "first")
	second := createSession(t, e, "second")

	rec := do(e, http.MethodGet, "/v1/sessions", nil, nil)
	var list struct {
		Sessions []struct {
			ID       string `json:"id"`
			IsActive bool   `json:"is_active"`
		} `json:"sessions"`
		ActiveSession *struct {
			ID string `json:"id"`
		} `json:"active_session"`
	}
	decode(t, rec, &list)
	if len(list.Sessions) != 2 || list.ActiveSession == nil || list.ActiveSession.ID != second {
		t.Fatalf("unexpected list %+v", list)
	}

	rec = do(e, http.MethodPut, "/v1/sessions/"+first+"/reactivate", nil, adminHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("reactivate: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPatch, "/v1/sessions/"+first+"/close", nil, adminHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("close: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodDelete, "/v1/sessions/"+second, nil, adminHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodDelete, "/v1/sessions/"+second, nil, adminHeader())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestAnalyze_NoActiveSession(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)
	body, ct := multipartImage(t, "image/jpeg", []byte{0xff, 0xd8})
	rec := analyze(e, body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decode(t, rec, nil); !strings.HasPrefix(env.Message, "No active session available.") {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestAnalyze_Validation(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)
	createSession(t, e, "talk")

	body, ct := multipartImage(t, "image/gif", []byte("GIF89a"))
	rec := analyze(e, body, ct)
	if env := decode(t, rec, nil); rec.Code != http.StatusBadRequest || env.Message != "Invalid file type. Please upload a JPEG, PNG, or WebP image." {
		t.Fatalf("unexpected response %d %q", rec.Code, env.Message)
	}

	var empty bytes.Buffer
	w := multipart.NewWriter(&empty)
	w.WriteField("other", "x")
	w.Close()
	rec = analyze(e, &empty, w.FormDataContentType())
	if env := decode(t, rec, nil); rec.Code != http.StatusBadRequest || env.Message != "No image provided" {
		t.Fatalf("unexpected response %d %q", rec.Code, env.Message)
	}
}

func TestAnalyze_ExtractionErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not configured", ai.ErrNotConfigured, http.StatusInternalServerError, "Azure AI service is not configured. Please set up your API credentials."},
		{"unreadable", ai.ErrAnalysisFailed, http.StatusBadRequest, "Couldn't read survey. Please try again with better lighting or a clearer photo."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newServer(t, stubAnalyzer{err: tt.err}, false)
			createSession(t, e, "talk")
			body, ct := multipartImage(t, "image/png", []byte{0x89, 'P', 'N', 'G'})
			rec := analyze(e, body, ct)
			if env := decode(t, rec, nil); rec.Code != tt.code || env.Message != tt.message {
				t.Fatalf("unexpected response %d %q", rec.Code, env.Message)
			}
		})
	}
}

func TestAnalyze_SummaryAndExport(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)
	id := createSession(t, e, "talk")

	body, ct := multipartImage(t, "image/jpeg", []byte{0xff, 0xd8})
	rec := analyze(e, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze: %d %s", rec.Code, rec.Body.String())
	}
	var submitted struct {
		Success      bool   `json:"success"`
		Message      string `json:"message"`
		SurveyResult struct {
			RecommendScore int    `json:"recommendScore"`
			SessionID      string `json:"sessionId"`
		} `json:"survey_result"`
	}
	decode(t, rec, &submitted)
	if !submitted.Success || submitted.SurveyResult.RecommendScore != 10 || submitted.SurveyResult.SessionID != id {
		t.Fatalf("unexpected submission %+v", submitted)
	}

	rec = do(e, http.MethodGet, "/v1/sessions/"+id+"/summary", nil, nil)
	var summary struct {
		Summary struct {
			TotalSubmissions int     `json:"totalSubmissions"`
			NPSScore         float64 `json:"npsScore"`
		} `json:"summary"`
	}
	decode(t, rec, &summary)
	if summary.Summary.TotalSubmissions != 1 || summary.Summary.NPSScore != 10 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	rec = do(e, http.MethodGet, "/v1/sessions/"+id+"/export", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("export without admin: expected 401, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/v1/sessions/"+id+"/export", nil, adminHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/csv" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.HasPrefix(cd, `attachment; filename="session-`+id+`-`) {
		t.Fatalf("unexpected disposition %q", cd)
	}
	lines := strings.Split(rec.Body.String(), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Image URL,") {
		t.Fatalf("unexpected csv %q", rec.Body.String())
	}
}

func TestSummary_UnknownSession(t *testing.T) {
	e := newServer(t, stubAnalyzer{}, false)
	rec := do(e, http.MethodGet, "/v1/sessions/missing/summary", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env := decode(t, rec, nil); env.Message != "Session not found" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestClear(t *testing.T) {
	locked := newServer(t, stubAnalyzer{}, false)
	if rec := do(locked, http.MethodPost, "/v1/test/clear", nil, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	e := newServer(t, stubAnalyzer{}, true)
	createSession(t, e, "talk")
	if rec := do(e, http.MethodPost, "/v1/test/clear", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Sessions []interface{} `json:"sessions"`
	}
	decode(t, do(e, http.MethodGet, "/v1/sessions", nil, nil), &list)
	if len(list.Sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(list.Sessions))
	}
}
