package application

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owltrack/internal/pkg/authctx"
	"owltrack/internal/pkg/logger"
	"owltrack/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc := NewService(newTestRepo(t), blobs, stubTargets{"owl-1": "Owl Tracker"}, nil, logger.Discard())
	h := NewHandler(svc, "/uploads", 1024, logger.Discard())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User-ID"); raw != "" {
			id, _ := strconv.ParseInt(raw, 10, 64)
			authctx.Set(c, authctx.AuthContext{UserID: id, IsAdmin: c.GetHeader("X-Test-Admin") == "1"})
		}
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(r http.Handler, method, path string, body any, userID string, isAdmin bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User-ID", userID)
	}
	if isAdmin {
		req.Header.Set("X-Test-Admin", "1")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func doMultipart(t *testing.T, r http.Handler, path string, fields map[string]string, resume []byte, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if resume != nil {
		fw, err := w.CreateFormFile("resume", "My CV.pdf")
		require.NoError(t, err)
		_, err = fw.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Test-User-ID", userID)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestApplyProject_WithResume(t *testing.T) {
	r := setupTestRouter(t)

	rr := doMultipart(t, r, "/api/apply_project/owl-1",
		map[string]string{"name": "Jane", "email": "jane@example.com"}, []byte("%PDF-1.4"), "7")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var got ApplicationResponse
	env := decode(t, rr, &got)
	assert.True(t, env.Success)
	assert.Equal(t, "owl-1", got.ProjectID)
	assert.Equal(t, "Owl Tracker", got.ProjectTitle)
	assert.Equal(t, StatusInProcess, got.Status)
	assert.Contains(t, got.ResumeName, "_My_CV.pdf")
	assert.Equal(t, "/uploads/"+got.ResumeName, got.ResumeURL)
}

func TestApplyProject_ResumeTooLarge(t *testing.T) {
	r := setupTestRouter(t)

	rr := doMultipart(t, r, "/api/apply_project/owl-1",
		map[string]string{"name": "Jane", "email": "jane@example.com"}, bytes.Repeat([]byte("x"), 2048), "7")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decode(t, rr, nil).Error.Code)
}

func TestApplyInternship_MissingTitle(t *testing.T) {
	r := setupTestRouter(t)

	rr := doMultipart(t, r, "/api/apply_internship",
		map[string]string{"internship_id": "i-1", "name": "Jane", "email": "jane@example.com"}, nil, "7")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rr, nil).Error.Code)
}

func TestApplyInternship_CamelCaseFields(t *testing.T) {
	r := setupTestRouter(t)

	rr := doMultipart(t, r, "/api/apply_internship", map[string]string{
		"internshipId": "i-1", "internshipTitle": "Backend Intern", "name": "Jane", "email": "jane@example.com",
	}, nil, "7")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var got ApplicationResponse
	decode(t, rr, &got)
	assert.Equal(t, "i-1", got.InternshipID)
	assert.Equal(t, "Backend Intern", got.InternshipTitle)
	assert.Empty(t, got.ResumeURL)
}

func TestEndpoints_Unauthenticated(t *testing.T) {
	r := setupTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/my_applications"},
		{http.MethodGet, "/api/project_applications"},
		{http.MethodGet, "/api/internship_applications/mine"},
		{http.MethodPut, "/api/project_applications/x/submission"},
		{http.MethodPut, "/api/project_applications/x/status"},
	}
	for _, tc := range cases {
		rr := doJSON(r, tc.method, tc.path, map[string]string{}, "", false)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tc.path)
	}
}

func TestSubmitAndDecideFlow(t *testing.T) {
	r := setupTestRouter(t)

	rr := doMultipart(t, r, "/api/apply_project/owl-1",
		map[string]string{"name": "Jane", "email": "jane@example.com"}, nil, "7")
	require.Equal(t, http.StatusCreated, rr.Code)
	var created ApplicationResponse
	decode(t, rr, &created)

	base := "/api/project_applications/" + created.ID

	rr = doJSON(r, http.MethodPut, base+"/submission", SubmitRequest{}, "7", false)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(r, http.MethodPut, base+"/submission", SubmitRequest{GitHubURL: "g.com"}, "8", false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(r, http.MethodPut, base+"/submission", SubmitRequest{GitHubURL: "g.com", Notes: "done"}, "7", false)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var submitted ApplicationResponse
	decode(t, rr, &submitted)
	assert.Equal(t, StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.Submission)
	assert.Equal(t, "https://g.com", *submitted.Submission.GitHubURL)

	rr = doJSON(r, http.MethodPut, base+"/status", DecideRequest{Status: "approved"}, "7", false)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(r, http.MethodPut, base+"/status", DecideRequest{Status: "completed"}, "1", true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(r, http.MethodPut, "/api/project_applications/missing/status", DecideRequest{Status: "approved"}, "1", true)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	for _, s := range []string{"Rejected", "APPROVED", " approved "} {
		rr = doJSON(r, http.MethodPut, base+"/status", DecideRequest{Status: s}, "1", true)
		assert.Equal(t, http.StatusBadRequest, rr.Code, s)
	}

	rr = doJSON(r, http.MethodPut, base+"/status", DecideRequest{Status: "rejected"}, "1", true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var decided ApplicationResponse
	decode(t, rr, &decided)
	assert.Equal(t, StatusResubmit, decided.Status)
}

func TestListEndpoints(t *testing.T) {
	r := setupTestRouter(t)

	for _, uid := range []string{"7", "7", "8"} {
		rr := doMultipart(t, r, "/api/apply_project/owl-1",
			map[string]string{"name": "N", "email": "n@example.com"}, nil, uid)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	var list []ApplicationResponse
	decode(t, doJSON(r, http.MethodGet, "/api/project_applications", nil, "7", false), &list)
	assert.Len(t, list, 2)

	decode(t, doJSON(r, http.MethodGet, "/api/project_applications", nil, "1", true), &list)
	assert.Len(t, list, 3)

	decode(t, doJSON(r, http.MethodGet, "/api/project_applications/mine", nil, "8", false), &list)
	assert.Len(t, list, 1)

	var mine MyApplicationsResponse
	decode(t, doJSON(r, http.MethodGet, "/api/my_applications", nil, "7", false), &mine)
	assert.Len(t, mine.Projects, 2)
	assert.Empty(t, mine.Internships)
}

func TestSubmit_LegacyFieldNames(t *testing.T) {
	r := setupTestRouter(t)

	rr := doMultipart(t, r, "/api/apply_project/owl-1",
		map[string]string{"name": "Jane", "email": "jane@example.com"}, nil, "7")
	require.Equal(t, http.StatusCreated, rr.Code)
	var created ApplicationResponse
	decode(t, rr, &created)

	rr = doJSON(r, http.MethodPut, "/api/project_applications/"+created.ID+"/submission",
		map[string]string{"docsLink": "docs.owl.dev"}, "7", false)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got ApplicationResponse
	decode(t, rr, &got)
	require.NotNil(t, got.Submission)
	assert.Equal(t, "https://docs.owl.dev", *got.Submission.DocsURL)
}
