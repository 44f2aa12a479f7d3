package upload

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owltrack/internal/pkg/logger"
	"owltrack/internal/storage"
)

func TestServe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	stored, err := blobs.Save(context.Background(), "cv.pdf", bytes.NewBufferString("%PDF-1.4 resume"))
	require.NoError(t, err)

	r := gin.New()
	NewHandler(blobs, logger.Discard()).RegisterRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/"+stored, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 resume", rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/..%2Fsecret", nil))
	assert.NotEqual(t, http.StatusOK, rr.Code)
}
