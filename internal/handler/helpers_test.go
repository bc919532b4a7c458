package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eonestep.com/institutebackend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormFileRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/upload", func(c *gin.Context) {
		upload, cleanup, err := openFormFile(c, "imageUpload")
		if err != nil {
			response.Error(c, err)
			return
		}
		defer cleanup()
		c.JSON(http.StatusOK, gin.H{"hasFile": upload != nil})
	})
	return router
}

func TestOpenFormFileMissingFieldIsNotAnError(t *testing.T) {
	router := newFormFileRouter()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Ravi Kumar"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasFile":false`)
}

func TestOpenFormFileNonMultipartFormIsNotAnError(t *testing.T) {
	router := newFormFileRouter()

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("name=Ravi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasFile":false`)
}

func TestOpenFormFileTruncatedBodyIsBadRequest(t *testing.T) {
	router := newFormFileRouter()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("imageUpload", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpegdata"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Cut off the closing boundary so the multipart reader fails mid-part.
	truncated := buf.Bytes()[:buf.Len()-20]

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(truncated))
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Malformed upload")
}

func TestOpenFormFileReadsUploadedFile(t *testing.T) {
	router := newFormFileRouter()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("imageUpload", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpegdata"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasFile":true`)
}
