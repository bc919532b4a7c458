package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/service"
	"eonestep.com/institutebackend/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCertificateService struct {
	cert *dto.Certificate
	err  error
}

func (s *stubCertificateService) Find(ctx context.Context, enrollNumber, rollNumber string) (*dto.Certificate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cert, nil
}

func newCertificateRouter(svc service.CertificateService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewStudentHandler(nil, svc)
	router.POST("/api/students/certificate", h.Certificate)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCertificateEndpointReturnsEnvelope(t *testing.T) {
	router := newCertificateRouter(&stubCertificateService{
		cert: &dto.Certificate{
			StudentName:  "Ravi Kumar",
			EnrollNumber: "EN0007",
			RollNumber:   "RN0007",
		},
	})

	rec := postJSON(router, "/api/students/certificate", `{"enrollNumber":"EN0007","rollNumber":"RN0007"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status int `json:"status"`
		Data   struct {
			Certificate dto.Certificate `json:"certificate"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Status)
	assert.Equal(t, "Ravi Kumar", body.Data.Certificate.StudentName)
}

func TestCertificateEndpointValidatesInput(t *testing.T) {
	router := newCertificateRouter(&stubCertificateService{})

	rec := postJSON(router, "/api/students/certificate", `{"enrollNumber":"EN0007"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCertificateEndpointMapsNotFound(t *testing.T) {
	router := newCertificateRouter(&stubCertificateService{
		err: apperror.New(http.StatusNotFound, "Certificate not found", apperror.ErrNotFound),
	})

	rec := postJSON(router, "/api/students/certificate", `{"enrollNumber":"EN9999","rollNumber":"RN9999"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "Certificate not found", body.Message)
}
