package handler

import (
	"errors"
	"net/http"
	"strconv"

	"eonestep.com/institutebackend/internal/middleware"
	"eonestep.com/institutebackend/internal/service"
	"eonestep.com/institutebackend/pkg/apperror"
	"eonestep.com/institutebackend/pkg/response"
	"eonestep.com/institutebackend/pkg/validator"
	"github.com/gin-gonic/gin"
)

func bindError(c *gin.Context, err error) {
	response.Error(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrBadRequest))
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "Invalid id", apperror.ErrBadRequest))
		return 0, false
	}
	return uint(id), true
}

func actor(c *gin.Context) (service.Actor, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, apperror.New(http.StatusUnauthorized, "Not authenticated", apperror.ErrUnauthorized))
		return service.Actor{}, false
	}

	return service.Actor{
		UserID:      claims.UserID,
		Role:        claims.Role,
		FranchiseID: claims.FranchiseID,
	}, true
}

// franchiseIDOf resolves the caller's franchise id from the token claims.
// Admin tokens carry no franchise id and may not use franchise-scoped routes.
func franchiseIDOf(c *gin.Context) (uint, bool) {
	caller, ok := actor(c)
	if !ok {
		return 0, false
	}
	if caller.FranchiseID == nil {
		response.Error(c, apperror.New(http.StatusForbidden, "Access denied", apperror.ErrForbidden))
		return 0, false
	}
	return *caller.FranchiseID, true
}

// openFormFile opens an optional multipart file field. The multipart reader
// owns any temp file backing the part; the returned closer must run after
// the upload attempt, success or failure.
func openFormFile(c *gin.Context, field string) (*service.UploadFile, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		// An absent field or a non-multipart form just means no upload.
		// Anything else is a broken request body.
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperror.New(http.StatusBadRequest, "Malformed upload for field "+field, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, func() {}, apperror.New(http.StatusBadRequest, "Malformed upload for field "+field, err)
	}

	upload := &service.UploadFile{
		Reader:   file,
		FileName: header.Filename,
	}
	return upload, func() { _ = file.Close() }, nil
}
