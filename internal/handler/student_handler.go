package handler

import (
	"net/http"
	"strings"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/service"
	"eonestep.com/institutebackend/pkg/response"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	studentService     service.StudentService
	certificateService service.CertificateService
}

func NewStudentHandler(studentService service.StudentService, certificateService service.CertificateService) *StudentHandler {
	return &StudentHandler{
		studentService:     studentService,
		certificateService: certificateService,
	}
}

func (h *StudentHandler) Register(c *gin.Context) {
	franchiseID, ok := franchiseIDOf(c)
	if !ok {
		return
	}

	var input dto.RegisterStudentInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	photo, closePhoto, err := openFormFile(c, "imageUpload")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closePhoto()

	student, err := h.studentService.Register(c.Request.Context(), franchiseID, input, photo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusCreated, "Student registered", gin.H{"student": student})
}

func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	caller, ok := actor(c)
	if !ok {
		return
	}

	var input dto.UpdateStudentInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	photo, closePhoto, err := openFormFile(c, "imageUpload")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closePhoto()

	student, err := h.studentService.Update(c.Request.Context(), id, caller, input, photo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "Student updated", gin.H{"student": student})
}

// List returns the students belonging to the caller's franchise.
func (h *StudentHandler) List(c *gin.Context) {
	franchiseID, ok := franchiseIDOf(c)
	if !ok {
		return
	}

	students, err := h.studentService.ListByFranchise(c.Request.Context(), franchiseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "", gin.H{"students": students})
}

// ListAll returns every student, optionally filtered by a search query.
func (h *StudentHandler) ListAll(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	if query != "" {
		students, err := h.studentService.Search(c.Request.Context(), query)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Send(c, http.StatusOK, "", gin.H{"students": students})
		return
	}

	students, err := h.studentService.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "", gin.H{"students": students})
}

func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	caller, ok := actor(c)
	if !ok {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), id, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "", gin.H{"student": student})
}

func (h *StudentHandler) GetCourseDetails(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	caller, ok := actor(c)
	if !ok {
		return
	}

	course, err := h.studentService.GetCourseDetails(c.Request.Context(), id, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "", gin.H{"course": course})
}

func (h *StudentHandler) UpdateCourseDetails(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	caller, ok := actor(c)
	if !ok {
		return
	}

	var input dto.UpdateCourseDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	course, err := h.studentService.UpdateCourseDetails(c.Request.Context(), id, caller, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "Course details updated", gin.H{"course": course})
}

// Certificate is the public lookup by enrollment and roll number.
func (h *StudentHandler) Certificate(c *gin.Context) {
	var input dto.CertificateLookupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	certificate, err := h.certificateService.Find(c.Request.Context(), input.EnrollNumber, input.RollNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "", gin.H{"certificate": certificate})
}
