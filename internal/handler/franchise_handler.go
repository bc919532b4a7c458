package handler

import (
	"net/http"
	"time"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/service"
	"eonestep.com/institutebackend/pkg/apperror"
	"eonestep.com/institutebackend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type FranchiseHandler struct {
	franchiseService service.FranchiseService
	rdb              *redis.Client
	applyLimit       time.Duration
}

func NewFranchiseHandler(franchiseService service.FranchiseService, rdb *redis.Client, applyLimit time.Duration) *FranchiseHandler {
	return &FranchiseHandler{
		franchiseService: franchiseService,
		rdb:              rdb,
		applyLimit:       applyLimit,
	}
}

// List returns every franchise plus the admin dashboard counters.
func (h *FranchiseHandler) List(c *gin.Context) {
	data, err := h.franchiseService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "", gin.H{"FranchisesData": data})
}

func (h *FranchiseHandler) ListPending(c *gin.Context) {
	pending, err := h.franchiseService.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "", gin.H{"pendingFranchises": pending})
}

func (h *FranchiseHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	caller, ok := actor(c)
	if !ok {
		return
	}

	franchise, err := h.franchiseService.Get(c.Request.Context(), id, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "", gin.H{"franchise": franchise})
}

func (h *FranchiseHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	message, err := h.franchiseService.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, message, nil)
}

func (h *FranchiseHandler) Suspend(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	franchise, message, err := h.franchiseService.ToggleSuspend(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, message, gin.H{"franchise": franchise})
}

func (h *FranchiseHandler) HardPasswordReset(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input dto.HardPasswordResetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if err := h.franchiseService.HardPasswordReset(c.Request.Context(), id, input.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "Franchise password reset", nil)
}

func (h *FranchiseHandler) Apply(c *gin.Context) {
	var input dto.ApplyFranchiseInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	if !service.CheckAndSetRateLimit(c.Request.Context(), h.rdb, c.ClientIP(), "franchise_apply", h.applyLimit) {
		response.Error(c, apperror.ErrRateLimitExceeded)
		return
	}

	signatures, cleanup, err := h.signatureFiles(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cleanup()

	franchise, err := h.franchiseService.Apply(c.Request.Context(), input, signatures)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusCreated, "Franchise application submitted", gin.H{"franchise": franchise})
}

func (h *FranchiseHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	caller, ok := actor(c)
	if !ok {
		return
	}

	var input dto.UpdateFranchiseInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	signatures, cleanup, err := h.signatureFiles(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cleanup()

	franchise, err := h.franchiseService.Update(c.Request.Context(), id, caller, input, signatures)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "Franchise updated", gin.H{"franchise": franchise})
}

func (h *FranchiseHandler) signatureFiles(c *gin.Context) (service.SignatureFiles, func(), error) {
	var signatures service.SignatureFiles
	closers := make([]func(), 0, 3)
	cleanup := func() {
		for _, close := range closers {
			close()
		}
	}

	secretary, closeSecretary, err := openFormFile(c, "secretarySign")
	if err != nil {
		cleanup()
		return signatures, func() {}, err
	}
	closers = append(closers, closeSecretary)
	signatures.Secretary = secretary

	invigilator, closeInvigilator, err := openFormFile(c, "invigilatorSign")
	if err != nil {
		cleanup()
		return signatures, func() {}, err
	}
	closers = append(closers, closeInvigilator)
	signatures.Invigilator = invigilator

	examiner, closeExaminer, err := openFormFile(c, "examinerSign")
	if err != nil {
		cleanup()
		return signatures, func() {}, err
	}
	closers = append(closers, closeExaminer)
	signatures.Examiner = examiner

	return signatures, cleanup, nil
}
