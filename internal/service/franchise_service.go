package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/model"
	"eonestep.com/institutebackend/internal/repository"
	"eonestep.com/institutebackend/pkg/apperror"
	"eonestep.com/institutebackend/pkg/mailer"
	"eonestep.com/institutebackend/pkg/storage"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	UserID      uint
	Role        string
	FranchiseID *uint
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

func (a Actor) OwnsFranchise(franchiseID uint) bool {
	return a.FranchiseID != nil && *a.FranchiseID == franchiseID
}

// UploadFile is an uploaded file handed down from the handler.
type UploadFile struct {
	Reader   io.Reader
	FileName string
}

// SignatureFiles carries the up-to-three signature images of an application.
type SignatureFiles struct {
	Secretary   *UploadFile
	Invigilator *UploadFile
	Examiner    *UploadFile
}

type FranchiseService interface {
	Apply(ctx context.Context, input dto.ApplyFranchiseInput, signatures SignatureFiles) (*model.Franchise, error)
	// Approve returns the user-facing outcome message; a failed credentials
	// mail degrades the message but never reverts the committed approval.
	Approve(ctx context.Context, id uint) (string, error)
	// ToggleSuspend flips approved ↔ rejected. A pending franchise is left
	// untouched and reported as such.
	ToggleSuspend(ctx context.Context, id uint) (*model.Franchise, string, error)
	HardPasswordReset(ctx context.Context, id uint, newPassword string) error
	List(ctx context.Context) (*dto.FranchiseListData, error)
	ListPending(ctx context.Context) ([]model.Franchise, error)
	Get(ctx context.Context, id uint, actor Actor) (*model.Franchise, error)
	Update(ctx context.Context, id uint, actor Actor, input dto.UpdateFranchiseInput, signatures SignatureFiles) (*model.Franchise, error)
}

type franchiseService struct {
	franchiseRepo repository.FranchiseRepository
	userRepo      repository.UserRepository
	studentRepo   repository.StudentRepository
	fileStorage   storage.FileStorage
	mail          mailer.Mailer
	sanitizer     *bluemonday.Policy
}

func NewFranchiseService(
	franchiseRepo repository.FranchiseRepository,
	userRepo repository.UserRepository,
	studentRepo repository.StudentRepository,
	fileStorage storage.FileStorage,
	mail mailer.Mailer,
) FranchiseService {
	return &franchiseService{
		franchiseRepo: franchiseRepo,
		userRepo:      userRepo,
		studentRepo:   studentRepo,
		fileStorage:   fileStorage,
		mail:          mail,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

func (s *franchiseService) Apply(ctx context.Context, input dto.ApplyFranchiseInput, signatures SignatureFiles) (*model.Franchise, error) {
	if _, err := s.franchiseRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(http.StatusConflict, "Franchise with email already registered", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Upload all signatures before touching the database so a failed upload
	// aborts the application instead of storing partial URLs.
	secretaryURL, err := s.uploadSignature(ctx, signatures.Secretary)
	if err != nil {
		return nil, err
	}
	invigilatorURL, err := s.uploadSignature(ctx, signatures.Invigilator)
	if err != nil {
		return nil, err
	}
	examinerURL, err := s.uploadSignature(ctx, signatures.Examiner)
	if err != nil {
		return nil, err
	}

	franchise := &model.Franchise{
		Name:            s.sanitizer.Sanitize(input.Name),
		Email:           input.Email,
		InstituteName:   s.sanitizer.Sanitize(input.InstituteName),
		Address:         s.sanitizer.Sanitize(input.Address),
		Pincode:         input.Pincode,
		Town:            s.sanitizer.Sanitize(input.Town),
		City:            s.sanitizer.Sanitize(input.City),
		State:           s.sanitizer.Sanitize(input.State),
		Country:         s.sanitizer.Sanitize(input.Country),
		Phone:           input.Phone,
		TotalCoverArea:  input.TotalCoverArea,
		TotalComputer:   input.TotalComputer,
		TotalStaff:      input.TotalStaff,
		Status:          model.StatusPending,
		SecretarySign:   secretaryURL,
		InvigilatorSign: invigilatorURL,
		ExaminerSign:    examinerURL,
	}

	if err := s.franchiseRepo.Create(ctx, franchise); err != nil {
		return nil, fmt.Errorf("failed to create franchise: %w", err)
	}

	return franchise, nil
}

func (s *franchiseService) uploadSignature(ctx context.Context, file *UploadFile) (*string, error) {
	if file == nil || file.Reader == nil {
		return nil, nil
	}

	url, err := s.fileStorage.Upload(ctx, file.Reader, "signatures", file.FileName)
	if err != nil {
		return nil, fmt.Errorf("signature upload failed: %w", err)
	}

	return &url, nil
}

func (s *franchiseService) Approve(ctx context.Context, id uint) (string, error) {
	franchise, err := s.franchiseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.New(http.StatusNotFound, "Franchise not found", apperror.ErrNotFound)
		}
		return "", err
	}

	if franchise.Status != model.StatusPending {
		return "", apperror.New(http.StatusConflict, "Franchise already processed", apperror.ErrConflict)
	}

	if _, err := s.userRepo.FindByEmail(ctx, franchise.Email); err == nil {
		return "", apperror.New(http.StatusConflict, "User already exists for this franchise", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	tempPassword, hashed, err := generateTempPassword()
	if err != nil {
		return "", err
	}

	franchiseID := franchise.ID
	franchise.Password = hashed
	user := &model.User{
		Email:              franchise.Email,
		Password:           hashed,
		Role:               model.RoleFranchise,
		FranchiseID:        &franchiseID,
		MustChangePassword: true,
	}

	if err := s.franchiseRepo.Approve(ctx, franchise, user); err != nil {
		return "", fmt.Errorf("approval transaction failed: %w", err)
	}

	// Email only after the commit; a delivery failure degrades the message
	// but the approval stands.
	subject, text, html := mailer.ApprovalEmail(franchise.Name, franchise.Email, tempPassword)
	if err := s.mail.Send(ctx, franchise.Email, subject, text, html); err != nil {
		zap.L().Error("approval email delivery failed", zap.String("email", franchise.Email), zap.Error(err))
		return "Franchise approved but failed to send email. Please contact support.", nil
	}

	return "Franchise approved and login credentials sent via email.", nil
}

// generateTempPassword returns a ~8 character random password and its hash.
func generateTempPassword() (string, string, error) {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate temp password: %w", err)
	}

	tempPassword := base64.StdEncoding.EncodeToString(raw)

	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash temp password: %w", err)
	}

	return tempPassword, string(hashed), nil
}

func (s *franchiseService) ToggleSuspend(ctx context.Context, id uint) (*model.Franchise, string, error) {
	franchise, err := s.franchiseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperror.New(http.StatusNotFound, "Franchise not found", apperror.ErrNotFound)
		}
		return nil, "", err
	}

	switch franchise.Status {
	case model.StatusApproved:
		if err := s.franchiseRepo.UpdateStatus(ctx, franchise.ID, model.StatusRejected); err != nil {
			return nil, "", err
		}
		franchise.Status = model.StatusRejected
		return franchise, "Franchise suspended", nil
	case model.StatusRejected:
		if err := s.franchiseRepo.UpdateStatus(ctx, franchise.ID, model.StatusApproved); err != nil {
			return nil, "", err
		}
		franchise.Status = model.StatusApproved
		return franchise, "Franchise reactivated", nil
	default:
		// Pending applications are untouched by the toggle.
		return franchise, "Franchise is still pending approval", nil
	}
}

func (s *franchiseService) HardPasswordReset(ctx context.Context, id uint, newPassword string) error {
	franchise, err := s.franchiseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusNotFound, "Franchise not found", apperror.ErrNotFound)
		}
		return err
	}

	// The linked user may be missing when the franchise was never approved.
	user, err := s.userRepo.FindByEmail(ctx, franchise.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusNotFound, "No login exists for this franchise", apperror.ErrNotFound)
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.franchiseRepo.UpdatePasswords(ctx, franchise, user, string(hashed))
}

func (s *franchiseService) List(ctx context.Context) (*dto.FranchiseListData, error) {
	franchises, err := s.franchiseRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	approved, err := s.franchiseRepo.CountByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	pending, err := s.franchiseRepo.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, err
	}
	totalStudents, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.FranchiseListData{
		Franchises:         franchises,
		ApprovedFranchises: approved,
		PendingFranchises:  pending,
		TotalFranchises:    int64(len(franchises)),
		TotalStudents:      totalStudents,
	}, nil
}

func (s *franchiseService) ListPending(ctx context.Context) ([]model.Franchise, error) {
	return s.franchiseRepo.FindByStatus(ctx, model.StatusPending)
}

func (s *franchiseService) Get(ctx context.Context, id uint, actor Actor) (*model.Franchise, error) {
	franchise, err := s.franchiseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Franchise not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if !actor.IsAdmin() && !actor.OwnsFranchise(franchise.ID) {
		return nil, apperror.New(http.StatusForbidden, "Access denied", apperror.ErrForbidden)
	}

	return franchise, nil
}

func (s *franchiseService) Update(ctx context.Context, id uint, actor Actor, input dto.UpdateFranchiseInput, signatures SignatureFiles) (*model.Franchise, error) {
	franchise, err := s.franchiseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Franchise not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if !actor.IsAdmin() && !actor.OwnsFranchise(franchise.ID) {
		return nil, apperror.New(http.StatusForbidden, "Access denied", apperror.ErrForbidden)
	}

	// Blank fields keep the stored value.
	franchise.Name = coalesce(s.sanitizer.Sanitize(input.Name), franchise.Name)
	franchise.InstituteName = coalesce(s.sanitizer.Sanitize(input.InstituteName), franchise.InstituteName)
	franchise.Address = coalesce(s.sanitizer.Sanitize(input.Address), franchise.Address)
	franchise.Pincode = coalesce(input.Pincode, franchise.Pincode)
	franchise.Town = coalesce(s.sanitizer.Sanitize(input.Town), franchise.Town)
	franchise.City = coalesce(s.sanitizer.Sanitize(input.City), franchise.City)
	franchise.State = coalesce(s.sanitizer.Sanitize(input.State), franchise.State)
	franchise.Country = coalesce(s.sanitizer.Sanitize(input.Country), franchise.Country)
	franchise.Phone = coalesce(input.Phone, franchise.Phone)
	franchise.TotalCoverArea = coalesce(input.TotalCoverArea, franchise.TotalCoverArea)
	franchise.TotalComputer = coalesce(input.TotalComputer, franchise.TotalComputer)
	franchise.TotalStaff = coalesce(input.TotalStaff, franchise.TotalStaff)

	// Signatures are replaced only when a new file arrives.
	if url, err := s.uploadSignature(ctx, signatures.Secretary); err != nil {
		return nil, err
	} else if url != nil {
		s.removeReplacedFile(ctx, franchise.SecretarySign)
		franchise.SecretarySign = url
	}
	if url, err := s.uploadSignature(ctx, signatures.Invigilator); err != nil {
		return nil, err
	} else if url != nil {
		s.removeReplacedFile(ctx, franchise.InvigilatorSign)
		franchise.InvigilatorSign = url
	}
	if url, err := s.uploadSignature(ctx, signatures.Examiner); err != nil {
		return nil, err
	} else if url != nil {
		s.removeReplacedFile(ctx, franchise.ExaminerSign)
		franchise.ExaminerSign = url
	}

	if err := s.franchiseRepo.Save(ctx, franchise); err != nil {
		return nil, err
	}

	return franchise, nil
}

// removeReplacedFile drops the superseded upload from storage. Best effort:
// a stale file costs storage, not correctness.
func (s *franchiseService) removeReplacedFile(ctx context.Context, fileURL *string) {
	if fileURL == nil || *fileURL == "" {
		return
	}
	if err := s.fileStorage.Delete(ctx, *fileURL); err != nil {
		zap.L().Warn("failed to delete replaced file", zap.String("url", *fileURL), zap.Error(err))
	}
}

func coalesce(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
