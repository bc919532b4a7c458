package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/model"
	"eonestep.com/institutebackend/internal/repository"
	"eonestep.com/institutebackend/internal/token"
	"eonestep.com/institutebackend/pkg/apperror"
	"eonestep.com/institutebackend/pkg/mailer"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error)
	Register(ctx context.Context, input dto.RegisterUserInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, input dto.ChangePasswordInput) error
	// ForgotPassword stores a single-use reset token and emails the reset
	// link. The returned flag reports whether the mail went out.
	ForgotPassword(ctx context.Context, email string) (bool, error)
	VerifyResetToken(ctx context.Context, email, resetToken string) error
	ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error
}

type authService struct {
	userRepo      repository.UserRepository
	franchiseRepo repository.FranchiseRepository
	mail          mailer.Mailer
	rdb           *redis.Client

	secret        string
	tokenTTL      time.Duration
	resetTokenTTL time.Duration
	frontendURL   string
}

func NewAuthService(
	userRepo repository.UserRepository,
	franchiseRepo repository.FranchiseRepository,
	mail mailer.Mailer,
	rdb *redis.Client,
	secret string,
	tokenTTL, resetTokenTTL time.Duration,
	frontendURL string,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		franchiseRepo: franchiseRepo,
		mail:          mail,
		rdb:           rdb,
		secret:        secret,
		tokenTTL:      tokenTTL,
		resetTokenTTL: resetTokenTTL,
		frontendURL:   frontendURL,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "User not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Invalid credentials", apperror.ErrUnauthorized)
	}

	signed, _, err := token.Generate(s.secret, s.tokenTTL, user.ID, user.Role, user.FranchiseID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	var franchiseName *string
	if user.Franchise != nil {
		franchiseName = &user.Franchise.Name
	}

	return &dto.LoginResponse{
		Token: signed,
		User: dto.LoginUser{
			ID:                 user.ID,
			Email:              user.Email,
			Role:               user.Role,
			FranchiseID:        user.FranchiseID,
			FranchiseName:      franchiseName,
			MustChangePassword: user.MustChangePassword,
		},
	}, nil
}

func (s *authService) Register(ctx context.Context, input dto.RegisterUserInput) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(http.StatusConflict, "Email already registered", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:    input.Email,
		Password: string(hashed),
		Role:     input.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, input dto.ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusNotFound, "User not found", apperror.ErrNotFound)
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		return apperror.New(http.StatusUnauthorized, "Current password is incorrect", apperror.ErrUnauthorized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hashed)
	user.MustChangePassword = false
	return s.userRepo.Save(ctx, user)
}

func resetTokenKey(email string) string {
	return "password_reset:" + email
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperror.New(http.StatusNotFound, "User not found", apperror.ErrNotFound)
		}
		return false, err
	}

	if s.rdb == nil {
		return false, fmt.Errorf("reset token store is not configured")
	}

	resetToken := uuid.NewString()
	if err := s.rdb.Set(ctx, resetTokenKey(user.Email), resetToken, s.resetTokenTTL).Err(); err != nil {
		return false, fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?email=%s&token=%s",
		s.frontendURL, url.QueryEscape(user.Email), resetToken)

	subject, text, html := mailer.ResetPasswordEmail(link, s.resetTokenTTL)
	if err := s.mail.Send(ctx, user.Email, subject, text, html); err != nil {
		// Token stays valid; the caller learns delivery failed.
		zap.L().Error("reset email delivery failed", zap.String("email", user.Email), zap.Error(err))
		return false, nil
	}

	return true, nil
}

// consumeResetToken validates and deletes the stored token in one step so a
// token can never be redeemed twice.
func (s *authService) consumeResetToken(ctx context.Context, email, resetToken string) error {
	if s.rdb == nil {
		return fmt.Errorf("reset token store is not configured")
	}

	stored, err := s.rdb.GetDel(ctx, resetTokenKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperror.New(http.StatusBadRequest, "Invalid or expired reset token", apperror.ErrBadRequest)
		}
		return fmt.Errorf("failed to read reset token: %w", err)
	}

	if stored != resetToken {
		return apperror.New(http.StatusBadRequest, "Invalid or expired reset token", apperror.ErrBadRequest)
	}

	return nil
}

func (s *authService) VerifyResetToken(ctx context.Context, email, resetToken string) error {
	return s.consumeResetToken(ctx, email, resetToken)
}

func (s *authService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	if err := s.consumeResetToken(ctx, input.Email, input.Token); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusNotFound, "User not found", apperror.ErrNotFound)
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hashed)
	user.MustChangePassword = false
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	// Keep the franchise row's copy of the credential in sync.
	if user.FranchiseID != nil {
		franchise, err := s.franchiseRepo.FindByID(ctx, *user.FranchiseID)
		if err == nil {
			franchise.Password = string(hashed)
			if err := s.franchiseRepo.Save(ctx, franchise); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	return nil
}
