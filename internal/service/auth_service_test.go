package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/model"
	"eonestep.com/institutebackend/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceForTest(t *testing.T) (AuthService, *fakeUserRepo, *fakeFranchiseRepo, *fakeMailer, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	userRepo := newFakeUserRepo()
	franchiseRepo := newFakeFranchiseRepo()
	mail := &fakeMailer{}

	svc := NewAuthService(userRepo, franchiseRepo, mail, rdb,
		"test-secret", 2*time.Hour, 20*time.Minute, "https://app.example.com")
	return svc, userRepo, franchiseRepo, mail, mr
}

func seedUser(t *testing.T, userRepo *fakeUserRepo, email, password string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return userRepo.add(&model.User{
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleFranchise,
	})
}

func TestLoginHappyPath(t *testing.T) {
	svc, userRepo, _, _, _ := newAuthServiceForTest(t)
	user := seedUser(t, userRepo, "asha@example.com", "secret123")

	resp, err := svc.Login(context.Background(), dto.LoginInput{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, model.RoleFranchise, resp.User.Role)
}

func TestLoginUnknownEmailIsNotFound(t *testing.T) {
	svc, _, _, _, _ := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), dto.LoginInput{Email: "nobody@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Equal(t, "User not found", err.Error())
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	svc, userRepo, _, _, _ := newAuthServiceForTest(t)
	seedUser(t, userRepo, "asha@example.com", "secret123")

	_, err := svc.Login(context.Background(), dto.LoginInput{Email: "asha@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, userRepo, _, _, _ := newAuthServiceForTest(t)
	user := seedUser(t, userRepo, "asha@example.com", "secret123")
	user.MustChangePassword = true

	err := svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))

	err = svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		CurrentPassword: "secret123",
		NewPassword:     "newpassword1",
	})
	require.NoError(t, err)

	stored, err := userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpassword1")))
}

func TestForgotPasswordStoresTokenAndSendsLink(t *testing.T) {
	svc, userRepo, _, mail, mr := newAuthServiceForTest(t)
	seedUser(t, userRepo, "asha@example.com", "secret123")

	emailed, err := svc.ForgotPassword(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.True(t, emailed)
	assert.Equal(t, []string{"asha@example.com"}, mail.sent)

	stored, err := mr.Get("password_reset:asha@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored)

	ttl := mr.TTL("password_reset:asha@example.com")
	assert.Equal(t, 20*time.Minute, ttl)
}

func TestForgotPasswordMailFailureKeepsToken(t *testing.T) {
	svc, userRepo, _, mail, mr := newAuthServiceForTest(t)
	seedUser(t, userRepo, "asha@example.com", "secret123")
	mail.sendErr = errors.New("smtp refused")

	emailed, err := svc.ForgotPassword(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.False(t, emailed)
	assert.True(t, mr.Exists("password_reset:asha@example.com"))
}

func TestResetTokenIsSingleUse(t *testing.T) {
	svc, userRepo, _, _, mr := newAuthServiceForTest(t)
	seedUser(t, userRepo, "asha@example.com", "secret123")
	require.NoError(t, mr.Set("password_reset:asha@example.com", "token-1"))

	err := svc.VerifyResetToken(context.Background(), "asha@example.com", "token-1")
	require.NoError(t, err)

	// Consumed on first use.
	err = svc.VerifyResetToken(context.Background(), "asha@example.com", "token-1")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired reset token", err.Error())
}

func TestResetTokenExpires(t *testing.T) {
	svc, userRepo, _, _, mr := newAuthServiceForTest(t)
	seedUser(t, userRepo, "asha@example.com", "secret123")
	require.NoError(t, mr.Set("password_reset:asha@example.com", "token-1"))
	mr.SetTTL("password_reset:asha@example.com", 20*time.Minute)

	mr.FastForward(21 * time.Minute)

	err := svc.VerifyResetToken(context.Background(), "asha@example.com", "token-1")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired reset token", err.Error())
}

func TestResetPasswordRejectsWrongToken(t *testing.T) {
	svc, userRepo, _, _, mr := newAuthServiceForTest(t)
	user := seedUser(t, userRepo, "asha@example.com", "secret123")
	require.NoError(t, mr.Set("password_reset:asha@example.com", "token-1"))

	err := svc.ResetPassword(context.Background(), dto.ResetPasswordInput{
		Email:       "asha@example.com",
		Token:       "token-2",
		NewPassword: "newpassword1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrBadRequest))

	// A failed attempt still burns the token.
	assert.False(t, mr.Exists("password_reset:asha@example.com"))

	stored, err := userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestResetPasswordSyncsFranchiseCredential(t *testing.T) {
	svc, userRepo, franchiseRepo, _, mr := newAuthServiceForTest(t)
	franchise := franchiseRepo.add(&model.Franchise{Email: "asha@example.com", Status: model.StatusApproved})

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := userRepo.add(&model.User{
		Email:       "asha@example.com",
		Password:    string(hashed),
		Role:        model.RoleFranchise,
		FranchiseID: &franchise.ID,
	})
	require.NoError(t, mr.Set("password_reset:asha@example.com", "token-1"))

	err = svc.ResetPassword(context.Background(), dto.ResetPasswordInput{
		Email:       "asha@example.com",
		Token:       "token-1",
		NewPassword: "newpassword1",
	})
	require.NoError(t, err)

	storedUser, err := userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte("newpassword1")))

	storedFranchise, err := franchiseRepo.FindByID(context.Background(), franchise.ID)
	require.NoError(t, err)
	assert.Equal(t, storedUser.Password, storedFranchise.Password)
}

func TestRegisterRejectsExistingEmail(t *testing.T) {
	svc, userRepo, _, _, _ := newAuthServiceForTest(t)
	seedUser(t, userRepo, "asha@example.com", "secret123")

	_, err := svc.Register(context.Background(), dto.RegisterUserInput{
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     model.RoleAdmin,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}
