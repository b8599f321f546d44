package services

import (
	"context"
	"errors"
	"time"

	"github.com/caseflow/backend/internal/database"
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *models.UserRegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *models.UserLoginRequest) (*models.LoginResponse, error)
	Refresh(ctx context.Context, userID uuid.UUID, oldToken string) (*models.LoginResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, token string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *models.UserUpdateRequest) (*models.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *models.ChangePasswordRequest) error
	ListUsers(ctx context.Context, role string, page, limit int) ([]models.UserResponse, int64, error)
}

type authService struct {
	userRepo     repository.UserRepository
	jwtManager   *utils.JWTManager
	sessionStore *database.SessionStore
	tokenTTL     time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, sessionStore *database.SessionStore, expireHour int) AuthService {
	return &authService{
		userRepo:     userRepo,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		tokenTTL:     time.Duration(expireHour) * time.Hour,
	}
}

func (s *authService) Register(ctx context.Context, req *models.UserRegisterRequest) (*models.UserResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, &models.ConflictError{Message: "email already registered"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStorage("user lookup", err)
	}
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, &models.ConflictError{Message: "username already taken"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStorage("user lookup", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleIntake
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		JobTitle:  req.JobTitle,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, wrapStorage("user create", err)
	}

	resp := models.ToUserResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *models.UserLoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.ValidationError{Field: "credentials", Reason: "invalid email or password"}
		}
		return nil, wrapStorage("user lookup", err)
	}
	if !user.IsActive {
		return nil, &models.ValidationError{Field: "credentials", Reason: "account is disabled"}
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, &models.ValidationError{Field: "credentials", Reason: "invalid email or password"}
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.sessionStore.SetUserSession(ctx, user.ID.String(), map[string]string{
		"email": user.Email,
		"role":  user.Role,
	}, s.tokenTTL); err != nil {
		return nil, wrapStorage("session create", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, wrapStorage("last login update", err)
	}

	return &models.LoginResponse{
		Token: token,
		User:  models.ToUserResponse(user),
	}, nil
}

// Refresh issues a fresh token for an authenticated user and retires the one
// it was called with.
func (s *authService) Refresh(ctx context.Context, userID uuid.UUID, oldToken string) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "user", ID: userID.String()}
		}
		return nil, wrapStorage("user lookup", err)
	}
	if !user.IsActive {
		return nil, &models.ValidationError{Field: "credentials", Reason: "account is disabled"}
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.sessionStore.BlacklistToken(ctx, oldToken, s.tokenTTL); err != nil {
		return nil, wrapStorage("token blacklist", err)
	}
	if err := s.sessionStore.SetUserSession(ctx, user.ID.String(), map[string]string{
		"email": user.Email,
		"role":  user.Role,
	}, s.tokenTTL); err != nil {
		return nil, wrapStorage("session create", err)
	}

	return &models.LoginResponse{
		Token: token,
		User:  models.ToUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.sessionStore.BlacklistToken(ctx, token, s.tokenTTL); err != nil {
		return wrapStorage("token blacklist", err)
	}
	if err := s.sessionStore.DeleteUserSession(ctx, userID.String()); err != nil {
		return wrapStorage("session delete", err)
	}
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "user", ID: userID.String()}
		}
		return nil, wrapStorage("user lookup", err)
	}
	resp := models.ToUserResponse(user)
	return &resp, nil
}

func (s *authService) UpdateUser(ctx context.Context, userID uuid.UUID, req *models.UserUpdateRequest) (*models.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "user", ID: userID.String()}
		}
		return nil, wrapStorage("user lookup", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, wrapStorage("user update", err)
	}
	resp := models.ToUserResponse(user)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *models.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.NotFoundError{Entity: "user", ID: userID.String()}
		}
		return wrapStorage("user lookup", err)
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return &models.ValidationError{Field: "old_password", Reason: "does not match"}
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return wrapStorage("user update", err)
	}
	return nil
}

func (s *authService) ListUsers(ctx context.Context, role string, page, limit int) ([]models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, role, page, limit)
	if err != nil {
		return nil, 0, wrapStorage("user list", err)
	}
	responses := make([]models.UserResponse, len(users))
	for i := range users {
		responses[i] = models.ToUserResponse(&users[i])
	}
	return responses, total, nil
}
