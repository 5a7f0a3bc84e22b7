package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fitstudio-backend/internal/domains/staff/model"
	"fitstudio-backend/internal/domains/staff/repository"
	"fitstudio-backend/pkg/jwt"
	"fitstudio-backend/pkg/logger"
)

const bcryptCost = 12

type staffService struct {
	repo       repository.StaffRepository
	jwtManager *jwt.Manager
}

func NewService(repo repository.StaffRepository, jwtManager *jwt.Manager) ServiceInterface {
	return &staffService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// Login authenticates a staff member and returns a token pair.
//
// Business logic flow:
//
//	Step 1: find the account by email
//	Step 2: check the account is active
//	Step 3: verify the password
//	Step 4: issue tokens and record the login
//
// A missing account and a wrong password both come back as
// ErrInvalidCredentials so callers cannot probe for registered emails.
func (s *staffService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	staff, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if !staff.IsActive {
		return nil, model.ErrStaffInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	resp, err := s.issueTokens(staff)
	if err != nil {
		return nil, err
	}

	go func() {
		_ = s.repo.UpdateLastLogin(context.Background(), staff.ID)
	}()

	logger.Info("staff logged in", map[string]interface{}{
		"staff_id": staff.ID,
		"role":     staff.Role,
	})

	return resp, nil
}

func (s *staffService) RefreshToken(ctx context.Context, req *model.RefreshRequest) (*model.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return nil, model.ErrStaffInactive
	}

	return s.issueTokens(staff)
}

func (s *staffService) GetProfile(ctx context.Context, id uuid.UUID) (*model.StaffDTO, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := staff.ToDTO()
	return &dto, nil
}

func (s *staffService) ChangePassword(ctx context.Context, id uuid.UUID, req *model.ChangePasswordRequest) error {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// ==========================================================
// ADMIN OPERATIONS
// ==========================================================

func (s *staffService) CreateStaff(ctx context.Context, req *model.CreateStaffRequest) (*model.StaffDTO, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, model.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	staff := &model.Staff{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         model.StaffRole(req.Role),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, err
	}

	logger.Info("staff account created", map[string]interface{}{
		"staff_id": staff.ID,
		"role":     staff.Role,
	})

	dto := staff.ToDTO()
	return &dto, nil
}

func (s *staffService) ListStaff(ctx context.Context, page, limit int) ([]*model.StaffDTO, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	members, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]*model.StaffDTO, 0, len(members))
	for _, m := range members {
		dto := m.ToDTO()
		dtos = append(dtos, &dto)
	}

	return dtos, total, nil
}

func (s *staffService) UpdateRole(ctx context.Context, id uuid.UUID, req *model.UpdateRoleRequest) (*model.StaffDTO, error) {
	if err := s.repo.UpdateRole(ctx, id, model.StaffRole(req.Role)); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

func (s *staffService) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateStatusRequest) (*model.StaffDTO, error) {
	if err := s.repo.SetActive(ctx, id, *req.IsActive); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

// ==========================================================
// HELPERS
// ==========================================================

func (s *staffService) issueTokens(staff *model.Staff) (*model.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(staff.ID.String(), staff.Email, staff.FullName, string(staff.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(staff.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		Staff:        staff.ToDTO(),
	}, nil
}
