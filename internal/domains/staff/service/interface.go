package service

import (
	"context"

	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/staff/model"
)

type ServiceInterface interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	RefreshToken(ctx context.Context, req *model.RefreshRequest) (*model.LoginResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.StaffDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req *model.ChangePasswordRequest) error

	// Admin methods
	CreateStaff(ctx context.Context, req *model.CreateStaffRequest) (*model.StaffDTO, error)
	ListStaff(ctx context.Context, page, limit int) ([]*model.StaffDTO, int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, req *model.UpdateRoleRequest) (*model.StaffDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateStatusRequest) (*model.StaffDTO, error)
}
