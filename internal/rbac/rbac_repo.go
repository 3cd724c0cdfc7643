package rbac

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListPermissions(ctx context.Context) ([]RolePermission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPermissions(ctx context.Context) ([]RolePermission, error) {
	var perms []RolePermission
	err := r.db.WithContext(ctx).Find(&perms).Error
	return perms, err
}
