package asset

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=asset_repo.go -destination=mock/asset_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, asset *Asset) error
	FindAll(ctx context.Context, limit, offset int) ([]Asset, int64, error)
	FindByID(ctx context.Context, id int64) (*Asset, error)
	FindByEmployee(ctx context.Context, employeeID int64) ([]Asset, error)
	Update(ctx context.Context, asset *Asset) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, asset *Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]Asset, int64, error) {
	var assets []Asset
	var total int64

	if err := r.db.WithContext(ctx).Model(&Asset{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("AssignedEmployee").
		Order("tag ASC").
		Limit(limit).
		Offset(offset).
		Find(&assets).Error
	return assets, total, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Asset, error) {
	var asset Asset
	err := r.db.WithContext(ctx).
		Preload("AssignedEmployee").
		First(&asset, "id = ?", id).Error
	return &asset, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID int64) ([]Asset, error) {
	var assets []Asset
	err := r.db.WithContext(ctx).
		Where("assigned_employee_id = ?", employeeID).
		Order("tag ASC").
		Find(&assets).Error
	return assets, err
}

func (r *repository) Update(ctx context.Context, asset *Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Asset{}, "id = ?", id).Error
}
