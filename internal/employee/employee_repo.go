package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Employee, error)
	FindBySupervisor(ctx context.Context, supervisorID int64) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) ([]Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&employees).Error
	return employees, err
}

// FindBySupervisor scans for every employee that references the given
// supervisor through any of the three slots. Bucketing by slot is the
// service's job.
func (r *repository) FindBySupervisor(ctx context.Context, supervisorID int64) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where(
			"admin_supervisor_id = ? OR technical_supervisor_id = ? OR second_level_supervisor_id = ?",
			supervisorID, supervisorID, supervisorID,
		).
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}
