package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, app *LeaveApplication) error
	FindAll(ctx context.Context) ([]LeaveApplication, error)
	FindByID(ctx context.Context, id int64) (*LeaveApplication, error)
	FindByEmployee(ctx context.Context, employeeID int64) ([]LeaveApplication, error)
	FindOpenByEmployees(ctx context.Context, employeeIDs []int64) ([]LeaveApplication, error)
	UpdateTransition(ctx context.Context, app *LeaveApplication, expectedVersion int64) (bool, error)
	FindAllTypes(ctx context.Context) ([]LeaveType, error)
	FindTypeByID(ctx context.Context, id int64) (*LeaveType, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds every statement of the returned repository to tx, so the
// caller's commit or rollback covers the domain writes too.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, app *LeaveApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("applied_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*LeaveApplication, error) {
	var app LeaveApplication
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&app, "id = ?", id).Error
	return &app, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID int64) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("applied_at DESC").
		Find(&apps).Error
	return apps, err
}

// FindOpenByEmployees loads every non-terminal application belonging to
// the given employees, the working set of the pending-count badge.
func (r *repository) FindOpenByEmployees(ctx context.Context, employeeIDs []int64) ([]LeaveApplication, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Where("employee_id IN ?", employeeIDs).
		Where("status IN ?", []Status{StatusPending, StatusL1Approved, StatusL2Approved}).
		Find(&apps).Error
	return apps, err
}

// UpdateTransition writes the whole approval record under an optimistic
// version check. It returns false with no error when another writer got
// there first; the caller maps that to a conflict.
func (r *repository) UpdateTransition(ctx context.Context, app *LeaveApplication, expectedVersion int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("id = ? AND version = ?", app.ID, expectedVersion).
		Updates(map[string]any{
			"status":           app.Status,
			"l1_approved_by":   app.L1ApprovedBy,
			"l1_approved_at":   app.L1ApprovedAt,
			"l2_approved_by":   app.L2ApprovedBy,
			"l2_approved_at":   app.L2ApprovedAt,
			"rejected_by":      app.RejectedBy,
			"rejected_at":      app.RejectedAt,
			"rejection_reason": app.RejectionReason,
			"cancelled_at":     app.CancelledAt,
			"version":          expectedVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	app.Version = expectedVersion + 1
	return true, nil
}

func (r *repository) FindAllTypes(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindTypeByID(ctx context.Context, id int64) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}
