package department_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"leavedesk/internal/department"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDepartmentRepository struct {
	withTxFn   func(tx *sql.Tx) department.Repository
	createFn   func(ctx context.Context, dept *department.Department) error
	findAllFn  func(ctx context.Context) ([]department.Department, error)
	findByIDFn func(ctx context.Context, id int64) (*department.Department, error)
	updateFn   func(ctx context.Context, dept *department.Department) error
	deleteFn   func(ctx context.Context, id int64) error
}

func (f *fakeDepartmentRepository) WithTx(tx *sql.Tx) department.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeDepartmentRepository) Create(ctx context.Context, dept *department.Department) error {
	if f.createFn != nil {
		return f.createFn(ctx, dept)
	}
	dept.ID = 1
	return nil
}

func (f *fakeDepartmentRepository) FindAll(ctx context.Context) ([]department.Department, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeDepartmentRepository) FindByID(ctx context.Context, id int64) (*department.Department, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDepartmentRepository) Update(ctx context.Context, dept *department.Department) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, dept)
	}
	return nil
}

func (f *fakeDepartmentRepository) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type departmentServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service department.Service
	repo    *fakeDepartmentRepository
}

func setupDepartmentServiceTest(t *testing.T) *departmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeDepartmentRepository{}
	svc := department.NewService(db, repo)

	return &departmentServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			assert.Equal(t, "Engineering", dept.Name)
			dept.ID = 3
			return nil
		}

		resp, err := deps.service.Create(ctx, department.CreateDepartmentRequest{
			Name:     "Engineering",
			Location: "Jakarta",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), resp.ID)
		assert.Equal(t, "Jakarta", resp.Location)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative persist error", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			return errors.New("insert failed")
		}

		_, err := deps.service.Create(ctx, department.CreateDepartmentRequest{Name: "HR"})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDepartmentService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*department.Department, error) {
			return &department.Department{ID: id, Name: "Finance"}, nil
		}

		resp, err := deps.service.GetByID(ctx, 5)

		assert.NoError(t, err)
		assert.Equal(t, "Finance", resp.Name)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, 404)

		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	})
}

func TestDepartmentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*department.Department, error) {
			return &department.Department{ID: id, Name: "Finance", Location: "Jakarta"}, nil
		}

		resp, err := deps.service.Update(ctx, 5, department.UpdateDepartmentRequest{
			Name:     "Finance & Accounting",
			Location: "Bandung",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Finance & Accounting", resp.Name)
		assert.Equal(t, "Bandung", resp.Location)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, 404, department.UpdateDepartmentRequest{Name: "X"})

		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
