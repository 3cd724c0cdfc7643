package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"leavedesk/internal/employee"
	"leavedesk/internal/leave"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/notification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn              func(tx *sql.Tx) leave.Repository
	createFn              func(ctx context.Context, app *leave.LeaveApplication) error
	findAllFn             func(ctx context.Context) ([]leave.LeaveApplication, error)
	findByIDFn            func(ctx context.Context, id int64) (*leave.LeaveApplication, error)
	findByEmployeeFn      func(ctx context.Context, employeeID int64) ([]leave.LeaveApplication, error)
	findOpenByEmployeesFn func(ctx context.Context, employeeIDs []int64) ([]leave.LeaveApplication, error)
	updateTransitionFn    func(ctx context.Context, app *leave.LeaveApplication, expectedVersion int64) (bool, error)
	findAllTypesFn        func(ctx context.Context) ([]leave.LeaveType, error)
	findTypeByIDFn        func(ctx context.Context, id int64) (*leave.LeaveType, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, app *leave.LeaveApplication) error {
	if f.createFn != nil {
		return f.createFn(ctx, app)
	}
	app.ID = 1
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveApplication, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID int64) ([]leave.LeaveApplication, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindOpenByEmployees(ctx context.Context, employeeIDs []int64) ([]leave.LeaveApplication, error) {
	if f.findOpenByEmployeesFn != nil {
		return f.findOpenByEmployeesFn(ctx, employeeIDs)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) UpdateTransition(ctx context.Context, app *leave.LeaveApplication, expectedVersion int64) (bool, error) {
	if f.updateTransitionFn != nil {
		return f.updateTransitionFn(ctx, app, expectedVersion)
	}
	app.Version = expectedVersion + 1
	return true, nil
}

func (f *fakeLeaveRepository) FindAllTypes(ctx context.Context) ([]leave.LeaveType, error) {
	if f.findAllTypesFn != nil {
		return f.findAllTypesFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindTypeByID(ctx context.Context, id int64) (*leave.LeaveType, error) {
	if f.findTypeByIDFn != nil {
		return f.findTypeByIDFn(ctx, id)
	}
	return &leave.LeaveType{ID: id, Name: "Annual", MaxDaysPerYear: 12}, nil
}

type fakeResolver struct {
	resolveSupervisorsFn   func(ctx context.Context, employeeID int64) (employee.SupervisorSet, error)
	resolveDirectReportsFn func(ctx context.Context, supervisorID int64) (employee.DirectReports, error)
}

func (f *fakeResolver) ResolveSupervisors(ctx context.Context, employeeID int64) (employee.SupervisorSet, error) {
	if f.resolveSupervisorsFn != nil {
		return f.resolveSupervisorsFn(ctx, employeeID)
	}
	return employee.SupervisorSet{}, nil
}

func (f *fakeResolver) ResolveDirectReports(ctx context.Context, supervisorID int64) (employee.DirectReports, error) {
	if f.resolveDirectReportsFn != nil {
		return f.resolveDirectReportsFn(ctx, supervisorID)
	}
	return employee.DirectReports{}, nil
}

type fakeDispatcher struct {
	dispatchRequestedFn func(ctx context.Context, app notification.Application) (notification.DispatchResult, error)
}

func (f *fakeDispatcher) DispatchRequested(ctx context.Context, app notification.Application) (notification.DispatchResult, error) {
	if f.dispatchRequestedFn != nil {
		return f.dispatchRequestedFn(ctx, app)
	}
	return notification.DispatchResult{}, nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    leave.Service
	repo       *fakeLeaveRepository
	resolver   *fakeResolver
	dispatcher *fakeDispatcher
	outbox     *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	resolver := &fakeResolver{}
	dispatcher := &fakeDispatcher{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewService(db, repo, resolver, dispatcher, outbox)

	return &leaveServiceDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		resolver:   resolver,
		dispatcher: dispatcher,
		outbox:     outbox,
	}
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

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	const actorID = int64(10)
	const employeeID = int64(10)

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			StartDate:   "2026-09-07",
			EndDate:     "2026-09-09",
			Reason:      "Family event",
		}

		var outboxTopic string
		deps.repo.createFn = func(ctx context.Context, app *leave.LeaveApplication) error {
			assert.Equal(t, employeeID, app.EmployeeID)
			assert.Equal(t, leave.StatusPending, app.Status)
			assert.Equal(t, 3.0, app.TotalDays)
			app.ID = 55
			return nil
		}
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			assert.NoError(t, kafka.ValidateOutboxEvent(event))
			assert.Equal(t, "55", event.AggregateID)
			outboxTopic = event.Topic
			return nil
		}
		deps.dispatcher.dispatchRequestedFn = func(ctx context.Context, app notification.Application) (notification.DispatchResult, error) {
			assert.Equal(t, int64(55), app.ID)
			assert.Equal(t, "Annual", app.LeaveType)
			return notification.DispatchResult{SuccessCount: 2, TotalSupervisors: 2}, nil
		}

		resp, dispatch, err := deps.service.Create(ctx, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, int64(55), resp.ID)
		assert.Equal(t, string(leave.StatusPending), resp.Status)
		assert.Equal(t, "Pending", resp.StatusLabel)
		assert.Equal(t, 2, dispatch.SuccessCount)
		assert.Empty(t, dispatch.Errors)
		assert.Equal(t, "hr.leave.application.requested.v1", outboxTopic)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success with half day", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			StartDate:   "2026-09-07",
			EndDate:     "2026-09-07",
			TotalDays:   0.5,
		}

		deps.repo.createFn = func(ctx context.Context, app *leave.LeaveApplication) error {
			assert.Equal(t, 0.5, app.TotalDays)
			app.ID = 56
			return nil
		}

		resp, _, err := deps.service.Create(ctx, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, 0.5, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative missing actor", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, _, err := deps.service.Create(ctx, 0, leave.CreateLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrMissingActor)
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, _, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			StartDate:   "2026-09-09",
			EndDate:     "2026-09-07",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, _, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			StartDate:   "07-09-2026",
			EndDate:     "2026-09-09",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative zero days requested", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, _, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			StartDate:   "2026-09-07",
			EndDate:     "2026-09-07",
			TotalDays:   -1,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTotalDays)
	})

	t.Run("negative unknown applicant", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.resolver.resolveSupervisorsFn = func(ctx context.Context, id int64) (employee.SupervisorSet, error) {
			return employee.SupervisorSet{}, errors.New("employee not found")
		}

		_, _, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			EmployeeID:  999,
			LeaveTypeID: 1,
			StartDate:   "2026-09-07",
			EndDate:     "2026-09-09",
		})

		assert.Error(t, err)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findTypeByIDFn = func(ctx context.Context, id int64) (*leave.LeaveType, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, _, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 77,
			StartDate:   "2026-09-07",
			EndDate:     "2026-09-09",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveTypeNotFound)
	})

	t.Run("dispatch failure does not fail the create", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.dispatcher.dispatchRequestedFn = func(ctx context.Context, app notification.Application) (notification.DispatchResult, error) {
			return notification.DispatchResult{}, errors.New("directory unavailable")
		}

		resp, dispatch, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			StartDate:   "2026-09-07",
			EndDate:     "2026-09-09",
		})

		assert.NoError(t, err)
		assert.NotZero(t, resp.ID)
		assert.Len(t, dispatch.Errors, 1)
		assert.Contains(t, dispatch.Errors[0], "directory unavailable")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("partial delivery failure is reported, not fatal", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.dispatcher.dispatchRequestedFn = func(ctx context.Context, app notification.Application) (notification.DispatchResult, error) {
			return notification.DispatchResult{
				SuccessCount:     1,
				TotalSupervisors: 2,
				SentTo:           []string{"admin@corp.test"},
				Errors:           []string{"delivery to tech@corp.test failed: smtp timeout"},
			}, nil
		}

		_, dispatch, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			StartDate:   "2026-09-07",
			EndDate:     "2026-09-09",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, dispatch.SuccessCount)
		assert.Len(t, dispatch.Errors, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative outbox failure rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			return errors.New("outbox insert failed")
		}
		dispatched := false
		deps.dispatcher.dispatchRequestedFn = func(ctx context.Context, app notification.Application) (notification.DispatchResult, error) {
			dispatched = true
			return notification.DispatchResult{}, nil
		}

		_, _, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			StartDate:   "2026-09-07",
			EndDate:     "2026-09-09",
		})

		assert.Error(t, err)
		assert.False(t, dispatched)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func openApplication(status leave.Status) *leave.LeaveApplication {
	return &leave.LeaveApplication{
		ID:          55,
		EmployeeID:  10,
		LeaveTypeID: 1,
		StartDate:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		TotalDays:   3,
		Status:      status,
		AppliedAt:   time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC),
		Version:     4,
	}
}

func TestLeaveService_ApproveL1(t *testing.T) {
	ctx := context.Background()
	const actorID = int64(42)

	t.Run("success from pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return openApplication(leave.StatusPending), nil
		}
		deps.repo.updateTransitionFn = func(ctx context.Context, app *leave.LeaveApplication, expectedVersion int64) (bool, error) {
			assert.Equal(t, int64(4), expectedVersion)
			assert.Equal(t, leave.StatusL1Approved, app.Status)
			assert.Equal(t, actorID, *app.L1ApprovedBy)
			assert.NotNil(t, app.L1ApprovedAt)
			app.Version = expectedVersion + 1
			return true, nil
		}

		resp, err := deps.service.ApproveL1(ctx, 55, actorID)

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusL1Approved), resp.Status)
		assert.Equal(t, int64(5), resp.Version)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative second l1 on same application", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		app := openApplication(leave.StatusL1Approved)
		app.L1ApprovedBy = int64Ptr(7)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return app, nil
		}

		_, err := deps.service.ApproveL1(ctx, 55, actorID)

		assert.ErrorIs(t, err, leaveerrors.ErrIllegalTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.ApproveL1(ctx, 404, actorID)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative version conflict", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return openApplication(leave.StatusPending), nil
		}
		deps.repo.updateTransitionFn = func(ctx context.Context, app *leave.LeaveApplication, expectedVersion int64) (bool, error) {
			return false, nil
		}

		_, err := deps.service.ApproveL1(ctx, 55, actorID)

		assert.ErrorIs(t, err, leaveerrors.ErrConflictingUpdate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_ApproveL2(t *testing.T) {
	ctx := context.Background()
	const actorID = int64(43)

	t.Run("success after l1", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		app := openApplication(leave.StatusL1Approved)
		app.L1ApprovedBy = int64Ptr(42)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return app, nil
		}

		resp, err := deps.service.ApproveL2(ctx, 55, actorID)

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusL2Approved), resp.Status)
		// l1 history survives the final approval
		assert.Equal(t, int64(42), *resp.L1ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success skip level from pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return openApplication(leave.StatusPending), nil
		}

		resp, err := deps.service.ApproveL2(ctx, 55, actorID)

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusL2Approved), resp.Status)
		assert.Nil(t, resp.L1ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already final", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		app := openApplication(leave.StatusL2Approved)
		app.L2ApprovedBy = int64Ptr(9)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return app, nil
		}

		_, err := deps.service.ApproveL2(ctx, 55, actorID)

		assert.ErrorIs(t, err, leaveerrors.ErrIllegalTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	const actorID = int64(42)

	t.Run("success keeps l1 history", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		app := openApplication(leave.StatusL1Approved)
		app.L1ApprovedBy = int64Ptr(7)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return app, nil
		}

		resp, err := deps.service.Reject(ctx, 55, actorID, "  project freeze  ")

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusRejected), resp.Status)
		assert.Equal(t, "project freeze", *resp.RejectionReason)
		assert.Equal(t, int64(7), *resp.L1ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative empty reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Reject(ctx, 55, actorID, "   ")

		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
	})

	t.Run("negative already cancelled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return openApplication(leave.StatusCancelled), nil
		}

		_, err := deps.service.Reject(ctx, 55, actorID, "too late")

		assert.ErrorIs(t, err, leaveerrors.ErrIllegalTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	const actorID = int64(10)

	t.Run("success from l1 approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return openApplication(leave.StatusL1Approved), nil
		}

		resp, err := deps.service.Cancel(ctx, 55, actorID)

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusCancelled), resp.Status)
		assert.NotNil(t, resp.CancelledAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return openApplication(leave.StatusRejected), nil
		}

		_, err := deps.service.Cancel(ctx, 55, actorID)

		assert.ErrorIs(t, err, leaveerrors.ErrIllegalTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears the whole approval record", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		now := time.Now().UTC()
		app := openApplication(leave.StatusRejected)
		app.L1ApprovedBy = int64Ptr(7)
		app.L1ApprovedAt = &now
		app.RejectedBy = int64Ptr(9)
		app.RejectedAt = &now
		reason := "duplicate"
		app.RejectionReason = &reason
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return app, nil
		}

		resp, err := deps.service.Reset(ctx, 55, 1)

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusPending), resp.Status)
		assert.Nil(t, resp.L1ApprovedBy)
		assert.Nil(t, resp.L2ApprovedBy)
		assert.Nil(t, resp.RejectedBy)
		assert.Nil(t, resp.RejectionReason)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_CountPendingFor(t *testing.T) {
	ctx := context.Background()
	const supervisorID = int64(42)

	t.Run("counts only still-owed applications", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.resolver.resolveDirectReportsFn = func(ctx context.Context, id int64) (employee.DirectReports, error) {
			assert.Equal(t, supervisorID, id)
			return employee.DirectReports{
				Admin:     []int64{1, 2},
				Technical: []int64{3},
			}, nil
		}

		acted := openApplication(leave.StatusL1Approved)
		acted.L1ApprovedBy = int64Ptr(supervisorID)
		acted.EmployeeID = 2

		othersL2 := openApplication(leave.StatusL2Approved)
		othersL2.L2ApprovedBy = int64Ptr(99)
		othersL2.EmployeeID = 3

		deps.repo.findOpenByEmployeesFn = func(ctx context.Context, ids []int64) ([]leave.LeaveApplication, error) {
			switch len(ids) {
			case 2: // admin bucket
				pending := openApplication(leave.StatusPending)
				pending.EmployeeID = 1
				return []leave.LeaveApplication{*pending, *acted}, nil
			case 1: // technical bucket
				return []leave.LeaveApplication{*othersL2}, nil
			default:
				return nil, nil
			}
		}

		count, err := deps.service.CountPendingFor(ctx, supervisorID)

		assert.NoError(t, err)
		// pending admin app counts; the one this supervisor approved does
		// not; the technical app approved by someone else still does
		assert.Equal(t, 2, count)
	})

	t.Run("empty report tree yields zero", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		count, err := deps.service.CountPendingFor(ctx, supervisorID)

		assert.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("negative resolver failure", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.resolver.resolveDirectReportsFn = func(ctx context.Context, id int64) (employee.DirectReports, error) {
			return employee.DirectReports{}, errors.New("db down")
		}

		_, err := deps.service.CountPendingFor(ctx, supervisorID)

		assert.Error(t, err)
	})
}

func TestLeaveService_EvaluateFor(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		app := openApplication(leave.StatusL1Approved)
		app.L1ApprovedBy = int64Ptr(42)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			return app, nil
		}

		verdict, err := deps.service.EvaluateFor(ctx, 55, 42, employee.SlotAdmin)

		assert.NoError(t, err)
		assert.Equal(t, leave.VerdictActed, verdict)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.EvaluateFor(ctx, 404, 42, employee.SlotAdmin)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*leave.LeaveApplication, error) {
			app := openApplication(leave.StatusPending)
			app.Employee = &employee.Employee{ID: 10, Code: "EMP010", FullName: "Dewi Santoso"}
			return app, nil
		}

		resp, err := deps.service.GetByID(ctx, 55)

		assert.NoError(t, err)
		assert.Equal(t, "Dewi Santoso", resp.EmployeeName)
		assert.Equal(t, "EMP010", resp.EmployeeCode)
		assert.Equal(t, "2026-09-07", resp.StartDate)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, 404)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}
