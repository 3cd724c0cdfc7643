package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"leavedesk/internal/employee"
	"leavedesk/internal/events"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/notification"
	"leavedesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const aggregateLeaveApplication = "leave_application"

// HierarchyResolver is the slice of the employee service the workflow
// needs: the three supervisor slots and the bucketed report tree.
type HierarchyResolver interface {
	ResolveSupervisors(ctx context.Context, employeeID int64) (employee.SupervisorSet, error)
	ResolveDirectReports(ctx context.Context, supervisorID int64) (employee.DirectReports, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID int64, req CreateLeaveRequest) (LeaveResponse, notification.DispatchResult, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id int64) (LeaveResponse, error)
	GetByEmployee(ctx context.Context, employeeID int64) ([]LeaveResponse, error)
	GetTypes(ctx context.Context) ([]LeaveTypeResponse, error)

	ApproveL1(ctx context.Context, id, actorID int64) (LeaveResponse, error)
	ApproveL2(ctx context.Context, id, actorID int64) (LeaveResponse, error)
	Reject(ctx context.Context, id, actorID int64, reason string) (LeaveResponse, error)
	Cancel(ctx context.Context, id, actorID int64) (LeaveResponse, error)
	Reset(ctx context.Context, id, actorID int64) (LeaveResponse, error)

	EvaluateFor(ctx context.Context, id, supervisorID int64, role employee.SlotRole) (Verdict, error)
	CountPendingFor(ctx context.Context, supervisorID int64) (int, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	resolver   HierarchyResolver
	dispatcher notification.Dispatcher
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
	badge      singleflight.Group
}

func NewService(
	db *sql.DB,
	repo Repository,
	resolver HierarchyResolver,
	dispatcher notification.Dispatcher,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		resolver:   resolver,
		dispatcher: dispatcher,
		outbox:     outbox,
		logger:     l,
	}
}

// Create persists a new application in Pending and, after the commit,
// fans out the supervisor notifications. Delivery failures come back in
// the DispatchResult and never fail the creation itself.
func (s *service) Create(ctx context.Context, actorID int64, req CreateLeaveRequest) (LeaveResponse, notification.DispatchResult, error) {
	s.logger.Debug("create leave application requested",
		zap.Int64("actor_id", actorID),
		zap.Int64("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if actorID <= 0 {
		return LeaveResponse{}, notification.DispatchResult{}, leaveerrors.ErrMissingActor
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, notification.DispatchResult{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, notification.DispatchResult{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, notification.DispatchResult{}, leaveerrors.ErrInvalidDateRange
	}

	totalDays := req.TotalDays
	if totalDays == 0 {
		totalDays = endDate.Sub(startDate).Hours()/24 + 1
	}
	// stored with one decimal place
	totalDays = math.Round(totalDays*10) / 10
	if totalDays <= 0 {
		return LeaveResponse{}, notification.DispatchResult{}, leaveerrors.ErrInvalidTotalDays
	}

	// verifies the applicant exists before anything is written
	if _, err := s.resolver.ResolveSupervisors(ctx, req.EmployeeID); err != nil {
		s.logger.Warn("create leave applicant lookup failed", zap.Error(err))
		return LeaveResponse{}, notification.DispatchResult{}, err
	}

	leaveType, err := s.repo.FindTypeByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, notification.DispatchResult{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, notification.DispatchResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, notification.DispatchResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app := &LeaveApplication{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   totalDays,
		Reason:      req.Reason,
		Status:      StatusPending,
		AppliedAt:   time.Now().UTC(),
	}

	if err := qtx.Create(ctx, app); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, notification.DispatchResult{}, err
	}

	if err := s.enqueueRequestedEvent(ctx, s.outbox.WithTx(tx), app); err != nil {
		s.logger.Error("create leave outbox failed", zap.Error(err))
		return LeaveResponse{}, notification.DispatchResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, notification.DispatchResult{}, err
	}
	s.logger.Info("create leave success",
		zap.Int64("application_id", app.ID),
		zap.Int64("employee_id", app.EmployeeID),
	)

	// The fan-out runs after the write committed; its failures are
	// advisory only.
	dispatch, derr := s.dispatcher.DispatchRequested(ctx, notification.Application{
		ID:         app.ID,
		EmployeeID: app.EmployeeID,
		LeaveType:  leaveType.Name,
		StartDate:  app.StartDate,
		EndDate:    app.EndDate,
		TotalDays:  app.TotalDays,
		AppliedAt:  app.AppliedAt,
	})
	if derr != nil {
		s.logger.Warn("create leave notification dispatch failed",
			zap.Int64("application_id", app.ID),
			zap.Error(derr),
		)
		dispatch.Errors = append(dispatch.Errors, derr.Error())
	}

	return mapToResponse(*app), dispatch, nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	apps, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (LeaveResponse, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*app), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID int64) ([]LeaveResponse, error) {
	apps, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) GetTypes(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAllTypes(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		resp[i] = LeaveTypeResponse{ID: t.ID, Name: t.Name, MaxDaysPerYear: t.MaxDaysPerYear}
	}
	return resp, nil
}

func (s *service) ApproveL1(ctx context.Context, id, actorID int64) (LeaveResponse, error) {
	return s.transition(ctx, id, actorID, "leave.l1_approved", func(app *LeaveApplication) error {
		if !canTransition(app.Status, StatusL1Approved) {
			return leaveerrors.ErrIllegalTransition
		}
		now := time.Now().UTC()
		app.Status = StatusL1Approved
		app.L1ApprovedBy = &actorID
		app.L1ApprovedAt = &now
		app.clearTerminalFields()
		return nil
	})
}

func (s *service) ApproveL2(ctx context.Context, id, actorID int64) (LeaveResponse, error) {
	return s.transition(ctx, id, actorID, "leave.l2_approved", func(app *LeaveApplication) error {
		if !canTransition(app.Status, StatusL2Approved) {
			return leaveerrors.ErrIllegalTransition
		}
		now := time.Now().UTC()
		app.Status = StatusL2Approved
		app.L2ApprovedBy = &actorID
		app.L2ApprovedAt = &now
		app.clearTerminalFields()
		return nil
	})
}

// Reject keeps any recorded level-one approval: the history of who
// signed off stays visible even though the application is now terminal.
func (s *service) Reject(ctx context.Context, id, actorID int64, reason string) (LeaveResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	return s.transition(ctx, id, actorID, "leave.rejected", func(app *LeaveApplication) error {
		if !canTransition(app.Status, StatusRejected) {
			return leaveerrors.ErrIllegalTransition
		}
		now := time.Now().UTC()
		app.Status = StatusRejected
		app.RejectedBy = &actorID
		app.RejectedAt = &now
		app.RejectionReason = &reason
		app.CancelledAt = nil
		return nil
	})
}

// Cancel takes an actor so callers can enforce the applicant-only
// policy; the state machine itself does not check roles.
func (s *service) Cancel(ctx context.Context, id, actorID int64) (LeaveResponse, error) {
	return s.transition(ctx, id, actorID, "leave.cancelled", func(app *LeaveApplication) error {
		if !canTransition(app.Status, StatusCancelled) {
			return leaveerrors.ErrIllegalTransition
		}
		now := time.Now().UTC()
		app.Status = StatusCancelled
		app.CancelledAt = &now
		return nil
	})
}

// Reset is the administrative escape hatch: clears the whole approval
// record and returns the application to Pending from any state.
func (s *service) Reset(ctx context.Context, id, actorID int64) (LeaveResponse, error) {
	return s.transition(ctx, id, actorID, "leave.reset", func(app *LeaveApplication) error {
		app.Status = StatusPending
		app.L1ApprovedBy = nil
		app.L1ApprovedAt = nil
		app.L2ApprovedBy = nil
		app.L2ApprovedAt = nil
		app.clearTerminalFields()
		return nil
	})
}

// transition loads the application fresh, applies the mutation, and
// writes it back under the optimistic version check. A concurrent writer
// surfaces as a conflict, never as a silent overwrite.
func (s *service) transition(
	ctx context.Context,
	id, actorID int64,
	eventType string,
	apply func(app *LeaveApplication) error,
) (LeaveResponse, error) {
	s.logger.Debug("leave transition requested",
		zap.Int64("application_id", id),
		zap.Int64("actor_id", actorID),
		zap.String("event_type", eventType),
	)

	if actorID <= 0 {
		return LeaveResponse{}, leaveerrors.ErrMissingActor
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	fromStatus := app.Status
	expectedVersion := app.Version

	if err := apply(app); err != nil {
		s.logger.Warn("leave transition rejected",
			zap.Int64("application_id", id),
			zap.String("from_status", string(fromStatus)),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	ok, err := qtx.UpdateTransition(ctx, app, expectedVersion)
	if err != nil {
		s.logger.Error("leave transition persist failed",
			zap.Int64("application_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !ok {
		s.logger.Warn("leave transition version conflict",
			zap.Int64("application_id", id),
			zap.Int64("expected_version", expectedVersion),
		)
		return LeaveResponse{}, leaveerrors.ErrConflictingUpdate
	}

	if err := s.enqueueStatusChangedEvent(ctx, s.outbox.WithTx(tx), app, fromStatus, actorID, eventType); err != nil {
		s.logger.Error("leave transition outbox failed",
			zap.Int64("application_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed",
			zap.Int64("application_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("leave transition success",
		zap.Int64("application_id", id),
		zap.String("from_status", string(fromStatus)),
		zap.String("to_status", string(app.Status)),
		zap.Int64("actor_id", actorID),
	)

	return mapToResponse(*app), nil
}

// EvaluateFor answers the approval screen's question for one loaded
// application without mutating anything.
func (s *service) EvaluateFor(ctx context.Context, id, supervisorID int64, role employee.SlotRole) (Verdict, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VerdictMoot, leaveerrors.ErrLeaveNotFound
		}
		return VerdictMoot, err
	}
	return EvaluatePending(app, supervisorID, role), nil
}

// CountPendingFor walks the supervisor's one-level report tree and
// counts the applications still awaiting this supervisor's action.
// Concurrent badge requests for the same supervisor collapse into one
// computation.
func (s *service) CountPendingFor(ctx context.Context, supervisorID int64) (int, error) {
	v, err, _ := s.badge.Do(strconv.FormatInt(supervisorID, 10), func() (interface{}, error) {
		return s.countPending(ctx, supervisorID)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *service) countPending(ctx context.Context, supervisorID int64) (int, error) {
	reports, err := s.resolver.ResolveDirectReports(ctx, supervisorID)
	if err != nil {
		return 0, err
	}

	buckets := []struct {
		ids  []int64
		role employee.SlotRole
	}{
		{reports.Admin, employee.SlotAdmin},
		{reports.Technical, employee.SlotTechnical},
		{reports.SecondLevel, employee.SlotSecondLevel},
	}

	total := 0
	for _, b := range buckets {
		apps, err := s.repo.FindOpenByEmployees(ctx, b.ids)
		if err != nil {
			return 0, err
		}
		for i := range apps {
			if EvaluatePending(&apps[i], supervisorID, b.role) == VerdictPending {
				total++
			}
		}
	}
	return total, nil
}

func (s *service) enqueueRequestedEvent(ctx context.Context, outbox kafka.OutboxRepository, app *LeaveApplication) error {
	payload, err := json.Marshal(events.LeaveRequestedEvent{
		EventType:     "leave.requested",
		ApplicationID: app.ID,
		EmployeeID:    app.EmployeeID,
		LeaveTypeID:   app.LeaveTypeID,
		StartDate:     app.StartDate.Format("2006-01-02"),
		EndDate:       app.EndDate.Format("2006-01-02"),
		TotalDays:     app.TotalDays,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateLeaveApplication,
		AggregateID:   strconv.FormatInt(app.ID, 10),
		EventType:     "leave.requested",
		Topic:         events.LeaveRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueStatusChangedEvent(
	ctx context.Context,
	outbox kafka.OutboxRepository,
	app *LeaveApplication,
	fromStatus Status,
	actorID int64,
	eventType string,
) error {
	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventType:     eventType,
		ApplicationID: app.ID,
		EmployeeID:    app.EmployeeID,
		FromStatus:    string(fromStatus),
		ToStatus:      string(app.Status),
		ActorID:       actorID,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateLeaveApplication,
		AggregateID:   strconv.FormatInt(app.ID, 10),
		EventType:     eventType,
		Topic:         events.LeaveStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(app LeaveApplication) LeaveResponse {
	resp := LeaveResponse{
		ID:          app.ID,
		EmployeeID:  app.EmployeeID,
		LeaveTypeID: app.LeaveTypeID,
		StartDate:   app.StartDate.Format("2006-01-02"),
		EndDate:     app.EndDate.Format("2006-01-02"),
		TotalDays:   app.TotalDays,
		Reason:      app.Reason,
		Status:      string(app.Status),
		StatusLabel: app.Status.Label(),
		AppliedAt:   app.AppliedAt.Format(time.RFC3339),
		Version:     app.Version,
	}
	if app.Employee != nil {
		resp.EmployeeName = app.Employee.FullName
		resp.EmployeeCode = app.Employee.Code
	}
	resp.L1ApprovedBy = app.L1ApprovedBy
	resp.L1ApprovedAt = formatTimePtr(app.L1ApprovedAt)
	resp.L2ApprovedBy = app.L2ApprovedBy
	resp.L2ApprovedAt = formatTimePtr(app.L2ApprovedAt)
	resp.RejectedBy = app.RejectedBy
	resp.RejectedAt = formatTimePtr(app.RejectedAt)
	resp.RejectionReason = app.RejectionReason
	resp.CancelledAt = formatTimePtr(app.CancelledAt)
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToListResponse(apps []LeaveApplication) []LeaveResponse {
	resp := make([]LeaveResponse, len(apps))
	for i, app := range apps {
		resp[i] = mapToResponse(app)
	}
	return resp
}
