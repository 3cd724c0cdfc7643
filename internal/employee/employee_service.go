package employee

import (
	"context"
	"database/sql"
	"errors"

	employeeerrors "leavedesk/internal/employee/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id int64) error

	ResolveSupervisors(ctx context.Context, employeeID int64) (SupervisorSet, error)
	ResolveDirectReports(ctx context.Context, supervisorID int64) (DirectReports, error)
	ContactOf(ctx context.Context, employeeID int64) (Contact, error)
	SupervisorContacts(ctx context.Context, employeeID int64) ([]Contact, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested", zap.String("code", req.Code))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e := &Employee{
		Code:                    req.Code,
		FullName:                req.FullName,
		Email:                   req.Email,
		DepartmentID:            req.DepartmentID,
		AdminSupervisorID:       req.AdminSupervisorID,
		TechnicalSupervisorID:   req.TechnicalSupervisorID,
		SecondLevelSupervisorID: req.SecondLevelSupervisorID,
	}
	if err := s.validateSlots(ctx, qtx, e); err != nil {
		s.logger.Warn("create employee slot validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapPersistenceError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("create employee success",
		zap.Int64("employee_id", e.ID),
		zap.String("code", e.Code),
	)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.Int64("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	e.Code = req.Code
	e.FullName = req.FullName
	e.Email = req.Email
	e.DepartmentID = req.DepartmentID
	e.AdminSupervisorID = req.AdminSupervisorID
	e.TechnicalSupervisorID = req.TechnicalSupervisorID
	e.SecondLevelSupervisorID = req.SecondLevelSupervisorID

	if err := s.validateSlots(ctx, qtx, e); err != nil {
		s.logger.Warn("update employee slot validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.Int64("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapPersistenceError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Int64("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("update employee success", zap.Int64("employee_id", id))

	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// validateSlots checks that no slot points at the employee itself and
// that every referenced supervisor exists.
func (s *service) validateSlots(ctx context.Context, repo Repository, e *Employee) error {
	for _, p := range []*int64{e.AdminSupervisorID, e.TechnicalSupervisorID, e.SecondLevelSupervisorID} {
		if p == nil {
			continue
		}
		if e.ID != 0 && *p == e.ID {
			return employeeerrors.ErrSelfSupervision
		}
		if _, err := repo.FindByID(ctx, *p); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrSupervisorNotFound
			}
			return err
		}
	}
	return nil
}

func (s *service) ResolveSupervisors(ctx context.Context, employeeID int64) (SupervisorSet, error) {
	e, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SupervisorSet{}, employeeerrors.ErrEmployeeNotFound
		}
		return SupervisorSet{}, err
	}
	return SupervisorSet{
		Admin:       e.AdminSupervisorID,
		Technical:   e.TechnicalSupervisorID,
		SecondLevel: e.SecondLevelSupervisorID,
	}, nil
}

// ResolveDirectReports buckets the supervisor's one-level report tree by
// slot. A report matching several slots of the same supervisor is
// attributed to exactly one bucket, first match in admin > technical >
// second-level order, so one approver is never billed twice for one
// application.
func (s *service) ResolveDirectReports(ctx context.Context, supervisorID int64) (DirectReports, error) {
	reports, err := s.repo.FindBySupervisor(ctx, supervisorID)
	if err != nil {
		return DirectReports{}, err
	}

	var out DirectReports
	for _, e := range reports {
		switch {
		case e.AdminSupervisorID != nil && *e.AdminSupervisorID == supervisorID:
			out.Admin = append(out.Admin, e.ID)
		case e.TechnicalSupervisorID != nil && *e.TechnicalSupervisorID == supervisorID:
			out.Technical = append(out.Technical, e.ID)
		case e.SecondLevelSupervisorID != nil && *e.SecondLevelSupervisorID == supervisorID:
			out.SecondLevel = append(out.SecondLevel, e.ID)
		}
	}
	return out, nil
}

func (s *service) ContactOf(ctx context.Context, employeeID int64) (Contact, error) {
	e, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Contact{}, employeeerrors.ErrEmployeeNotFound
		}
		return Contact{}, err
	}
	return Contact{
		EmployeeID: e.ID,
		Code:       e.Code,
		Name:       e.FullName,
		Email:      e.Email,
	}, nil
}

// SupervisorContacts resolves the employee's supervisor set and loads
// one contact per distinct supervisor, in slot order.
func (s *service) SupervisorContacts(ctx context.Context, employeeID int64) ([]Contact, error) {
	set, err := s.ResolveSupervisors(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	ids := set.IDs()
	if len(ids) == 0 {
		return nil, nil
	}

	supervisors, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]Employee, len(supervisors))
	for _, e := range supervisors {
		byID[e.ID] = e
	}

	contacts := make([]Contact, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			// dangling weak reference, skip rather than fail the fan-out
			s.logger.Warn("supervisor slot references missing employee",
				zap.Int64("employee_id", employeeID),
				zap.Int64("supervisor_id", id),
			)
			continue
		}
		contacts = append(contacts, Contact{
			EmployeeID: e.ID,
			Code:       e.Code,
			Name:       e.FullName,
			Email:      e.Email,
		})
	}
	return contacts, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                      e.ID,
		Code:                    e.Code,
		FullName:                e.FullName,
		Email:                   e.Email,
		DepartmentID:            e.DepartmentID,
		AdminSupervisorID:       e.AdminSupervisorID,
		TechnicalSupervisorID:   e.TechnicalSupervisorID,
		SecondLevelSupervisorID: e.SecondLevelSupervisorID,
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
