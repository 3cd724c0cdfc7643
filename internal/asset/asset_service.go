package asset

import (
	"context"
	"database/sql"
	"errors"
	"time"

	asseterr "leavedesk/internal/asset/errors"
	"leavedesk/internal/employee"
	"leavedesk/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeDirectory is the slice of the employee service this module
// needs when assigning hardware to a person.
type EmployeeDirectory interface {
	ContactOf(ctx context.Context, employeeID int64) (employee.Contact, error)
}

//go:generate mockgen -source=asset_service.go -destination=mock/asset_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateAssetRequest) (AssetResponse, error)
	GetAll(ctx context.Context, limit, offset int) ([]AssetResponse, int64, error)
	GetByID(ctx context.Context, id int64) (AssetResponse, error)
	GetByEmployee(ctx context.Context, employeeID int64) ([]AssetResponse, error)
	Update(ctx context.Context, id int64, req UpdateAssetRequest) (AssetResponse, error)
	Assign(ctx context.Context, id int64, req AssignAssetRequest) (AssetResponse, error)
	Unassign(ctx context.Context, id int64) (AssetResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory EmployeeDirectory
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, directory EmployeeDirectory, logger ...*zap.Logger) Service {
	l := zap.L().Named("asset.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{db: db, repo: repo, directory: directory, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateAssetRequest) (AssetResponse, error) {
	purchasedAt, err := parsePurchaseDate(req.PurchasedAt)
	if err != nil {
		return AssetResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	asset := &Asset{
		Tag:          req.Tag,
		SerialNumber: req.SerialNumber,
		ModelName:    req.ModelName,
		VendorName:   req.VendorName,
		Category:     req.Category,
		PurchasedAt:  purchasedAt,
		Notes:        req.Notes,
	}

	if err := qtx.Create(ctx, asset); err != nil {
		return AssetResponse{}, mapRepoError(err)
	}

	if err := tx.Commit(); err != nil {
		return AssetResponse{}, err
	}

	s.logger.Info("asset registered",
		zap.Int64("asset_id", asset.ID),
		zap.String("tag", asset.Tag),
	)

	return mapToResponse(*asset), nil
}

func (s *service) GetAll(ctx context.Context, limit, offset int) ([]AssetResponse, int64, error) {
	assets, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]AssetResponse, len(assets))
	for i, a := range assets {
		resp[i] = mapToResponse(a)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (AssetResponse, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssetResponse{}, asseterr.ErrAssetNotFound
		}
		return AssetResponse{}, err
	}

	return mapToResponse(*asset), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID int64) ([]AssetResponse, error) {
	if _, err := s.directory.ContactOf(ctx, employeeID); err != nil {
		return nil, asseterr.ErrAssigneeNotFound
	}

	assets, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]AssetResponse, len(assets))
	for i, a := range assets {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateAssetRequest) (AssetResponse, error) {
	purchasedAt, err := parsePurchaseDate(req.PurchasedAt)
	if err != nil {
		return AssetResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	asset, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssetResponse{}, asseterr.ErrAssetNotFound
		}
		return AssetResponse{}, err
	}

	asset.SerialNumber = req.SerialNumber
	asset.ModelName = req.ModelName
	asset.VendorName = req.VendorName
	asset.Category = req.Category
	asset.PurchasedAt = purchasedAt
	asset.Notes = req.Notes

	if err := qtx.Update(ctx, asset); err != nil {
		return AssetResponse{}, mapRepoError(err)
	}

	if err := tx.Commit(); err != nil {
		return AssetResponse{}, err
	}

	return mapToResponse(*asset), nil
}

func (s *service) Assign(ctx context.Context, id int64, req AssignAssetRequest) (AssetResponse, error) {
	contact, err := s.directory.ContactOf(ctx, req.EmployeeID)
	if err != nil {
		return AssetResponse{}, asseterr.ErrAssigneeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	asset, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssetResponse{}, asseterr.ErrAssetNotFound
		}
		return AssetResponse{}, err
	}

	if asset.AssignedEmployeeID != nil {
		return AssetResponse{}, asseterr.ErrAlreadyAssigned
	}

	asset.AssignedEmployeeID = &req.EmployeeID

	if err := qtx.Update(ctx, asset); err != nil {
		return AssetResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AssetResponse{}, err
	}

	s.logger.Info("asset assigned",
		zap.Int64("asset_id", asset.ID),
		zap.Int64("employee_id", req.EmployeeID),
	)

	resp := mapToResponse(*asset)
	resp.AssignedEmployee = contact.Name
	return resp, nil
}

func (s *service) Unassign(ctx context.Context, id int64) (AssetResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	asset, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssetResponse{}, asseterr.ErrAssetNotFound
		}
		return AssetResponse{}, err
	}

	if asset.AssignedEmployeeID == nil {
		return AssetResponse{}, asseterr.ErrNotAssigned
	}

	asset.AssignedEmployeeID = nil
	asset.AssignedEmployee = nil

	if err := qtx.Update(ctx, asset); err != nil {
		return AssetResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AssetResponse{}, err
	}

	s.logger.Info("asset unassigned", zap.Int64("asset_id", asset.ID))

	return mapToResponse(*asset), nil
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

func parsePurchaseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperror.InvalidField("purchased_at")
	}
	return &t, nil
}

func mapToResponse(a Asset) AssetResponse {
	resp := AssetResponse{
		ID:                 a.ID,
		Tag:                a.Tag,
		SerialNumber:       a.SerialNumber,
		ModelName:          a.ModelName,
		VendorName:         a.VendorName,
		Category:           a.Category,
		AssignedEmployeeID: a.AssignedEmployeeID,
		Notes:              a.Notes,
	}
	if a.PurchasedAt != nil {
		d := a.PurchasedAt.Format("2006-01-02")
		resp.PurchasedAt = &d
	}
	if a.AssignedEmployee != nil {
		resp.AssignedEmployee = a.AssignedEmployee.FullName
	}
	return resp
}
