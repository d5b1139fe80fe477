package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	leavetypeerrors "go-leavehub/internal/leavetype/errors"
)

const catalogKeyPrefix = "leavetypes:catalog:"

func catalogKey(companyID string) string {
	return catalogKeyPrefix + companyID
}

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, companyID string) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error)
	Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func defaultCatalog(companyUUID uuid.UUID) []LeaveType {
	annual := decimal.NewFromInt(20)
	sick := decimal.NewFromInt(10)
	return []LeaveType{
		{
			ID:               uuid.New(),
			CompanyID:        companyUUID,
			Name:             "Annual",
			Slug:             "annual",
			DaysAllowed:      &annual,
			IsPaid:           true,
			RequiresApproval: true,
		},
		{
			ID:               uuid.New(),
			CompanyID:        companyUUID,
			Name:             "Sick",
			Slug:             "sick",
			DaysAllowed:      &sick,
			IsPaid:           true,
			RequiresApproval: true,
		},
		{
			ID:               uuid.New(),
			CompanyID:        companyUUID,
			Name:             "Unpaid",
			Slug:             "unpaid",
			DaysAllowed:      nil,
			IsPaid:           false,
			RequiresApproval: true,
		},
	}
}

// List returns the tenant catalog, seeding the three defaults the first time
// an empty registry is read. Concurrent first reads are collapsed per tenant
// with singleflight; the (company_id, slug) unique constraint is the backstop
// when two instances race.
func (s *service) List(ctx context.Context, companyID string) ([]LeaveTypeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, leavetypeerrors.ErrInvalidCompanyID
	}

	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, catalogKey(companyID)).Result(); err == nil {
			var cached []LeaveTypeResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.sf.Do(catalogKey(companyID), func() (interface{}, error) {
		types, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		if len(types) == 0 {
			s.logger.Info("seeding default leave types", zap.String("company_id", companyID))
			if err := s.repo.SeedDefaults(ctx, defaultCatalog(companyUUID)); err != nil && !isUniqueViolation(err) {
				s.logger.Error("seed default leave types failed", zap.Error(err))
				return nil, err
			}
			types, err = s.repo.FindAllByCompany(ctx, companyID)
			if err != nil {
				return nil, err
			}
		}

		resp := mapToListResponse(types)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, catalogKey(companyID), jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCompanyID
	}

	t := &LeaveType{
		ID:                  uuid.New(),
		CompanyID:           companyUUID,
		Name:                req.Name,
		Slug:                Slugify(req.Name),
		CarryForwardAllowed: req.CarryForwardAllowed,
		MaxCarryForwardDays: decimal.NewFromFloat(req.MaxCarryForwardDays),
		IsPaid:              req.IsPaid,
		RequiresApproval:    true,
	}
	if req.DaysAllowed != nil {
		d := decimal.NewFromFloat(*req.DaysAllowed)
		t.DaysAllowed = &d
	}
	if req.RequiresApproval != nil {
		t.RequiresApproval = *req.RequiresApproval
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if isUniqueViolation(err) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrSlugAlreadyExists
		}
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateCatalog(ctx, companyID)
	s.logger.Info("leave type created",
		zap.String("company_id", companyID),
		zap.String("leave_type_id", t.ID.String()),
		zap.String("slug", t.Slug),
	)
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	t.Name = req.Name
	t.Slug = Slugify(req.Name)
	t.IsPaid = req.IsPaid
	t.CarryForwardAllowed = req.CarryForwardAllowed
	t.MaxCarryForwardDays = decimal.NewFromFloat(req.MaxCarryForwardDays)
	t.DaysAllowed = nil
	if req.DaysAllowed != nil {
		d := decimal.NewFromFloat(*req.DaysAllowed)
		t.DaysAllowed = &d
	}
	if req.RequiresApproval != nil {
		t.RequiresApproval = *req.RequiresApproval
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if isUniqueViolation(err) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrSlugAlreadyExists
		}
		s.logger.Error("update leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateCatalog(ctx, companyID)
	return mapToResponse(*t), nil
}

// Delete soft-deletes a type. Types referenced by a non-terminal request stay
// in place so in-flight approvals keep resolving.
func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return leavetypeerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return leavetypeerrors.ErrInvalidLeaveTypeID
	}

	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leavetypeerrors.ErrLeaveTypeNotFound
		}
		return err
	}

	open, err := s.repo.HasOpenRequests(ctx, companyID, id)
	if err != nil {
		return err
	}
	if open {
		return leavetypeerrors.ErrLeaveTypeInUse
	}

	if err := s.repo.SoftDelete(ctx, companyID, id); err != nil {
		s.logger.Error("delete leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return err
	}

	s.invalidateCatalog(ctx, companyID)
	s.logger.Info("leave type deleted",
		zap.String("company_id", companyID),
		zap.String("leave_type_id", id),
	)
	return nil
}

func (s *service) invalidateCatalog(ctx context.Context, companyID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, catalogKey(companyID))
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(t LeaveType) LeaveTypeResponse {
	resp := LeaveTypeResponse{
		ID:                  t.ID.String(),
		CompanyID:           t.CompanyID.String(),
		Name:                t.Name,
		Slug:                t.Slug,
		IsPaid:              t.IsPaid,
		CarryForwardAllowed: t.CarryForwardAllowed,
		MaxCarryForwardDays: t.MaxCarryForwardDays.String(),
		RequiresApproval:    t.RequiresApproval,
	}
	if t.DaysAllowed != nil {
		v := t.DaysAllowed.String()
		resp.DaysAllowed = &v
	}
	return resp
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		resp[i] = mapToResponse(t)
	}
	return resp
}
