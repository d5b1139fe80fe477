package leaverequest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-leavehub/internal/audit"
	"go-leavehub/internal/balance"
	"go-leavehub/internal/domain"
	"go-leavehub/internal/employee"
	"go-leavehub/internal/events"
	leaverequesterrors "go-leavehub/internal/leaverequest/errors"
	"go-leavehub/internal/leavetype"
	"go-leavehub/internal/notify"
	"go-leavehub/internal/shared/counter"
)

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Review(ctx context.Context, companyID, actorID, id string, req ReviewLeaveRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, companyID string, employeeID *string) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	types     leavetype.Repository
	ledger    balance.Ledger
	counter   counter.Repository
	auditor   audit.Sink
	notifier  notify.Sink
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	types leavetype.Repository,
	ledger balance.Ledger,
	counterRepo counter.Repository,
	auditor audit.Sink,
	notifier notify.Sink,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		types:     types,
		ledger:    ledger,
		counter:   counterRepo,
		auditor:   auditor,
		notifier:  notifier,
		logger:    l,
	}
}

// Submit runs the submission protocol in a single transaction: init the
// ledger row, reserve the days, resolve the approval chain, insert the
// request at its first stage. An insufficient balance aborts the whole thing,
// leaving no request row behind.
func (s *service) Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("submit leave request",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}
	days := computeDays(startDate, endDate, req.HalfDayStart, req.HalfDayEnd)

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrEmployeeNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if !emp.Active {
		return LeaveRequestResponse{}, leaverequesterrors.ErrEmployeeInactive
	}

	if actorID != req.EmployeeID {
		actor, err := s.employees.FindByIDAndCompany(ctx, companyID, actorID)
		if err != nil || (actor.Role != domain.RoleAdmin && actor.Role != domain.RoleOwner) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrSubmitForbidden
		}
	}

	lt, err := s.types.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrUnknownLeaveType
		}
		return LeaveRequestResponse{}, err
	}

	snapshot, err := s.buildSnapshot(ctx, companyID, emp)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	chain := ResolveChain(snapshot)

	requestNumber, err := s.counter.GetNextValue(ctx, companyID, counter.TypeLeaveRequest)
	if err != nil {
		s.logger.Error("allocate request number failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	key := balance.Key{
		CompanyID:   companyID,
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		Year:        startDate.Year(),
	}

	if _, err := s.ledger.GetOrInit(ctx, tx, key, lt.DefaultAllotment()); err != nil {
		s.logger.Error("submit ledger init failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if _, err := s.ledger.Reserve(ctx, tx, key, days, !lt.Unlimited()); err != nil {
		return LeaveRequestResponse{}, err
	}

	lr := &LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     emp.CompanyID,
		RequestNumber: requestNumber,
		EmployeeID:    employeeUUID,
		DepartmentID:  emp.DepartmentID,
		LeaveTypeID:   lt.ID,
		StartDate:     startDate,
		EndDate:       endDate,
		HalfDayStart:  req.HalfDayStart,
		HalfDayEnd:    req.HalfDayEnd,
		DaysRequested: days,
		Reason:        req.Reason,
		Status:        StatusPending,
		CurrentStage:  chain[0],
		CreatedAt:     time.Now().UTC(),
	}

	if !lt.RequiresApproval {
		// Auto-approval: the reservation converts to consumption in the same
		// transaction, the request is born terminal.
		if err := s.ledger.Commit(ctx, tx, key, days); err != nil {
			return LeaveRequestResponse{}, err
		}
		lr.Status = StatusApproved
		lr.CurrentStage = domain.StageNone
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("submit persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", lr.ID.String()),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("days", days.String()),
		zap.String("stage", string(lr.CurrentStage)),
	)

	s.afterSubmit(ctx, lr)
	return mapToResponse(*lr), nil
}

// Review applies one review call. The request row lock linearizes concurrent
// reviewers: the loser of the race sees the already-finalized (or escalated)
// state and fails fast instead of double-settling the ledger.
func (s *service) Review(ctx context.Context, companyID, actorID, id string, req ReviewLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("review leave request",
		zap.String("request_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}
	approved := req.Approve != nil && *req.Approve

	actor, err := s.employees.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrEmployeeNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if !actor.Active {
		return LeaveRequestResponse{}, leaverequesterrors.ErrEmployeeInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if lr.Terminal() {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyFinalized
	}

	if err := checkStageAuthority(lr.CurrentStage, actor.Role, actor.DepartmentID, lr.DepartmentID); err != nil {
		s.logger.Warn("review authority rejected",
			zap.String("request_id", id),
			zap.String("stage", string(lr.CurrentStage)),
			zap.String("actor_role", string(actor.Role)),
		)
		return LeaveRequestResponse{}, err
	}

	now := time.Now().UTC()
	reviewedStage := lr.CurrentStage
	if rev := lr.reviewFor(reviewedStage); rev != nil {
		rev.ReviewerID = &actorUUID
		rev.ReviewedAt = &now
		if req.Notes != "" {
			notes := req.Notes
			rev.Notes = &notes
		}
	}

	key := balance.Key{
		CompanyID:   companyID,
		EmployeeID:  lr.EmployeeID.String(),
		LeaveTypeID: lr.LeaveTypeID.String(),
		Year:        lr.Year(),
	}

	if !approved {
		lr.Status = StatusRejected
		lr.CurrentStage = domain.StageNone
		if err := s.ledger.Release(ctx, tx, key, lr.DaysRequested); err != nil {
			return LeaveRequestResponse{}, err
		}
	} else {
		next, terminal := nextStage(reviewedStage)
		if terminal {
			lr.Status = StatusApproved
			lr.CurrentStage = domain.StageNone
			if err := s.ledger.Commit(ctx, tx, key, lr.DaysRequested); err != nil {
				return LeaveRequestResponse{}, err
			}
		} else {
			lr.Status = StatusInReview
			lr.CurrentStage = next
		}
	}

	if err := qtx.UpdateReview(ctx, lr); err != nil {
		s.logger.Error("review persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review commit failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request reviewed",
		zap.String("request_id", id),
		zap.String("reviewed_stage", string(reviewedStage)),
		zap.String("status", string(lr.Status)),
		zap.Bool("approved", approved),
	)

	s.afterReview(ctx, lr, actorID, reviewedStage, approved)
	return mapToResponse(*lr), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, employeeID *string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAllByCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error) {
	lr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) buildSnapshot(ctx context.Context, companyID string, emp *employee.Employee) (RequesterSnapshot, error) {
	snapshot := RequesterSnapshot{
		Role:         emp.Role,
		DepartmentID: emp.DepartmentID,
	}

	if emp.DepartmentID != nil {
		hasManager, err := s.employees.ActiveManagerExists(ctx, companyID, emp.DepartmentID.String())
		if err != nil {
			return RequesterSnapshot{}, err
		}
		snapshot.HasActiveManager = hasManager
	}

	hasAdmin, err := s.employees.ActiveAdminExists(ctx, companyID)
	if err != nil {
		return RequesterSnapshot{}, err
	}
	snapshot.HasActiveAdmin = hasAdmin

	return snapshot, nil
}

// afterSubmit emits audit and notifications once the transaction is durable.
// Both sinks are best effort.
func (s *service) afterSubmit(ctx context.Context, lr *LeaveRequest) {
	action := events.EventLeaveRequestSubmitted
	if lr.Status == StatusApproved {
		action = events.EventLeaveRequestApproved
	}

	s.auditor.Record(ctx, audit.Entry{
		CompanyID:  lr.CompanyID.String(),
		ActorID:    lr.EmployeeID.String(),
		Action:     action,
		EntityType: "leave_request",
		EntityID:   lr.ID.String(),
		Meta: map[string]any{
			"days":   lr.DaysRequested.String(),
			"stage":  string(lr.CurrentStage),
			"status": string(lr.Status),
		},
	})

	s.notifier.Notify(ctx, events.LeaveNotification{
		EventType:   action,
		CompanyID:   lr.CompanyID.String(),
		RequestID:   lr.ID.String(),
		RecipientID: lr.EmployeeID.String(),
		Template:    "leave_request.receipt",
		Payload: map[string]any{
			"status": string(lr.Status),
			"days":   lr.DaysRequested.String(),
		},
	})

	if !lr.Terminal() {
		s.notifyStageReviewers(ctx, lr)
	}
}

func (s *service) afterReview(ctx context.Context, lr *LeaveRequest, actorID string, reviewedStage domain.Stage, approved bool) {
	action := events.EventLeaveRequestEscalated
	if lr.Status == StatusApproved {
		action = events.EventLeaveRequestApproved
	} else if lr.Status == StatusRejected {
		action = events.EventLeaveRequestRejected
	}

	s.auditor.Record(ctx, audit.Entry{
		CompanyID:  lr.CompanyID.String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: "leave_request",
		EntityID:   lr.ID.String(),
		Meta: map[string]any{
			"reviewed_stage": string(reviewedStage),
			"approved":       approved,
			"status":         string(lr.Status),
		},
	})

	if lr.Terminal() {
		s.notifier.Notify(ctx, events.LeaveNotification{
			EventType:   action,
			CompanyID:   lr.CompanyID.String(),
			RequestID:   lr.ID.String(),
			RecipientID: lr.EmployeeID.String(),
			Template:    "leave_request.decision",
			Payload: map[string]any{
				"status": string(lr.Status),
			},
		})
		return
	}

	s.notifyStageReviewers(ctx, lr)
}

// notifyStageReviewers addresses everyone who can act at the request's
// current stage. Lookup failure only costs the notification.
func (s *service) notifyStageReviewers(ctx context.Context, lr *LeaveRequest) {
	var dept *string
	if lr.DepartmentID != nil {
		v := lr.DepartmentID.String()
		dept = &v
	}

	reviewerIDs, err := s.employees.FindReviewerIDs(ctx, lr.CompanyID.String(), lr.CurrentStage, dept)
	if err != nil {
		s.logger.Warn("resolve stage reviewers failed",
			zap.String("request_id", lr.ID.String()),
			zap.String("stage", string(lr.CurrentStage)),
			zap.Error(err),
		)
		return
	}

	for _, reviewerID := range reviewerIDs {
		s.notifier.Notify(ctx, events.LeaveNotification{
			EventType:   events.EventLeaveRequestEscalated,
			CompanyID:   lr.CompanyID.String(),
			RequestID:   lr.ID.String(),
			RecipientID: reviewerID,
			Template:    "leave_request.awaiting_review",
			Payload: map[string]any{
				"stage":       string(lr.CurrentStage),
				"employee_id": lr.EmployeeID.String(),
			},
		})
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

var halfDay = decimal.NewFromFloat(0.5)

// computeDays turns the inclusive date range plus half-day flags into the
// decimal day count the ledger reserves. A single-day request with either
// flag set counts as half a day.
func computeDays(start, end time.Time, halfStart, halfEnd bool) decimal.Decimal {
	if start.Equal(end) {
		if halfStart || halfEnd {
			return halfDay
		}
		return decimal.NewFromInt(1)
	}

	days := decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)
	if halfStart {
		days = days.Sub(halfDay)
	}
	if halfEnd {
		days = days.Sub(halfDay)
	}
	return days
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            lr.ID.String(),
		RequestNumber: lr.RequestNumber,
		CompanyID:     lr.CompanyID.String(),
		EmployeeID:    lr.EmployeeID.String(),
		LeaveTypeID:   lr.LeaveTypeID.String(),
		StartDate:     lr.StartDate.Format("2006-01-02"),
		EndDate:       lr.EndDate.Format("2006-01-02"),
		HalfDayStart:  lr.HalfDayStart,
		HalfDayEnd:    lr.HalfDayEnd,
		DaysRequested: lr.DaysRequested.String(),
		Reason:        lr.Reason,
		Status:        string(lr.Status),
		CurrentStage:  string(lr.CurrentStage),
		Manager:       mapStageReview(lr.Manager),
		Admin:         mapStageReview(lr.Admin),
		Owner:         mapStageReview(lr.Owner),
		CreatedAt:     lr.CreatedAt.Format(time.RFC3339),
	}
	if lr.DepartmentID != nil {
		v := lr.DepartmentID.String()
		resp.DepartmentID = &v
	}
	return resp
}

func mapStageReview(r StageReview) StageReviewResponse {
	resp := StageReviewResponse{Notes: r.Notes}
	if r.ReviewerID != nil {
		v := r.ReviewerID.String()
		resp.ReviewerID = &v
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
