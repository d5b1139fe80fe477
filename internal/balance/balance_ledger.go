package balance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	balanceerrors "go-leavehub/internal/balance/errors"
)

// Ledger owns every mutation of used/pending. All three mutating operations
// run on the caller's transaction and take the ledger row lock, so reserve,
// commit and release against the same row are strictly serialized.
//
//go:generate mockgen -source=balance_ledger.go -destination=mock/balance_ledger_mock.go -package=mock
type Ledger interface {
	// GetOrInit reads the row, creating it from the type's default allotment
	// on first access. Concurrent first access resolves to a plain read.
	GetOrInit(ctx context.Context, tx *sql.Tx, key Key, defaultAllotment decimal.Decimal) (*LeaveBalance, error)
	// Reserve checks availability and moves days into pending. The cap check
	// is skipped for unlimited (or unpaid) types.
	Reserve(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal, capped bool) (*LeaveBalance, error)
	// Commit converts a reservation into consumed balance. Final approval only.
	Commit(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal) error
	// Release returns a reservation to available balance. Rejection only.
	Release(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal) error
}

type ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &ledger{repo: repo, logger: l}
}

func (l *ledger) GetOrInit(ctx context.Context, tx *sql.Tx, key Key, defaultAllotment decimal.Decimal) (*LeaveBalance, error) {
	qtx := l.repo.WithTx(tx)

	b, err := qtx.FindForUpdate(ctx, key)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	fresh := &LeaveBalance{
		ID:          uuid.New(),
		CompanyID:   uuid.MustParse(key.CompanyID),
		EmployeeID:  uuid.MustParse(key.EmployeeID),
		LeaveTypeID: uuid.MustParse(key.LeaveTypeID),
		Year:        key.Year,
		Allocated:   defaultAllotment,
		Used:        decimal.Zero,
		Pending:     decimal.Zero,
	}

	inserted, err := qtx.Insert(ctx, fresh)
	if err != nil {
		return nil, err
	}
	if inserted {
		l.logger.Debug("ledger row initialized",
			zap.String("company_id", key.CompanyID),
			zap.String("employee_id", key.EmployeeID),
			zap.String("leave_type_id", key.LeaveTypeID),
			zap.Int("year", key.Year),
			zap.String("allocated", defaultAllotment.String()),
		)
	}

	// Re-read under lock: either our insert or the concurrent winner's row.
	return qtx.FindForUpdate(ctx, key)
}

func (l *ledger) Reserve(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal, capped bool) (*LeaveBalance, error) {
	qtx := l.repo.WithTx(tx)

	b, err := qtx.FindForUpdate(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, balanceerrors.ErrBalanceNotFound
		}
		return nil, err
	}

	if capped {
		available := b.Available()
		if available.LessThan(days) {
			l.logger.Warn("reserve rejected on insufficient balance",
				zap.String("employee_id", key.EmployeeID),
				zap.String("available", available.String()),
				zap.String("requested", days.String()),
			)
			return nil, balanceerrors.InsufficientBalance(available, days)
		}
	}

	b.Pending = b.Pending.Add(days)
	if err := qtx.UpdateAmounts(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (l *ledger) Commit(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal) error {
	return l.settle(ctx, tx, key, days, true)
}

func (l *ledger) Release(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal) error {
	return l.settle(ctx, tx, key, days, false)
}

func (l *ledger) settle(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal, consume bool) error {
	qtx := l.repo.WithTx(tx)

	b, err := qtx.FindForUpdate(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return balanceerrors.ErrBalanceNotFound
		}
		return err
	}

	op := "release"
	if consume {
		op = "commit"
	}

	if b.Pending.LessThan(days) {
		// Two finalizations slipped past the request row lock. Alert, do not
		// corrupt the ledger.
		l.logger.Error("ledger invariant violation",
			zap.String("op", op),
			zap.String("balance_id", b.ID.String()),
			zap.String("pending", b.Pending.String()),
			zap.String("requested", days.String()),
		)
		return balanceerrors.LedgerInvariant(op, b.Pending, days)
	}

	b.Pending = b.Pending.Sub(days)
	if consume {
		b.Used = b.Used.Add(days)
	}

	return qtx.UpdateAmounts(ctx, b)
}
