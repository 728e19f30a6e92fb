package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"earnings-ledger/internal/domain"
	"earnings-ledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, total_earnings, available_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	_, err := r.db.Exec(
		query,
		account.ID,
		account.UserID,
		nullDecimalArg(account.TotalEarnings),
		nullDecimalArg(account.AvailableBalance),
		now,
		now,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate account creation attempt", "account_id", account.ID)
				return errors.ErrDuplicateAccount
			}
		}
		r.logger.Error("Failed to create account", "account_id", account.ID, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create account").WithDetails(err.Error())
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	r.logger.Info("Account created successfully", "account_id", account.ID, "user_id", account.UserID)
	return nil
}

func (r *accountRepository) GetAccount(id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, user_id, total_earnings, available_balance, created_at, updated_at
		FROM accounts WHERE id = $1
	`

	var account domain.Account
	var totalStr, availableStr sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&account.ID,
		&account.UserID,
		&totalStr,
		&availableStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "account_id", id)
			return nil, errors.NewAppErrorf(errors.AccountNotFound, "account %s not found", id)
		}
		r.logger.Error("Failed to get account", "account_id", id, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get account").WithDetails(err.Error())
	}

	if account.TotalEarnings, err = parseNullDecimal(totalStr); err != nil {
		r.logger.Error("Failed to parse total_earnings", "account_id", id, "value", totalStr.String, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse total_earnings").WithDetails(err.Error())
	}
	if account.AvailableBalance, err = parseNullDecimal(availableStr); err != nil {
		r.logger.Error("Failed to parse available_balance", "account_id", id, "value", availableStr.String, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse available_balance").WithDetails(err.Error())
	}

	return &account, nil
}

// IncrementBalance applies the delta to both balance columns in one
// atomic statement. The RETURNING clause hands back the committed
// post-update values, so concurrent increments on the same row are
// serialized by the engine's row lock and no follow-up read is needed.
// A NULL prior balance counts as zero.
func (r *accountRepository) IncrementBalance(id uuid.UUID, amount decimal.Decimal) (*domain.AccountSnapshot, error) {
	query := `
		UPDATE accounts
		SET total_earnings = COALESCE(total_earnings, 0) + $2,
		    available_balance = COALESCE(available_balance, 0) + $2,
		    updated_at = $3
		WHERE id = $1
		RETURNING id, user_id, total_earnings, available_balance
	`

	var snapshot domain.AccountSnapshot
	var totalStr, availableStr string

	err := r.db.QueryRow(query, id, amount.String(), time.Now()).Scan(
		&snapshot.ID,
		&snapshot.UserID,
		&totalStr,
		&availableStr,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("No account found to increment", "account_id", id)
			return nil, errors.NewAppErrorf(errors.AccountNotFound, "account %s not found", id)
		}
		r.logger.Error("Failed to increment balance", "account_id", id, "amount", amount, "error", err)
		return nil, errors.NewAppError(errors.StorageUnavailable, "failed to increment balance").WithDetails(err.Error())
	}

	if snapshot.TotalEarnings, err = decimal.NewFromString(totalStr); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to parse total_earnings").WithDetails(err.Error())
	}
	if snapshot.AvailableBalance, err = decimal.NewFromString(availableStr); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to parse available_balance").WithDetails(err.Error())
	}

	r.logger.Info("Balance incremented",
		"account_id", snapshot.ID,
		"amount", amount,
		"total_earnings", snapshot.TotalEarnings,
		"available_balance", snapshot.AvailableBalance)
	return &snapshot, nil
}

// nullDecimalArg converts a NullDecimal to a driver argument, keeping
// SQL NULL for unset balances.
func nullDecimalArg(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func parseNullDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
