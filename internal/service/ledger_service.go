package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"earnings-ledger/internal/domain"
	"earnings-ledger/internal/errors"
)

// maxDelta caps a single credit at 10 billion. Anything larger is
// assumed to be a caller bug rather than a real payout.
var maxDelta = decimal.NewFromInt(10_000_000_000)

type LedgerService struct {
	accounts domain.AccountRepository
	logger   *slog.Logger
}

func NewLedgerService(accounts domain.AccountRepository, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		accounts: accounts,
		logger:   logger,
	}
}

type CreateAccountRequest struct {
	AccountID        string
	UserID           string
	TotalEarnings    *decimal.Decimal
	AvailableBalance *decimal.Decimal
}

func (s *LedgerService) CreateAccount(req *CreateAccountRequest) (*domain.Account, error) {
	s.logger.Info("Creating account", "account_id", req.AccountID, "user_id", req.UserID)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.InvalidInput, "user ID must be a valid UUID")
	}

	accountID := uuid.New()
	if req.AccountID != "" {
		if accountID, err = uuid.Parse(req.AccountID); err != nil {
			return nil, errors.ErrInvalidAccountID
		}
	}

	account := &domain.Account{
		ID:     accountID,
		UserID: userID,
	}
	if account.TotalEarnings, err = optionalBalance(req.TotalEarnings); err != nil {
		return nil, err
	}
	if account.AvailableBalance, err = optionalBalance(req.AvailableBalance); err != nil {
		return nil, err
	}

	if err := s.accounts.CreateAccount(account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created successfully", "account_id", account.ID)
	return account, nil
}

func (s *LedgerService) GetAccount(accountID string) (*domain.Account, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, errors.ErrInvalidAccountID
	}

	return s.accounts.GetAccount(id)
}

// IncrementBalance credits amount to both total_earnings and
// available_balance of the account and returns the committed post-update
// snapshot. The two fields always move together; there is no path that
// updates one without the other.
func (s *LedgerService) IncrementBalance(accountID string, amount decimal.Decimal) (*domain.AccountSnapshot, error) {
	s.logger.Info("Incrementing balance", "account_id", accountID, "amount", amount)

	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, errors.ErrInvalidAccountID
	}

	if err := validateDelta(amount); err != nil {
		return nil, err
	}

	snapshot, err := s.accounts.IncrementBalance(id, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Balance incremented successfully",
		"account_id", snapshot.ID,
		"total_earnings", snapshot.TotalEarnings,
		"available_balance", snapshot.AvailableBalance)
	return snapshot, nil
}

// validateDelta rejects out-of-policy deltas before touching storage.
// Negative amounts are refused: a credit that silently decreases
// balances would break the monotonicity of total_earnings.
func validateDelta(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.ErrInvalidAmount
	}
	if amount.GreaterThan(maxDelta) {
		return errors.NewAppError(errors.InvalidAmount, "amount exceeds maximum credit limit")
	}
	return nil
}

func optionalBalance(d *decimal.Decimal) (decimal.NullDecimal, error) {
	if d == nil {
		return decimal.NullDecimal{}, nil
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, errors.NewAppError(errors.InvalidAmount, "initial balance cannot be negative")
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}, nil
}
