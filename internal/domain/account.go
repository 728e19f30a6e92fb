package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a payable party. Both balance columns are nullable in
// storage: a freshly provisioned account carries NULL until its first
// earnings credit, and the increment treats NULL as zero.
type Account struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"user_id"`
	TotalEarnings    decimal.NullDecimal `json:"total_earnings"`
	AvailableBalance decimal.NullDecimal `json:"available_balance"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// AccountSnapshot is the committed post-update state returned by the
// balance increment. The balances here are never NULL: the increment
// coalesces them to zero before adding the delta.
type AccountSnapshot struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccount(id uuid.UUID) (*Account, error)
	// IncrementBalance atomically adds amount to both total_earnings and
	// available_balance of the account and returns the new row state from
	// the same statement.
	IncrementBalance(id uuid.UUID, amount decimal.Decimal) (*AccountSnapshot, error)
}
