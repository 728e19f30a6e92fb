package handler

import (
	"encoding/json"
	"net/http"

	"earnings-ledger/internal/domain"
	"earnings-ledger/internal/errors"
	"earnings-ledger/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type AccountHandler struct {
	ledgerService *service.LedgerService
}

func NewAccountHandler(ledgerService *service.LedgerService) *AccountHandler {
	return &AccountHandler{
		ledgerService: ledgerService,
	}
}

type CreateAccountRequest struct {
	AccountID        string `json:"account_id,omitempty"`
	UserID           string `json:"user_id"`
	TotalEarnings    string `json:"total_earnings,omitempty"`
	AvailableBalance string `json:"available_balance,omitempty"`
}

type IncrementBalanceRequest struct {
	Amount string `json:"amount"`
}

// AccountResponse renders balances as decimal strings; null means the
// account has never been credited.
type AccountResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	TotalEarnings    *string `json:"total_earnings"`
	AvailableBalance *string `json:"available_balance"`
}

type SnapshotResponse struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	TotalEarnings    string `json:"total_earnings"`
	AvailableBalance string `json:"available_balance"`
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	svcReq := &service.CreateAccountRequest{
		AccountID: req.AccountID,
		UserID:    req.UserID,
	}

	var err error
	if svcReq.TotalEarnings, err = parseOptionalAmount(req.TotalEarnings); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid total_earnings format"))
		return
	}
	if svcReq.AvailableBalance, err = parseOptionalAmount(req.AvailableBalance); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid available_balance format"))
		return
	}

	account, err := h.ledgerService.CreateAccount(svcReq)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	account, err := h.ledgerService.GetAccount(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse(account))
}

// IncrementBalance handles POST /accounts/{account_id}/earnings.
func (h *AccountHandler) IncrementBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	var req IncrementBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}

	snapshot, err := h.ledgerService.IncrementBalance(accountID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := SnapshotResponse{
		ID:               snapshot.ID.String(),
		UserID:           snapshot.UserID.String(),
		TotalEarnings:    snapshot.TotalEarnings.String(),
		AvailableBalance: snapshot.AvailableBalance.String(),
	}

	writeJSON(w, http.StatusOK, response)
}

func accountResponse(account *domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:     account.ID.String(),
		UserID: account.UserID.String(),
	}
	if account.TotalEarnings.Valid {
		s := account.TotalEarnings.Decimal.String()
		resp.TotalEarnings = &s
	}
	if account.AvailableBalance.Valid {
		s := account.AvailableBalance.Decimal.String()
		resp.AvailableBalance = &s
	}
	return resp
}

func parseOptionalAmount(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
