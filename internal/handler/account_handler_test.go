package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"earnings-ledger/internal/domain"
	"earnings-ledger/internal/errors"
	"earnings-ledger/internal/service"
)

type stubAccountRepo struct {
	accounts map[uuid.UUID]*domain.Account
}

func (s *stubAccountRepo) CreateAccount(account *domain.Account) error {
	if _, ok := s.accounts[account.ID]; ok {
		return errors.ErrDuplicateAccount
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *stubAccountRepo) GetAccount(id uuid.UUID) (*domain.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, errors.NewAppErrorf(errors.AccountNotFound, "account %s not found", id)
	}
	return a, nil
}

func (s *stubAccountRepo) IncrementBalance(id uuid.UUID, amount decimal.Decimal) (*domain.AccountSnapshot, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, errors.NewAppErrorf(errors.AccountNotFound, "account %s not found", id)
	}
	total := decimal.Zero
	if a.TotalEarnings.Valid {
		total = a.TotalEarnings.Decimal
	}
	available := decimal.Zero
	if a.AvailableBalance.Valid {
		available = a.AvailableBalance.Decimal
	}
	a.TotalEarnings = decimal.NullDecimal{Decimal: total.Add(amount), Valid: true}
	a.AvailableBalance = decimal.NullDecimal{Decimal: available.Add(amount), Valid: true}
	return &domain.AccountSnapshot{
		ID:               a.ID,
		UserID:           a.UserID,
		TotalEarnings:    a.TotalEarnings.Decimal,
		AvailableBalance: a.AvailableBalance.Decimal,
	}, nil
}

func newTestRouter(repo *stubAccountRepo) *mux.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewAccountHandler(service.NewLedgerService(repo, logger))

	router := mux.NewRouter()
	router.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts/{account_id}", h.GetAccount).Methods("GET")
	router.HandleFunc("/accounts/{account_id}/earnings", h.IncrementBalance).Methods("POST")
	return router
}

func doJSON(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIncrementBalanceHandler(t *testing.T) {
	account := &domain.Account{ID: uuid.New(), UserID: uuid.New()}
	repo := &stubAccountRepo{accounts: map[uuid.UUID]*domain.Account{account.ID: account}}
	router := newTestRouter(repo)

	rec := doJSON(router, http.MethodPost, "/accounts/"+account.ID.String()+"/earnings", `{"amount":"25.00"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data SnapshotResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, account.ID.String(), resp.Data.ID)
	assert.Equal(t, account.UserID.String(), resp.Data.UserID)
	total, err := decimal.NewFromString(resp.Data.TotalEarnings)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(25)))

	available, err := decimal.NewFromString(resp.Data.AvailableBalance)
	assert.NoError(t, err)
	assert.True(t, available.Equal(decimal.NewFromInt(25)))
}

func TestIncrementBalanceHandlerBadBody(t *testing.T) {
	router := newTestRouter(&stubAccountRepo{accounts: map[uuid.UUID]*domain.Account{}})

	rec := doJSON(router, http.MethodPost, "/accounts/"+uuid.New().String()+"/earnings", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_input")
}

func TestIncrementBalanceHandlerBadAmount(t *testing.T) {
	router := newTestRouter(&stubAccountRepo{accounts: map[uuid.UUID]*domain.Account{}})

	rec := doJSON(router, http.MethodPost, "/accounts/"+uuid.New().String()+"/earnings", `{"amount":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_amount")
}

func TestIncrementBalanceHandlerNotFound(t *testing.T) {
	router := newTestRouter(&stubAccountRepo{accounts: map[uuid.UUID]*domain.Account{}})
	missing := uuid.New().String()

	rec := doJSON(router, http.MethodPost, "/accounts/"+missing+"/earnings", `{"amount":"5.00"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), missing)
}

func TestGetAccountHandlerNullBalances(t *testing.T) {
	account := &domain.Account{ID: uuid.New(), UserID: uuid.New()}
	repo := &stubAccountRepo{accounts: map[uuid.UUID]*domain.Account{account.ID: account}}
	router := newTestRouter(repo)

	rec := doJSON(router, http.MethodGet, "/accounts/"+account.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data AccountResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.TotalEarnings)
	assert.Nil(t, resp.Data.AvailableBalance)
}

func TestCreateAccountHandler(t *testing.T) {
	repo := &stubAccountRepo{accounts: map[uuid.UUID]*domain.Account{}}
	router := newTestRouter(repo)

	body := `{"user_id":"` + uuid.New().String() + `","total_earnings":"100.00","available_balance":"40.00"}`
	rec := doJSON(router, http.MethodPost, "/accounts", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.accounts, 1)
}
