package usecase

import (
	"context"
	"testing"

	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture(balance int64) (*fakeLedgerRepo, *fakeTrManager, *LedgerUseCase) {
	repo := &fakeLedgerRepo{account: &domain.BankAccount{ID: 1, OwnerID: 9, Balance: balance, Currency: "USD"}}
	trm := &fakeTrManager{}
	uc := NewLedgerUC(repo, &fakePaymentProvider{}, trm, testLogger{})

	return repo, trm, uc
}

func TestDeposit_RequiresPositiveAmount(t *testing.T) {
	_, _, uc := newLedgerFixture(0)

	_, err := uc.Deposit(context.Background(), &LedgerOpReq{OwnerID: 9, Amount: 0})

	assert.ErrorIs(t, err, e.ErrAmountMustBePositive)
}

func TestDeposit_UpdatesBalanceAndRecordsTransaction(t *testing.T) {
	repo, trm, uc := newLedgerFixture(1000)

	account, err := uc.Deposit(context.Background(), &LedgerOpReq{OwnerID: 9, Amount: 250, Reference: "top-up"})

	require.NoError(t, err)
	assert.Equal(t, 1, trm.calls)
	assert.Equal(t, int64(1250), repo.balance)
	assert.Equal(t, int64(1250), account.Balance)

	require.Len(t, repo.transactions, 1)
	assert.Equal(t, domain.TransactionDeposit, repo.transactions[0].Kind)
	assert.Equal(t, int64(250), repo.transactions[0].Amount)
	assert.Equal(t, "top-up", repo.transactions[0].Reference)
}

func TestDeposit_CreatesAccountOnFirstCredit(t *testing.T) {
	repo := &fakeLedgerRepo{}
	uc := NewLedgerUC(repo, &fakePaymentProvider{}, &fakeTrManager{}, testLogger{})

	account, err := uc.Deposit(context.Background(), &LedgerOpReq{OwnerID: 9, Amount: 500, Reference: "first top-up"})

	require.NoError(t, err)
	assert.True(t, repo.created, "account must be created lazily on first credit")
	assert.Equal(t, int64(9), account.OwnerID)
	assert.Equal(t, int64(500), account.Balance)
	require.Len(t, repo.transactions, 1)
	assert.Equal(t, domain.TransactionDeposit, repo.transactions[0].Kind)
}

func TestVerifyPayment_CreditsVerifiedAmount(t *testing.T) {
	repo := &fakeLedgerRepo{}
	payments := &fakePaymentProvider{receipt: &PaymentReceipt{RefID: "ref-77", Amount: 900, CardNumber: "6037****1234"}}
	uc := NewLedgerUC(repo, payments, &fakeTrManager{}, testLogger{})

	account, err := uc.VerifyPayment(context.Background(), &PaymentVerifyReq{OwnerID: 9, RefID: "ref-77", Amount: 900})

	require.NoError(t, err)
	require.Len(t, payments.calls, 1)
	assert.Equal(t, "ref-77", payments.calls[0].refID)
	assert.Equal(t, int64(900), payments.calls[0].amount)

	// Зачисляется сумма из квитанции шлюза, а не из запроса
	assert.Equal(t, int64(900), account.Balance)
	require.Len(t, repo.transactions, 1)
	assert.Equal(t, domain.TransactionPayment, repo.transactions[0].Kind)
	assert.Equal(t, "ref-77", repo.transactions[0].Reference)
}

func TestVerifyPayment_GatewayRejectionLeavesBalanceUntouched(t *testing.T) {
	repo, _, uc := newLedgerFixture(1000)
	payments := &fakePaymentProvider{err: e.ErrPaymentNotVerified}
	uc = NewLedgerUC(repo, payments, &fakeTrManager{}, testLogger{})

	_, err := uc.VerifyPayment(context.Background(), &PaymentVerifyReq{OwnerID: 9, RefID: "ref-77", Amount: 900})

	assert.ErrorIs(t, err, e.ErrPaymentNotVerified)
	assert.False(t, repo.balanceSet)
	assert.Empty(t, repo.transactions)
}

func TestVerifyPayment_RequiresRefID(t *testing.T) {
	_, _, uc := newLedgerFixture(0)

	_, err := uc.VerifyPayment(context.Background(), &PaymentVerifyReq{OwnerID: 9, Amount: 900})

	assert.ErrorIs(t, err, e.ErrPaymentRefRequired)
}

func TestWithdraw_AbsentAccountIsNotCreated(t *testing.T) {
	repo := &fakeLedgerRepo{}
	uc := NewLedgerUC(repo, &fakePaymentProvider{}, &fakeTrManager{}, testLogger{})

	_, err := uc.Withdraw(context.Background(), &LedgerOpReq{OwnerID: 9, Amount: 100})

	assert.ErrorIs(t, err, e.ErrAccountNotFound)
	assert.False(t, repo.created)
}

func TestWithdraw_InsufficientBalance(t *testing.T) {
	repo, _, uc := newLedgerFixture(100)

	_, err := uc.Withdraw(context.Background(), &LedgerOpReq{OwnerID: 9, Amount: 250})

	assert.ErrorIs(t, err, e.ErrInsufficientBalance)
	assert.False(t, repo.balanceSet, "balance must stay untouched when the withdrawal is rejected")
	assert.Empty(t, repo.transactions)
}

func TestWithdraw_UpdatesBalance(t *testing.T) {
	repo, _, uc := newLedgerFixture(1000)

	account, err := uc.Withdraw(context.Background(), &LedgerOpReq{OwnerID: 9, Amount: 400, Reference: "payout"})

	require.NoError(t, err)
	assert.Equal(t, int64(600), repo.balance)
	assert.Equal(t, int64(600), account.Balance)

	require.Len(t, repo.transactions, 1)
	assert.Equal(t, domain.TransactionWithdrawal, repo.transactions[0].Kind)
}

func TestBalance_AccountNotFound(t *testing.T) {
	repo, _, uc := newLedgerFixture(0)
	repo.accountErr = e.ErrAccountNotFound

	_, err := uc.Balance(context.Background(), 9)

	assert.ErrorIs(t, err, e.ErrAccountNotFound)
}

func TestTransactions_DefaultLimit(t *testing.T) {
	repo, _, uc := newLedgerFixture(1000)
	repo.listResult = []domain.Transaction{{ID: 2, Kind: domain.TransactionDeposit, Amount: 100}}

	transactions, err := uc.Transactions(context.Background(), 9, 0)

	require.NoError(t, err)
	assert.Equal(t, defaultTransactionsLimit, repo.listLimit)
	require.Len(t, transactions, 1)
	assert.Equal(t, int64(2), transactions[0].ID)
}
