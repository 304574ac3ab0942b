package usecase

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

const defaultTransactionsLimit = 50

// LedgerUseCase ведёт счета владельцев магазинов. Баланс меняется только
// через пополнение, списание и зачисление подтверждённого платежа;
// все операции выполняются в транзакции с блокировкой строки счёта.
// Счёт заводится лениво при первом зачислении.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	payments   PaymentProvider
	trManager  trm.Manager
	logger     logger.Logger
}

func NewLedgerUC(
	ledgerRepo LedgerRepository,
	payments PaymentProvider,
	trManager trm.Manager,
	logger logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		payments:   payments,
		trManager:  trManager,
		logger:     logger,
	}
}

// Deposit зачисляет средства на счёт владельца,
// создавая счёт при первом обращении.
func (l *LedgerUseCase) Deposit(ctx context.Context, req *LedgerOpReq) (*AccountInfo, error) {
	const op = "LedgerUseCase.Deposit"

	if req.Amount <= 0 {
		return nil, e.Wrap(op, e.ErrAmountMustBePositive)
	}

	result, err := l.credit(ctx, req.OwnerID, req.Amount, domain.TransactionDeposit, req.Reference)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return result, nil
}

// VerifyPayment подтверждает платёж у шлюза и зачисляет его на счёт
// владельца. Средства не двигаются, пока шлюз не подтвердил платёж.
func (l *LedgerUseCase) VerifyPayment(ctx context.Context, req *PaymentVerifyReq) (*AccountInfo, error) {
	const op = "LedgerUseCase.VerifyPayment"

	if req.RefID == "" {
		return nil, e.Wrap(op, e.ErrPaymentRefRequired)
	}

	if req.Amount <= 0 {
		return nil, e.Wrap(op, e.ErrAmountMustBePositive)
	}

	receipt, err := l.payments.VerifyPayment(ctx, req.RefID, req.Amount)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result, err := l.credit(ctx, req.OwnerID, receipt.Amount, domain.TransactionPayment, req.RefID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	l.logger.Infof("payment credited. owner: %d, ref: %s, amount: %d", req.OwnerID, req.RefID, receipt.Amount)
	return result, nil
}

// credit выполняет зачисление с ленивым созданием счёта.
func (l *LedgerUseCase) credit(ctx context.Context, ownerID, amount int64, kind, reference string) (*AccountInfo, error) {
	var result *AccountInfo
	err := l.trManager.Do(ctx, func(ctx context.Context) error {
		account, err := l.ledgerRepo.GetOrCreateAccountForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}

		if err := l.ledgerRepo.UpdateBalance(ctx, account.ID, account.Balance+amount); err != nil {
			return err
		}

		if _, err := l.ledgerRepo.InsertTransaction(ctx, &domain.Transaction{
			AccountID: account.ID,
			Kind:      kind,
			Amount:    amount,
			Reference: reference,
		}); err != nil {
			return err
		}

		account.Balance += amount
		result = NewAccountInfo(account)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Withdraw списывает средства со счёта владельца.
// Списание сверх остатка отклоняется внутри той же транзакции.
func (l *LedgerUseCase) Withdraw(ctx context.Context, req *LedgerOpReq) (*AccountInfo, error) {
	const op = "LedgerUseCase.Withdraw"

	if req.Amount <= 0 {
		return nil, e.Wrap(op, e.ErrAmountMustBePositive)
	}

	var result *AccountInfo
	err := l.trManager.Do(ctx, func(ctx context.Context) error {
		account, err := l.ledgerRepo.GetAccountForUpdate(ctx, req.OwnerID)
		if err != nil {
			return err
		}

		if account.Balance < req.Amount {
			return e.ErrInsufficientBalance
		}

		if err := l.ledgerRepo.UpdateBalance(ctx, account.ID, account.Balance-req.Amount); err != nil {
			return err
		}

		if _, err := l.ledgerRepo.InsertTransaction(ctx, &domain.Transaction{
			AccountID: account.ID,
			Kind:      domain.TransactionWithdrawal,
			Amount:    req.Amount,
			Reference: req.Reference,
		}); err != nil {
			return err
		}

		account.Balance -= req.Amount
		result = NewAccountInfo(account)
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return result, nil
}

// Balance возвращает текущее состояние счёта владельца.
func (l *LedgerUseCase) Balance(ctx context.Context, ownerID int64) (*AccountInfo, error) {
	const op = "LedgerUseCase.Balance"

	account, err := l.ledgerRepo.GetAccountByOwner(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewAccountInfo(account), nil
}

// Transactions возвращает последние движения по счёту владельца.
func (l *LedgerUseCase) Transactions(ctx context.Context, ownerID int64, limit int) ([]TransactionInfo, error) {
	const op = "LedgerUseCase.Transactions"

	if limit <= 0 {
		limit = defaultTransactionsLimit
	}

	account, err := l.ledgerRepo.GetAccountByOwner(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	transactions, err := l.ledgerRepo.ListTransactions(ctx, account.ID, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]TransactionInfo, 0, len(transactions))
	for i := range transactions {
		result = append(result, NewTransactionInfo(&transactions[i]))
	}

	return result, nil
}
