package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/internal/repository/pgdb/converter"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/tr"
)

// LedgerRepo реализует репозиторий счетов и движений средств.
type LedgerRepo struct {
	pool *pgxpool.Pool
	conv converter.LedgerConverter
}

func NewLedgerRepo(pool *pgxpool.Pool, conv converter.LedgerConverter) *LedgerRepo {
	return &LedgerRepo{
		pool: pool,
		conv: conv,
	}
}

func (r *LedgerRepo) GetAccountByOwner(ctx context.Context, ownerID int64) (*domain.BankAccount, error) {
	query := `
		SELECT id, owner_id, balance, currency, created_at, updated_at
		FROM bank_accounts
		WHERE owner_id = $1
	`

	return r.scanAccount(ctx, query, ownerID)
}

// GetAccountForUpdate читает счёт с блокировкой строки.
// Вызывается только внутри транзакции.
func (r *LedgerRepo) GetAccountForUpdate(ctx context.Context, ownerID int64) (*domain.BankAccount, error) {
	query := `
		SELECT id, owner_id, balance, currency, created_at, updated_at
		FROM bank_accounts
		WHERE owner_id = $1
		FOR UPDATE
	`

	return r.scanAccount(ctx, query, ownerID)
}

// GetOrCreateAccountForUpdate заводит счёт владельца при первом обращении
// и читает его с блокировкой строки. Вызывается только внутри транзакции.
func (r *LedgerRepo) GetOrCreateAccountForUpdate(ctx context.Context, ownerID int64) (*domain.BankAccount, error) {
	insert := `
		INSERT INTO bank_accounts (owner_id)
		VALUES ($1)
		ON CONFLICT (owner_id) DO NOTHING
	`

	if _, err := tr.Executor(ctx, r.pool).Exec(ctx, insert, ownerID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.GetAccountForUpdate(ctx, ownerID)
}

func (r *LedgerRepo) UpdateBalance(ctx context.Context, accountID int64, balance int64) error {
	query := `UPDATE bank_accounts SET balance = $2, updated_at = NOW() WHERE id = $1`

	tag, err := tr.Executor(ctx, r.pool).Exec(ctx, query, accountID, balance)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrAccountNotFound)
	}

	return nil
}

func (r *LedgerRepo) InsertTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (account_id, kind, amount, reference)
		VALUES ($1, $2, $3, $4)
		RETURNING id, account_id, kind, amount, reference, created_at
	`

	var model converter.TransactionModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query,
		transaction.AccountID, transaction.Kind, transaction.Amount, transaction.Reference,
	).Scan(
		&model.ID, &model.AccountID, &model.Kind,
		&model.Amount, &model.Reference, &model.CreatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.TransactionToEntity(&model), nil
}

// ListTransactions возвращает последние движения по счёту, новые первыми.
func (r *LedgerRepo) ListTransactions(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT id, account_id, kind, amount, reference, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := tr.Executor(ctx, r.pool).Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		var model converter.TransactionModel
		if err := rows.Scan(
			&model.ID, &model.AccountID, &model.Kind,
			&model.Amount, &model.Reference, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *r.conv.TransactionToEntity(&model))
	}

	return result, nil
}

func (r *LedgerRepo) scanAccount(ctx context.Context, query string, ownerID int64) (*domain.BankAccount, error) {
	var model converter.BankAccountModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, ownerID).Scan(
		&model.ID, &model.OwnerID, &model.Balance,
		&model.Currency, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrAccountNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.AccountToEntity(&model), nil
}
