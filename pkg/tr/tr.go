package tr

import (
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier — минимальный набор операций, нужный репозиториям.
// Его реализуют и pgxpool.Pool, и pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Executor возвращает активную транзакцию из контекста менеджера транзакций
// или сам пул, если транзакция не открыта.
func Executor(ctx context.Context, pool *pgxpool.Pool) Querier {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, pool)
}
