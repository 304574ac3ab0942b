package domain

import "time"

// BankAccount описывает денежный счёт владельца магазина.
type BankAccount struct {
	ID        int64
	OwnerID   int64
	Balance   int64 // Баланс хранится в минорных единицах
	Currency  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Направления движения средств по счёту.
const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
	TransactionPayment    = "payment" // зачисление по подтверждённому платежу шлюза
)

// Transaction описывает движение средств по счёту.
type Transaction struct {
	ID        int64
	AccountID int64
	Kind      string
	Amount    int64 // всегда положительное значение, направление задаёт Kind
	Reference string
	CreatedAt time.Time
}
