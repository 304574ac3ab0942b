package domain

import "time"

// Store описывает витрину продавца: тройку «сайт, группа магазинов,
// представление магазина» на удалённой платформе.
type Store struct {
	ID             int64
	OwnerID        int64
	Name           string
	Code           string // уникальный код вида xxxx_name
	WebsiteID      int64
	StoreGroupID   int64
	StoreViewID    int64
	RootCategoryID int64
	CreatedAt      time.Time
}

func NewStore(ownerID int64, name, code string) *Store {
	return &Store{
		OwnerID: ownerID,
		Name:    name,
		Code:    code,
	}
}
