package domain

import "time"

// CategoryMapping связывает название категории источника с идентификатором
// категории на удалённой платформе. IsMapped выводится из заполненности
// идентификатора и никогда не задаётся снаружи.
type CategoryMapping struct {
	ID                int64
	SourceName        string
	MagentoCategoryID *int64
	IsMapped          bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// Типы атрибутов, поддерживаемые удалённой платформой.
const (
	AttributeTypeSelect   = "select"
	AttributeTypeText     = "text"
	AttributeTypeTextarea = "textarea"
)

// AttributeMapping связывает метку атрибута источника с кодом атрибута
// на удалённой платформе.
type AttributeMapping struct {
	ID                   int64
	SourceLabel          string
	MagentoAttributeCode *string
	MagentoAttributeType string
	IsMapped             bool
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}
