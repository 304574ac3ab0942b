package usecase

import "context"

// PlatformClient — клиент REST API удалённой коммерц-платформы.
type PlatformClient interface {
	GetProductBySku(ctx context.Context, sku string) (*RemoteProduct, error)
	CreateProduct(ctx context.Context, req *RemoteProductReq) (*RemoteProduct, error)
	UpdateProduct(ctx context.Context, sku string, req *RemoteProductReq) (*RemoteProduct, error)
	UploadProductMedia(ctx context.Context, sku string, req *MediaUploadReq) (int64, error)

	CreateWebsite(ctx context.Context, code, name string) (int64, error)
	ListWebsites(ctx context.Context) ([]RemoteWebsite, error)
	CreateStoreGroup(ctx context.Context, websiteID int64, code, name string, rootCategoryID int64) (int64, error)
	CreateStoreView(ctx context.Context, websiteID, groupID int64, code, name string) (int64, error)
	CountCustomersByWebsite(ctx context.Context, websiteID int64) (int64, error)
}

// AttributeSession кэширует сведения об атрибутах удалённой платформы
// в пределах одного прогона синхронизации: не более одного зондирующего
// запроса на код атрибута и одной выборки опций.
type AttributeSession interface {
	EnsureAttribute(ctx context.Context, code, label, frontendInput string) error
	OptionID(ctx context.Context, code, label string) (string, error)
}

// AttributeSessionFactory выдаёт свежую сессию на каждый прогон синхронизации.
type AttributeSessionFactory interface {
	NewSession() AttributeSession
}

// SmsStrategy — один SMS-провайдер.
type SmsStrategy interface {
	Name() string
	Send(ctx context.Context, recipient, body string) error
	SendPattern(ctx context.Context, recipient, patternCode string, params map[string]string) error
	Credit(ctx context.Context) (float64, error)
}

// EmailStrategy — транспорт электронной почты.
type EmailStrategy interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// ImageFetcher скачивает изображение по URL источника.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string, sizeLimit int64) (*FetchedImage, error)
}

// BlobStorage — объектное хранилище для копий изображений.
// Stat позволяет проверить размер объекта до чтения содержимого.
type BlobStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Stat(ctx context.Context, key string) (*BlobStat, error)
}

// PaymentProvider — внешний платёжный шлюз. Подтверждение платежа
// выполняется строго до зачисления средств на счёт.
type PaymentProvider interface {
	VerifyPayment(ctx context.Context, refID string, amount int64) (*PaymentReceipt, error)
}

// EventProducer публикует события о завершённой синхронизации.
type EventProducer interface {
	PublishEntrySynced(ctx context.Context, event *EntrySyncedEvent) error
}
