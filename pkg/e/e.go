package e

import "fmt"

var (
	// Ошибки взаимодействия с удалённой платформой
	ErrRemoteNotFound       = fmt.Errorf("remote entity not found")
	ErrRemoteAuth           = fmt.Errorf("remote authentication failed")
	ErrAlreadyExists        = fmt.Errorf("remote entity already exists")
	ErrAttributeProvision   = fmt.Errorf("attribute provisioning failed")
	ErrWebsiteNotFound      = fmt.Errorf("website not found after creation attempt")
	ErrAttributeGroupAbsent = fmt.Errorf("attribute set has no attribute groups")

	// Ошибки синхронизации каталога
	ErrEntryNotApproved = fmt.Errorf("entry is not approved for sync")
	ErrImageTooLarge    = fmt.Errorf("image exceeds size limit")

	// Ошибки доставки уведомлений
	ErrSending            = fmt.Errorf("provider sending failed")
	ErrAllProvidersFailed = fmt.Errorf("all sms providers failed")
	ErrUnknownProvider    = fmt.Errorf("unknown sms provider alias")
	ErrChannelRequired    = fmt.Errorf("channel and recipient must be set before sending")
	ErrUnsupportedChannel = fmt.Errorf("unsupported notification channel")
	ErrSmsContentType     = fmt.Errorf("sms content must be a string")
	ErrEmailContentType   = fmt.Errorf("email content must be an email message")

	// Ошибки леджера
	ErrAccountNotFound      = fmt.Errorf("bank account not found")
	ErrInsufficientBalance  = fmt.Errorf("insufficient balance")
	ErrAmountMustBePositive = fmt.Errorf("amount must be positive")
	ErrPaymentRefRequired   = fmt.Errorf("payment reference is required")
	ErrPaymentNotVerified   = fmt.Errorf("payment was not verified by the gateway")

	// 400 Bad Request
	ErrSkuRequired          = fmt.Errorf("sku is required")
	ErrNameRequired         = fmt.Errorf("name is required")
	ErrRecipientRequired    = fmt.Errorf("recipient is required")
	ErrNoRecords            = fmt.Errorf("no records provided")
	ErrInvalidReviewStatus  = fmt.Errorf("review status must be approved or rejected")
	ErrEntryNotFound        = fmt.Errorf("catalog entry not found")
	ErrStoreNotFound        = fmt.Errorf("store not found")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrNegativeStock        = fmt.Errorf("stock quantity must be non-negative")
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
