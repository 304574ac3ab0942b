package domain

// Каналы доставки уведомлений.
const (
	ChannelSms   = "sms"
	ChannelEmail = "email"
)

// Notification описывает исходящее уведомление.
type Notification struct {
	Channels  []string
	Recipient string
	Subject   string
	Body      string
	// PatternCode и PatternParams используются для шаблонных SMS,
	// когда тело сообщения формирует сам провайдер.
	PatternCode   string
	PatternParams map[string]string
	// Provider позволяет направить SMS конкретному провайдеру
	// в обход порядка обхода по умолчанию.
	Provider string
}
