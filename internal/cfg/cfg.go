package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

type Config struct {
	Db      *PGDBCfg
	Http    *HTTPConfig
	Redis   *RedisCfg
	Minio   *MinIOCfg
	Kafka   *KafkaCfg
	Magento *MagentoCfg
	Sms     *SmsCfg
	Smtp    *SmtpCfg
	Payment *PaymentCfg
	Worker  *WorkerCfg
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	EntryTTL    time.Duration
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// MagentoCfg — параметры подключения к удалённой коммерц-платформе.
type MagentoCfg struct {
	BaseURL        string
	Username       string
	Password       string
	AttributeSetID int64         // набор атрибутов, в который заводятся пользовательские атрибуты
	RootCategoryID int64         // корневая категория для групп магазинов
	Timeout        time.Duration // таймаут каждого удалённого вызова
	TokenTTL       time.Duration // срок жизни bearer-токена
}

// SmsCfg — провайдеры SMS и порядок обхода при отказе.
type SmsCfg struct {
	Default       string
	FailoverOrder []string
	Providers     map[string]*SmsProviderCfg
}

type SmsProviderCfg struct {
	ApiKey string
	Secret string
	Sender string
	URL    string
}

// PaymentCfg — параметры платёжного шлюза PayPing.
type PaymentCfg struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type SmtpCfg struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// WorkerCfg — параметры фонового исполнителя задач.
type WorkerCfg struct {
	ClaimBatchSize   int
	PollInterval     time.Duration
	IngestBatchSize  int           // размер пакета при массовом импорте
	ImageMaxAttempts int           // число попыток загрузки изображения
	ImageBackoff     time.Duration // фиксированная пауза между попытками
	ImageSizeLimit   int64         // потолок размера изображения в байтах
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	magento, err := loadMagentoCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	sms, err := loadSmsCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	smtp, err := loadSmtpCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	payment, err := loadPaymentCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	worker, err := loadWorkerCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Db:      db,
		Http:    http,
		Redis:   redis,
		Minio:   minio,
		Kafka:   kafka,
		Magento: magento,
		Sms:     sms,
		Smtp:    smtp,
		Payment: payment,
		Worker:  worker,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultEntryTTL     = 3 * time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	entryTTL, err := parseDurationEnv("ENTRY_TTL", defaultEntryTTL)
	if err != nil {
		log.Errorf(err, "invalid ENTRY_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		EntryTTL:    entryTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnv("BUCKET_NAME"),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadMagentoCfg(log logger.Logger) (*MagentoCfg, error) {
	const (
		defaultAttributeSetID = 10
		defaultRootCategoryID = 2
		defaultTimeout        = 120 * time.Second
		defaultTokenTTL       = 24 * time.Hour
	)

	baseURL := getEnv("MAGENTO_BASE_URL")
	if baseURL == "" {
		err := fmt.Errorf("MAGENTO_BASE_URL is required")
		log.Errorf(err, "missing MAGENTO_BASE_URL")
		return nil, err
	}

	username := getEnv("MAGENTO_USERNAME")
	password := getEnv("MAGENTO_PASSWORD")
	if username == "" || password == "" {
		err := fmt.Errorf("MAGENTO_USERNAME and MAGENTO_PASSWORD are required")
		log.Errorf(err, "missing Magento credentials")
		return nil, err
	}

	attributeSetID, err := parseIntEnv("MAGENTO_ATTRIBUTE_SET_ID", defaultAttributeSetID)
	if err != nil {
		log.Errorf(err, "invalid MAGENTO_ATTRIBUTE_SET_ID")
		return nil, err
	}

	rootCategoryID, err := parseIntEnv("MAGENTO_ROOT_CATEGORY_ID", defaultRootCategoryID)
	if err != nil {
		log.Errorf(err, "invalid MAGENTO_ROOT_CATEGORY_ID")
		return nil, err
	}

	timeout, err := parseDurationEnv("MAGENTO_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid MAGENTO_TIMEOUT")
		return nil, err
	}

	tokenTTL, err := parseDurationEnv("MAGENTO_TOKEN_TTL", defaultTokenTTL)
	if err != nil {
		log.Errorf(err, "invalid MAGENTO_TOKEN_TTL")
		return nil, err
	}

	return &MagentoCfg{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		Username:       username,
		Password:       password,
		AttributeSetID: int64(attributeSetID),
		RootCategoryID: int64(rootCategoryID),
		Timeout:        timeout,
		TokenTTL:       tokenTTL,
	}, nil
}

func loadSmsCfg() (*SmsCfg, error) {
	const (
		defaultProvider = "farazsms"
		defaultOrder    = "farazsms,smsir"
		defaultFarazURL = "https://api.farazsms.com/v1/sms/send"
		defaultSmsIrURL = "https://api.sms.ir/v1/send"
	)

	order := strings.Split(getEnvOrDefault("SMS_FAILOVER_ORDER", defaultOrder), ",")
	for i := range order {
		order[i] = strings.TrimSpace(order[i])
	}

	providers := map[string]*SmsProviderCfg{
		"farazsms": {
			ApiKey: getEnv("FARAZ_SMS_API_KEY"),
			Sender: getEnvOrDefault("FARAZ_SMS_SENDER", "500012345"),
			URL:    getEnvOrDefault("FARAZ_SMS_URL", defaultFarazURL),
		},
		"smsir": {
			ApiKey: getEnv("SMSIR_API_KEY"),
			Secret: getEnv("SMSIR_SECRET"),
			URL:    getEnvOrDefault("SMSIR_URL", defaultSmsIrURL),
		},
	}

	return &SmsCfg{
		Default:       getEnvOrDefault("SMS_PROVIDER", defaultProvider),
		FailoverOrder: order,
		Providers:     providers,
	}, nil
}

func loadSmtpCfg(log logger.Logger) (*SmtpCfg, error) {
	const defaultPort = 587

	port, err := parseIntEnv("SMTP_PORT", defaultPort)
	if err != nil {
		log.Errorf(err, "invalid SMTP_PORT")
		return nil, err
	}

	return &SmtpCfg{
		Host:     getEnvOrDefault("SMTP_HOST", "localhost"),
		Port:     port,
		Username: getEnv("SMTP_USERNAME"),
		Password: getEnv("SMTP_PASSWORD"),
		From:     getEnvOrDefault("SMTP_FROM", "noreply@storeforge.local"),
		FromName: getEnvOrDefault("SMTP_FROM_NAME", "StoreForge"),
	}, nil
}

func loadPaymentCfg(log logger.Logger) (*PaymentCfg, error) {
	const (
		defaultBaseURL = "https://api.payping.ir"
		defaultTimeout = 30 * time.Second
	)

	timeout, err := parseDurationEnv("PAYPING_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid PAYPING_TIMEOUT")
		return nil, err
	}

	return &PaymentCfg{
		BaseURL: strings.TrimRight(getEnvOrDefault("PAYPING_BASE_URL", defaultBaseURL), "/"),
		Token:   getEnv("PAYPING_TOKEN"),
		Timeout: timeout,
	}, nil
}

func loadWorkerCfg(log logger.Logger) (*WorkerCfg, error) {
	const (
		defaultClaimBatchSize   = 10
		defaultPollInterval     = 5 * time.Second
		defaultIngestBatchSize  = 500
		defaultImageMaxAttempts = 3
		defaultImageBackoff     = 60 * time.Second
		defaultImageSizeLimit   = 10 << 20
	)

	claimBatchSize, err := parseIntEnv("WORKER_CLAIM_BATCH_SIZE", defaultClaimBatchSize)
	if err != nil {
		log.Errorf(err, "invalid WORKER_CLAIM_BATCH_SIZE")
		return nil, err
	}

	pollInterval, err := parseDurationEnv("WORKER_POLL_INTERVAL", defaultPollInterval)
	if err != nil {
		log.Errorf(err, "invalid WORKER_POLL_INTERVAL")
		return nil, err
	}

	ingestBatchSize, err := parseIntEnv("INGEST_BATCH_SIZE", defaultIngestBatchSize)
	if err != nil {
		log.Errorf(err, "invalid INGEST_BATCH_SIZE")
		return nil, err
	}

	imageMaxAttempts, err := parseIntEnv("IMAGE_MAX_ATTEMPTS", defaultImageMaxAttempts)
	if err != nil {
		log.Errorf(err, "invalid IMAGE_MAX_ATTEMPTS")
		return nil, err
	}

	imageBackoff, err := parseDurationEnv("IMAGE_RETRY_BACKOFF", defaultImageBackoff)
	if err != nil {
		log.Errorf(err, "invalid IMAGE_RETRY_BACKOFF")
		return nil, err
	}

	return &WorkerCfg{
		ClaimBatchSize:   claimBatchSize,
		PollInterval:     pollInterval,
		IngestBatchSize:  ingestBatchSize,
		ImageMaxAttempts: imageMaxAttempts,
		ImageBackoff:     imageBackoff,
		ImageSizeLimit:   defaultImageSizeLimit,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
