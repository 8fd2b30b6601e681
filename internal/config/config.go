package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// SessionTTL is the sliding expiry window for idle USSD sessions.
	SessionTTL time.Duration
	// RepoTimeout bounds every repository and notification call so a stalled
	// dependency cannot hold a session lock indefinitely.
	RepoTimeout time.Duration

	// CountryCode is the international dialing prefix used to canonicalise
	// subscriber numbers (e.g. "233").
	CountryCode string
	// RegistrationFields is the ordered field schema of the registration
	// flow for this deployment.
	RegistrationFields []string
	LoanMinAmount      int
	LoanMaxAmount      int

	JWTPublicKeyPath  string
	JWTPrivateKeyPath string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Identities string
	Loans      string
	Activities string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Identities: getEnv("DYNAMO_TABLE_IDENTITIES", "identities"),
			Loans:      getEnv("DYNAMO_TABLE_LOANS", "loans"),
			Activities: getEnv("DYNAMO_TABLE_ACTIVITIES", "activities"),
		},

		SessionTTL:  time.Duration(getEnvInt("SESSION_TTL_MINUTES", 15)) * time.Minute,
		RepoTimeout: time.Duration(getEnvInt("REPO_TIMEOUT_SECONDS", 5)) * time.Second,

		CountryCode:        getEnv("COUNTRY_CODE", "233"),
		RegistrationFields: strings.Split(getEnv("REGISTRATION_FIELDS", "name,id_card"), ","),
		LoanMinAmount:      getEnvInt("LOAN_MIN_AMOUNT", 10),
		LoanMaxAmount:      getEnvInt("LOAN_MAX_AMOUNT", 1000),

		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@sikacredit.example"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
