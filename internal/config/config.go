package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Daraja (M-Pesa) gateway
	MpesaBaseURL        string
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaShortcode      string
	MpesaPasskey        string
	MpesaCallbackURL    string
	MpesaTimeoutSecs    int

	// Lifecycle knobs
	IntentTTL         time.Duration
	SweepInterval     time.Duration
	AccrualInterval   time.Duration
	StrictAmount      bool
	CronKey           string
	WithdrawalMin     decimal.Decimal
	WithdrawalFlatFee decimal.Decimal
	LogLevel          string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getdur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

func getdec(k, d string) decimal.Decimal {
	if v := os.Getenv(k); v != "" {
		if dec, err := decimal.NewFromString(v); err == nil {
			return dec
		}
	}
	dec, _ := decimal.NewFromString(d)
	return dec
}

func Load() *Config {
	// Best effort: local dev keeps settings in .env, deployments use real env.
	_ = godotenv.Load()

	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "pesavest"),
		MySQLUser: getenv("MYSQL_USER", "pesavest"),
		MySQLPass: getenv("MYSQL_PASS", "pesavest"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		MpesaBaseURL:        getenv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		MpesaConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		MpesaConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		MpesaShortcode:      getenv("MPESA_SHORTCODE", "174379"),
		MpesaPasskey:        os.Getenv("MPESA_PASSKEY"),
		MpesaCallbackURL:    os.Getenv("MPESA_CALLBACK_URL"),
		MpesaTimeoutSecs:    getint("MPESA_TIMEOUT_SECONDS", 30),

		IntentTTL:         getdur("INTENT_TTL", 10*time.Minute),
		SweepInterval:     getdur("SWEEP_INTERVAL", time.Minute),
		AccrualInterval:   getdur("ACCRUAL_INTERVAL", 24*time.Hour),
		StrictAmount:      getenv("PAYMENT_STRICT_AMOUNT", "false") == "true",
		CronKey:           os.Getenv("CRON_KEY"),
		WithdrawalMin:     getdec("WITHDRAWAL_MIN", "100"),
		WithdrawalFlatFee: getdec("WITHDRAWAL_FLAT_FEE", "0"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.CronKey == "" {
		return errors.New("missing CRON_KEY (admin trigger endpoints would be open)")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) MpesaTimeout() time.Duration {
	return time.Duration(c.MpesaTimeoutSecs) * time.Second
}
