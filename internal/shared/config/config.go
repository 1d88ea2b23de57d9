package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	ctopics "github.com/radieske/raphbet-wallet/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução do serviço
// Inclui conexões opcionais, tópicos, portas e as constantes da carteira virtual
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string
	LogLevel    string

	// Conexões opcionais: vazio desliga o sink correspondente
	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos
	TopicBetPlaced    string
	TopicBetSettled   string
	TopicTransactions string

	// Portas do serviço
	HTTPPort    string // API pública
	MetricsPort string // /metrics e /healthz

	Wallet WalletConfig
}

// WalletConfig reúne as constantes canônicas da carteira (saldo inicial,
// probabilidade de vitória, janela de liquidação) e limites da API
type WalletConfig struct {
	InitialBalance      int64
	DefaultWager        int64
	WinProbability      float64
	SettleMinDelay      time.Duration
	SettleMaxDelay      time.Duration
	TopUpMin            int64
	TopUpMax            int64
	SessionTTL          time.Duration
	RequireVerification bool
	EventBuffer         int
}

// Load carrega um .env opcional, lê as variáveis de ambiente e aplica defaults
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("ENV", "local"),
		ServiceName: getEnv("SERVICE_NAME", "wallet-service"),
		LogLevel:    getEnv("LOG_LEVEL", ""),

		PostgresDSN:  getEnv("POSTGRES_DSN", ""),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),

		TopicBetPlaced:    getEnv("KAFKA_TOPIC_BET_PLACED", ctopics.BetPlaced),
		TopicBetSettled:   getEnv("KAFKA_TOPIC_BET_SETTLED", ctopics.BetSettled),
		TopicTransactions: getEnv("KAFKA_TOPIC_WALLET_TRANSACTIONS", ctopics.WalletTransactions),

		HTTPPort:    getEnv("HTTP_PORT_WALLET", "8082"),
		MetricsPort: getEnv("METRICS_PORT_WALLET", "9098"),

		Wallet: WalletConfig{
			InitialBalance:      getInt64("WALLET_INITIAL_BALANCE", 100000),
			DefaultWager:        getInt64("WALLET_DEFAULT_WAGER", 10000),
			WinProbability:      getFloat("WALLET_WIN_PROBABILITY", 0.4),
			SettleMinDelay:      getDuration("WALLET_SETTLE_MIN_DELAY", 10*time.Second),
			SettleMaxDelay:      getDuration("WALLET_SETTLE_MAX_DELAY", 20*time.Second),
			TopUpMin:            getInt64("WALLET_TOPUP_MIN", 1000),
			TopUpMax:            getInt64("WALLET_TOPUP_MAX", 1000000),
			SessionTTL:          getDuration("WALLET_SESSION_TTL", 24*time.Hour),
			RequireVerification: getBool("REQUIRE_VERIFICATION", true),
			EventBuffer:         int(getInt64("WALLET_EVENT_BUFFER", 1024)),
		},
	}
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// getDuration aceita "15s", "2m" etc.
func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
