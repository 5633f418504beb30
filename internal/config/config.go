package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	defaultRunAddress     = "localhost:8080"
	defaultMigrationsDir  = "internal/db/migrations"
	defaultInitialDeposit = "1000"
)

type Config struct {
	RunAddress     string `env:"RUN_ADDRESS"`
	DatabaseDSN    string `env:"DATABASE_URI"`
	MigrationsDir  string `env:"MIGRATIONS_DIR"`
	JWTUserSecret  string `env:"JWT_SECRET"`
	InitialDeposit string `env:"INITIAL_DEPOSIT"`
	FixturesFile   string `env:"FIXTURES_FILE"`

	Mail MailConfig `envPrefix:"MAIL_"`
}

// MailConfig настройки рассылок. Задаются только через окружение. Если задан WebhookURL, письма уходят
// почтовому шлюзу, иначе на SMTP сервер.
type MailConfig struct {
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       int    `env:"PORT" envDefault:"25"`
	User       string `env:"USER"`
	Password   string `env:"PASSWORD"`
	From       string `env:"FROM" envDefault:"billing@study-on.local"`
	WebhookURL string `env:"WEBHOOK_URL"`
	Workers    uint   `env:"WORKERS" envDefault:"5"`
}

// InitialDepositAmount стартовый депозит нового юзера.
func (c *Config) InitialDepositAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(c.InitialDeposit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("initial deposit `%s`: %w", c.InitialDeposit, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("initial deposit `%s` is negative", c.InitialDeposit)
	}
	if !domain.FitsMoney(amount) {
		return decimal.Zero, fmt.Errorf("initial deposit `%s`: %w", c.InitialDeposit, domain.ErrInvalidAmount)
	}
	return amount, nil
}

// LoadConfig собирает конфиг из .env файла (если он есть), переменных окружения и флагов args.
// Значения из окружения имеют приоритет над флагами.
func LoadConfig(args []string) (*Config, error) {
	if dotEnvErr := godotenv.Load(); dotEnvErr != nil && !errors.Is(dotEnvErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", dotEnvErr.Error())
	}

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagsErr := loadFlags(&flagsConfig, args); flagsErr != nil {
		return nil, fmt.Errorf("parse flags: %w", flagsErr)
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if _, err := conf.InitialDepositAmount(); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig(args []string) *Config {
	config, err := LoadConfig(args)
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config, args []string) error {
	flagSet := flag.NewFlagSet("billing", flag.ContinueOnError)
	flagSet.StringVar(&flagConfig.RunAddress, "a", defaultRunAddress, "Run address in format host:port")
	flagSet.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flagSet.StringVar(&flagConfig.MigrationsDir, "m", defaultMigrationsDir, "Database migrations directory")
	flagSet.StringVar(&flagConfig.JWTUserSecret, "j", "", "JWT secret key")
	flagSet.StringVar(&flagConfig.InitialDeposit, "i", defaultInitialDeposit, "Initial deposit for new users")
	flagSet.StringVar(&flagConfig.FixturesFile, "f", "", "Fixtures yaml file, built-in set if empty")

	return flagSet.Parse(args) //nolint:wrapcheck
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTUserSecret:  defaultIfBlank(envConfig.JWTUserSecret, flagsConfig.JWTUserSecret),
		InitialDeposit: defaultIfBlank(envConfig.InitialDeposit, flagsConfig.InitialDeposit),
		FixturesFile:   defaultIfBlank(envConfig.FixturesFile, flagsConfig.FixturesFile),
		Mail:           envConfig.Mail,
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
