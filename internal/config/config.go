package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SourceExcel = "excel"
	SourceMySQL = "mysql"

	defaultConfigPath = "./config/local.yaml"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`

	Source  string `yaml:"source" env:"SNAPSHOT_SOURCE" env-default:"excel"`
	DataDir string `yaml:"data_dir" env:"DATA_DIR" env-default:"./public/data"`

	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME"`
	ParseTime  bool   `yaml:"parse_time" env:"DB_PARSE_TIME" env-default:"true"`

	WarningThresholdDays int           `yaml:"warning_threshold_days" env:"WARNING_THRESHOLD_DAYS" env-default:"60"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT" env-default:"5s"`

	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Load reads the YAML file at path and overlays environment variables on top of it.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config %s: %w", op, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceExcel:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for source %q", c.Source)
		}
	case SourceMySQL:
		if c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("db_user and db_name are required for source %q", c.Source)
		}
	default:
		return fmt.Errorf("unknown snapshot source %q", c.Source)
	}

	if c.WarningThresholdDays <= 0 {
		return fmt.Errorf("warning_threshold_days must be positive, got %d", c.WarningThresholdDays)
	}

	return nil
}

// DSN builds the go-sql-driver/mysql connection string.
func (c *Config) DSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.DBUser
	dsn.Passwd = c.DBPassword
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort))
	dsn.DBName = c.DBName
	dsn.ParseTime = c.ParseTime

	return dsn.FormatDSN()
}
