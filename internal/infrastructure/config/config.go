package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Sync        SyncConfig
	WooCommerce WooCommerceConfig
	Amazon      AmazonConfig
	Flipkart    FlipkartConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxUploadBytes int64
}

// SyncConfig holds marketplace synchronization settings
type SyncConfig struct {
	Enabled           bool
	RunAtStartup      bool
	Interval          time.Duration // product + order sync cadence
	ImageInterval     time.Duration // standalone cover sweep cadence
	JobTimeout        time.Duration
	PageSize          int
	MaxPages          int
	OrderStatuses     []string
	ImageProbeTimeout time.Duration
}

// WooCommerceConfig holds WooCommerce REST API credentials
type WooCommerceConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ProductTimeout time.Duration
	OrderTimeout   time.Duration
}

// Configured reports whether the store credentials are present
func (c WooCommerceConfig) Configured() bool {
	return c.BaseURL != "" && c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// AmazonConfig holds Amazon selling partner API settings
type AmazonConfig struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration
}

// Configured reports whether the channel credentials are present
func (c AmazonConfig) Configured() bool {
	return c.Endpoint != "" && c.AccessToken != ""
}

// FlipkartConfig holds Flipkart seller export settings
type FlipkartConfig struct {
	// ExportDir is the directory seller CSV exports are dropped into
	ExportDir string
}

// Configured reports whether an export directory is set
func (c FlipkartConfig) Configured() bool {
	return c.ExportDir != ""
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with BOOKPRESS_ prefix (e.g., BOOKPRESS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BOOKPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxUploadBytes: v.GetInt64("http.max_upload_bytes"),
		},
		Sync: SyncConfig{
			Enabled:           v.GetBool("sync.enabled"),
			RunAtStartup:      v.GetBool("sync.run_at_startup"),
			Interval:          v.GetDuration("sync.interval"),
			ImageInterval:     v.GetDuration("sync.image_interval"),
			JobTimeout:        v.GetDuration("sync.job_timeout"),
			PageSize:          v.GetInt("sync.page_size"),
			MaxPages:          v.GetInt("sync.max_pages"),
			OrderStatuses:     v.GetStringSlice("sync.order_statuses"),
			ImageProbeTimeout: v.GetDuration("sync.image_probe_timeout"),
		},
		WooCommerce: WooCommerceConfig{
			BaseURL:        v.GetString("woocommerce.base_url"),
			ConsumerKey:    v.GetString("woocommerce.consumer_key"),
			ConsumerSecret: v.GetString("woocommerce.consumer_secret"),
			ProductTimeout: v.GetDuration("woocommerce.product_timeout"),
			OrderTimeout:   v.GetDuration("woocommerce.order_timeout"),
		},
		Amazon: AmazonConfig{
			Endpoint:    v.GetString("amazon.endpoint"),
			AccessToken: v.GetString("amazon.access_token"),
			Timeout:     v.GetDuration("amazon.timeout"),
		},
		Flipkart: FlipkartConfig{
			ExportDir: v.GetString("flipkart.export_dir"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "bookpress-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "bookpress"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxUploadBytes == 0 {
		cfg.HTTP.MaxUploadBytes = 20 << 20 // 20MB, seller exports can get large
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 30 * time.Minute
	}
	if cfg.Sync.ImageInterval == 0 {
		cfg.Sync.ImageInterval = 6 * time.Hour
	}
	if cfg.Sync.JobTimeout == 0 {
		cfg.Sync.JobTimeout = 10 * time.Minute
	}
	if cfg.Sync.PageSize == 0 {
		cfg.Sync.PageSize = 100
	}
	if cfg.Sync.MaxPages == 0 {
		cfg.Sync.MaxPages = 50
	}
	if len(cfg.Sync.OrderStatuses) == 0 {
		cfg.Sync.OrderStatuses = []string{"completed", "processing"}
	}
	if cfg.Sync.ImageProbeTimeout == 0 {
		cfg.Sync.ImageProbeTimeout = 5 * time.Second
	}
	if cfg.WooCommerce.ProductTimeout == 0 {
		cfg.WooCommerce.ProductTimeout = 30 * time.Second
	}
	if cfg.WooCommerce.OrderTimeout == 0 {
		cfg.WooCommerce.OrderTimeout = 15 * time.Second
	}
	if cfg.Amazon.Timeout == 0 {
		cfg.Amazon.Timeout = 15 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Sync.PageSize < 1 || c.Sync.PageSize > 100 {
		return fmt.Errorf("sync.page_size must be between 1 and 100, got %d", c.Sync.PageSize)
	}
	if c.Sync.MaxPages <= 0 {
		return fmt.Errorf("sync.max_pages must be positive")
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
