// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Mail          MailConfig          `mapstructure:"mail"`
	Anabin        AnabinConfig        `mapstructure:"anabin"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
	Sweeper       SweeperConfig       `mapstructure:"sweeper"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	BaseURL     string `mapstructure:"base_url"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	JobIndex  string   `mapstructure:"job_index"`
}

// StorageConfig selects the document byte store.
type StorageConfig struct {
	// Backend is "s3" or "local". With "s3" the bucket is probed at startup
	// and the local root is used as fallback when the probe fails.
	Backend   string `mapstructure:"backend"`
	LocalRoot string `mapstructure:"local_root"`
	AWS       struct {
		Region string `mapstructure:"region"`
		Bucket string `mapstructure:"bucket"`
	} `mapstructure:"aws"`
}

// MailConfig holds SMTP and SES settings for outbound mail.
type MailConfig struct {
	Provider string `mapstructure:"provider"` // "smtp" or "ses"
	From     string `mapstructure:"from"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	SES struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"ses"`
}

// AnabinConfig holds settings for the credential verifier.
type AnabinConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	InstitutionsURL string `mapstructure:"institutions_url"`
	CacheDir        string `mapstructure:"cache_dir"`
	RequestTimeout  int    `mapstructure:"request_timeout"` // milliseconds
	BrowserTimeout  int    `mapstructure:"browser_timeout"` // milliseconds, whole automation

	// DOM selectors of the external registry page, treated as opaque strings.
	Selectors struct {
		CountryInput string `mapstructure:"country_input"`
		SearchInput  string `mapstructure:"search_input"`
		ResultsTable string `mapstructure:"results_table"`
		Modal        string `mapstructure:"modal"`
		AccordionTab string `mapstructure:"accordion_tab"`
	} `mapstructure:"selectors"`
}

// NotificationConfig holds settings for the job-alert fan-out.
type NotificationConfig struct {
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		Region   string `mapstructure:"region"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	// DedupTTL bounds the redis send-record per (applicant, job), in hours.
	DedupTTLHours int `mapstructure:"dedup_ttl_hours"`
}

// SweeperConfig holds settings for the periodic maintenance loops.
type SweeperConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Interval int  `mapstructure:"interval"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
