package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// NATSConfig holds NATS JetStream configuration for event fan-out
type NATSConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds

	// AllowedOrigins restricts CORS; empty allows every origin
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// WorkerConfig holds worker pool sizing
type WorkerConfig struct {
	PoolSize  int `mapstructure:"pool_size"`
	QueueSize int `mapstructure:"queue_size"`
}

// GatewayConfig holds content gateway configuration. IPFS gateways are
// probed in the listed order; the first entry is also the fallback.
type GatewayConfig struct {
	IPFSGateways   []string      `mapstructure:"ipfs_gateways"`
	ArweaveGateway string        `mapstructure:"arweave_gateway"`
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	CacheSize      int           `mapstructure:"cache_size"`
}

// MetadataConfig holds token metadata fetch configuration
type MetadataConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// ChainConfig describes one EVM network and the contracts deployed on it
type ChainConfig struct {
	ChainID         int64    `mapstructure:"chain_id"`
	Name            string   `mapstructure:"name"`
	Icon            string   `mapstructure:"icon"`
	RPCEndpoints    []string `mapstructure:"rpc_endpoints"`
	NFTContract     string   `mapstructure:"nft_contract"`
	StakingContract string   `mapstructure:"staking_contract"`
}

// Chain returns the CAIP-2 identifier of the network
func (c ChainConfig) Chain() domain.Chain {
	return domain.ChainFromID(c.ChainID)
}

// ClaimConfig holds minting configuration for offchain to onchain claims
type ClaimConfig struct {
	ChainID             int64         `mapstructure:"chain_id"`
	SignerEndpoint      string        `mapstructure:"signer_endpoint"`
	MinterAddress       string        `mapstructure:"minter_address"`
	GasLimit            uint64        `mapstructure:"gas_limit"`
	ReceiptTimeout      time.Duration `mapstructure:"receipt_timeout"`
	RecordRetryDuration time.Duration `mapstructure:"record_retry_duration"`
}

// StakingConfig holds the staking service endpoints
type StakingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PageCacheConfig holds paginated list cache configuration
type PageCacheConfig struct {
	TTL  time.Duration `mapstructure:"ttl"`
	Size int           `mapstructure:"size"`
}

// WatchConfig is one (contract type, event) pair polled by the monitor.
// An empty contract defaults to the chain's contract for the type.
type WatchConfig struct {
	ContractType domain.ContractType `mapstructure:"contract_type"`
	ChainID      int64               `mapstructure:"chain_id"`
	Contract     string              `mapstructure:"contract"`
	Event        string              `mapstructure:"event"`
	StartBlock   uint64              `mapstructure:"start_block"`
	Interval     time.Duration       `mapstructure:"interval"`
}

// MonitorConfig holds the reconciliation monitor configuration
type MonitorConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Interval      time.Duration `mapstructure:"interval"`
	MaxBlockRange uint64        `mapstructure:"max_block_range"`
	Watches       []WatchConfig `mapstructure:"watches"`
}

// APIConfig holds configuration for the api service
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Auth       AuthConfig      `mapstructure:"auth"`
	Worker     WorkerConfig    `mapstructure:"worker"`
	Gateway    GatewayConfig   `mapstructure:"gateway"`
	Metadata   MetadataConfig  `mapstructure:"metadata"`
	Chains     []ChainConfig   `mapstructure:"chains"`
	Claim      ClaimConfig     `mapstructure:"claim"`
	Staking    StakingConfig   `mapstructure:"staking"`
	PageCache  PageCacheConfig `mapstructure:"page_cache"`
	Monitor    MonitorConfig   `mapstructure:"monitor"`
	NATS       NATSConfig      `mapstructure:"nats"`
}

// EventMonitorConfig holds configuration for the event-monitor service
type EventMonitorConfig struct {
	BaseConfig  `mapstructure:",squash"`
	MetricsAddr string         `mapstructure:"metrics_addr"`
	Database    DatabaseConfig `mapstructure:"database"`
	Chains      []ChainConfig  `mapstructure:"chains"`
	Staking     StakingConfig  `mapstructure:"staking"`
	Monitor     MonitorConfig  `mapstructure:"monitor"`
	NATS        NATSConfig     `mapstructure:"nats"`
}

// LoadAPIConfig loads configuration for the api service
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setCommonDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("worker.pool_size", 20)
	v.SetDefault("worker.queue_size", 1000)
	v.SetDefault("gateway.ipfs_gateways", []string{domain.DEFAULT_IPFS_GATEWAY, "https://dweb.link", "https://gateway.pinata.cloud"})
	v.SetDefault("gateway.arweave_gateway", domain.DEFAULT_ARWEAVE_GATEWAY)
	v.SetDefault("gateway.probe_timeout", "2s")
	v.SetDefault("gateway.cache_ttl", "5m")
	v.SetDefault("gateway.cache_size", 10000)
	v.SetDefault("metadata.http_timeout", "10s")
	v.SetDefault("claim.gas_limit", 300000)
	v.SetDefault("claim.receipt_timeout", "3m")
	v.SetDefault("claim.record_retry_duration", "1m")
	v.SetDefault("staking.timeout", "10s")
	v.SetDefault("page_cache.ttl", "2m")
	v.SetDefault("page_cache.size", 5000)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalizeChains(cfg.Chains)

	if err := validateChains(cfg.Chains); err != nil {
		return nil, err
	}
	if cfg.Claim.ChainID != 0 && !hasChain(cfg.Chains, cfg.Claim.ChainID) {
		return nil, fmt.Errorf("claim.chain_id %d is not a configured chain", cfg.Claim.ChainID)
	}

	return &cfg, nil
}

// LoadEventMonitorConfig loads configuration for the event-monitor service
func LoadEventMonitorConfig(configFile string, envPath string) (*EventMonitorConfig, error) {
	v := configureViper("event-monitor", configFile, envPath)

	setCommonDefaults(v)
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("staking.timeout", "10s")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg EventMonitorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalizeChains(cfg.Chains)

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if err := validateChains(cfg.Chains); err != nil {
		return nil, err
	}
	for _, w := range cfg.Monitor.Watches {
		if !hasChain(cfg.Chains, w.ChainID) {
			return nil, fmt.Errorf("watch %s/%s references unknown chain %d", w.ContractType, w.Event, w.ChainID)
		}
	}

	return &cfg, nil
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("nats.stream_name", "NFT_EVENTS")
	v.SetDefault("nats.subject_prefix", "nft.events")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("monitor.interval", "30s")
	v.SetDefault("monitor.max_block_range", 2000)
}

// readConfig reads the config file. A missing file is fine: values then
// come from the environment and defaults.
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func normalizeChains(chains []ChainConfig) {
	for i := range chains {
		chains[i].NFTContract = domain.NormalizeAddress(chains[i].NFTContract)
		chains[i].StakingContract = domain.NormalizeAddress(chains[i].StakingContract)
	}
}

func validateChains(chains []ChainConfig) error {
	seen := make(map[int64]bool, len(chains))
	for _, c := range chains {
		if c.ChainID <= 0 {
			return fmt.Errorf("chain %q: chain_id is required", c.Name)
		}
		if seen[c.ChainID] {
			return fmt.Errorf("chain %d configured twice", c.ChainID)
		}
		seen[c.ChainID] = true
		if len(c.RPCEndpoints) == 0 {
			return fmt.Errorf("chain %d: at least one rpc endpoint is required", c.ChainID)
		}
	}
	return nil
}

func hasChain(chains []ChainConfig, id int64) bool {
	for _, c := range chains {
		if c.ChainID == id {
			return true
		}
	}
	return false
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("NFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars binds scalar keys so env-only deployments unmarshal correctly.
// Lists of structs (chains, watches) can only come from the config file.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"metrics_addr",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.enabled",
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Worker
		"worker.pool_size",
		"worker.queue_size",
		// Gateway
		"gateway.ipfs_gateways",
		"gateway.arweave_gateway",
		"gateway.probe_timeout",
		"gateway.cache_ttl",
		"gateway.cache_size",
		"metadata.http_timeout",
		// Claim
		"claim.chain_id",
		"claim.signer_endpoint",
		"claim.minter_address",
		"claim.gas_limit",
		"claim.receipt_timeout",
		"claim.record_retry_duration",
		// Staking
		"staking.base_url",
		"staking.api_key",
		"staking.timeout",
		// Page cache
		"page_cache.ttl",
		"page_cache.size",
		// Monitor
		"monitor.enabled",
		"monitor.interval",
		"monitor.max_block_range",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads .env files from envPath, later files overriding earlier ones
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
