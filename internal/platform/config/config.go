package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultEnvFile          = ".env"
	defaultAPIBaseURL       = "http://localhost:8080/api"
	defaultHTTPTimeout      = 10 * time.Second
	defaultStateDir         = ".storefront"
	defaultLogoutSyncBudget = 3 * time.Second
	defaultProductsPageSize = 12
	defaultOrdersPageSize   = 10
	defaultLogLevel         = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	API        APIConfig
	State      StateConfig
	Checkout   CheckoutConfig
	Pagination PaginationConfig
	LogLevel   string
}

// APIConfig configures the backend REST client.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StateConfig controls where the persisted session store lives.
type StateConfig struct {
	Dir string
	// SigningKey enables signed values; empty stores plain JSON.
	SigningKey    string
	EncryptionKey string
}

// CheckoutConfig holds the timings of cart synchronisation.
type CheckoutConfig struct {
	LogoutSyncBudget time.Duration
}

// PaginationConfig holds default page sizes for list loads.
type PaginationConfig struct {
	ProductsPageSize int
	OrdersPageSize   int
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	configFile   string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithConfigFile sets a YAML file of KEY: value pairs read beneath every other source.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration by combining defaults, the optional YAML file, .env overrides,
// environment variables, and the explicit env map, in increasing precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	configFile := options.configFile
	if configFile == "" {
		configFile = firstValue("STOREFRONT_CONFIG_FILE", options, dotEnvValues)
	}
	fileValues, err := loadYAML(configFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		if value, ok := fileValues[key]; ok {
			return value, true
		}
		return "", false
	}

	cfg := Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(stringWithDefault(lookup, "STOREFRONT_API_BASE_URL", defaultAPIBaseURL), "/"),
			Timeout: durationWithDefault(lookup, "STOREFRONT_HTTP_TIMEOUT", defaultHTTPTimeout),
		},
		State: StateConfig{
			Dir:           stringWithDefault(lookup, "STOREFRONT_STATE_DIR", defaultStateDir),
			SigningKey:    stringWithDefault(lookup, "STOREFRONT_STATE_SIGNING_KEY", ""),
			EncryptionKey: stringWithDefault(lookup, "STOREFRONT_STATE_ENCRYPTION_KEY", ""),
		},
		Checkout: CheckoutConfig{
			LogoutSyncBudget: durationWithDefault(lookup, "STOREFRONT_LOGOUT_SYNC_BUDGET", defaultLogoutSyncBudget),
		},
		Pagination: PaginationConfig{
			ProductsPageSize: intWithDefault(lookup, "STOREFRONT_PRODUCTS_PAGE_SIZE", defaultProductsPageSize),
			OrdersPageSize:   intWithDefault(lookup, "STOREFRONT_ORDERS_PAGE_SIZE", defaultOrdersPageSize),
		},
		LogLevel: strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func firstValue(key string, options loaderOptions, dotEnv map[string]string) string {
	if value, ok := options.envMap[key]; ok {
		return value
	}
	if options.useSystemEnv {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
	}
	return dotEnv[key]
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.API.BaseURL == "" {
		missing = append(missing, "API.BaseURL")
	} else if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		missing = append(missing, "API.BaseURL")
	}
	if cfg.API.Timeout <= 0 {
		missing = append(missing, "API.Timeout")
	}
	if strings.TrimSpace(cfg.State.Dir) == "" {
		missing = append(missing, "State.Dir")
	}
	if cfg.State.EncryptionKey != "" && cfg.State.SigningKey == "" {
		missing = append(missing, "State.SigningKey")
	}
	if n := len(cfg.State.EncryptionKey); n != 0 && n != 16 && n != 24 && n != 32 {
		missing = append(missing, "State.EncryptionKey")
	}
	if cfg.Checkout.LogoutSyncBudget <= 0 {
		missing = append(missing, "Checkout.LogoutSyncBudget")
	}
	if cfg.Pagination.ProductsPageSize <= 0 {
		missing = append(missing, "Pagination.ProductsPageSize")
	}
	if cfg.Pagination.OrdersPageSize <= 0 {
		missing = append(missing, "Pagination.OrdersPageSize")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadYAML(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", path, err)
	}
	values := make(map[string]string, len(doc))
	for key, value := range doc {
		key = strings.TrimSpace(key)
		if key == "" || value == nil {
			continue
		}
		values[key] = fmt.Sprint(value)
	}
	return values, nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
