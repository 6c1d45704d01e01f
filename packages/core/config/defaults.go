package config

const (
	DefaultTimeout      = "30s"
	DefaultMaxRedirects = 10
	DefaultEngine       = "jq"
	DefaultStyle        = "monokai"
	DefaultLogLevel     = "warn"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:         DefaultTimeout,
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    DefaultMaxRedirects,
		ValidateSSL:     BoolPtr(true),
		Engine:          DefaultEngine,
		Style:           DefaultStyle,
		NoColor:         BoolPtr(false),
		LogLevel:        DefaultLogLevel,
	}
}
