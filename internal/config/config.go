// Package config provides configuration loading for the deployctl CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for a deployment run. Values come from an
// optional config file, DEPLOYCTL_* environment variables, and flags bound
// over the same keys, in ascending precedence.
type Config struct {
	// RPCURL is the JSON-RPC endpoint of the target network.
	RPCURL string `mapstructure:"rpc_url" validate:"required,url"`

	// PrivateKey is the deployer's hex private key, with or without a "0x"
	// prefix. Prefer supplying it through DEPLOYCTL_PRIVATE_KEY.
	PrivateKey string `mapstructure:"private_key" validate:"required"`

	// ArtifactPath points at the compiled-contract artifact JSON.
	ArtifactPath string `mapstructure:"artifact" validate:"required"`

	// ConstructorArgs are the raw constructor arguments, coerced against the
	// artifact's ABI before anything is sent.
	ConstructorArgs []string `mapstructure:"constructor_args"`

	// GasLimit is the creation gas ceiling. Zero asks the node to estimate.
	GasLimit uint64 `mapstructure:"gas_limit"`

	// GasPrice in wei. Zero is valid on fee-less networks.
	GasPrice int64 `mapstructure:"gas_price" validate:"gte=0"`

	// ExpectedChainID, when non-zero, must match the node's chain ID.
	ExpectedChainID uint64 `mapstructure:"expected_chain_id"`

	// ConfirmationTimeout bounds the receipt wait.
	ConfirmationTimeout time.Duration `mapstructure:"confirmation_timeout"`

	// ReceiptPollInterval is the delay between receipt queries.
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`

	// ReportPath, when set, receives a JSON report of the finished run.
	ReportPath string `mapstructure:"report"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// Load reads configuration from files and environment variables. A non-empty
// configFile pins the exact file to read; otherwise the usual search paths
// apply. The returned viper instance is kept so CLI flags can be bound over
// it before unmarshalling with Unmarshal.
func Load(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("deployctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/deployctl")
	}

	// Enable environment variable override
	v.SetEnvPrefix("DEPLOYCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The key is routinely injected through the environment; bind it
	// explicitly so it resolves without a config file entry.
	v.BindEnv("private_key", "DEPLOYCTL_PRIVATE_KEY")
	v.BindEnv("rpc_url", "DEPLOYCTL_RPC_URL")

	return v
}

// Unmarshal reads the config file (optional) and decodes the accumulated
// settings into a Config.
func Unmarshal(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we use defaults, env vars, and flags
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct constraints and
// translates violations into plain messages.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	ok := false
	if verrs, ok = err.(validator.ValidationErrors); !ok {
		return err
	}

	for _, fe := range verrs {
		switch fe.Field() {
		case "RPCURL":
			return fmt.Errorf("rpc_url is required and must be a URL")
		case "PrivateKey":
			return fmt.Errorf("private_key is required (set DEPLOYCTL_PRIVATE_KEY)")
		case "ArtifactPath":
			return fmt.Errorf("artifact is required")
		case "GasPrice":
			return fmt.Errorf("gas_price must not be negative")
		case "LogLevel":
			return fmt.Errorf("log_level must be one of debug, info, warn, error")
		}
	}
	return err
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("gas_limit", 10_000_000)
	v.SetDefault("gas_price", 0)
	v.SetDefault("confirmation_timeout", "300s")
	v.SetDefault("receipt_poll_interval", "2s")
	v.SetDefault("log_level", "info")
}
