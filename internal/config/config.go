package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SNAPSHOT"

// Config holds configuration values for the run command.
type Config struct {
	RPCURL        string
	V2Addresses   string
	V3Addresses   string
	V2Method      string
	V3Method      string
	V3Layout      StorageLayout
	SnapshotDir   string
	Concurrency   int
	JSONLOut      string
	PGDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
	MetricsAddr   string
	LogLevel      string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"v2-addresses": "./panv2_pool_addresses.txt",
		"v3-addresses": "./panv3_pool_addresses.txt",
		"v2-method":    "arb_getUniswapV2Pair",
		"v3-method":    "arb_getUniswapV3Pool",
		"v3-layout":    LayoutPancake,
		"snapshot-dir": "./snapshots",
		"concurrency":  1,
		"redis-db":     0,
		"redis-ttl":    time.Duration(0),
		"log-level":    "info",
	})
	if err != nil {
		return Config{}, err
	}

	overrides, err := getIntMap(v, "v3-layout-overrides")
	if err != nil {
		return Config{}, err
	}
	layout, err := ResolveLayout(v.GetString("v3-layout"), overrides)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:        v.GetString("rpc"),
		V2Addresses:   v.GetString("v2-addresses"),
		V3Addresses:   v.GetString("v3-addresses"),
		V2Method:      v.GetString("v2-method"),
		V3Method:      v.GetString("v3-method"),
		V3Layout:      layout,
		SnapshotDir:   v.GetString("snapshot-dir"),
		Concurrency:   v.GetInt("concurrency"),
		JSONLOut:      v.GetString("jsonl-out"),
		PGDSN:         v.GetString("pg-dsn"),
		RedisAddr:     v.GetString("redis-addr"),
		RedisPassword: v.GetString("redis-password"),
		RedisDB:       v.GetInt("redis-db"),
		RedisTTL:      v.GetDuration("redis-ttl"),
		MetricsAddr:   v.GetString("metrics-addr"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the values the run command cannot start without.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.SnapshotDir == "" {
		return fmt.Errorf("snapshot dir is required")
	}
	if c.V2Method == "" || c.V3Method == "" {
		return fmt.Errorf("rpc method names are required")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("redis ttl must not be negative")
	}
	return nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getIntMap(v *viper.Viper, key string) (map[string]int, error) {
	out := make(map[string]int)
	if !v.IsSet(key) {
		return out, nil
	}

	raw := map[string]string{}
	switch typed := v.Get(key).(type) {
	case map[string]interface{}:
		for k, value := range typed {
			raw[k] = fmt.Sprintf("%v", value)
		}
	case string:
		raw = parseStringMap(typed)
	}

	for k, value := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", key, k, err)
		}
		out[k] = n
	}
	return out, nil
}

func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
