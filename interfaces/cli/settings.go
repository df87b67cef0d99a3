package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"parkwise/infrastructure/config"
)

const (
	keyTableName  = "table_name"
	keyRegion     = "region"
	keyEndpoint   = "dynamodb_endpoint"
	keyStore      = "store_backend"
	keySlotLayout = "slot_layout"
	keyEventBus   = "event_bus_name"
	keyJWTSecret  = "jwt_secret"
	keyJWTIssuer  = "jwt_issuer"
	keyJWTTTL     = "jwt_ttl_hours"
	keyBcryptCost = "bcrypt_cost"
	keyLogLevel   = "log_level"
)

// loadConfig resolves settings with the precedence flags, PARKCTL_ environment
// variables, config file, server defaults.
func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	v := a.viper

	v.SetDefault(keyTableName, cfg.TableName)
	v.SetDefault(keyRegion, cfg.AWSRegion)
	v.SetDefault(keyEndpoint, cfg.DynamoDBEndpoint)
	v.SetDefault(keyStore, cfg.StoreBackend)
	v.SetDefault(keySlotLayout, cfg.SlotLayout)
	v.SetDefault(keyEventBus, cfg.EventBusName)
	v.SetDefault(keyJWTSecret, "")
	v.SetDefault(keyJWTIssuer, cfg.JWTIssuer)
	v.SetDefault(keyJWTTTL, cfg.JWTTTLHours)
	v.SetDefault(keyBcryptCost, cfg.BcryptCost)
	v.SetDefault(keyLogLevel, "warn")

	v.SetEnvPrefix("PARKCTL")
	v.AutomaticEnv()

	if a.configFile != "" {
		v.SetConfigFile(a.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".parkctl"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg.TableName = v.GetString(keyTableName)
	cfg.AWSRegion = v.GetString(keyRegion)
	cfg.DynamoDBEndpoint = v.GetString(keyEndpoint)
	cfg.StoreBackend = strings.ToLower(v.GetString(keyStore))
	cfg.SlotLayout = v.GetString(keySlotLayout)
	cfg.EventBusName = v.GetString(keyEventBus)
	cfg.JWTSecret = v.GetString(keyJWTSecret)
	cfg.JWTIssuer = v.GetString(keyJWTIssuer)
	cfg.JWTTTLHours = v.GetInt(keyJWTTTL)
	cfg.BcryptCost = v.GetInt(keyBcryptCost)
	cfg.LogLevel = v.GetString(keyLogLevel)
	cfg.EnableMetrics = false
	cfg.EnableTracing = false

	if cfg.TableName == "" {
		return nil, errors.New("table name is required")
	}
	return cfg, nil
}
