package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/csemanager/internal/flagx"
	"github.com/dmitrijs2005/csemanager/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "2h" and integer nanoseconds are accepted. Zero values mean "not set".
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	GRPCAddr           string         `json:"grpc_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	JWTSecret          string         `json:"jwt_secret"`
	JWTIssuer          string         `json:"jwt_issuer"`
	TokenTTL           timex.Duration `json:"token_ttl"`
	RegistrationSecret string         `json:"registration_secret"`
	BcryptCost         int            `json:"bcrypt_cost"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	CORSOrigins        string         `json:"cors_origins"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
}

// parseJSON overlays values from the file named by -c or -config.
// Nothing happens when neither flag is given.
func parseJSON(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config %s: %w", jsonConfigFile, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	overlay(&config.HTTPAddr, c.HTTPAddr)
	overlay(&config.GRPCAddr, c.GRPCAddr)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.JWTSecret, c.JWTSecret)
	overlay(&config.JWTIssuer, c.JWTIssuer)
	overlay(&config.RegistrationSecret, c.RegistrationSecret)
	overlay(&config.S3AccessKey, c.S3AccessKey)
	overlay(&config.S3SecretKey, c.S3SecretKey)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.CORSOrigins, c.CORSOrigins)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.LogFormat, c.LogFormat)

	if c.TokenTTL.Duration != 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}

	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
