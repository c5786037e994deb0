package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment and copies the
// CSE_* variables into config.
//
// The file comes from -env, falling back to ./.env. A missing default file
// is not an error; a missing explicit one is. Variables already present in
// the environment take precedence over the file.
func parseEnv(config *Config, args []string) error {
	envFile := flagx.EnvFile(args)
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	lookupString("CSE_HTTP_ADDR", &config.HTTPAddr)
	lookupString("CSE_GRPC_ADDR", &config.GRPCAddr)
	lookupString("CSE_DATABASE_DSN", &config.DatabaseDSN)
	lookupString("CSE_JWT_SECRET", &config.JWTSecret)
	lookupString("CSE_JWT_ISSUER", &config.JWTIssuer)
	lookupString("CSE_REGISTRATION_SECRET", &config.RegistrationSecret)
	lookupString("CSE_S3_ACCESS_KEY", &config.S3AccessKey)
	lookupString("CSE_S3_SECRET_KEY", &config.S3SecretKey)
	lookupString("CSE_S3_BUCKET", &config.S3Bucket)
	lookupString("CSE_S3_REGION", &config.S3Region)
	lookupString("CSE_S3_ENDPOINT", &config.S3BaseEndpoint)
	lookupString("CSE_CORS_ORIGINS", &config.CORSOrigins)
	lookupString("CSE_LOG_LEVEL", &config.LogLevel)
	lookupString("CSE_LOG_FORMAT", &config.LogFormat)

	if v, ok := os.LookupEnv("CSE_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CSE_TOKEN_TTL: %w", err)
		}
		config.TokenTTL = d
	}

	if v, ok := os.LookupEnv("CSE_BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CSE_BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}

	return nil
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
