package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/csemanager/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN
//	-s string   JWT signing secret
//	-t duration token lifetime (e.g., "2h")
//	-k string   registration secret
//	-b string   S3 bucket name
//	-e string   S3 base endpoint
//	-l string   log level
//
// Only these flags are parsed; everything else in args is ignored so the
// JSON and env layers can share the same argument list.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-k", "-b", "-e", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run the gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "token signing secret")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token lifetime")
	fs.StringVar(&config.RegistrationSecret, "k", config.RegistrationSecret, "registration secret")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
