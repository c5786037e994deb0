package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/csemanager/internal/flagx"
)

func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the REST API")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	return fs.Parse(args)
}
