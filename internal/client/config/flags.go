package config

import (
	"flag"
	"os"
	"time"

	"github.com/anavarro-dev/recetas/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the recipe service (default from Config)
//	-d string   client-local sqlite DSN (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-r string   recency backing: "local" or "synced" (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the recipe service")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "client-local sqlite DSN")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.RecencyBacking, "r", cfg.RecencyBacking, "recency backing: local or synced")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
