package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN, empty for the file fallback
//	-f string   file fallback location
//	-s string   JWT HMAC secret key
//	-o string   owner openId
//	-m string   deployment mode
//	-l string   log format, json or text
//	-t int      session lifetime, hours
//
// Only the flags listed here are parsed; the rest of os.Args is left to
// other sources via flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-f", "-s", "-o", "-m", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DataFile, "f", config.DataFile, "fallback data file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.OwnerOpenID, "o", config.OwnerOpenID, "owner openId")
	fs.StringVar(&config.Mode, "m", config.Mode, "deployment mode")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session validity duration (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only overrides when given; earlier sources may carry sub-hour values.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
		}
	})
}
