package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-i int      online check interval in seconds
//	-f string   local database file
//	-l string   log file
//	-r int      max retries per queued operation
//	-b int      initial sync backoff in milliseconds
//	-m int      max sync backoff in seconds
//	-g string   S3 region for backups
//	-e string   S3 base endpoint for backups
//	-u string   S3 access key
//	-p string   S3 secret key
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-f", "-l", "-r", "-b", "-m", "-g", "-e", "-u", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabaseFile, "f", cfg.DatabaseFile, "local database file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.IntVar(&cfg.MaxRetries, "r", cfg.MaxRetries, "max retries per queued operation")
	initialBackoff := fs.Int("b", int(cfg.InitialBackoff.Milliseconds()), "initial sync backoff (in milliseconds)")
	maxBackoff := fs.Int("m", int(cfg.MaxBackoff.Seconds()), "max sync backoff (in seconds)")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region for backups")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint for backups")
	fs.StringVar(&cfg.S3AccessKey, "u", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "p", cfg.S3SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.InitialBackoff = time.Duration(*initialBackoff) * time.Millisecond
	cfg.MaxBackoff = time.Duration(*maxBackoff) * time.Second
}
