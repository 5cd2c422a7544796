package config

import "time"

// Config holds runtime settings for the fintrack CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DatabaseFile: path of the local SQLite ledger.
//   - LogFile: path of the rotating client log.
//   - MaxRetries: remote failures after which a queued operation is dropped.
//   - InitialBackoff / MaxBackoff: bounds of the sync retry timer.
//   - S3*: settings for s3:// backup locations; empty credentials use the
//     default AWS chain.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DatabaseFile        string
	LogFile             string
	MaxRetries          int
	InitialBackoff      time.Duration
	MaxBackoff          time.Duration
	S3Region            string
	S3BaseEndpoint      string
	S3AccessKey         string
	S3SecretKey         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabaseFile = "fintrack.db"
	c.LogFile = "fintrack.log"
	c.MaxRetries = 3
	c.InitialBackoff = time.Second
	c.MaxBackoff = 5 * time.Minute
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
