package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSpeed      = flag.Float64("speed", 0, "Animation frames per tick")
	flagLoop       = flag.Bool("loop", false, "Loop the animation")
	flagOnce       = flag.Bool("once", false, "Play the animation once and hold the last frame")
	flagAssets     = flag.String("assets", "", "Scene root directory")
	flagWatch      = flag.Bool("watch", false, "Reload scenes when they change on disk")
	flagMaxResults = flag.Int("max-results", -1, "Maximum collision results per query (0 = all)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSpeed > 0 {
		cfg.Animation.Speed = float32(*flagSpeed)
	}
	if *flagLoop {
		cfg.Animation.Loop = true
	}
	if *flagOnce {
		cfg.Animation.Loop = false
	}
	if *flagAssets != "" {
		cfg.Assets.Root = *flagAssets
	}
	if *flagWatch {
		cfg.Assets.Watch = true
	}
	if *flagMaxResults >= 0 {
		cfg.Collision.MaxResults = *flagMaxResults
	}
}
