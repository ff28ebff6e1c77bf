package config

const (
	defaultDataDir           = "~/.local/share/rsvpd"
	defaultLogDir            = "~/.local/share/rsvpd/logs"
	defaultMaxUploadMB       = 100
	defaultMaxConcurrentJobs = 2
	defaultRetentionHours    = 24
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// defaultFontPaths lists system fonts tried in order before the built-in
// face. All entries are optional; missing files are skipped.
var defaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Limits: Limits{
			MaxUploadMB:       defaultMaxUploadMB,
			MaxConcurrentJobs: defaultMaxConcurrentJobs,
			RetentionHours:    defaultRetentionHours,
		},
		Render: Render{
			FontPaths: append([]string(nil), defaultFontPaths...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
