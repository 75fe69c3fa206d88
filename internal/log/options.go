package log

import (
	"github.com/spf13/pflag"
)

// Options configures the logger.
type Options struct {
	// Name is added to every entry when set.
	Name string `toml:"name"`

	// Level is the minimum level: debug, info, warn or error.
	Level string `toml:"level"`

	// Format is "console" or "json".
	Format string `toml:"format"`

	EnableColor   bool `toml:"enable_color"`
	DisableCaller bool `toml:"disable_caller"`

	// CallerSkip is 2 for callers going through the package-level helpers.
	CallerSkip int `toml:"-"`

	// OutputPaths lists sinks; "stdout" and "stderr" are special.
	OutputPaths []string `toml:"output_paths"`
}

// NewOptions returns Options with defaults.
func NewOptions() *Options {
	return &Options{
		Level:       "info",
		Format:      "console",
		EnableColor: false,
		CallerSkip:  2,
		OutputPaths: []string{"stderr"},
	}
}

// Validate checks option values.
func (o *Options) Validate() []error {
	var errs []error
	switch o.Format {
	case "console", "json":
	default:
		errs = append(errs, errInvalidFormat(o.Format))
	}
	return errs
}

// AddFlags binds the options to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum log level (debug, info, warn, error).")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log output format ('console' or 'json').")
	fs.BoolVar(&o.EnableColor, "log.enable-color", o.EnableColor, "Colorize levels in console format.")
	fs.BoolVar(&o.DisableCaller, "log.disable-caller", o.DisableCaller, "Omit the caller field from log entries.")
	fs.StringSliceVar(&o.OutputPaths, "log.output-paths", o.OutputPaths, "Log sinks (e.g. 'stderr', '/var/log/cockpit.log').")
}

type errInvalidFormat string

func (e errInvalidFormat) Error() string {
	return "invalid log format " + string(e) + ": want console or json"
}
