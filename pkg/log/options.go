package log

import (
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

// FileOptions configures log file storage.
type FileOptions struct {
	// Filename is the path of the log file.
	Filename string `json:"filename,omitempty" mapstructure:"filename"`
	// MaxSize is the maximum size of the log file in MB before rotation.
	MaxSize int `json:"max-size,omitempty" mapstructure:"max-size"`
	// MaxBackups is the maximum number of rotated files to retain.
	MaxBackups int `json:"max-backups,omitempty" mapstructure:"max-backups"`
	// MaxAge is the maximum number of days to retain rotated files.
	MaxAge int `json:"max-age,omitempty" mapstructure:"max-age"`
	// Compress enables gzip compression of rotated files.
	Compress bool `json:"is-compression,omitempty" mapstructure:"is-compression"`
	// LocalTime uses local time in rotated file names.
	LocalTime bool `json:"local-time,omitempty" mapstructure:"local-time"`
}

// Options contains configuration options for logging.
type Options struct {
	// Level is the minimum log level. Valid values: debug, info, warn, error, dpanic, panic, and fatal.
	Level string `json:"level,omitempty" mapstructure:"level"`
	// Format specifies the log output format. Valid values are: console and json.
	Format string `json:"format,omitempty" mapstructure:"format"`
	// EnableColor enables ANSI colors in console format; ignored when Format is json.
	EnableColor bool `json:"enable-color" mapstructure:"enable-color"`
	// DisableCaller specifies whether to include caller information in the log.
	DisableCaller bool `json:"disable-caller,omitempty" mapstructure:"disable-caller"`
	// DisableStacktrace specifies whether to record a stack trace for all messages at or above panic level.
	DisableStacktrace bool `json:"disable-stacktrace,omitempty" mapstructure:"disable-stacktrace"`
	// EnableFileStorage specifies whether to also write log records to a rotated file.
	EnableFileStorage bool `json:"enable-file-storage,omitempty" mapstructure:"enable-file-storage"`
	// FileConfig configures file storage; required when EnableFileStorage is true.
	FileConfig *FileOptions `json:"file-config,omitempty" mapstructure:"file-config"`
	// OutputPaths specifies the output paths for the logs.
	OutputPaths []string `json:"output-paths,omitempty" mapstructure:"output-paths"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Level:             zapcore.InfoLevel.String(),
		Format:            "console",
		EnableColor:       true,
		OutputPaths:       []string{"stdout"},
		EnableFileStorage: false,
		FileConfig:        nil,
	}
}

// AddFlags adds command line flags for the configuration.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum log output `LEVEL`.")
	fs.BoolVar(&o.DisableCaller, "log.disable-caller", o.DisableCaller, "Disable output of caller information in the log.")
	fs.BoolVar(&o.DisableStacktrace, "log.disable-stacktrace", o.DisableStacktrace, ""+
		"Disable the log to record a stack trace for all messages at or above panic level.")
	fs.BoolVar(&o.EnableColor, "log.enable-color", o.EnableColor, "Enable output ansi colors in plain format logs.")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log output `FORMAT`, support console or json format.")
	fs.StringSliceVar(&o.OutputPaths, "log.output-paths", o.OutputPaths, "Output paths of log.")
	fs.BoolVar(&o.EnableFileStorage, "log.enable-file-storage", o.EnableFileStorage, "Enable log file storage.")
}
