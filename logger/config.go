package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	FormatConsole = "console"
	FormatText    = "text"
	FormatJSON    = "json"

	defaultConsoleTimeFormat = "15:04:05.000000"
)

/*
LogConfiguration describes the logger built by New. All the fields are
optional, zero value results in colored console output of info level to
stderr.
*/
type LogConfiguration struct {
	Level string `yaml:"defaultLevel"`
	// one of "console", "text" (console without colors) or "json"
	Format string `yaml:"format"`
	// file path or one of the special values: stdout, stderr, discard
	OutputPath string `yaml:"outputPath"`
	// Go time layout string, "none" omits the timestamp
	TimeFormat string `yaml:"timeFormat"`
	ShowCaller bool   `yaml:"showCaller"`
}

// LoadConfiguration reads logger configuration from YAML file.
func LoadConfiguration(filename string) (*LogConfiguration, error) {
	f, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read logger config file: %w", err)
	}
	defer f.Close()

	cfg := &LogConfiguration{}
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to unmarshal logger config: %w", err)
	}
	return cfg, nil
}

// New builds zerolog logger according to the configuration.
func New(cfg *LogConfiguration) (zerolog.Logger, error) {
	level, err := LevelFromString(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out, err := cfg.writer()
	if err != nil {
		return zerolog.Nop(), err
	}

	var lc zerolog.Context
	switch strings.ToLower(cfg.Format) {
	case "", FormatConsole, FormatText:
		cw := zerolog.ConsoleWriter{
			Out:          out,
			NoColor:      strings.EqualFold(cfg.Format, FormatText),
			TimeFormat:   defaultConsoleTimeFormat,
			FormatCaller: formatCallerLastTwoDirs,
		}
		if cfg.TimeFormat != "" && cfg.TimeFormat != "none" {
			cw.TimeFormat = cfg.TimeFormat
		}
		lc = zerolog.New(cw).With()
	case FormatJSON:
		lc = zerolog.New(out).With()
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.TimeFormat != "none" {
		lc = lc.Timestamp()
	}
	if cfg.ShowCaller {
		lc = lc.Caller()
	}
	return lc.Logger().Level(level), nil
}

/*
LevelFromString converts level name into zerolog level. Empty string
means info level, "NONE" disables logging.
*/
func LevelFromString(s string) (zerolog.Level, error) {
	switch strings.ToUpper(s) {
	case "":
		return zerolog.InfoLevel, nil
	case "NONE":
		return zerolog.Disabled, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "TRACE":
		return zerolog.TraceLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

func (cfg *LogConfiguration) writer() (io.Writer, error) {
	switch strings.ToLower(cfg.OutputPath) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "discard":
		return io.Discard, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0700); err != nil {
		return nil, fmt.Errorf("creating directory for log file: %w", err)
	}
	f, err := os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // -rw-------
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Returns caller with last two directories.
func formatCallerLastTwoDirs(i interface{}) string {
	c, _ := i.(string)
	if c == "" {
		return c
	}
	split := strings.Split(c, string(os.PathSeparator))
	if l := len(split); l > 2 {
		return strings.Join(split[l-3:], "/")
	}
	return strings.Join(split, "/")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
