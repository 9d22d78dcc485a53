package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
)

// Config declares how to build a Logger.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text|json
	// Output is stderr (default), stdout or none.
	Output           string   `json:"output" yaml:"output"`
	Redact           []string `json:"redact,omitempty" yaml:"redact,omitempty"`
	SampleInitial    int      `json:"sampleInitial,omitempty" yaml:"sampleInitial,omitempty"`
	SampleThereafter int      `json:"sampleThereafter,omitempty" yaml:"sampleThereafter,omitempty"`
}

// ApplyConfig builds a Logger from cfg. A nil cfg yields an info-level text
// logger on stderr.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := []LoggerOption{WithLevel(lvl)}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		opts = append(opts, WithFormatter(&TextFormatter{}))
	case "json":
		opts = append(opts, WithFormatter(&JSONFormatter{}))
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		opts = append(opts, WithOutput(NewConsoleOutput()))
	case "stdout":
		opts = append(opts, WithOutput(NewWriterOutput(os.Stdout)))
	case "none", "null":
		opts = append(opts, WithOutput(NullOutput{}))
	default:
		return nil, fmt.Errorf("log: unknown output %q", cfg.Output)
	}

	if len(cfg.Redact) > 0 {
		opts = append(opts, WithRedaction(cfg.Redact...))
	}
	if cfg.SampleThereafter > 0 {
		opts = append(opts, WithSampling(cfg.SampleInitial, cfg.SampleThereafter))
	}
	return NewLogger(opts...), nil
}

// RedirectStdLog sends output of the standard library logger to l at info
// level.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{l: l})
}

// ToStdLogger returns a *log.Logger that writes into l.
func ToStdLogger(l Logger) *stdlog.Logger { return stdlog.New(stdWriter{l: l}, "", 0) }

type stdWriter struct{ l Logger }

var _ io.Writer = stdWriter{}

func (w stdWriter) Write(p []byte) (int, error) {
	w.l.Info(strings.TrimRight(string(p), "\n"), Str("source", "stdlog"))
	return len(p), nil
}
