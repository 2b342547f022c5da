package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/thisisjab/plzero/api"
	"github.com/thisisjab/plzero/lexer"
	"github.com/thisisjab/plzero/printer"
	"go.yaml.in/yaml/v3"
)

type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	Lexer  LexerConfig  `yaml:"lexer"`
	Output OutputConfig `yaml:"output"`
	API    api.Config   `yaml:"api"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Type   string `yaml:"type"`
	Output string `yaml:"output"`
}

type LexerConfig struct {
	Unicode bool `yaml:"unicode"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Config any    `yaml:"config"`
}

// Settings is the runtime form of a Config.
type Settings struct {
	LexerOptions []lexer.Option
	Printer      printer.Printer
	API          api.Config
}

// Default returns the configuration used when no config file is given. Config files are
// decoded on top of it, so any field they omit keeps its default.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level:  "warn",
			Type:   "colored-text",
			Output: "stderr",
		},
		Output: OutputConfig{
			Format: "debug",
		},
		API: api.Config{
			Addr:         "localhost:8000",
			MaxBodyBytes: 1_048_576,
		},
	}
}

func (cfg Config) Parse() (*Settings, *slog.Logger, error) {
	logger, err := parseLoggerConfig(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create logger: %w", err)
	}

	p, err := parseOutputConfig(cfg.Output)
	if err != nil {
		return nil, logger, fmt.Errorf("cannot create printer `%s`: %w", cfg.Output.Format, err)
	}

	var opts []lexer.Option
	if cfg.Lexer.Unicode {
		opts = append(opts, lexer.WithUnicode())
	}

	return &Settings{
		LexerOptions: opts,
		Printer:      p,
		API:          cfg.API,
	}, logger, nil
}

func parseLoggerConfig(cfg LoggerConfig) (*slog.Logger, error) {
	var handler slog.Handler

	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	var w io.Writer
	switch cfg.Output {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		return nil, fmt.Errorf("invalid log output: %s", cfg.Output)
	}

	switch cfg.Type {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "colored-text":
		handler = tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen})
	default:
		return nil, fmt.Errorf("invalid log type: %s", cfg.Type)
	}

	return slog.New(handler), nil
}

func parseOutputConfig(cfg OutputConfig) (printer.Printer, error) {
	switch cfg.Format {
	case "", "debug":
		return printer.NewDebugPrinter(), nil

	case "json":
		var jsonConfig printer.JsonPrinterConfig
		if err := remarshal(cfg.Config, &jsonConfig); err != nil {
			return nil, fmt.Errorf("cannot parse json printer config: %w", err)
		}
		return printer.NewJsonPrinter(jsonConfig), nil

	case "styled":
		styledConfig := printer.DefaultStyledPrinterConfig()
		if err := remarshal(cfg.Config, &styledConfig); err != nil {
			return nil, fmt.Errorf("cannot parse styled printer config: %w", err)
		}
		return printer.NewStyledPrinter(styledConfig), nil

	case "lua":
		var luaConfig printer.LuaPrinterConfig
		if err := remarshal(cfg.Config, &luaConfig); err != nil {
			return nil, fmt.Errorf("cannot parse lua printer config: %w", err)
		}

		p, err := printer.NewLuaPrinter(luaConfig)
		if err != nil {
			return nil, fmt.Errorf("cannot create lua printer: %w", err)
		}
		return p, nil

	default:
		return nil, fmt.Errorf("invalid output format: %s", cfg.Format)
	}
}

// remarshal takes an input value, marshals it to YAML, and then unmarshals it into output.
// This is useful for converting generic interfaces (like map[string]any) into concrete struct types.
// The output parameter must be a pointer to the target type. A nil input leaves output untouched.
func remarshal(input any, output any) error {
	if input == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal to YAML: %w", err)
	}

	if err := yaml.Unmarshal(yamlBytes, output); err != nil {
		return fmt.Errorf("failed to unmarshal from YAML: %w", err)
	}

	return nil
}
