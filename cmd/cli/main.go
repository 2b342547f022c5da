package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/thisisjab/plzero/config"
	"github.com/thisisjab/plzero/fault"
	"github.com/thisisjab/plzero/lexer"
	"github.com/thisisjab/plzero/source"
	"gopkg.in/yaml.v3"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())

	// Setup signal handling to catch Ctrl+C (SIGINT) or Terminate (SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plzero", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: plzero [flags] <file>\n")
		fs.PrintDefaults()
	}

	cfgPath := fs.String("config", "", "path to config file")
	format := fs.String("format", "", "output format: debug, json, styled or lua (overrides config)")
	unicode := fs.Bool("unicode", false, "allow Unicode letters in identifiers")
	watch := fs.Bool("watch", false, "re-lex the file every time it changes")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "expected exactly one file argument, got %d\n", fs.NArg())
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "cannot load config: %v\n", err)
		return exitError
	}
	if *format != "" {
		cfg.Output = config.OutputConfig{Format: *format}
	}
	if *unicode {
		cfg.Lexer.Unicode = true
	}

	settings, logger, err := cfg.Parse()
	if err != nil {
		if logger != nil {
			logger.Error("cannot parse config file", "error", err)
		} else {
			fmt.Fprintf(stderr, "cannot parse config file: %v\n", err)
		}
		return exitError
	}
	if c, ok := settings.Printer.(io.Closer); ok {
		defer c.Close()
	}

	src := source.NewFileSource(logger, fs.Arg(0))

	if *watch {
		err := src.Watch(ctx, func(runID uuid.UUID, content []byte) error {
			// Lexical errors are reported and the watch goes on.
			if err := lexAndPrint(logger.With("run_id", runID), settings, content, stdout, stderr); err != nil && !isLexical(err) {
				return err
			}
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			reportError(stderr, err)
			return exitError
		}
		return exitOK
	}

	content, err := src.Read()
	if err != nil {
		reportError(stderr, fault.New(fault.NotFoundCode, fmt.Sprintf("cannot read %s", src.Path())).WithOriginal(err))
		return exitError
	}

	if err := lexAndPrint(logger, settings, content, stdout, stderr); err != nil {
		return exitError
	}
	return exitOK
}

// lexAndPrint prints either the complete token list or the error, never both.
func lexAndPrint(logger *slog.Logger, settings *config.Settings, content []byte, stdout, stderr io.Writer) error {
	tokens, err := lexer.New(content, settings.LexerOptions...).Lex()
	if err != nil {
		logger.Debug("lex failed.", "bytes", len(content), "error", err)
		reportError(stderr, err)
		return err
	}

	logger.Debug("lexed file.", "bytes", len(content), "tokens", len(tokens))

	if err := settings.Printer.Print(stdout, tokens); err != nil {
		reportError(stderr, fmt.Errorf("cannot print tokens: %w", err))
		return err
	}
	return nil
}

func reportError(w io.Writer, err error) {
	var f fault.Fault
	if errors.As(err, &f) {
		fmt.Fprintf(w, "error [%s]: %v\n", f.Code(), f)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func isLexical(err error) bool {
	var f fault.Fault
	return errors.As(err, &f) && f.Code().IsLexical()
}

func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path == "" {
		return cfg, nil
	}

	fileContent, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config file content: %w", err)
	}

	if err := yaml.Unmarshal(fileContent, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config file: %w", err)
	}

	return cfg, nil
}
