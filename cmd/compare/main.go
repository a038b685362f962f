package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	app "github.com/okian/tennis-compare/internal/app"
	"github.com/okian/tennis-compare/internal/config"
	"github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/internal/domain/types"
	"github.com/okian/tennis-compare/internal/prompt"
	"github.com/okian/tennis-compare/pkg/logger"
)

const runTimeout = 5 * time.Minute

type options struct {
	prompt.Config
	asJSON bool
	help   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Logs go to stderr so the report on stdout stays clean.
	if err := logger.InitWithWriter(stderr); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return 1
	}
	_ = logger.SetLevelString("warn")

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	// The CLI stays at warn unless a level other than the default is configured.
	if cfg.LogLevel != "info" {
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			_ = logger.SetLevelString("warn")
		}
	}

	opts, err := parseFlags(args, stderr)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		return 2
	}
	if err != nil || opts.help {
		prompt.ShowHelp(stdout, cfg.MinYear, cfg.MaxYear)
		return 0
	}
	opts.MinYear, opts.MaxYear = cfg.MinYear, cfg.MaxYear
	opts.Interactive = isTerminal(stdin)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	svc := app.New(append(app.FromConfig(cfg), app.WithLogger(logger.Named("service")))...)
	if err := svc.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "failed to start: %v\n", err)
		return 1
	}
	defer svc.Stop()

	out := stdout
	if opts.asJSON {
		// Questions move to stderr so stdout carries only the JSON document.
		out = stderr
		opts.Renderer = jsonRenderer(stdout)
	}

	if err := prompt.Run(ctx, &opts.Config, stdin, out, svc); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, compare.ErrInvalidRequest) || errors.Is(err, prompt.ErrMissingInput) {
			return 2
		}
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.PlayerA, "a", "", "Player A name")
	fs.IntVar(&o.YearA, "year-a", 0, "Player A season")
	fs.StringVar(&o.PlayerB, "b", "", "Player B name")
	fs.IntVar(&o.YearB, "year-b", 0, "Player B season")
	fs.StringVar(&o.Surface, "surface", "", "Surface (default Hard)")
	fs.IntVar(&o.BestOf, "best-of", 0, "Best of 3 or 5 (default 3)")
	fs.BoolVar(&o.asJSON, "json", false, "Print the comparison as JSON")
	fs.BoolVar(&o.help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// jsonRenderer prints the comparison as indented JSON on w.
func jsonRenderer(w io.Writer) prompt.Renderer {
	return func(_ io.Writer, res types.Comparison) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
	}
}
