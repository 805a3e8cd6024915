package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/polls/internal/app"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("ignoring .env", "error", err)
	}

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		slog.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	if err := run(opts.cfg, opts.file, opts.concurrency); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

type seedOptions struct {
	cfg         config.Config
	file        string
	concurrency int
}

// parseArgs reads "[flags] <file.yaml>". Store flags are the same ones the server accepts.
func parseArgs(args []string) (seedOptions, error) {
	var opts seedOptions

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.IntVar(&opts.concurrency, "concurrency", 4, "Questions created in parallel")
	parsed := config.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return seedOptions{}, err
	}
	if fs.NArg() != 1 {
		return seedOptions{}, fmt.Errorf("expected exactly one seed file, got %d arguments", fs.NArg())
	}
	if opts.concurrency < 1 {
		return seedOptions{}, fmt.Errorf("concurrency must be positive, got %d", opts.concurrency)
	}

	cfg, err := parsed()
	if err != nil {
		return seedOptions{}, err
	}
	opts.cfg = cfg
	opts.file = fs.Arg(0)
	return opts, nil
}

func run(cfg config.Config, file string, concurrency int) error {
	inputs, err := readSeedFile(file)
	if err != nil {
		return err
	}

	// Bound the whole job so a stuck store cannot hang it.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer stores.Close()

	importer := services.NewImportService(services.NewQuestionService(stores.Questions), concurrency)

	slog.Info("seeding questions", "count", len(inputs), "store", cfg.Store)
	created, err := importer.ImportQuestions(ctx, inputs)
	if err != nil {
		return err
	}

	for _, q := range created {
		slog.Info("question created", "id", q.ID, "text", q.Text, "choices", len(q.Choices))
	}
	return nil
}
