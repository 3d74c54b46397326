package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/dalilachaima/ProjetPA/internal/client"
	"github.com/dalilachaima/ProjetPA/internal/config"
	"github.com/dalilachaima/ProjetPA/internal/generator"
	"github.com/dalilachaima/ProjetPA/internal/lib/slogcustom"
	"github.com/dalilachaima/ProjetPA/internal/sessionstore"
	"github.com/dalilachaima/ProjetPA/internal/storage"
	"github.com/dalilachaima/ProjetPA/internal/storage/postgres"
)

const usage = `usage: quizapp [flags] <command>

commands:
  seed         create the default categories
  generate     generate questions for every default category and difficulty 1..3
  purge        delete every question and its answers
  play         play a local multiplayer game in the terminal
  solo         answer questions alone, without a game session
  leaderboard  print the best scores

flags:
`

type options struct {
	count      int
	players    int
	questions  int
	difficulty int
	category   string
	random     bool
	csvPath    string
	limit      int
	user       string
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg := config.Load()
	opts := options{}

	flags := pflag.NewFlagSet("quizapp", pflag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	config.BindFlags(flags, cfg)
	flags.IntVar(&opts.count, "count", 5, "generate: questions per category and difficulty")
	flags.IntVar(&opts.players, "players", 2, "play: number of players (2-6)")
	flags.IntVar(&opts.questions, "questions", 4, "play, solo: number of questions (even, 4-20 for play)")
	flags.IntVar(&opts.difficulty, "difficulty", 1, "play: difficulty tier")
	flags.StringVar(&opts.category, "category", "", "play, solo: category name, asked interactively when empty")
	flags.BoolVar(&opts.random, "random", false, "play: pick a random category for every question")
	flags.StringVar(&opts.csvPath, "csv", "", "play: write the final ranking to this CSV file")
	flags.IntVar(&opts.limit, "limit", 10, "leaderboard: number of lines")
	flags.StringVar(&opts.user, "user", "", "identity recorded with answers and scores, $USER by default")
	_ = flags.Parse(os.Args[1:])

	log := setupLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, opts, flags.Arg(0)); err != nil {
		slog.Error("command failed", "command", flags.Arg(0), "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, command string) error {
	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	gen := newGenerator(store, cfg)

	switch command {
	case "seed":
		return seed(ctx, store)
	case "generate":
		return generate(ctx, gen, opts)
	case "purge":
		return purge(ctx, store)
	case "leaderboard":
		return leaderboard(ctx, store, opts)
	case "solo":
		return soloGame(ctx, store, gen, opts)
	case "play":
		sessions, closeSessions, err := openSessions(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSessions()

		return play(ctx, store, sessions, gen, opts)
	}

	return fmt.Errorf("unknown command %q", command)
}

func setupLogger(level string) *slog.Logger {
	return slog.New(slogcustom.NewCustomHandler(os.Stderr, slogcustom.ParseLevel(level)))
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL is not set, records are kept in memory")
		return storage.NewMemoryStorage(), func() {}, nil
	}

	st, err := postgres.NewStorage(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}

	return st, st.Close, nil
}

func openSessions(ctx context.Context, cfg *config.Config) (sessionstore.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		return sessionstore.NewMemoryStore(cfg.Redis.SessionTTL), func() {}, nil
	}

	rs, err := sessionstore.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SessionTTL)
	if err != nil {
		return nil, nil, err
	}

	return rs, func() {
		if err := rs.Close(); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("failed to close redis", "error", err)
		}
	}, nil
}

func newGenerator(store storage.Storage, cfg *config.Config) *generator.Generator {
	var remote generator.Remote
	if cfg.Gemini.APIKey != "" {
		remote = client.NewHTTPClient(cfg.Gemini.APIKey, cfg.Gemini.Model).WithBaseURL(cfg.Gemini.BaseURL)
	} else {
		slog.Warn("GEMINI_API_KEY is not set, questions come from the local bank")
	}

	return generator.New(store, remote, generator.WithRequestTimeout(cfg.Gemini.Timeout))
}
