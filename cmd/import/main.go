// Command import loads one spreadsheet or pasted card list into a seller's
// inventory from the command line.
//
//	import -owner <uuid> -file export.csv [-profile tcgplayer]
//	import -owner <uuid> -paste list.txt -mode magic
//	import -paste list.txt -mode pokemon -dry-run
//
// With -dry-run nothing is written; parsed records and skipped units are
// printed as JSON and no database is needed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/tcgstock/internal/config"
	"github.com/JonMunkholm/tcgstock/internal/core"
	"github.com/JonMunkholm/tcgstock/internal/core/profiles"
	"github.com/JonMunkholm/tcgstock/internal/logging"
	"github.com/JonMunkholm/tcgstock/internal/sheet"
	"github.com/JonMunkholm/tcgstock/internal/store"
)

type options struct {
	owner    string
	file     string
	paste    string
	profile  string
	mode     string
	game     string
	profiles string
	dryRun   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.owner, "owner", "", "owner (seller) UUID to import into")
	flag.StringVar(&opts.file, "file", "", "spreadsheet to import (.csv, .tsv, .txt, .xlsx)")
	flag.StringVar(&opts.paste, "paste", "", "text file holding a pasted card list")
	flag.StringVar(&opts.profile, "profile", core.DefaultProfileKey, "column profile for -file")
	flag.StringVar(&opts.mode, "mode", "", "paste grammar for -paste: magic or pokemon")
	flag.StringVar(&opts.game, "game", "", "game label for spreadsheet rows that have none")
	flag.StringVar(&opts.profiles, "profiles", "", "YAML file with extra column profiles")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "parse and print without storing")
	flag.Parse()

	_ = godotenv.Load()
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		msg := core.MapError(err)
		slog.Error("import failed", "error", err, "code", msg.Code)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if (opts.file == "") == (opts.paste == "") {
		return errors.New("exactly one of -file or -paste is required")
	}
	if opts.profiles != "" {
		if _, err := profiles.LoadFile(opts.profiles); err != nil {
			return err
		}
	}

	if opts.dryRun {
		svc := core.NewService(core.ServiceConfig{Decode: sheet.Decode, DefaultGame: opts.game})
		return preview(ctx, svc, opts, out)
	}

	owner, err := uuid.Parse(opts.owner)
	if err != nil {
		return fmt.Errorf("%w: -owner %q", core.ErrNilOwner, opts.owner)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	db := store.New(pool)
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	game := opts.game
	if game == "" {
		game = cfg.Import.DefaultGame
	}
	svc := core.NewService(core.ServiceConfig{
		Inventory:     db,
		Decode:        sheet.Decode,
		MaxConcurrent: 1,
		Timeout:       cfg.Import.Timeout,
		MaxPasteBytes: cfg.Import.MaxPasteBytes,
		MaxFileSize:   cfg.Import.MaxFileSize,
		DefaultGame:   game,
	})

	var summary core.ImportSummary
	if opts.paste != "" {
		mode, text, err := readPaste(opts)
		if err != nil {
			return err
		}
		summary, err = svc.ImportPaste(ctx, owner, text, mode)
		if err != nil {
			return err
		}
	} else {
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()
		summary, err = svc.ImportSheet(ctx, owner, filepath.Base(opts.file), f, opts.profile)
		if err != nil {
			return err
		}
	}
	return printJSON(out, summary)
}

// dryRunOutput is what -dry-run prints.
type dryRunOutput struct {
	Records  []core.NormalizedRecord `json:"records"`
	Imported int                     `json:"imported"`
	Failures []core.FailureReport    `json:"failures"`
}

func preview(ctx context.Context, svc *core.Service, opts options, out io.Writer) error {
	if opts.paste != "" {
		mode, text, err := readPaste(opts)
		if err != nil {
			return err
		}
		result, err := svc.PreviewPaste(ctx, text, mode)
		if err != nil {
			return err
		}
		return printJSON(out, dryRunOutput{Records: result.Records, Imported: result.Imported, Failures: core.Reports(result.Outcomes)})
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()
	result, err := svc.PreviewSheet(ctx, filepath.Base(opts.file), f, opts.profile)
	if err != nil {
		return err
	}
	return printJSON(out, dryRunOutput{Records: result.Records, Imported: len(result.Records), Failures: core.Reports(result.Outcomes)})
}

func readPaste(opts options) (core.GameMode, string, error) {
	mode, err := core.ParseGameMode(opts.mode)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(opts.paste)
	if err != nil {
		return "", "", err
	}
	return mode, string(data), nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
