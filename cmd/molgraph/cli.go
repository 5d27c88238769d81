package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/hpungsan/molgraph/internal/config"
	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/ops"
	"github.com/hpungsan/molgraph/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, log *zap.SugaredLogger) *cli.App {
	app := &cli.App{
		Name:    "molgraph",
		Usage:   "CHON(S) SMILES decoder and molecule store",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Log at debug level to ~/.molgraph/molgraph.log"},
		},
		Commands: []*cli.Command{
			decodeCmd(db, cfg),
			fetchCmd(db),
			listCmd(db),
			deleteCmd(db),
			purgeCmd(db),
			batchCmd(db, cfg, log),
			failuresCmd(db),
			exportCmd(db, cfg),
			webCmd(db, cfg, log),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// decodeCmd creates the decode command.
func decodeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a SMILES string (argument or stdin)",
		ArgsUsage: "[smiles]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Refcode or compound name"},
			&cli.BoolFlag{Name: "store", Aliases: []string{"s"}, Usage: "Persist the decoded molecule"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DecodeInput{
				Name:  c.String("name"),
				Store: c.Bool("store"),
			}

			switch {
			case c.NArg() > 0:
				input.SMILES = c.Args().First()
			case stdinHasData():
				text, err := readStdin(stdinLimit(cfg))
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.SMILES = text
			default:
				return outputError(errors.NewInvalidRequest("smiles must be given as an argument or piped via stdin"))
			}

			output, err := ops.Decode(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a stored molecule by ID or name",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Molecule name"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted molecules"},
			&cli.BoolFlag{Name: "no-graph", Usage: "Exclude the atom/bond graph from output"},
			&cli.BoolFlag{Name: "report", Usage: "Print the markdown report instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				IncludeDeleted: c.Bool("include-deleted"),
			}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			if c.Bool("no-graph") {
				includeGraph := false
				input.IncludeGraph = &includeGraph
			}

			output, err := ops.Fetch(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("report") {
				_, err := io.WriteString(c.App.Writer, output.Report)
				return err
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored molecules, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "batch", Aliases: []string{"b"}, Usage: "Filter by batch ID"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum results (max 100)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Pagination offset"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted molecules"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			}
			if batch := c.String("batch"); batch != "" {
				input.BatchID = &batch
			}

			output, err := ops.List(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a stored molecule",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Molecule name"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DeleteInput{}
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			output, err := ops.Delete(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted molecules",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// batchCmd creates the batch command.
func batchCmd(db *sql.DB, cfg *config.Config, log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Decode every row of a CSV file with a smiles,name header",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Input CSV path"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent decoders (default from config)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Hide the progress bar"},
		},
		Action: func(c *cli.Context) error {
			input := ops.BatchInput{
				Path:    c.String("path"),
				Workers: c.Int("workers"),
			}

			var bar *progressBar
			if !c.Bool("quiet") {
				bar = newProgressBar(c.App.ErrWriter)
				input.Progress = bar.update
			}

			output, err := ops.Batch(c.Context, db, cfg, log, input)
			bar.finish(err == nil)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// failuresCmd creates the failures command.
func failuresCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "failures",
		Usage: "Show the rows a batch could not decode",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "batch", Aliases: []string{"b"}, Required: true, Usage: "Batch ID"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Failures(c.Context, db, ops.FailuresInput{BatchID: c.String("batch")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored molecules to JSONL or a CSV ring report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.molgraph/exports/<batch|all>-<timestamp>.<format>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "jsonl or csv (default: from path extension, else jsonl)"},
			&cli.StringFlag{Name: "batch", Aliases: []string{"b"}, Usage: "Filter by batch ID"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted molecules"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:           c.String("path"),
				Format:         ops.ExportFormat(c.String("format")),
				IncludeDeleted: c.Bool("include-deleted"),
			}
			if batch := c.String("batch"); batch != "" {
				input.BatchID = &batch
			}

			output, err := ops.Export(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config, log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the browser UI",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "Listen port"},
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Listen address"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(db, cfg, log, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, log)
		},
	}
}

// progressBar renders batch progress on the terminal. A nil *progressBar
// is valid and does nothing.
type progressBar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgressBar(w io.Writer) *progressBar {
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	bar := p.AddBar(0,
		mpb.PrependDecorators(
			decor.Name("decoding "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return &progressBar{p: p, bar: bar}
}

// update is an ops.ProgressFunc. It is called concurrently by batch workers.
func (b *progressBar) update(_, total int) {
	b.bar.SetTotal(int64(total), false)
	b.bar.Increment()
}

// finish completes or aborts the bar and waits for the final render.
func (b *progressBar) finish(ok bool) {
	if b == nil {
		return
	}
	if ok {
		b.bar.SetTotal(-1, true)
	} else {
		b.bar.Abort(false)
	}
	b.p.Wait()
}

// Helper functions

// outputJSON writes result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if molErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", molErr.Code, molErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// stdinLimit bounds how much piped input decode will read. The SMILES size
// check itself happens in ops.Decode.
func stdinLimit(cfg *config.Config) int64 {
	if cfg == nil || cfg.SmilesMaxChars <= 0 {
		return 1 << 20
	}
	return int64(cfg.SmilesMaxChars) * 4
}

// readStdin reads at most limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
