package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"docketlabeler/pkg/auth"
	"docketlabeler/pkg/checkpoint"
	"docketlabeler/pkg/courtlistener"
	"docketlabeler/pkg/crawler"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/ratelimit"
	"docketlabeler/pkg/storage"
	"docketlabeler/pkg/ui"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	// Fetch command flags
	fetchPages      int
	fetchOut        string
	fetchCursorFile string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Export unlabeled docket entry descriptions to CSV",
	Long: `Walk the catalog without prompting and write every extracted description to
a CSV file. The walk keeps its own cursor file, separate from the labeling
cursor, so an export can be resumed without disturbing a labeling session.

The command stops after --pages pages or when the catalog reports no next page.`,
	Example: `  # Export the first 10 pages
  docketlabeler fetch --pages 10 --out entries.csv`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchPages, "pages", 1, "number of pages to fetch, 0 for all")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "entries.csv", "export CSV path")
	fetchCmd.Flags().StringVar(&fetchCursorFile, "cursor-file", "fetch.next.json", "cursor file for the export walk")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	baseLog, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := baseLog.WithFields(map[string]interface{}{"run_id": uuid.NewString(), "command": "fetch"})

	if manager, err := auth.NewManager(); err == nil {
		resolveToken(cfg, manager)
	}

	client := courtlistener.NewClient(courtlistener.Options{
		Endpoint:  cfg.Catalog.Endpoint,
		APIToken:  cfg.Catalog.APIToken,
		UserAgent: cfg.Catalog.UserAgent,
		Timeout:   cfg.Catalog.Timeout,
		Limiter:   ratelimit.PerMinute(cfg.Catalog.RequestsPerMinute),
	}, log)

	pages, err := crawler.NewPaginator(client, checkpoint.NewStore(fetchCursorFile, log), log)
	if err != nil {
		return err
	}

	export, err := storage.CreateExport(fetchOut)
	if err != nil {
		return err
	}
	defer export.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for fetchPages <= 0 || pages.Pages() < fetchPages {
		items, err := pages.NextPage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}
		for _, record := range crawler.ExtractAll(items) {
			if err := export.Write(record); err != nil {
				return err
			}
		}
		if pages.Exhausted() {
			break
		}
	}

	if err := export.Close(); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Wrote %d descriptions from %d pages to %s", export.Count(), pages.Pages(), fetchOut))
	ui.PrintInfo("Next cursor", cursorString(pages.Cursor()))
	ui.PrintInfo("Records", strconv.Itoa(export.Count()))
	return nil
}

func cursorString(cursor *string) string {
	if cursor == nil {
		return "start of catalog"
	}
	return *cursor
}
