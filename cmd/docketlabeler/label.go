package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"docketlabeler/pkg/auth"
	"docketlabeler/pkg/checkpoint"
	"docketlabeler/pkg/courtlistener"
	"docketlabeler/pkg/crawler"
	"docketlabeler/pkg/errors"
	"docketlabeler/pkg/labeler"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/memory"
	"docketlabeler/pkg/ratelimit"
	"docketlabeler/pkg/retry"
	"docketlabeler/pkg/storage"
	"docketlabeler/pkg/ui"
	"docketlabeler/pkg/vocabulary"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// labelCmd represents the label command; it is also what the bare root command runs
var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Label docket entries interactively (default)",
	Long: `Start or resume an interactive labeling session.

Descriptions already present in the output file are skipped, blank ones get
the default label, and text labeled before is labeled the same way again.
Everything else is shown to you. Type a label (Tab completes), press Enter
for the default, ? for help, or Ctrl-D to stop.`,
	Example: `  # Label with the defaults (output.csv, next.json, labels.json)
  docketlabeler

  # Use another output file and show the newest entries of each page first
  docketlabeler label --output motions.csv --order lifo`,
	Args: cobra.NoArgs,
	RunE: runLabel,
}

func init() {
	rootCmd.AddCommand(labelCmd)
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	baseLog, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := baseLog.WithField("run_id", uuid.NewString())
	logger.SetLogger(log)

	if manager, err := auth.NewManager(); err != nil {
		log.WithError(err).Warn("Credential stores unavailable")
	} else {
		resolveToken(cfg, manager)
	}
	if cfg.Catalog.APIToken == "" {
		ui.PrintWarning("No API token configured; run 'docketlabeler auth login' or export CL_API_TOKEN")
	}

	order, err := crawler.ParseOrder(cfg.Labeling.Order)
	if err != nil {
		return err
	}

	output, err := storage.OpenOutputStore(cfg.Files.Output, log)
	if err != nil {
		return err
	}
	defer output.Close()

	mem := memory.New()
	seen := mem.LoadFromOutputStore(output.Existing())

	vocab, err := vocabulary.Load(cfg.Files.Vocabulary, cfg.Labeling.InitialLabels, log)
	if err != nil {
		return err
	}
	if !vocab.Contains(cfg.Labeling.DefaultLabel) {
		if err := vocab.Add(cfg.Labeling.DefaultLabel); err != nil {
			return err
		}
	}

	client := courtlistener.NewClient(courtlistener.Options{
		Endpoint:  cfg.Catalog.Endpoint,
		APIToken:  cfg.Catalog.APIToken,
		UserAgent: cfg.Catalog.UserAgent,
		Timeout:   cfg.Catalog.Timeout,
		Limiter:   ratelimit.PerMinute(cfg.Catalog.RequestsPerMinute),
	}, log)

	pages, err := crawler.NewPaginator(client, checkpoint.NewStore(cfg.Files.Checkpoint, log), log)
	if err != nil {
		return err
	}
	records := crawler.NewGenerator(pages, order, &retry.ExponentialBackoff{
		BaseDelay:    cfg.Crawl.EmptyPageBaseDelay,
		MaxDelay:     cfg.Crawl.EmptyPageMaxDelay,
		Multiplier:   cfg.Crawl.EmptyPageMultiplier,
		JitterFactor: 0.1,
	}, log)

	logger.LogComponentStart(log, "label", map[string]interface{}{
		"endpoint":    client.Endpoint(),
		"output":      output.Path(),
		"existing":    len(output.Existing()),
		"vocabulary":  vocab.Len(),
		"cursor":      pages.Cursor(),
		"order":       string(order),
		"rate_limit":  cfg.Catalog.RequestsPerMinute,
		"memory_size": mem.Len(),
	})

	ui.PrintLogo()
	prompter, restore, err := newPrompter()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := ui.NewSessionTracker()
	loop := labeler.New(labeler.Options{
		Source:       records,
		Sink:         output,
		Memory:       mem,
		Vocabulary:   vocab,
		Prompter:     prompter,
		DefaultLabel: cfg.Labeling.DefaultLabel,
		Seen:         seen,
		Labeled:      len(output.Existing()),
		Observer:     tracker,
		Logger:       log,
	})

	err = loop.Run(ctx)
	restore()
	tracker.RenderSummary(os.Stdout)

	if err != nil {
		logger.LogComponentStop(log, "label", err.Error())
		if errors.IsFetchFailure(err) {
			ui.PrintError("Catalog request failed; run again to resume from the saved cursor", err)
		}
		return err
	}

	logger.LogComponentStop(log, "label", "user quit")
	return nil
}

// newPrompter returns a line editor when stdin and stdout are a terminal and
// plain line input otherwise. restore undoes raw mode.
func newPrompter() (labeler.Prompter, func(), error) {
	in, out := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	if !term.IsTerminal(in) || !term.IsTerminal(out) {
		return labeler.NewLinePrompter(os.Stdin, os.Stdout), func() {}, nil
	}

	state, err := term.MakeRaw(in)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to put terminal in raw mode: %w", err)
	}

	p := labeler.NewTerminalPrompter(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout})
	if width, height, err := term.GetSize(out); err == nil {
		_ = p.SetSize(width, height)
	}

	return p, func() { _ = term.Restore(in, state) }, nil
}
