package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"docketlabeler/pkg/checkpoint"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/storage"
	"docketlabeler/pkg/ui"
	"docketlabeler/pkg/vocabulary"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how the labeled output is distributed",
	Long: `Read the output CSV and print the number of rows per label, together with
the vocabulary size and the saved cursor.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.NewNopLogger()

	rows, err := storage.ReadOutput(cfg.Files.Output)
	if err != nil {
		return err
	}

	vocabSize := "not created yet"
	vocab, err := vocabulary.Open(cfg.Files.Vocabulary, log)
	switch {
	case err == nil:
		vocabSize = fmt.Sprintf("%d labels", vocab.Len())
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	info, err := checkpoint.NewStore(cfg.Files.Checkpoint, log).Describe()
	if err != nil {
		return err
	}

	ui.PrintInfo("Output", cfg.Files.Output)
	ui.PrintInfo("Rows", strconv.Itoa(len(rows)))
	ui.PrintInfo("Vocabulary", vocabSize)
	ui.PrintInfo("Cursor", describeCursor(info))
	fmt.Println()

	if len(rows) == 0 {
		ui.PrintWarning("Nothing labeled yet")
		return nil
	}
	ui.RenderLabelStats(os.Stdout, ui.CountLabels(rows))
	return nil
}

func describeCursor(info *checkpoint.Info) string {
	switch {
	case !info.Exists:
		return "none (starts from the first page)"
	case info.Cursor == nil:
		return "start of catalog"
	default:
		return *info.Cursor
	}
}
