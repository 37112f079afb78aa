package main

import (
	"fmt"

	"docketlabeler/pkg/checkpoint"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/ui"

	"github.com/spf13/cobra"
)

// checkpointCmd represents the checkpoint command
var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect or reset the saved next-page cursor",
}

var checkpointShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved cursor",
	Args:  cobra.NoArgs,
	RunE:  runCheckpointShow,
}

var checkpointResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved cursor so the next run starts from the first page",
	Long: `Delete the cursor file. Entries already in the output file are still skipped
on the next run, so resetting only costs the requests needed to page past them.`,
	Args: cobra.NoArgs,
	RunE: runCheckpointReset,
}

func init() {
	rootCmd.AddCommand(checkpointCmd)
	checkpointCmd.AddCommand(checkpointShowCmd)
	checkpointCmd.AddCommand(checkpointResetCmd)
}

func runCheckpointShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	info, err := checkpoint.NewStore(cfg.Files.Checkpoint, logger.NewNopLogger()).Describe()
	if err != nil {
		return err
	}

	ui.PrintInfo("File", info.Path)
	ui.PrintInfo("Cursor", describeCursor(info))
	if info.Exists {
		ui.PrintInfo("Updated", info.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runCheckpointReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store := checkpoint.NewStore(cfg.Files.Checkpoint, logger.NewNopLogger())
	if !store.Exists() {
		ui.PrintWarning("No checkpoint to reset at " + store.Path())
		return nil
	}
	if err := store.Reset(); err != nil {
		return fmt.Errorf("failed to reset checkpoint: %w", err)
	}
	ui.PrintSuccess("Checkpoint removed; the next run starts from the first page")
	return nil
}
