package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sailsgen/sails-new/internal/logger"
)

var logsCmd = &cobra.Command{
	Use:   "logs [app-dir]",
	Short: "Show generation logs",
	Long: `Show the most recent generation or update log of an app.
Use --follow to stream new lines in real time.`,
	RunE: runLogs,
	Args: cobra.MaximumNArgs(1),
}

var flagFollow bool

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&flagFollow, "follow", "f", false, "follow log output (like tail -f)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	appDir, err := resolveAppDir(args)
	if err != nil {
		return err
	}

	logPath := logger.LatestLogPath(appDir)
	if logPath == "" {
		return fmt.Errorf("no logs found in %s", logger.Dir(appDir))
	}

	f, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()

	// Print existing content.
	if _, err := io.Copy(out, f); err != nil {
		return err
	}

	if !flagFollow {
		return nil
	}

	// Follow mode: poll for new content until interrupted.
	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(300 * time.Millisecond):
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			fmt.Fprintln(out, scanner.Text())
		}
	}
}
