package cli

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pagedeck/pagedeck-cli/internal/logger"
)

// settleDelay is how long a new file must be quiet before ingestion.
// Scanners and downloads write PDFs in bursts.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and add new PDFs automatically",
	Long: `Watch a directory and add every new PDF that appears to the workspace.

Useful with a scanner or download folder: drop files in, then reorder
and export them from another terminal or the TUI. Runs until
interrupted with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New(dir + " is not a directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	cmd.Printf("Watching %s for new PDFs (Ctrl+C to stop)\n", dir)

	// Timers debounce per path so partially written files settle first.
	pending := make(map[string]*time.Timer)
	ingest := make(chan string)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			path := event.Name
			if !strings.EqualFold(filepath.Ext(path), ".pdf") {
				continue
			}
			if timer, ok := pending[path]; ok {
				timer.Reset(settleDelay)
				continue
			}
			pending[path] = time.AfterFunc(settleDelay, func() {
				ingest <- path
			})

		case path := <-ingest:
			delete(pending, path)
			result, err := workspaceService.AddFiles(cmd.Context(), []string{path})
			if err != nil {
				logger.Warn("Failed to add %s: %v", path, err)
				continue
			}
			for i := range result.Added {
				cmd.Printf("Added %s as %s\n", result.Added[i].Name, result.Added[i].ID)
			}
			for _, skipped := range result.Skipped {
				cmd.Printf("Skipped %s: %v\n", skipped.Name, skipped.Err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-stop:
			cmd.Println("\nStopped watching")
			return nil
		}
	}
}
