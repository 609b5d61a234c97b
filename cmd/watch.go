package cmd

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/crytic/selectors/cmd/exitcodes"
	"github.com/crytic/selectors/compilation"
	"github.com/crytic/selectors/logging/colors"
	"github.com/crytic/selectors/selectors"
	"github.com/crytic/selectors/selectors/config"
	"github.com/crytic/selectors/utils"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// watchCmd represents the command provider for re-exporting selectors whenever build artifacts change
var watchCmd = &cobra.Command{
	Use:               "watch",
	Short:             "Re-exports the groups which run on compile whenever build artifacts change",
	Long:              `Watches the artifacts directory of the compilation platform and re-exports every group configured to run on compile once changes settle`,
	Args:              cmdValidateNoArgs,
	ValidArgsFunction: cmdValidFlagArgs,
	RunE:              cmdRunWatch,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the watch command
	err := addWatchFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the watch command", err)
	}

	// Add the watch command and its associated flags to the root command
	rootCmd.AddCommand(watchCmd)
}

// cmdRunWatch executes the CLI watch command. It exports once on startup, then again whenever the artifacts
// directory changes, until interrupted.
func cmdRunWatch(cmd *cobra.Command, args []string) error {
	projectConfig, _, err := readProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the watch command", err)
		return exitcodes.NewHandledError(err)
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateCompilationTarget(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the watch command", err)
		return exitcodes.NewHandledError(err)
	}
	if err = projectConfig.Validate(); err != nil {
		cmdLogger.Error("Failed to run the watch command", err)
		return exitcodes.NewHandledError(err)
	}

	debounceMs, err := cmd.Flags().GetInt("debounce")
	if err != nil || debounceMs <= 0 {
		err = &config.ConfigurationError{Group: config.ProjectScope, Field: "debounce", Err: errors.New("the debounce delay must be a positive number of milliseconds")}
		cmdLogger.Error("Failed to run the watch command", err)
		return exitcodes.NewHandledError(err)
	}

	logCloser := configureLogging(projectConfig)
	if logCloser != nil {
		defer logCloser.Close()
	}

	// The artifacts directory may not exist before the first build
	platformConfig, err := projectConfig.Compilation.GetPlatformConfig()
	if err != nil {
		cmdLogger.Error("Failed to run the watch command", err)
		return exitcodes.NewHandledError(err)
	}
	artifactsDir := platformConfig.ArtifactsDirectory()
	if err = utils.MakeDirectory(artifactsDir); err != nil {
		cmdLogger.Error("Failed to run the watch command", err)
		return exitcodes.NewHandledError(err)
	}

	// Stop watching on keyboard interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Every export re-discovers the artifacts and skips the export if they did not change
	var fingerprint *compilation.ArtifactFingerprint
	export := func() {
		store, err := discoverArtifacts(projectConfig)
		if err != nil {
			cmdLogger.Error("Failed to discover artifacts", err)
			return
		}
		updated, changed, err := compilation.NotifyArtifactHashStatus(fingerprint, store, cmdLogger)
		if err != nil {
			cmdLogger.Error("Failed to fingerprint artifacts", err)
			return
		}
		fingerprint = updated
		if !changed {
			return
		}
		engine := selectors.NewEngine(store)
		if _, err = engine.ExportOnCompile(ctx, projectConfig.FunctionSelectors, isTruthy(os.Getenv(CoverageEnvironmentVariable))); err != nil {
			cmdLogger.Error("Failed to export function selectors", err)
			// A failed export must be retried on the next change even if the artifacts are identical
			fingerprint = nil
		}
	}
	export()

	cmdLogger.Info("Watching ", colors.Bold, artifactsDir, colors.Reset, " for changes")
	err = watchArtifacts(ctx, artifactsDir, time.Duration(debounceMs)*time.Millisecond, export)
	if err != nil {
		cmdLogger.Error("Failed to run the watch command", err)
		return exitcodes.NewHandledError(err)
	}
	return nil
}

// watchArtifacts watches a directory tree and calls onSettle once no change has been observed for the debounce
// delay. It returns when the context is done.
func watchArtifacts(ctx context.Context, directory string, debounce time.Duration, onSettle func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WithStack(err)
	}
	defer watcher.Close()

	if err = addWatchDirectories(watcher, directory); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// fsnotify does not watch recursively, so new directories are added as they appear
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err = addWatchDirectories(watcher, event.Name); err != nil {
						cmdLogger.Warn("Failed to watch new directory ", event.Name, err)
					}
				}
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdLogger.Warn("Artifact watcher reported an error", err)
		case <-timer.C:
			onSettle()
		}
	}
}

// addWatchDirectories adds a directory and every directory beneath it to a watcher.
func addWatchDirectories(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return errors.WithStack(watcher.Add(path))
	})
}
