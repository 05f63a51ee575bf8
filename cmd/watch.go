package cmd

import (
	"kiln/common"
	"kiln/logging"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the watcher waits for a burst of writes to the
// project file to settle before re-emitting.
const watchDebounce = 100 * time.Millisecond

// watchProject calls onChange whenever the project file in projectPath is
// created, written or replaced.  It blocks until interrupted.  The directory is
// watched rather than the file since editors often save by renaming.
func watchProject(projectPath string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(projectPath); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	configPath := filepath.Join(projectPath, common.ConfigFileName)
	logging.PrintInfoMessage("Watching", configPath)

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(ev.Name) != configPath {
				continue
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				pending = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			logging.PrintWarningMessage("Watch Warning", err.Error())
		case <-pending:
			pending = nil
			onChange()
		case <-interrupt:
			return nil
		}
	}
}
