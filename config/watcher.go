package config

import (
	"os"

	"postline/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
)

// WatchEnvFile watches the .env file and reapplies the dynamic settings
// (currently the log level) when it changes. Static settings such as
// database credentials still require a restart. The watcher runs until
// the stop channel is closed.
func WatchEnvFile(path string, stop <-chan struct{}) error {
	if _, err := os.Stat(path); err != nil {
		// Nothing to watch; env vars came from the environment itself.
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				// Overload so edited values win over the stale process env.
				if err := godotenv.Overload(path); err != nil {
					logger.Warn("Failed to reload env file", logger.ErrorField(err))
					continue
				}
				cfg := Load()
				logger.SetLevel(logger.LogLevel(cfg.LogLevel))
				logger.Info("Reloaded dynamic configuration",
					logger.String("file", path),
					logger.String("logLevel", cfg.LogLevel),
				)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watcher error", logger.ErrorField(err))
			case <-stop:
				return
			}
		}
	}()

	return nil
}
