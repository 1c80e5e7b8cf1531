package cmd

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Recompile source files whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: please provide source file paths")
			os.Exit(1)
		}

		pipeline, err := newPipeline()
		if err != nil {
			logger.Fatal("failed to initialize pipeline", zap.Error(err))
		}
		reportDiagnostics(pipeline)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Fatal("failed to start watcher", zap.Error(err))
		}
		defer watcher.Close()

		for _, path := range args {
			if err := watcher.Add(path); err != nil {
				logger.Fatal("failed to watch path", zap.String("path", path), zap.Error(err))
			}
			if err := runCompile(pipeline, path); err != nil {
				logger.Error("compile failed", zap.String("path", path), zap.Error(err))
			}
		}
		logger.Info("watching for changes", zap.Strings("paths", args))

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					logger.Info("source changed", zap.String("path", event.Name))
					if err := runCompile(pipeline, event.Name); err != nil {
						logger.Error("compile failed", zap.String("path", event.Name), zap.Error(err))
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("watch error", zap.Error(err))
			}
		}
	},
}
