package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	stdfuture "github.com/amlm-go/future"
	"github.com/amlm-go/future/config"
	"github.com/amlm-go/future/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var configPath string
	var watch bool

	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Run the scan-then-load pipeline once over a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			stdfuture.SetLogger(stdfuture.NewLogger(cfg.ParseLogLevel()))
			mp := cfg.BuildMetrics(prometheus.DefaultRegisterer)
			exec := stdfuture.NewExecutor(cfg.BuildPool(func() interface{} { return struct{}{} }), mp)
			del := stdfuture.NewDeleter()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			load := pipeline.Run(ctx, exec, pipeline.RunOptions{
				Scan: pipeline.ScanOptions{
					Root:        args[0],
					Watch:       watch,
					SidecarExts: map[string]string{".flac": ".cue"},
				},
				Read:     stubTagReader,
				Dispatch: stdfuture.Inline,
				Metrics:  mp,
				Deleter:  del,
				Sink: func(rowID int64, entry *pipeline.LibraryEntry) {
					fmt.Fprintf(out, "%d\t%s\t%v\n", rowID, entry.URL, entry.Tags)
				},
			})

			err := load.WaitForFinished()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			del.CancelAndJoin(shutdownCtx)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep scanning for new files after the initial pass")
	return cmd
}

// stubTagReader is a placeholder tag reader for the demo binary; a real
// caller injects one backed by an actual tagging library.
func stubTagReader(url string) ([]map[string]string, error) {
	return []map[string]string{{"path": url}}, nil
}
