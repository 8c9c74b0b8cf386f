package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/HarishgunaS/sisypho-sdk/internal/capture"
	"github.com/HarishgunaS/sisypho-sdk/internal/httpapi"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture input events correlated with UI elements",
	Long: `Start the capture pipeline: tap system input events (clicks, keys, scrolls,
modifier changes), correlate each with the accessibility element under the
cursor, and queue them for consumption over a local HTTP endpoint.

While recording:
  GET    /events          queued events (add ?drain=true to consume)
  GET    /count           queued event count
  GET    /stats           counts grouped by kind and source
  DELETE /events          clear the queue

Use Ctrl+C or --duration to stop recording.

Examples:
  sisypho record
  sisypho record --port 9000 --duration 60`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().Int("port", viper.GetInt(recordPortKey), "HTTP port for the event endpoint")
	recordCmd.Flags().Int("duration", 0, "Max seconds to record (0 = until Ctrl+C)")
	recordCmd.Flags().Int("dedup-window", viper.GetInt(recordDedupWindowKey), "Duplicate-event suppression window in milliseconds")
	recordCmd.Flags().Int("info-ttl", viper.GetInt(recordInfoTTLKey), "Element info cache TTL in milliseconds")
	recordCmd.Flags().Int("queue-capacity", viper.GetInt(recordQueueCapKey), "Max queued events before oldest are evicted")
}

func runRecord(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	durationSec, _ := cmd.Flags().GetInt("duration")
	dedupWindowMs, _ := cmd.Flags().GetInt("dedup-window")
	infoTTLMs, _ := cmd.Flags().GetInt("info-ttl")
	queueCap, _ := cmd.Flags().GetInt("queue-capacity")

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Reader == nil || provider.Tap == nil {
		return fmt.Errorf("event capture not available on this platform")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if durationSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(durationSec)*time.Second)
		defer cancel()
	}

	engine := capture.NewEngine(provider.Reader, provider.Tap, provider.Observer, capture.Config{
		DedupWindow:   time.Duration(dedupWindowMs) * time.Millisecond,
		InfoTTL:       time.Duration(infoTTLMs) * time.Millisecond,
		QueueCapacity: queueCap,
	}, globalLogger)

	transport := httpapi.NewServer(fmt.Sprintf(":%d", port), engine.Queue(), globalLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := engine.Start(gctx); err != nil {
			return fmt.Errorf("start capture: %w", err)
		}
		<-gctx.Done()
		engine.Stop()
		return nil
	})
	g.Go(func() error {
		return transport.Run(gctx)
	})

	slog.Info("recording", "port", port)
	fmt.Fprintf(os.Stderr, "recording; events at http://localhost:%d/events (Ctrl+C to stop)\n", port)

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
