package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/turnDeep/chartnote/internal/core"
	"github.com/turnDeep/chartnote/internal/logger"
	"github.com/turnDeep/chartnote/internal/realtime"
)

var (
	watchURL        string
	watchRetries    int
	watchRetryDelay time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail live comments and market updates from a running server",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://127.0.0.1:8080/ws", "websocket endpoint")
	watchCmd.Flags().IntVar(&watchRetries, "retries", realtime.DefaultMaxRetries, "reconnect attempts per outage")
	watchCmd.Flags().DurationVar(&watchRetryDelay, "retry-delay", realtime.DefaultRetryDelay, "pause between reconnects")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	client := realtime.NewClient(realtime.ClientConfig{
		URL:        watchURL,
		MaxRetries: watchRetries,
		RetryDelay: watchRetryDelay,
	}, log.Named("realtime"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Run(ctx)
	}()

	for env := range client.C {
		printFrame(env)
	}

	if err := <-errCh; err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func printFrame(env realtime.Envelope) {
	switch env.Type {
	case realtime.TypeNewComment, realtime.TypeCommentSaved:
		var c core.Comment
		if err := json.Unmarshal(env.Data, &c); err != nil {
			return
		}
		fmt.Printf("[%s] %s @ %.2f: %s\n",
			time.Unix(c.Timestamp, 0).Format("15:04:05"), env.Type, c.Price, c.Content)
	case realtime.TypeMarketUpdate:
		var q core.Quote
		if err := json.Unmarshal(env.Data, &q); err != nil {
			return
		}
		fmt.Printf("[%s] %s %.2f (%+.2f, %+.2f%%)\n",
			q.Time.Format("15:04:05"), q.Symbol, q.Price, q.Change, q.ChangePercent)
	default:
		fmt.Printf("%s: %s\n", env.Type, string(env.Data))
	}
}
