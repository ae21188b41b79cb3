// Command streamwatch tails a subreddit's new posts or comments to stdout.
// It doubles as a smoke test for the streaming client against the live API.
//
// Credentials come from REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET; pass
// -metrics-addr to expose Prometheus counters for the stream.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	rstream "github.com/jamesprial/go-reddit-stream"
	"github.com/jamesprial/go-reddit-stream/pkg/backoff"
	"github.com/jamesprial/go-reddit-stream/pkg/types"
)

func main() {
	subreddit := flag.String("subreddit", "golang", "subreddit to watch")
	comments := flag.Bool("comments", false, "stream comments instead of posts")
	skipExisting := flag.Bool("skip-existing", true, "suppress items that predate startup")
	metricsAddr := flag.String("metrics-addr", "", "listen address for /metrics (empty disables)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	clientID := os.Getenv("REDDIT_CLIENT_ID")
	clientSecret := os.Getenv("REDDIT_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET environment variables are required")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client, err := rstream.NewClient(&rstream.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		UserAgent:    "streamwatch/1.0 (listing tail)",
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	var opts []rstream.StreamOption
	if *skipExisting {
		opts = append(opts, rstream.WithSkipExisting())
	}
	if *metricsAddr != "" {
		metrics := rstream.NewMetrics()
		opts = append(opts, rstream.WithMetrics(metrics))
		go serveMetrics(logger, *metricsAddr)
	}

	if *comments {
		stream, err := client.StreamComments(*subreddit, opts...)
		if err != nil {
			log.Fatalf("Failed to create comment stream: %v", err)
		}
		run(ctx, logger, stream, printComment)
		return
	}

	stream, err := client.StreamPosts(*subreddit, opts...)
	if err != nil {
		log.Fatalf("Failed to create post stream: %v", err)
	}
	run(ctx, logger, stream, printPost)
}

// run pulls from the stream until the context ends, retrying fetch failures
// on the same stream with capped exponential backoff.
func run[T types.Fullnamed](ctx context.Context, logger *slog.Logger, stream *rstream.Stream[T], print func(T)) {
	retry := backoff.New(64)

	for {
		item, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				stats := stream.Stats()
				logger.Info("stream closed",
					"polls", stats.Polls, "items", stats.Items, "duplicates", stats.Duplicates)
				return
			}
			delay := retry.NextDelay()
			logger.Warn("fetch failed, retrying", "error", err, "delay", delay)
			if !sleep(ctx, delay) {
				return
			}
			continue
		}
		retry.Reset()
		print(item)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func printPost(post *types.Post) {
	fmt.Printf("%s  %-20s  %s\n", post.Name, "u/"+post.Author, post.Title)
}

func printComment(comment *types.Comment) {
	body := comment.Body
	if len(body) > 80 {
		body = body[:80] + "..."
	}
	fmt.Printf("%s  %-20s  %s\n", comment.Name, "u/"+comment.Author, body)
}

func serveMetrics(logger *slog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server failed", "error", err)
	}
}
