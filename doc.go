// Package rstream provides a streaming client for Reddit listings with
// OAuth2 authentication.
//
// # Overview
//
// The package turns Reddit's paginated listing endpoints into unbounded
// streams of new items. A stream polls a listing anchored on the newest
// item it has delivered, suppresses the overlap between consecutive pages
// with a bounded recency set, and delivers every item exactly once in
// chronological order.
//
// # Features
//
//   - Unbounded post and comment streams with duplicate suppression
//   - Jittered exponential backoff between idle polls
//   - OAuth2 authentication with token caching and refresh
//   - Built-in client-side rate limiting via golang.org/x/time/rate
//   - Structured logging via Go's slog package
//   - Optional Prometheus instrumentation per stream
//
// # Quick Start
//
//	config := &rstream.Config{
//		ClientID:     "your-client-id",
//		ClientSecret: "your-client-secret",
//		UserAgent:    "myapp/1.0 by /u/yourusername",
//	}
//
//	client, err := rstream.NewClient(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	stream, err := client.StreamComments("golang")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for {
//		comment, err := stream.Next(ctx)
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(comment.Author, comment.Body)
//	}
//
// # Error Handling
//
// Stream.Next returns fetch failures to the caller without ending the
// stream. The intended pattern is to sleep on a backoff.Counter after a
// failure, reset it after a success, and keep calling Next on the same
// stream:
//
//	counter := backoff.New(64)
//	for {
//		item, err := stream.Next(ctx)
//		if err != nil {
//			time.Sleep(counter.NextDelay())
//			continue
//		}
//		counter.Reset()
//		process(item)
//	}
//
// # Custom Streams
//
// Any paginated, newest-first source can be streamed by supplying a
// FetchFunc directly to NewStream; the item type only needs to expose a
// stable fullname via types.Fullnamed.
package rstream
