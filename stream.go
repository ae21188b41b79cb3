package rstream

import (
	"context"
	"errors"
	"time"

	"github.com/jamesprial/go-reddit-stream/pkg/backoff"
	"github.com/jamesprial/go-reddit-stream/pkg/boundedset"
	"github.com/jamesprial/go-reddit-stream/pkg/types"
)

const (
	// defaultPageLimit is the page size requested while a cursor anchors
	// the poll.
	defaultPageLimit = 100

	// seenCapacity must stay comfortably above the page limit so the
	// overlap between consecutive polls cannot outrun the seen set.
	seenCapacity = 301

	// discountCycle is the period of the cold-start limit discount.
	discountCycle = 30

	// defaultBackoffCap bounds the sleep, in seconds, between consecutive
	// polls that return nothing new.
	defaultBackoffCap = 16
)

// ErrPaused is returned by Stream.Next when the configured pause threshold
// of consecutive empty polls is reached. Calling Next again resumes polling.
var ErrPaused = errors.New("stream paused: no new items")

// FetchFunc returns one page of a listing: at most limit items, newest
// first, all strictly newer than the item named by before (or the absolute
// newest when before is empty).
type FetchFunc[T types.Fullnamed] func(ctx context.Context, limit int, before string) ([]T, error)

// PollStats counts what a Poller has seen since creation.
type PollStats struct {
	// Polls is the number of successful page fetches.
	Polls uint64
	// Items is the number of previously unseen items returned.
	Items uint64
	// Duplicates is the number of fetched items skipped because an
	// earlier poll already delivered them.
	Duplicates uint64
}

// Poller repeatedly fetches a listing page anchored on the newest item it
// has delivered and returns only previously unseen items, oldest first.
//
// A poll that yields nothing new clears the anchor on purpose: the next
// request goes out without a cursor and with a discounted page size, cycling
// the discount so repeated idle polls vary in cost. Downstream consumers
// depend on this cursor-forgetting behavior, so do not "fix" it here.
//
// A Poller owns all of its state and is not safe for concurrent use; run
// one instance per watched listing.
type Poller[T types.Fullnamed] struct {
	fetch    FetchFunc[T]
	before   string
	discount int
	seen     *boundedset.Set
	stats    PollStats
}

// NewPoller creates a Poller over the given fetch capability.
func NewPoller[T types.Fullnamed](fetch FetchFunc[T]) *Poller[T] {
	return &Poller[T]{
		fetch: fetch,
		seen:  boundedset.New(seenCapacity),
	}
}

// NextBatch performs one poll and returns the previously unseen items in
// oldest-to-newest order. An empty slice with a nil error is a normal
// outcome meaning nothing new happened.
//
// Fetch failures are returned as-is: the poller applies no retry policy of
// its own. The cursor and the seen set are untouched by a failed poll, so
// the caller can back off and call NextBatch again on the same instance.
func (p *Poller[T]) NextBatch(ctx context.Context) ([]T, error) {
	limit := defaultPageLimit
	if p.before == "" {
		limit -= p.discount
		p.discount = (p.discount + 1) % discountCycle
	}

	items, err := p.fetch(ctx, limit, p.before)
	if err != nil {
		return nil, err
	}
	p.stats.Polls++

	var fresh []T
	newest := ""
	for i := len(items) - 1; i >= 0; i-- {
		name := items[i].GetName()
		if p.seen.Contains(name) {
			p.stats.Duplicates++
			continue
		}
		p.seen.Add(name)
		newest = name
		fresh = append(fresh, items[i])
	}
	p.stats.Items += uint64(len(fresh))

	// Anchor on the newest delivered item; an all-duplicate or empty page
	// deliberately resets the anchor to the cold-start path.
	p.before = newest
	return fresh, nil
}

// Stats returns the poller's counters.
func (p *Poller[T]) Stats() PollStats {
	return p.stats
}

// Stream is an unbounded pull iterator over previously unseen listing
// items. It wraps a Poller and adds the pacing policy around it: an
// exponentially growing jittered sleep between consecutive empty polls
// (reset as soon as anything new arrives), optional pause signaling, and
// optional suppression of the items that existed before the stream started.
//
// Fetch errors are returned from Next without ending the stream; calling
// Next again polls the same cursor, so a caller-level retry loop can sleep
// on a backoff.Counter and resume.
type Stream[T types.Fullnamed] struct {
	poller  *Poller[T]
	cfg     streamConfig
	counter *backoff.Counter

	buf    []T
	bufIdx int

	firstPoll    bool
	emptyPolls   int
	pendingPause bool
	pendingSleep time.Duration

	// sleep is swapped out by tests.
	sleep func(context.Context, time.Duration) error
}

// NewStream creates a Stream over the given fetch capability.
func NewStream[T types.Fullnamed](fetch FetchFunc[T], opts ...StreamOption) *Stream[T] {
	cfg := defaultStreamConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Stream[T]{
		poller:    NewPoller(fetch),
		cfg:       cfg,
		counter:   backoff.New(cfg.backoffCap),
		firstPoll: true,
		sleep:     sleepContext,
	}
}

// Next blocks until a new item is available and returns it. It returns
// ErrPaused when the pause threshold is reached, the fetch error when a
// poll fails, or the context error when ctx ends during an idle sleep.
// Items within one poll are delivered oldest first.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		if s.bufIdx < len(s.buf) {
			item := s.buf[s.bufIdx]
			s.bufIdx++
			return item, nil
		}

		if s.pendingPause {
			s.pendingPause = false
			return zero, ErrPaused
		}

		if s.pendingSleep > 0 {
			delay := s.pendingSleep
			s.pendingSleep = 0
			if s.cfg.metrics != nil {
				s.cfg.metrics.observeIdleSleep(s.cfg.name, delay)
			}
			if err := s.sleep(ctx, delay); err != nil {
				return zero, err
			}
		}

		prev := s.poller.Stats()
		batch, err := s.poller.NextBatch(ctx)
		if err != nil {
			if s.cfg.metrics != nil {
				s.cfg.metrics.observeFetchError(s.cfg.name)
			}
			if s.cfg.logger != nil {
				s.cfg.logger.Debug("poll failed", "stream", s.cfg.name, "error", err)
			}
			return zero, err
		}

		stats := s.poller.Stats()
		found := len(batch) > 0
		if s.cfg.metrics != nil {
			s.cfg.metrics.observePoll(s.cfg.name, len(batch), int(stats.Duplicates-prev.Duplicates))
		}
		if s.cfg.logger != nil {
			s.cfg.logger.Debug("poll complete",
				"stream", s.cfg.name,
				"new_items", len(batch),
				"duplicates", stats.Duplicates-prev.Duplicates,
			)
		}

		if s.cfg.skipExisting && s.firstPoll {
			// The poller recorded the items as seen; they are simply
			// not delivered.
			batch = nil
		}
		s.firstPoll = false

		s.buf = batch
		s.bufIdx = 0

		switch {
		case s.cfg.pauseValid && s.cfg.pauseAfter < 0:
			s.pendingPause = true
		case found:
			s.counter.Reset()
			s.emptyPolls = 0
		default:
			s.emptyPolls++
			if s.cfg.pauseValid && s.emptyPolls > s.cfg.pauseAfter {
				s.counter.Reset()
				s.emptyPolls = 0
				s.pendingPause = true
			} else {
				s.pendingSleep = s.counter.NextDelay()
			}
		}
	}
}

// Collect pulls up to max items from the stream. It returns early with the
// items gathered so far when Next reports an error, including ErrPaused.
func (s *Stream[T]) Collect(ctx context.Context, max int) ([]T, error) {
	var items []T
	for len(items) < max {
		item, err := s.Next(ctx)
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Stats returns the counters of the underlying poller.
func (s *Stream[T]) Stats() PollStats {
	return s.poller.Stats()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
