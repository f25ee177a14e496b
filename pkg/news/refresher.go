package news

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kisansetu/pkg/scrape"
)

const (
	DefaultInterval = 30 * time.Minute
	maxPageBytes    = 2 << 20
	maxParallel     = 4
)

var (
	ErrBusy        = errors.New("news: refresh already running")
	ErrNoHeadlines = errors.New("news: no headlines found")
)

type Options struct {
	Sources  []string
	Interval time.Duration
	Client   *http.Client
	Logger   *zap.Logger
}

// Refresher polls the source pages and holds the latest snapshot.
type Refresher struct {
	sources  []string
	interval time.Duration
	client   *http.Client
	log      *zap.Logger
	fallback []Article
	now      func() time.Time

	running atomic.Bool
	wg      sync.WaitGroup

	mu        sync.RWMutex
	snapshot  []Article
	updatedAt time.Time
}

func NewRefresher(o Options) *Refresher {
	r := &Refresher{
		sources:  o.Sources,
		interval: o.Interval,
		client:   o.Client,
		log:      o.Logger,
		fallback: Fallback(),
		now:      time.Now,
	}
	if r.interval <= 0 {
		r.interval = DefaultInterval
	}
	if r.client == nil {
		r.client = scrape.DefaultClient
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Snapshot returns the current articles. When nothing has been fetched yet
// (or every fetch so far failed) it returns the embedded dataset and
// fallback is true.
func (r *Refresher) Snapshot() (articles []Article, updated time.Time, fallback bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.snapshot) == 0 {
		return append([]Article(nil), r.fallback...), time.Time{}, true
	}
	return append([]Article(nil), r.snapshot...), r.updatedAt, false
}

// Run refreshes immediately and then on every tick until ctx is done. A tick
// that fires while a refresh is still in flight is skipped. Run waits for the
// in-flight refresh before returning.
func (r *Refresher) Run(ctx context.Context) {
	if len(r.sources) == 0 {
		r.log.Info("news: no sources configured, serving fallback feed")
		return
	}
	r.log.Info("news: refresher started", zap.Int("sources", len(r.sources)), zap.Duration("interval", r.interval))
	r.tick(ctx)

	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.wg.Wait()
			r.log.Info("news: refresher stopped")
			return
		case <-t.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if r.running.Load() {
		r.log.Debug("news: refresh still running, tick skipped")
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.Refresh(ctx); err != nil && err != ErrBusy {
			r.log.Warn("news: refresh failed, keeping previous snapshot", zap.Error(err))
		}
	}()
}

// Refresh fetches every source concurrently and swaps in the merged
// headlines. Sources that fail are logged and skipped; if none yields a
// headline the previous snapshot stays and the error is returned.
func (r *Refresher) Refresh(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.running.Store(false)

	results := make([][]Article, len(r.sources))
	errs := make([]error, len(r.sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, src := range r.sources {
		g.Go(func() error {
			arts, err := r.fetch(gctx, src)
			if err != nil {
				r.log.Warn("news: source failed", zap.String("source", src), zap.Error(err))
				errs[i] = err
				return nil
			}
			results[i] = arts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	seen := map[string]bool{}
	var merged []Article
	for _, arts := range results {
		for _, a := range arts {
			if !seen[a.ID] {
				seen[a.ID] = true
				merged = append(merged, a)
			}
		}
	}
	if len(merged) == 0 {
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		return ErrNoHeadlines
	}

	r.mu.Lock()
	r.snapshot = merged
	r.updatedAt = r.now()
	r.mu.Unlock()
	r.log.Debug("news: snapshot updated", zap.Int("articles", len(merged)))
	return nil
}

func (r *Refresher) fetch(ctx context.Context, src string) ([]Article, error) {
	p, err := scrape.Fetch(ctx, r.client, src, maxPageBytes)
	if err != nil {
		return nil, err
	}
	name := p.Title
	if name == "" {
		name = p.URL.Host
	}
	now := r.now()
	hs := p.Headlines()
	out := make([]Article, 0, len(hs))
	for _, h := range hs {
		out = append(out, fromHeadline(name, h, now))
	}
	return out, nil
}
