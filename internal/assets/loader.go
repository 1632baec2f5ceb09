package assets

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/portal-viewer/internal/engine/scene"
	"github.com/Faultbox/portal-viewer/internal/engine/texture"
	"github.com/Faultbox/portal-viewer/internal/logger"
)

// Loader fetches and decodes models off the main thread.
type Loader struct {
	fetcher Fetcher
	post    func(func())

	// MaxTextureSize bounds decoded texture dimensions.
	MaxTextureSize int
}

// NewLoader creates a loader. Completions are handed to post, which is
// expected to run them on the thread that owns the scene.
func NewLoader(fetcher Fetcher, post func(func())) *Loader {
	return &Loader{
		fetcher:        fetcher,
		post:           post,
		MaxTextureSize: texture.DefaultMaxSize,
	}
}

// Load starts loading ref in the background and delivers the result to
// done exactly once through the post function. Errors are *LoadError.
func (l *Loader) Load(ctx context.Context, ref string, done func(*scene.Node, error)) {
	go func() {
		node, err := l.LoadSync(ctx, ref)
		l.post(func() { done(node, err) })
	}()
}

// LoadSync fetches and decodes ref on the calling goroutine.
func (l *Loader) LoadSync(ctx context.Context, ref string) (*scene.Node, error) {
	start := time.Now()
	logger.Debug("loading model", zap.String("ref", ref))

	data, err := l.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Op: "fetch", Err: err}
	}

	root, err := Decode(ctx, data, ref, l.fetcher, l.MaxTextureSize)
	if err != nil {
		return nil, &LoadError{Ref: ref, Op: "decode", Err: err}
	}

	logger.Info("model loaded",
		zap.String("ref", ref),
		zap.Int("bytes", len(data)),
		zap.Int("nodes", root.Count()),
		zap.Duration("elapsed", time.Since(start)))
	return root, nil
}
