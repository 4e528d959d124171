package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// Watcher monitors the blog's content surface: `_config.yml`, `_drafts/`
// and `_posts/`. Rapid change bursts are debounced; each settled batch is
// delivered on Changes as one signal.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	changes  chan struct{}
	pending  chan struct{}
	stopOnce sync.Once
	stop     chan struct{}
}

// NewWatcher creates a watcher for the blog at root. Directories are
// watched rather than files so editor rename-and-replace saves are seen.
func NewWatcher(root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		watcher:  fsw,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		pending:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}

	// The root itself covers _config.yml; the content directories may not
	// exist yet on a fresh blog, so missing ones are skipped.
	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	for _, dir := range []string{content.DraftsDir, content.PostsDir} {
		path := filepath.Join(root, dir)
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		if err := fsw.Add(path); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}

	return w, nil
}

// Changes delivers one signal per settled change batch.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Start launches the event and debounce loops.
func (w *Watcher) Start(ctx context.Context) {
	go w.eventLoop(ctx)
	go w.debounceLoop(ctx)
	slog.Info("Watching for changes",
		logfields.Path(w.root),
		slog.Duration("debounce", w.debounce))
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stop) })
	return w.watcher.Close()
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Change detected",
				logfields.Path(event.Name),
				slog.String("op", event.Op.String()))

			// A freshly created content directory needs its own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
				}
			}

			select {
			case w.pending <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-w.pending:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case w.changes <- struct{}{}:
				default:
				}
			})
		}
	}
}

// relevant filters events down to the config file and markdown content.
// Editor temp files and unrelated repo activity stay invisible.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)

	if base == siteconfig.StandardFilename || base == "_config.yaml" {
		return true
	}
	if strings.HasPrefix(rel, content.DraftsDir+"/") || strings.HasPrefix(rel, content.PostsDir+"/") {
		if strings.HasPrefix(base, ".") {
			return false
		}
		return strings.HasSuffix(base, ".md") || strings.HasSuffix(base, ".markdown")
	}
	// Creation of the content directories themselves.
	return rel == content.DraftsDir || rel == content.PostsDir
}
