package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/naresh-2026/warehouseProducts/internal/application/port"
	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

const defaultDebounce = 150 * time.Millisecond

// AssetWatcher следит за директорией статики и просит браузеры перезагрузиться
// после пересборки бандла. Используется только в debug режиме.
type AssetWatcher struct {
	root     string
	store    port.AssetStore
	notifier port.ReloadNotifier
	debounce time.Duration
	logger   *logger.Logger

	indexPresent bool
}

func NewAssetWatcher(root string, store port.AssetStore, notifier port.ReloadNotifier, log *logger.Logger) *AssetWatcher {
	return &AssetWatcher{
		root:     root,
		store:    store,
		notifier: notifier,
		debounce: defaultDebounce,
		logger:   log,
	}
}

// WithDebounce overrides how long events are coalesced before a reload is sent.
func (w *AssetWatcher) WithDebounce(d time.Duration) *AssetWatcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Start регистрирует watch на все поддиректории и запускает цикл обработки событий.
// Цикл завершается при отмене ctx.
func (w *AssetWatcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.watchTree(fw, w.root); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	w.indexPresent = w.store.Exists(port.IndexFile)
	w.logger.Info("Watching static assets", "dir", w.root, "debounce", w.debounce.String())

	go w.loop(ctx, fw)
	return nil
}

func (w *AssetWatcher) watchTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

func (w *AssetWatcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer func() { _ = fw.Close() }()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if event.Has(fsnotify.Create) {
				// Новые поддиректории (например, static/js после пересборки) тоже отслеживаем
				if err := w.watchTree(fw, event.Name); err != nil {
					w.logger.Debug("Skip watching new path", "path", event.Name, "error", err.Error())
				}
			}

			pending[w.relative(event.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Asset watcher error", err)

		case <-fire:
			fire = nil
			w.flush(pending)
			pending = make(map[string]struct{})
		}
	}
}

func (w *AssetWatcher) flush(pending map[string]struct{}) {
	if len(pending) == 0 {
		return
	}

	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)

	present := w.store.Exists(port.IndexFile)
	if present != w.indexPresent {
		if present {
			w.logger.Info("index.html is back, server ready", "dir", w.root)
		} else {
			w.logger.Warn("index.html disappeared, root requests will return 404", "dir", w.root)
		}
		w.indexPresent = present
	}

	reason := strings.Join(names, ", ")
	w.logger.Info("Static assets changed", "files", reason)
	w.notifier.BroadcastReload(reason)
}

func (w *AssetWatcher) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
