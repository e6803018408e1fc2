package assets

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/internal/logger"
)

// Watcher reports changes to files on disk so loaded models can be reloaded.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	changes  chan string
	done     chan struct{}
	closed   sync.Once
	wg       sync.WaitGroup
	log      *zap.Logger
}

// NewWatcher starts a watcher with no files.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsnotify: fw,
		changes:  make(chan string, 16),
		done:     make(chan struct{}),
		log:      logger.Named("watch"),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Add starts watching a file or directory.
func (w *Watcher) Add(name string) error {
	select {
	case <-w.done:
		return errors.New("watcher already closed")
	default:
	}
	return w.fsnotify.Add(name)
}

// Changes delivers the cleaned path of every file that was written or created.
// The channel is closed by Close.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closed.Do(func() {
		close(w.done)
		err = w.fsnotify.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.Debug("file changed", zap.String("path", e.Name), zap.Stringer("op", e.Op))
			select {
			case w.changes <- filepath.Clean(e.Name):
			case <-w.done:
				return
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}
