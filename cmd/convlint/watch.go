package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"convlint/internal/metrics"
	"convlint/internal/snapshot"
)

const (
	watchDebounce = 200 * time.Millisecond
	// decoded snapshots kept between passes
	watchCacheSize = 1024
)

// watch runs check once, then again after every burst of snapshot changes
// under targets, until interrupted. Each run is a full pass.
func watch(ctx context.Context, s *session, targets []string, opts checkOptions, m *metrics.Metrics, check func(context.Context) (bool, error)) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	set := &watchSet{files: make(map[string]bool)}
	for _, target := range targets {
		if err := set.add(watcher, target); err != nil {
			return err
		}
	}

	s.cache = snapshot.NewCache(watchCacheSize)
	s.cache.OnLookup = m.CacheLookup

	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		s.log.WithField("addr", opts.metricsAddr).Info("serving metrics")
	}

	rerun := func() {
		if _, err := check(ctx); err != nil && ctx.Err() == nil {
			s.log.WithError(err).Error("check failed")
		}
	}
	rerun()
	s.log.WithField("targets", strings.Join(targets, ", ")).Info("watching for snapshot changes")

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := set.addDir(watcher, event.Name); err != nil {
						s.log.WithError(err).Warn("failed to watch new directory")
					}
					continue
				}
			}
			if !set.relevant(event) {
				continue
			}
			s.log.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Debug("snapshot changed")
			timer.Reset(watchDebounce)
		case <-timer.C:
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.WithError(err).Warn("watcher error")
		}
	}
}

// watchSet remembers what the user asked to watch: whole directory trees
// and single files, the latter watched through their parent directory.
type watchSet struct {
	dirs  []string
	files map[string]bool
}

func (w *watchSet) add(watcher *fsnotify.Watcher, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		w.files[filepath.Clean(target)] = true
		return watcher.Add(filepath.Dir(target))
	}
	w.dirs = append(w.dirs, filepath.Clean(target))
	return w.addDir(watcher, target)
}

// addDir watches root and every non-hidden directory below it.
func (w *watchSet) addDir(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// relevant reports whether event changes a snapshot the user asked for.
func (w *watchSet) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if !snapshot.IsSnapshot(event.Name) {
		return false
	}
	name := filepath.Clean(event.Name)
	if w.files[name] {
		return true
	}
	for _, dir := range w.dirs {
		if dir == "." || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
