package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSetRelevant(t *testing.T) {
	dir := t.TempDir()
	tree := filepath.Join(dir, "Assets")
	require.NoError(t, os.MkdirAll(filepath.Join(tree, "AI"), 0o755))
	single := filepath.Join(dir, "Player.json")
	require.NoError(t, os.WriteFile(single, []byte("{}"), 0o644))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	set := &watchSet{files: make(map[string]bool)}
	require.NoError(t, set.add(watcher, tree))
	require.NoError(t, set.add(watcher, single))
	assert.Len(t, watcher.WatchList(), 3)

	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"nested snapshot write", fsnotify.Event{Name: filepath.Join(tree, "AI", "Enemy.yaml"), Op: fsnotify.Write}, true},
		{"explicit file", fsnotify.Event{Name: single, Op: fsnotify.Create}, true},
		{"sibling of explicit file", fsnotify.Event{Name: filepath.Join(dir, "Other.json"), Op: fsnotify.Write}, false},
		{"not a snapshot", fsnotify.Event{Name: filepath.Join(tree, "notes.txt"), Op: fsnotify.Write}, false},
		{"temp file of an atomic save", fsnotify.Event{Name: filepath.Join(tree, ".convlint-123"), Op: fsnotify.Create}, false},
		{"chmod only", fsnotify.Event{Name: filepath.Join(tree, "A.json"), Op: fsnotify.Chmod}, false},
		{"removed", fsnotify.Event{Name: filepath.Join(tree, "A.msgpack"), Op: fsnotify.Remove}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, set.relevant(tc.ev))
		})
	}
}
