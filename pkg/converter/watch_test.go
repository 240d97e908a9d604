package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"c2cs/pkg/project"
)

type watchRun struct {
	res     *Result
	written []string
	err     error
}

func TestWatchRewritesOnlyChangedFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(src, []byte("int one(void) { return 1; }\n"), 0o644))

	p := &project.Project{ProjectName: "Live", SourceFiles: []string{"main.c"}, OutputDirectory: "out", Dir: dir}
	runs := make(chan watchRun, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, WatchOptions{
			Options:  Options{Logger: zaptest.NewLogger(t).Sugar(), Clock: fixedClock},
			Debounce: 20 * time.Millisecond,
			OnResult: func(res *Result, written []string, err error) {
				runs <- watchRun{res, written, err}
			},
		})
	}()

	next := func() watchRun {
		t.Helper()
		select {
		case r := <-runs:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a conversion")
		}
		return watchRun{}
	}

	out := filepath.Join(dir, "out")
	first := next()
	require.NoError(t, first.err)
	assert.ElementsMatch(t, []string{
		filepath.Join(out, "CRuntime.cs"),
		filepath.Join(out, "Live.csproj"),
		filepath.Join(out, "main.cs"),
	}, first.written)

	// Give the watcher a moment to settle before editing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(src, []byte("int two(void) { return 2; }\n"), 0o644))

	second := next()
	require.NoError(t, second.err)
	assert.Equal(t, []string{filepath.Join(out, "main.cs")}, second.written)

	got, err := os.ReadFile(filepath.Join(out, "main.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "public static int two()")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write source", fsnotify.Event{Name: "a.c", Op: fsnotify.Write}, true},
		{"create header", fsnotify.Event{Name: "a.h", Op: fsnotify.Create}, true},
		{"rename source", fsnotify.Event{Name: "a.c", Op: fsnotify.Rename}, true},
		{"chmod source", fsnotify.Event{Name: "a.c", Op: fsnotify.Chmod}, false},
		{"write output", fsnotify.Event{Name: "a.cs", Op: fsnotify.Write}, false},
		{"editor swap", fsnotify.Event{Name: ".a.c.swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}

func TestWatchDirs(t *testing.T) {
	p := &project.Project{
		SourceFiles:        []string{"a.c", "src/b.c", "src/c.c"},
		IncludeDirectories: []string{"include", "src"},
		Dir:                "proj",
	}
	assert.Equal(t, []string{
		"proj",
		filepath.Join("proj", "src"),
		filepath.Join("proj", "include"),
	}, watchDirs(p))
}
