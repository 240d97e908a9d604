package convert

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"c2cs/pkg/cfront"
)

func parse(t *testing.T, src string) *cfront.File {
	t.Helper()
	f, err := cfront.ParseSource("test.c", src, cfront.PreprocessOptions{})
	require.NoError(t, err)
	return f
}

func generate(t *testing.T, src string) *Output {
	t.Helper()
	return Generate(zaptest.NewLogger(t).Sugar(), parse(t, src))
}

// observed returns a logger that records warnings and above.
func observed() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core).Sugar(), logs
}

// classified registers and classifies every aggregate of src.
func classified(t *testing.T, src string) *Context {
	t.Helper()
	f := parse(t, src)
	c := NewContext(zaptest.NewLogger(t).Sugar(), f)
	for _, r := range f.Records() {
		c.RecordStruct(r)
	}
	c.ClassifyAll()
	return c
}

func function(t *testing.T, out *Output, i int) string {
	t.Helper()
	require.Greater(t, len(out.Functions), i, "missing function %d", i)
	return out.Functions[i]
}
