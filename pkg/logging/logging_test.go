package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		contains  string
	}{
		{name: "console", opts: Options{NoColor: true}, contains: "INFO\tConverting file a.c"},
		{name: "verbose", opts: Options{NoColor: true, Verbose: true}, wantDebug: true, contains: "DEBUG\tdetail"},
		{name: "json", opts: Options{JSON: true}, contains: `"msg":"Converting file a.c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Output = &buf
			log, err := New(tt.opts)
			require.NoError(t, err)

			log.Infof("Converting file %s", "a.c")
			log.Debug("detail")
			require.NoError(t, log.Sync())

			assert.Contains(t, buf.String(), tt.contains)
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("detail")))
		})
	}
}
