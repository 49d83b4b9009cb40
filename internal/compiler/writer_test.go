package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/lhaig/oxidize/internal/logging"
)

// unreachableFS fails every existence check.
type unreachableFS struct {
	afs.Service
}

func (unreachableFS) Exists(ctx context.Context, URL string, options ...storage.Option) (bool, error) {
	return false, errors.New("connection refused")
}

func TestWriter_Write(t *testing.T) {
	ctx := context.Background()
	baseURL := "mem://localhost/writer"
	fs := afs.New()

	w := newWriter(fs, baseURL, logging.Discard())
	assert.Nil(t, w.write(ctx, "src/main.rs", "fn main() {}\n"))
	assert.Nil(t, w.write(ctx, "src/main.rs", "fn main() {}\n"))
	assert.Nil(t, w.write(ctx, "src/main.rs", "fn main() { }\n"))
	assert.Equal(t, []string{"src/main.rs", "src/main.rs"}, w.written)
	assert.Equal(t, []string{"src/main.rs"}, w.skipped)
	assert.Equal(t, "fn main() { }\n", download(t, fs, baseURL, "src/main.rs"))
}

func TestWriter_ExistsFailure(t *testing.T) {
	w := newWriter(unreachableFS{Service: afs.New()}, "mem://localhost/unreachable", logging.Discard())
	err := w.write(context.Background(), "Cargo.toml", "[package]\n")
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "failed to check mem://localhost/unreachable/Cargo.toml")
		assert.Contains(t, err.Error(), "connection refused")
	}
	assert.Empty(t, w.written)
}
