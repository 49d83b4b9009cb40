package compiler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/minio/highwayhash"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

var fingerprintKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// fingerprint hashes file content for change detection.
func fingerprint(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// writer stores generated files under a base URL. A file whose content is
// unchanged is left untouched so cargo keeps its incremental state.
type writer struct {
	fs      afs.Service
	baseURL string
	logger  *slog.Logger
	written []string
	skipped []string
}

func newWriter(fs afs.Service, baseURL string, logger *slog.Logger) *writer {
	return &writer{fs: fs, baseURL: baseURL, logger: logger}
}

// write stores content at rel, a slash-separated path under the base URL.
// Parent directories are created as needed.
func (w *writer) write(ctx context.Context, rel string, content string) error {
	URL := url.Join(w.baseURL, rel)
	unchanged, err := w.unchanged(ctx, URL, []byte(content))
	if err != nil {
		return err
	}
	if unchanged {
		w.logger.Debug("unchanged", "path", rel)
		w.skipped = append(w.skipped, rel)
		return nil
	}
	if err := w.fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(content)); err != nil {
		return errors.Wrapf(err, "failed to write %v", URL)
	}
	w.logger.Debug("wrote", "path", rel, "bytes", len(content))
	w.written = append(w.written, rel)
	return nil
}

func (w *writer) unchanged(ctx context.Context, URL string, content []byte) (bool, error) {
	exists, err := w.fs.Exists(ctx, URL)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check %v", URL)
	}
	if !exists {
		return false, nil
	}
	existing, err := w.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %v", URL)
	}
	if len(existing) != len(content) {
		return false, nil
	}
	before, err := fingerprint(existing)
	if err != nil {
		return false, err
	}
	after, err := fingerprint(content)
	if err != nil {
		return false, err
	}
	return before == after, nil
}
