package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// FileSource reads a whole source file, and optionally keeps re-reading it as it is written.
type FileSource struct {
	filePath string
	logger   *slog.Logger
}

// NewFileSource creates a new FileSource instance.
func NewFileSource(logger *slog.Logger, filePath string) *FileSource {
	return &FileSource{
		logger:   logger,
		filePath: filePath,
	}
}

func (f *FileSource) Path() string {
	return f.filePath
}

// Read returns the full content of the file. There is no size limit.
func (f *FileSource) Read() ([]byte, error) {
	content, err := os.ReadFile(f.filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return content, nil
}

// Watch calls fn with the file content once, then again every time the file changes,
// until ctx is cancelled or fn returns an error. Each call gets a fresh run id.
func (f *FileSource) Watch(ctx context.Context, fn func(runID uuid.UUID, content []byte) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors like vim replace the file instead of writing to it, which drops an inode based
	// watch. Watching the directory keeps working across such renames.
	if err := watcher.Add(filepath.Dir(f.filePath)); err != nil {
		return fmt.Errorf("cannot add directory to watcher: %w", err)
	}

	emit := func() error {
		content, err := f.Read()
		if err != nil {
			return err
		}
		runID := uuid.New()
		f.logger.Debug("file content changed.", "path", f.filePath, "bytes", len(content), "run_id", runID)
		return fn(runID, content)
	}

	if err := emit(); err != nil {
		return err
	}

	target := filepath.Clean(f.filePath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				f.logger.Debug("fsnotify watcher channel is closed.")
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				f.logger.Debug("Received unhandled event from fsnotify.", "event", event.String())
				continue
			}
			if err := emit(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
