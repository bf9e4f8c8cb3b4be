// Package audio turns opaque media references into short-lived local files.
package audio

import (
	"context"
	"fmt"
	"os"
)

// Fetcher retrieves the raw bytes behind an opaque content reference.
type Fetcher interface {
	GetMessageContent(ctx context.Context, messageID string) ([]byte, error)
}

// Materialize fetches the blob behind ref, writes it to a uniquely named
// temporary .m4a file, and invokes fn with the path. The file is removed
// before control returns to the caller, including when fn errors or panics.
func Materialize(ctx context.Context, fetcher Fetcher, ref string, fn func(path string) error) error {
	data, err := fetcher.GetMessageContent(ctx, ref)
	if err != nil {
		return fmt.Errorf("audio: fetch content %s: %w", ref, err)
	}

	tmp, err := os.CreateTemp("", "line-audio-*.m4a")
	if err != nil {
		return fmt.Errorf("audio: create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("audio: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("audio: close temp file: %w", err)
	}

	return fn(path)
}
