package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Opener resolves a dataset source name to a readable stream.
type Opener interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}

// FileOpener reads sources from the local filesystem.
type FileOpener struct{}

// Open opens the file at path src.
func (FileOpener) Open(_ context.Context, src string) (io.ReadCloser, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// SourceOpener dispatches s3:// sources to S3 and everything else to Files.
// S3 may be nil, in which case s3:// sources are rejected.
type SourceOpener struct {
	Files Opener
	S3    Opener
}

// Open implements Opener.
func (o SourceOpener) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if strings.HasPrefix(src, s3Scheme) {
		if o.S3 == nil {
			return nil, fmt.Errorf("s3 source %q: no s3 client configured", src)
		}
		return o.S3.Open(ctx, src)
	}
	files := o.Files
	if files == nil {
		files = FileOpener{}
	}
	return files.Open(ctx, src)
}
