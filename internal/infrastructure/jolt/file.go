package jolt

import (
	"context"
	"fmt"
	"os"

	"github.com/example/shiftcall/internal/internaltypes"
)

// FileFetcher serves a saved ScheduleShift response from disk, whatever
// URL is asked for.
type FileFetcher struct {
	Path string
}

func (f FileFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internaltypes.ErrTransport, err)
	}
	return b, nil
}
