package extract

import (
	"context"
	"os"
)

// Text reads a UTF-8 text file as a single page.
type Text struct{}

func (t *Text) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Path: path, Err: err}
	}
	return string(b), nil
}
