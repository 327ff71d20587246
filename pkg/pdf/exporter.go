// Package pdf defines the export boundary for research results.
// No renderer ships yet; the HTTP layer answers 501 until one does.
package pdf

import (
	"context"
	"io"
)

// Exporter renders a research answer into a PDF stream.
type Exporter interface {
	Export(ctx context.Context, question, answer string, w io.Writer) error
}
