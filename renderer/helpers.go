package renderer

import (
	"bytes"
	"io"

	"github.com/google/uuid"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// short returns the first group of a lot ID, enough to tell lots apart in a
// report.
func short(id uuid.UUID) string { return id.String()[:8] }
