package stream

import (
	"bufio"
	"fmt"
	"io"
)

// Writer emits one median per line with two decimal places, the classic
// rolling-median output format.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w in a buffered median writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one median line.
func (w *Writer) Write(median float64) error {
	if _, err := fmt.Fprintf(w.w, "%.2f\n", median); err != nil {
		return fmt.Errorf("write median: %w", err)
	}
	return nil
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush medians: %w", err)
	}
	return nil
}
