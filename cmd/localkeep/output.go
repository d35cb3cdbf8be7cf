package main

import (
	"fmt"
	"io"
	"time"

	"localkeep/internal/format"
)

// writeResult renders payload with the configured structured formatter, or
// falls back to text for the default format.
func writeResult(w io.Writer, formatName string, payload any, text func(io.Writer) error) error {
	formatter, structured, err := format.ForName(formatName)
	if err != nil {
		return err
	}
	if structured {
		return formatter.Write(w, payload)
	}
	return text(w)
}

func writePlain(w io.Writer, layout string, args ...any) error {
	_, err := fmt.Fprintf(w, layout, args...)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
