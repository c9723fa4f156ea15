// Package captions extracts plain transcript text from caption files.
// Supported formats are WebVTT and SubRip (SRT).
package captions

import (
	"errors"
	"io"
	"strings"
)

// Format identifies a caption file format.
type Format string

const (
	FormatWebVTT Format = "vtt"
	FormatSRT    Format = "srt"
)

// ErrUnsupportedFormat is returned for caption formats the extractor cannot parse.
var ErrUnsupportedFormat = errors.New("unsupported caption format")

// ErrEmptyCaptions is returned when a caption file contains no cue text.
var ErrEmptyCaptions = errors.New("caption file contains no text")

// Extractor converts a caption file into plain transcript text.
type Extractor interface {
	// Extract reads a caption file and returns its cue text joined with
	// single spaces, with timing lines, cue identifiers, and inline
	// markup removed.
	Extract(r io.Reader, format Format) (string, error)
}

// DetectFormat infers the caption format from a file name or object key.
// Returns ErrUnsupportedFormat for unknown extensions.
func DetectFormat(name string) (Format, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".vtt"):
		return FormatWebVTT, nil
	case strings.HasSuffix(lower, ".srt"):
		return FormatSRT, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ContentType returns the MIME type for a caption format.
func ContentType(format Format) string {
	switch format {
	case FormatWebVTT:
		return "text/vtt"
	case FormatSRT:
		return "application/x-subrip"
	default:
		return "application/octet-stream"
	}
}
