package captions

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Cue parsing is line-oriented rather than grammar-complete: both formats
// in the wild carry enough malformed metadata that a strict parser rejects
// real files. Anything that is not a timing line, a cue identifier, or a
// header block is treated as cue text.

var (
	// Matches "00:00:01.000 --> 00:00:04.000" (WebVTT) and
	// "00:00:01,000 --> 00:00:04,000" (SRT), with optional cue settings after.
	timingLine = regexp.MustCompile(`^(\d{2}:)?\d{2}:\d{2}[.,]\d{3}\s+-->\s+(\d{2}:)?\d{2}:\d{2}[.,]\d{3}`)

	// Numeric-only lines preceding a timing line are SRT cue counters.
	cueCounter = regexp.MustCompile(`^\d+$`)

	// Inline markup: <v Speaker>, <i>, <b>, <c.classname>, closing tags.
	inlineTag = regexp.MustCompile(`<[^>]*>`)
)

// Parser implements Extractor for WebVTT and SRT files.
type Parser struct{}

// NewParser creates a caption parser.
func NewParser() *Parser {
	return &Parser{}
}

// Compile-time verification that Parser implements Extractor.
var _ Extractor = (*Parser)(nil)

// Extract reads the caption file and returns plain transcript text.
func (p *Parser) Extract(r io.Reader, format Format) (string, error) {
	switch format {
	case FormatWebVTT, FormatSRT:
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		parts      []string
		inHeader   = format == FormatWebVTT
		skipBlock  bool
		pendingNum string
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// The WEBVTT header block runs until the first blank line.
		if inHeader {
			if line == "" {
				inHeader = false
			}
			continue
		}

		if line == "" {
			skipBlock = false
			if pendingNum != "" {
				// Counters precede timing lines; a number at block
				// end was cue text.
				parts = append(parts, pendingNum)
				pendingNum = ""
			}
			continue
		}

		// NOTE and STYLE blocks carry no cue text.
		if strings.HasPrefix(line, "NOTE") || line == "STYLE" || line == "REGION" {
			skipBlock = true
			continue
		}
		if skipBlock {
			continue
		}

		if timingLine.MatchString(line) {
			pendingNum = ""
			continue
		}

		// A bare number might be an SRT cue counter or real cue text
		// ("42"). Hold it until the next line disambiguates.
		if cueCounter.MatchString(line) {
			if pendingNum != "" {
				parts = append(parts, pendingNum)
			}
			pendingNum = line
			continue
		}
		if pendingNum != "" {
			// Followed by text, not a timing line, so it was cue text.
			parts = append(parts, pendingNum)
			pendingNum = ""
		}

		text := strings.TrimSpace(inlineTag.ReplaceAllString(line, ""))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read caption file: %w", err)
	}
	if pendingNum != "" {
		parts = append(parts, pendingNum)
	}

	if len(parts) == 0 {
		return "", ErrEmptyCaptions
	}

	return strings.Join(parts, " "), nil
}
