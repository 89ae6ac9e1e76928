// Package protocol implements the wire protocol for the chat server: plain
// UTF-8 text lines over a byte stream.
//
// Framing is newline-delimited. A command is everything up to (and not
// including) the next '\n'; a trailing '\r' is stripped so telnet-style
// clients work unchanged. The frame length is bounded independently of any
// transport buffer size, so a single read never silently truncates or
// coalesces commands the way a raw fixed-buffer recv would.
package protocol

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// DefaultMaxLineLength bounds a single command line (bytes, excluding the
// delimiter).
const DefaultMaxLineLength = 1024

// ErrLineTooLong is returned when a peer sends a line exceeding the
// configured maximum. The connection is not recoverable after this: the
// reader has lost sync with the stream.
var ErrLineTooLong = errors.New("protocol: line exceeds maximum length")

// LineReader reads newline-delimited commands from a stream.
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader wraps r with a line framer. maxLen bounds line length in
// bytes; values <= 0 fall back to DefaultMaxLineLength.
func NewLineReader(r io.Reader, maxLen int) *LineReader {
	if maxLen <= 0 {
		maxLen = DefaultMaxLineLength
	}
	scanner := bufio.NewScanner(r)
	// +1 so a line of exactly maxLen bytes fits alongside its delimiter.
	scanner.Buffer(make([]byte, 0, 256), maxLen+1)
	return &LineReader{scanner: scanner}
}

// ReadLine returns the next command line with the delimiter (and any trailing
// '\r') removed. Returns io.EOF when the peer closes cleanly and
// ErrLineTooLong when the peer overruns the frame bound.
func (lr *LineReader) ReadLine() (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return "", ErrLineTooLong
			}
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(lr.scanner.Text(), "\r"), nil
}

// WriteLine writes text followed by the line delimiter.
func WriteLine(w io.Writer, text string) error {
	_, err := io.WriteString(w, text+"\n")
	return err
}
