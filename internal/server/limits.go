package server

import (
	"bufio"
	"errors"
	"io"
)

// MaxNDJSONLineSize caps a single request line - 10MB, returns
// ErrLineTooLong if exceeded. Protects against hostile hosts and OOM.
const MaxNDJSONLineSize = 10 * 1024 * 1024

var ErrLineTooLong = errors.New("NDJSON line exceeds maximum size")

// LimitedLineReader bounds line reading to prevent OOM
type LimitedLineReader struct {
	reader  *bufio.Reader
	maxSize int
	buf     []byte
}

func NewLimitedLineReader(r io.Reader, maxSize int) *LimitedLineReader {
	return &LimitedLineReader{
		reader:  bufio.NewReaderSize(r, 64*1024), // 64KB buffer for efficiency
		maxSize: maxSize,
		buf:     make([]byte, 0, 4096), // Start small, grow as needed
	}
}

// ReadLine returns the next line without its terminator. On overflow the
// rest of the oversized line is drained so the stream stays aligned.
func (l *LimitedLineReader) ReadLine() ([]byte, error) {
	l.buf = l.buf[:0]

	for {
		if len(l.buf) >= l.maxSize {
			for {
				b, err := l.reader.ReadByte()
				if err != nil || b == '\n' {
					break
				}
			}
			return nil, ErrLineTooLong
		}

		b, err := l.reader.ReadByte()
		if err != nil {
			if err == io.EOF && len(l.buf) > 0 {
				return l.buf, nil
			}
			return nil, err
		}

		if b == '\n' {
			result := l.buf
			if len(result) > 0 && result[len(result)-1] == '\r' {
				result = result[:len(result)-1]
			}
			return result, nil
		}

		l.buf = append(l.buf, b)
	}
}

// ReadLineCopy returns an owned copy of the next line, safe to keep across
// subsequent reads.
func (l *LimitedLineReader) ReadLineCopy() ([]byte, error) {
	line, err := l.ReadLine()
	if err != nil {
		return nil, err
	}
	result := make([]byte, len(line))
	copy(result, line)
	return result, nil
}
