package sheet

// reader.go cleans up text uploads before the CSV parser sees them:
//
//   - limitReader fails with ErrFileTooLarge once the size cap is passed
//   - the UTF-8 BOM that Windows tools prepend is dropped
//   - invalid UTF-8 bytes are replaced with '?'
//
// All of it streams, so memory stays bounded by the bufio buffer.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// limitReader returns ErrFileTooLarge when more than max bytes are read.
// A max of zero or less disables the check.
type limitReader struct {
	r         io.Reader
	remaining int64
	disabled  bool
}

func newLimitReader(r io.Reader, max int64) *limitReader {
	return &limitReader{r: r, remaining: max, disabled: max <= 0}
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.disabled {
		return l.r.Read(p)
	}
	if l.remaining <= 0 {
		// Anything left past the cap means the file is too large.
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, ErrFileTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

// sanitizingReader yields valid UTF-8 only. Each invalid byte becomes '?'
// so the output never grows.
type sanitizingReader struct {
	br *bufio.Reader
}

// newTextReader skips a leading BOM and sanitizes what follows.
func newTextReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &sanitizingReader{br: br}
}

func (s *sanitizingReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		r, size, err := s.br.ReadRune()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}

		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}
		if size > len(p)-n {
			_ = s.br.UnreadRune()
			if n == 0 {
				// Caller buffer cannot hold a single multi-byte rune.
				return 0, io.ErrShortBuffer
			}
			break
		}
		n += utf8.EncodeRune(p[n:], r)
	}
	return n, nil
}
