// Package encoding converts text written by legacy 8-bit tools to UTF-8.
package encoding

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Charset names the encoding of a text file.
type Charset string

const (
	UTF8        Charset = "utf-8"
	Windows1252 Charset = "windows-1252"
	EUCKR       Charset = "euc-kr"
	ShiftJIS    Charset = "shift-jis"
)

// ErrUnknownCharset is returned for charset names ParseCharset does not know.
var ErrUnknownCharset = errors.New("unknown charset")

// ParseCharset parses a charset name. An empty name means UTF-8.
func ParseCharset(s string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "windows-1252", "cp1252", "latin1":
		return Windows1252, nil
	case "euc-kr", "euckr", "cp949":
		return EUCKR, nil
	case "shift-jis", "shift_jis", "sjis", "cp932":
		return ShiftJIS, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCharset, s)
}

func (c Charset) encoding() encoding.Encoding {
	switch c {
	case Windows1252:
		return charmap.Windows1252
	case EUCKR:
		return korean.EUCKR
	case ShiftJIS:
		return japanese.ShiftJIS
	}
	return nil
}

// ToUTF8 decodes data from c. Data that is already valid UTF-8 is returned
// unchanged, so plain ASCII files pass through whatever the charset.
func ToUTF8(data []byte, c Charset) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}
	enc := c.encoding()
	if enc == nil {
		return data, nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c, err)
	}
	return out, nil
}

// FromUTF8 encodes s to c. UTF-8 and unknown charsets return s unchanged.
func FromUTF8(s string, c Charset) ([]byte, error) {
	enc := c.encoding()
	if enc == nil {
		return []byte(s), nil
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", c, err)
	}
	return out, nil
}
