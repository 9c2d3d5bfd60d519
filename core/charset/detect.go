package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names returned by Detect.
const (
	UTF8    = "utf-8"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
	Latin1  = "iso-8859-1"
)

// sampleSize is the number of leading bytes inspected by the UTF-16 heuristic.
const sampleSize = 10000

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ErrDecode is returned when neither the detected nor the fallback encoding
// can decode the input.
var ErrDecode = errors.New("unable to decode input")

// latin1Accents holds the ISO-8859-1 code points of accented letters that are
// common in western european exports (umlauts, sharp s, acute/grave vowels...).
var latin1Accents = map[byte]struct{}{
	0xC0: {}, 0xC1: {}, 0xC2: {}, 0xC4: {}, 0xC7: {}, 0xC8: {}, 0xC9: {}, 0xCA: {},
	0xD1: {}, 0xD3: {}, 0xD6: {}, 0xDC: {}, 0xDF: {},
	0xE0: {}, 0xE1: {}, 0xE2: {}, 0xE4: {}, 0xE7: {}, 0xE8: {}, 0xE9: {}, 0xEA: {},
	0xEB: {}, 0xED: {}, 0xEE: {}, 0xEF: {}, 0xF1: {}, 0xF3: {}, 0xF4: {}, 0xF6: {},
	0xFA: {}, 0xFB: {}, 0xFC: {},
}

// Detect determines the text encoding of data. Checks run in order and the
// first match wins: byte-order mark, UTF-16 null-byte heuristic, UTF-8
// round-trip, Latin-1 accent heuristic, declared charset, UTF-8.
func Detect(data []byte, declared string) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return UTF8
	case bytes.HasPrefix(data, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return UTF16BE
	}

	if enc, ok := detectUTF16(data); ok {
		return enc
	}

	if roundTripsUTF8(data) {
		return UTF8
	}

	for _, b := range data {
		if _, ok := latin1Accents[b]; ok {
			return Latin1
		}
	}

	if declared != "" {
		if name, err := Canonical(declared); err == nil {
			return name
		}
	}
	return UTF8
}

// detectUTF16 reports UTF-16 when more than 10% of the sampled bytes are zero.
// Zeros at odd offsets mean little endian ("a\x00"), even offsets big endian.
func detectUTF16(data []byte) (string, bool) {
	n := len(data)
	if n > sampleSize {
		n = sampleSize
	}
	if n == 0 {
		return "", false
	}

	var zeros, odd int
	for i := 0; i < n; i++ {
		if data[i] == 0 {
			zeros++
			if i%2 == 1 {
				odd++
			}
		}
	}

	if zeros*10 <= n {
		return "", false
	}
	if odd*2 >= zeros {
		return UTF16LE, true
	}
	return UTF16BE, true
}

// roundTripsUTF8 decodes data as UTF-8 and re-encodes it; invalid sequences are
// replaced during decoding, so only valid input reproduces the original bytes.
func roundTripsUTF8(data []byte) bool {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return false
	}
	encoded, err := unicode.UTF8.NewEncoder().Bytes(decoded)
	if err != nil {
		return false
	}
	return bytes.Equal(encoded, data)
}

// Canonical resolves a caller-supplied charset label ("latin1", "UTF8",
// "windows-1252") to the name used by this package.
func Canonical(label string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-16le", "utf16le":
		return UTF16LE, nil
	case "utf-16be", "utf16be", "utf-16", "utf16":
		return UTF16BE, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return Latin1, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("unknown charset %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "", fmt.Errorf("unknown charset %q: %w", label, err)
	}
	return name, nil
}

// lookup returns the x/text encoding for a canonical name.
func lookup(name string) (encoding.Encoding, error) {
	switch name {
	case UTF8:
		return unicode.UTF8BOM, nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case Latin1:
		return charmap.ISO8859_1, nil
	}
	return htmlindex.Get(name)
}

// complement returns the encoding tried when decoding with name fails.
func complement(name string) string {
	if name == UTF8 {
		return Latin1
	}
	return UTF8
}

// Decode converts data to a UTF-8 string using the named encoding. On failure
// it retries once with the complementary encoding (UTF-8 <-> Latin-1) and
// returns the encoding that actually succeeded.
func Decode(data []byte, name string) (string, string, error) {
	text, err := decodeWith(data, name)
	if err == nil {
		return text, name, nil
	}

	fallback := complement(name)
	text, fbErr := decodeWith(data, fallback)
	if fbErr != nil {
		return "", "", fmt.Errorf("%w: %s (%v), %s (%v)", ErrDecode, name, err, fallback, fbErr)
	}
	return text, fallback, nil
}

func decodeWith(data []byte, name string) (string, error) {
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	if name == UTF8 && !utf8.Valid(data[bomLen(data):]) {
		return "", errors.New("invalid utf-8 sequence")
	}
	if name == UTF16LE || name == UTF16BE {
		if len(data)%2 != 0 {
			return "", errors.New("odd byte count for utf-16 input")
		}
	}
	return string(out), nil
}

func bomLen(data []byte) int {
	if bytes.HasPrefix(data, bomUTF8) {
		return len(bomUTF8)
	}
	return 0
}
