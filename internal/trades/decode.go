package trades

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textDecoder turns raw upload bytes into text, or reports that the bytes are not in its encoding.
type textDecoder struct {
	name   string
	decode func([]byte) (string, bool)
}

// textDecoders are tried in order; the first success wins.
var textDecoders = []textDecoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "latin-1", decode: decodeCharmap(charmap.ISO8859_1)},
	{name: "cp1252", decode: decodeCharmap(charmap.Windows1252)},
}

// decodeText returns the decoded text and the name of the encoding that produced it.
func decodeText(data []byte) (string, string, bool) {
	for _, d := range textDecoders {
		if text, ok := d.decode(data); ok {
			return text, d.name, true
		}
	}
	return "", "", false
}

func decodeUTF8(data []byte) (string, bool) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", false
	}
	text := string(data)
	return text, isPlainText(text)
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, bool) {
	return func(data []byte) (string, bool) {
		out, err := decodeWith(cm.NewDecoder(), data)
		if err != nil {
			return "", false
		}
		return out, isPlainText(out)
	}
}

func decodeWith(dec *encoding.Decoder, data []byte) (string, error) {
	out, err := dec.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// isPlainText rejects replacement characters and control characters other than tab, CR and LF.
// Latin-1 maps 0x80-0x9F to C1 controls, so Windows-1252 text falls through to the next decoder.
func isPlainText(s string) bool {
	for _, r := range s {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r == utf8.RuneError, unicode.IsControl(r):
			return false
		}
	}
	return true
}
