package aztools

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ParseEncoding maps an encoding name to an Encoding. Unknown or empty names select UTF-8.
func ParseEncoding(name string) Encoding {
	switch strings.ToLower(name) {
	case "ascii":
		return EncodingASCII
	default:
		return EncodingUTF8
	}
}

func (e Encoding) String() string {
	if e == EncodingASCII {
		return "ascii"
	}
	return "utf-8"
}

// DecodeText never fails: invalid UTF-8 becomes U+FFFD and non-ASCII bytes become '?'.
func DecodeText(data []byte, enc Encoding) string {
	if enc == EncodingASCII {
		return decodeASCII(data)
	}

	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(out)
}

func decodeASCII(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		if b > 0x7F {
			sb.WriteByte('?')
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}
