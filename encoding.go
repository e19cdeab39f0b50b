package katagami

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// xmlEncodingPattern matches <?xml ... encoding="X"?>, tolerating
// single, double, or unquoted attribute values and any attribute order.
var xmlEncodingPattern = regexp.MustCompile(`(?is)<\?xml\s+.*?encoding=["']?([^\s"'?]+)["']?.*?\?>`)

// metaCharsetPattern matches both <meta charset="X"> and
// <meta http-equiv="Content-Type" content="...;charset=X">.
var metaCharsetPattern = regexp.MustCompile(`(?is)<meta\s+.*?charset=["']?([^\s"'>]+)["']?.*?>`)

// defaultEncoding is returned whenever no charset preamble is found, or
// the one found isn't recognized by htmlindex.
const defaultEncoding = "utf-8"

// DetectEncoding scans raw template bytes for an XML or HTML charset
// declaration (in the order: <?xml ... encoding=...?>, then <meta
// charset=...> / <meta http-equiv=...content=...charset=...>), stopping
// at the first match. The matched name is validated against
// golang.org/x/text/encoding/htmlindex's charset registry; an
// unrecognized or absent charset falls back to "utf-8".
func DetectEncoding(raw []byte) string {
	return detect(raw)
}

// DetectEncodingString behaves like DetectEncoding but accepts a string.
// Per spec, a lossy ASCII re-encoding is performed first so the same
// regexps operate uniformly regardless of whether the caller already
// decoded the template.
func DetectEncodingString(s string) string {
	return detect([]byte(toASCIILossy(s)))
}

func detect(raw []byte) string {
	for _, pattern := range []*regexp.Regexp{xmlEncodingPattern, metaCharsetPattern} {
		m := pattern.FindSubmatch(raw)
		if m == nil || len(m[1]) == 0 {
			continue
		}
		name := string(m[1])
		if _, err := htmlindex.Get(name); err == nil {
			return strings.ToLower(name)
		}
		return defaultEncoding
	}
	return defaultEncoding
}

// EncodeString encodes s as name, the charset DetectEncoding (or
// DetectEncodingString) returned for the template being rendered. Used
// by the Runner when a render is requested with ReturnsBytes.
func EncodeString(s, name string) ([]byte, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// toASCIILossy mirrors Python's `bytes.encode('ascii', 'ignore')`: every
// rune outside the ASCII range is dropped rather than causing an error.
func toASCIILossy(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
