package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}
	return Decode(raw), nil
}

// Decode guesses the byte encoding of raw and decodes it. Input that is valid
// UTF-8 as a whole (or starts with a UTF-8 BOM) is read as UTF-8; anything
// else goes through BOM and windows-1252 detection. Undecodable bytes become
// U+FFFD. The result is NFC-normalized so decomposed accents match
// precomposed ones.
func Decode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if utf8.Valid(raw) || bytes.HasPrefix(raw, utf8BOM) {
		text = strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	} else {
		text = decodeLegacy(raw)
	}
	return norm.NFC.String(strings.TrimPrefix(text, "\ufeff"))
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// decodeLegacy handles input that is not valid UTF-8. A prefix that looks like
// UTF-8 keeps the UTF-8 reading with U+FFFD for the stray bytes.
func decodeLegacy(raw []byte) string {
	enc, name, _ := charset.DetermineEncoding(raw, "text/plain")
	if name == "utf-8" {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(decoded)
}
