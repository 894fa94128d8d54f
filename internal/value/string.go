package value

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf16Units encodes s as UTF-16 code units, giving `.length` and indexed
// access their JS-mandated code-unit semantics (a string outside the BMP
// reports length 2 for one character, exactly like JS), rather than Go's
// native UTF-8 byte or rune counting. Grounded on golang.org/x/text, the
// teacher's own dependency for encoding-aware text handling (go.mod
// requires golang.org/x/text directly).
func utf16Units(s string) []uint16 {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	encoded, _, err := transform.String(encoder, s)
	if err != nil {
		return nil
	}
	units := make([]uint16, len(encoded)/2)
	for i := range units {
		units[i] = uint16(encoded[2*i]) | uint16(encoded[2*i+1])<<8
	}
	return units
}

func getStringProperty(v Value, key string) (Value, error) {
	s, _ := v.AsString()
	if key == "length" {
		return Number(float64(len(utf16Units(s)))), nil
	}
	if idx, ok := parseIndex(key); ok {
		units := utf16Units(s)
		if idx < 0 || idx >= len(units) {
			return Undefined, nil
		}
		return String(unitsToString(units[idx : idx+1])), nil
	}
	return Undefined, nil
}

func unitsToString(units []uint16) string {
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		buf[2*i] = byte(u)
		buf[2*i+1] = byte(u >> 8)
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, _, err := transform.Bytes(decoder, buf)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// StringLength returns the UTF-16 code-unit length used by JS's `.length`.
func StringLength(s string) int { return len(utf16Units(s)) }

// CharAt returns the single UTF-16 code unit at idx, decoded back to a Go
// string, matching `String.prototype.charAt` for BMP characters; a lone
// surrogate half decodes to U+FFFD.
func CharAt(s string, idx int) string {
	units := utf16Units(s)
	if idx < 0 || idx >= len(units) {
		return ""
	}
	return unitsToString(units[idx : idx+1])
}
