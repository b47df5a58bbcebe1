package subtitle

import (
	"bytes"
	"strings"

	"github.com/saintfish/chardet"
	"github.com/tr1v3r/pkg/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var boms = []struct {
	name string
	bom  []byte
	enc  encoding.Encoding
}{
	{"utf-32le", []byte{0xFF, 0xFE, 0x00, 0x00}, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM)},
	{"utf-32be", []byte{0x00, 0x00, 0xFE, 0xFF}, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM)},
	{"utf-16le", []byte{0xFF, 0xFE}, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)},
	{"utf-16be", []byte{0xFE, 0xFF}, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)},
	{"utf-8-sig", []byte{0xEF, 0xBB, 0xBF}, unicode.UTF8BOM},
}

// DetectCharset names the encoding of data: a byte order mark wins, then the
// chardet guess, then utf-8.
func DetectCharset(data []byte) string {
	for _, b := range boms {
		if bytes.HasPrefix(data, b.bom) {
			return b.name
		}
	}

	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil {
		log.Debug("charset detection failed, defaulting to utf-8: %v", err)
		return "utf-8"
	}
	return strings.ToLower(res.Charset)
}

// DecodeText converts subtitle file contents to a UTF-8 string. Undecodable
// bytes become U+FFFD.
func DecodeText(data []byte) string {
	charset := DetectCharset(data)
	log.Debug("subtitle charset: %s", charset)

	for _, b := range boms {
		if b.name == charset {
			if out, err := b.enc.NewDecoder().Bytes(data); err == nil {
				return string(out)
			}
		}
	}

	if charset != "utf-8" {
		if enc, err := htmlindex.Get(charset); err == nil {
			if out, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(out)
			}
		} else {
			log.Debug("unknown charset %q, decoding as utf-8", charset)
		}
	}
	return strings.ToValidUTF8(string(data), "\uFFFD")
}
