// Package textenc maps code page names and DBF language driver ids to
// text decoders.
package textenc

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

var byName = map[string]encoding.Encoding{
	"cp437":     charmap.CodePage437,
	"cp850":     charmap.CodePage850,
	"cp852":     charmap.CodePage852,
	"cp866":     charmap.CodePage866,
	"cp1250":    charmap.Windows1250,
	"cp1251":    charmap.Windows1251,
	"cp1252":    charmap.Windows1252,
	"cp1253":    charmap.Windows1253,
	"cp1254":    charmap.Windows1254,
	"latin1":    charmap.ISO8859_1,
	"gbk":       simplifiedchinese.GBK,
	"cp936":     simplifiedchinese.GBK,
	"gb18030":   simplifiedchinese.GB18030,
	"big5":      traditionalchinese.Big5,
	"cp950":     traditionalchinese.Big5,
	"shift_jis": japanese.ShiftJIS,
	"cp932":     japanese.ShiftJIS,
}

// language driver ids (header byte 29)
var byDriver = map[byte]encoding.Encoding{
	0x01: charmap.CodePage437,
	0x02: charmap.CodePage850,
	0x03: charmap.Windows1252,
	0x64: charmap.CodePage852,
	0x65: charmap.CodePage866,
	0x7A: simplifiedchinese.GBK,
	0x78: traditionalchinese.Big5,
	0x7B: japanese.ShiftJIS,
	0x4D: simplifiedchinese.GBK,
	0x4E: traditionalchinese.Big5,
	0xC8: charmap.Windows1250,
	0xC9: charmap.Windows1251,
	0xCB: charmap.Windows1253,
	0xCA: charmap.Windows1254,
	0x57: charmap.Windows1252,
}

// Lookup returns the encoding registered under name. An empty name or
// "raw" means no decoding and returns nil.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "raw" {
		return nil, nil
	}
	enc, ok := byName[name]
	if !ok {
		return nil, errors.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}

// ForDriver returns the encoding for a language driver id, or nil when
// the id is unknown.
func ForDriver(id byte) encoding.Encoding {
	return byDriver[id]
}

// Decode converts s with enc. A nil enc returns s unchanged.
func Decode(enc encoding.Encoding, s string) (string, error) {
	if enc == nil {
		return s, nil
	}
	return enc.NewDecoder().String(s)
}

// Encode converts s from UTF-8 with enc. A nil enc returns s unchanged.
func Encode(enc encoding.Encoding, s string) (string, error) {
	if enc == nil {
		return s, nil
	}
	return enc.NewEncoder().String(s)
}
