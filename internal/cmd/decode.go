package cmd

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// codePageEncodings covers the OEM code pages console tools write in on the
// locales the program ships translations for, plus the common CJK ones.
var codePageEncodings = map[uint32]encoding.Encoding{
	437:  charmap.CodePage437,
	850:  charmap.CodePage850,
	852:  charmap.CodePage852,
	858:  charmap.CodePage858,
	866:  charmap.CodePage866,
	932:  japanese.ShiftJIS,
	936:  simplifiedchinese.GBK,
	949:  korean.EUCKR,
	950:  traditionalchinese.Big5,
	1252: charmap.Windows1252,
}

// Decode converts console output written in code page cp to UTF-8.
// Output that is already valid UTF-8 (code page 65001, or plain ASCII) is
// returned unchanged, as is anything in an unknown code page.
func Decode(b []byte, cp uint32) string {
	if len(b) == 0 {
		return ""
	}
	if cp == 65001 || utf8.Valid(b) {
		return string(b)
	}
	enc, ok := codePageEncodings[cp]
	if !ok {
		return string(b)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
