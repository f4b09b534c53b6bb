// Package normalize performs input normalization at the module-loading
// boundary: stripping a UTF-8 BOM and applying Unicode NFC normalization
// before source bytes reach the parser collaborator. This ensures that
// lexically equivalent source files produce identical token streams, and
// therefore identical semantic trees, regardless of encoding variations.
package normalize

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Source strips a leading BOM and applies NFC normalization.
//
// Examples:
//   - "café" in NFC vs NFD → identical bytes after normalization
//   - BOM bytes EF BB BF followed by "module foo" → "module foo" (BOM stripped)
func Source(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)

	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}

	return src
}
