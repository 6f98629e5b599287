// File: pkg/combine/binary.go
package combine

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// BinaryExtensions lists extensions whose contents are never rendered.
var BinaryExtensions = map[string]bool{
	".7z": true, ".a": true, ".avi": true, ".bin": true, ".bmp": true,
	".class": true, ".dll": true, ".dmg": true, ".doc": true, ".docx": true,
	".dylib": true, ".eot": true, ".exe": true, ".gif": true, ".gz": true,
	".ico": true, ".iso": true, ".jar": true, ".jpeg": true, ".jpg": true,
	".mov": true, ".mp3": true, ".mp4": true, ".o": true, ".otf": true,
	".pdf": true, ".png": true, ".pyc": true, ".pyo": true, ".rar": true,
	".so": true, ".sqlite": true, ".tar": true, ".tgz": true, ".ttf": true,
	".wasm": true, ".wav": true, ".webp": true, ".woff": true, ".woff2": true,
	".xls": true, ".xlsx": true, ".zip": true,
}

// isBinaryContent reports whether data looks binary: a NUL byte, invalid
// UTF-8, or more than 30% non-printable bytes in the sniffed prefix.
func isBinaryContent(data []byte) bool {
	sample := data
	if len(sample) > binarySniffSize {
		sample = sample[:binarySniffSize]
	}
	if len(sample) == 0 {
		return false // Empty files are considered text
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if !validUTF8Prefix(sample, len(data) > len(sample)) {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.3
}

// validUTF8Prefix validates sample, tolerating a rune cut off by truncation.
func validUTF8Prefix(sample []byte, truncated bool) bool {
	if utf8.Valid(sample) {
		return true
	}
	if !truncated {
		return false
	}
	for cut := 1; cut < utf8.UTFMax && cut < len(sample); cut++ {
		if utf8.Valid(sample[:len(sample)-cut]) {
			return true
		}
	}
	return false
}

// isPrintable checks if a byte is printable ASCII, common whitespace, or
// part of a multi-byte UTF-8 sequence.
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b == '\f' || b >= 0x80
}

// isCommonBinaryExtension checks if the file has a known binary extension
func isCommonBinaryExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return BinaryExtensions[ext]
}
