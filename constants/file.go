package constants

import (
	"path/filepath"
	"strings"
)

// Document formats the intake pipeline can acquire text from.
const (
	PDF  = "PDF"
	DOCX = "DOCX"
	TEXT = "TEXT"
)

// TextExtensions lists suffix chains accepted as plain text when strict
// type checking is enabled. The permissive default treats any unknown
// extension as plain text instead.
var TextExtensions = map[string]struct{}{
	".txt":  {},
	".text": {},
	".csv":  {},
	".log":  {},
	".md":   {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// SuffixChain returns the joined, lowercased dot-suffixes of a filename:
// "scan.pdf.txt" -> ".pdf.txt", "notes.TXT" -> ".txt", "README" -> "".
// Leading dots of hidden files are not suffixes (".env" -> "").
func SuffixChain(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimLeft(name, ".")
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.ToLower("." + strings.Join(parts[1:], "."))
}

// MapChainToFormat picks the acquisition format for a suffix chain.
// A ".pdf" anywhere in the chain wins, so a double extension like
// ".pdf.txt" still routes to the PDF reader.
func MapChainToFormat(chain string) string {
	switch {
	case strings.Contains(chain, ".pdf"):
		return PDF
	case strings.HasSuffix(chain, ".docx"):
		return DOCX
	default:
		return TEXT
	}
}

// IsTextChain reports whether the suffix chain is on the plain-text
// allow-list used by strict mode.
func IsTextChain(chain string) bool {
	_, ok := TextExtensions[chain]
	return ok
}
