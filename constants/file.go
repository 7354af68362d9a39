package constants

import "strings"

// AllowedExtensions holds the default file extensions scanned for POD
// documents. Matching is done on the normalized (lowercased, dot-stripped)
// extension, so case variants like .PDF are covered.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
