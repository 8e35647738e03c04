package constants

import (
	"path/filepath"
	"strings"
)

// Accepted gallery uploads; everything is re-encoded to WebP before storage.
var imageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

func IsImageFile(filename string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(filename))]
	return ok
}
