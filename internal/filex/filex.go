// Package filex reads local image files for upload and builds data-URL
// previews shown before a post is submitted.
package filex

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkov/pawshare/internal/common"
)

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// osReadFile is a seam for testing file read failures.
var osReadFile = os.ReadFile

// ReadImage reads an image file and returns its bytes together with the
// lowercased extension (including the dot). Unsupported extensions fail
// before any file access.
func ReadImage(path string) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := contentTypes[ext]; !ok {
		return nil, "", fmt.Errorf("%w: unsupported image type %q", common.ErrorValidation, ext)
	}

	data, err := osReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("image read error: %w", err)
	}
	return data, ext, nil
}

// ContentType returns the MIME type for a supported image extension.
func ContentType(ext string) string {
	return contentTypes[strings.ToLower(ext)]
}

// DataURL encodes image bytes as a data URL for local previews. It never
// touches the network.
func DataURL(data []byte, ext string) string {
	return fmt.Sprintf("data:%s;base64,%s", ContentType(ext), base64.StdEncoding.EncodeToString(data))
}
