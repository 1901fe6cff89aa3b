package documents

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Descriptor references one selected file. SizeBytes is nil when the picker
// could not report a size.
type Descriptor struct {
	Name        string `json:"name"`
	SizeBytes   *int64 `json:"sizeBytes,omitempty"`
	Location    string `json:"location"`
	ContentType string `json:"contentType,omitempty"`
}

// Size returns a pointer for Descriptor.SizeBytes.
func Size(n int64) *int64 { return &n }

// Index returns a pointer for Detach.
func Index(i int) *int { return &i }

// HumanSize renders a byte count the way upload notices show it.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
}

// ContentTypeOf guesses a content type from the file name.
func ContentTypeOf(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := extensionTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Accepts reports whether contentType matches one of the patterns. Patterns
// are exact types or wildcards such as image/*.
func Accepts(patterns []string, contentType string) bool {
	if len(patterns) == 0 {
		return true
	}
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		ct = strings.ToLower(strings.TrimSpace(contentType))
	}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "*/*" || p == ct {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "/*"); ok && strings.HasPrefix(ct, prefix+"/") {
			return true
		}
	}
	return false
}
