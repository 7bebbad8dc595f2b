package utils

import (
	"net/url"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}

// IsImageURL reports whether a string parses as a URL and looks like it
// points at an image. This is a substring heuristic, not a content-type
// check: URLs carrying a known image extension or the words "image"/"photo"
// pass, anything else is rejected. False positives and negatives are
// accepted.
func IsImageURL(photoURL string) bool {
	if _, err := url.ParseRequestURI(photoURL); err != nil {
		return false
	}

	lower := strings.ToLower(photoURL)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return strings.Contains(lower, "image") || strings.Contains(lower, "photo")
}
