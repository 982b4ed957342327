package domain

import (
	"net/url"
	"strings"
)

// StoragePrefix namespaces page keys in the note store
const StoragePrefix = "stickyNotes:"

// PageKey returns the storage key for the page at rawURL. Notes are kept per
// exact URL; only the fragment is dropped since it never changes the page.
func PageKey(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if strings.HasPrefix(rawURL, StoragePrefix) {
		return rawURL
	}
	if u, err := url.Parse(rawURL); err == nil {
		u.Fragment = ""
		u.RawFragment = ""
		rawURL = u.String()
	}
	return StoragePrefix + rawURL
}

// PageURL strips the storage prefix from a page key
func PageURL(key string) string {
	return strings.TrimPrefix(key, StoragePrefix)
}
