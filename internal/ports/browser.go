package ports

// PageOpener defines the interface for showing a page to the user
type PageOpener interface {
	// OpenURL opens rawURL with the system's default handler
	OpenURL(rawURL string) error
}
