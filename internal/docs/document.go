package docs

// Document is a scoring candidate from the allow-listed sources: either a
// whole fetched page or a single feed item. Documents are constructed fresh
// per answer request; only the transport-layer body cache outlives them.
type Document struct {
	Title   string
	Snippet string
	URL     string
	// Joined is the plain text the scorer runs against.
	Joined string
}
