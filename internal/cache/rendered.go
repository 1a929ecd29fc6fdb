package cache

// Rendered output is keyed by content hash and render variant (syntax style,
// markdown renderer) so identical snapshots are only highlighted once.
var renderedCache = NewCache[string, []byte]()

func renderedKey(contentHash, variant string) string {
	return contentHash + ":" + variant
}

func GetRendered(contentHash, variant string) ([]byte, bool) {
	return renderedCache.Get(renderedKey(contentHash, variant))
}

func SetRendered(contentHash, variant string, out []byte) {
	renderedCache.Set(renderedKey(contentHash, variant), out)
}

func ClearRendered() {
	renderedCache.Clear()
}
