// internal/routing/slug.go
//
// Slug and path helpers.
//
// • MakeSlug(text) turns a display name into a lower-kebab ASCII token,
//   e.g. "Md. Khairul Islam" → "md-khairul-islam".  The developers page
//   uses it for card anchors, so /developers#md-khairul-islam is stable.
// • BuildPath(segments...) joins segments with single slashes behind one
//   leading slash.  Used for outbound profile links.
//
// Notes
// -----
// • No Unicode transliteration.  Anything outside a-z and 0-9 separates
//   words, so a name written only in Bangla yields "item".
// • Slugs are capped at 100 bytes.

package routing

import "strings"

const maxSlug = 100

// MakeSlug converts text → lower-kebab ASCII.
func MakeSlug(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	slug := strings.Join(words, "-")
	if len(slug) > maxSlug {
		slug = strings.TrimRight(slug[:maxSlug], "-")
	}
	if slug == "" {
		return "item"
	}
	return slug
}

// BuildPath joins segments, dropping empty ones and stray slashes.
func BuildPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			parts = append(parts, s)
		}
	}
	return "/" + strings.Join(parts, "/")
}
