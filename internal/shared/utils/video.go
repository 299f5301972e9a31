package utils

import "strings"

// NormalizeVideoURL rewrites YouTube and Vimeo links into their iframe
// embed form. Rules are tried in order and the first match wins: YouTube,
// youtu.be, Hudl (returned as is), Vimeo. A rule whose id is empty falls
// through to the next one. Anything unrecognised is returned as is; an
// empty input stays empty.
func NormalizeVideoURL(raw string) string {
	if raw == "" {
		return ""
	}

	if _, rest, ok := strings.Cut(raw, "youtube.com/watch?v="); ok {
		if id, _, _ := strings.Cut(rest, "&"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	}

	if _, rest, ok := strings.Cut(raw, "youtu.be/"); ok {
		if id, _, _ := strings.Cut(rest, "?"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	}

	// Hudl pages refuse iframe embedding
	if strings.Contains(raw, "hudl.com") {
		return raw
	}

	if _, rest, ok := strings.Cut(raw, "vimeo.com/"); ok {
		if id, _, _ := strings.Cut(rest, "?"); id != "" {
			return "https://player.vimeo.com/video/" + id
		}
	}

	return raw
}
