package storage

import (
	"path"
	"path/filepath"
)

// ImageURLs are the public URLs of one processed image.
type ImageURLs struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Mobile    string `json:"mobile"`
	Desktop   string `json:"desktop"`
}

// GenerateImageURLs maps processed files to /uploads/<slug>/... URLs.
// Missing mobile/desktop renditions fall back to the original.
func GenerateImageURLs(img *ProcessedImage, slug string) ImageURLs {
	base := "/uploads/" + slug
	original := path.Join(base, filepath.Base(img.Original))

	urls := ImageURLs{
		Original: original,
		Mobile:   original,
		Desktop:  original,
	}
	if img.Thumbnail != "" {
		urls.Thumbnail = path.Join(base, ThumbsDir, filepath.Base(img.Thumbnail))
	}
	if img.Mobile != "" {
		urls.Mobile = path.Join(base, filepath.Base(img.Mobile))
	}
	if img.Desktop != "" {
		urls.Desktop = path.Join(base, filepath.Base(img.Desktop))
	}
	return urls
}
