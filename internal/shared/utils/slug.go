package utils

import (
	"regexp"
	"strings"

	"oneshot-backend/internal/shared/apperror"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// slugSpace is whitespace in the Unicode sense: ASCII spaces, vertical
// tab, the Z categories (NBSP, em space, line separator...) and BOM.
const slugSpace = `\s\v\p{Z}\x{FEFF}`

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9` + slugSpace + `-]`)
	slugWhitespace = regexp.MustCompile(`[` + slugSpace + `]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	slugParam      = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// GenerateSlug turns a display name into a URL- and filesystem-safe key.
// "Jordan Davis" → "jordan-davis". Input without any usable characters
// yields "", which callers must reject.
func GenerateSlug(name string) string {
	// Step 1: Lowercase
	s := strings.ToLower(name)

	// Step 2: Drop everything that is not [a-z0-9], whitespace or '-'
	s = slugStrip.ReplaceAllString(s, "")

	// Step 3: Whitespace runs → single hyphen
	s = slugWhitespace.ReplaceAllString(s, "-")

	// Step 4: Hyphen runs → single hyphen
	s = slugHyphens.ReplaceAllString(s, "-")

	// Step 5: Trim leading/trailing hyphens
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s is a non-empty canonical slug.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ValidateSlugParam checks a :slug route parameter: 1..100 characters of
// [a-z0-9-]. It is looser than IsValidSlug so hand-typed links still resolve.
func ValidateSlugParam(slug string) error {
	err := validation.Errors{
		"slug": validation.Validate(slug,
			validation.Required.Error("Slug is required"),
			validation.RuneLength(1, 100).Error("Slug must be at most 100 characters"),
			validation.Match(slugParam).Error("Slug may only contain lowercase letters, digits and hyphens"),
		),
	}.Filter()
	return apperror.FromValidation(err)
}
