package utils

import (
	"strings"
	"testing"

	"oneshot-backend/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Jordan Davis", "jordan-davis"},
		{"punctuation dropped", "D'Andre O'Neil Jr.", "dandre-oneil-jr"},
		{"whitespace runs", "  Riley \t  Smith  ", "riley-smith"},
		{"hyphen runs", "Mary--Kate   -  Olsen", "mary-kate-olsen"},
		{"leading and trailing hyphens", "--Chris Paul--", "chris-paul"},
		{"digits kept", "Player 23", "player-23"},
		{"accents stripped not transliterated", "José Núñez", "jos-nez"},
		{"no-break space", "Jane\u00a0Doe", "jane-doe"},
		{"unicode spaces", "Jane\u2003Marie\u3000Doe\u2028Jr", "jane-marie-doe-jr"},
		{"vertical tab and bom", "\ufeffJane\vDoe", "jane-doe"},
		{"empty", "", ""},
		{"only specials", "!!! ??? ***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlug(tt.in)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.True(t, IsValidSlug(got), "slug %q must be canonical", got)
			}
		})
	}
}

func TestGenerateSlug_ValidSlugIsFixedPoint(t *testing.T) {
	for _, slug := range []string{"a", "jordan-davis", "class-of-2025", "x1-y2-z3"} {
		assert.Equal(t, slug, GenerateSlug(slug))
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("jordan-davis"))
	assert.False(t, IsValidSlug(""))
	assert.False(t, IsValidSlug("-jordan"))
	assert.False(t, IsValidSlug("jordan-"))
	assert.False(t, IsValidSlug("jordan--davis"))
	assert.False(t, IsValidSlug("Jordan"))
	assert.False(t, IsValidSlug("../etc"))
}

func TestValidateSlugParam(t *testing.T) {
	assert.NoError(t, ValidateSlugParam("jordan-davis"))
	assert.NoError(t, ValidateSlugParam("-odd-but-allowed-"))

	for _, bad := range []string{"", "../etc", "Jordan", strings.Repeat("a", 101)} {
		err := ValidateSlugParam(bad)
		require.Error(t, err, bad)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), bad)
		assert.Equal(t, "slug", apperror.FieldsOf(err)[0].Field)
	}
}
