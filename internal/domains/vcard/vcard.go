// Package vcard serialises athlete records as vCard 3.0 contact cards.
package vcard

import (
	"strconv"
	"strings"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/shared/utils"
)

const (
	MimeType  = "text/vcard"
	lineBreak = "\r\n"
)

// File is a downloadable card.
type File struct {
	Content  string `json:"content"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

// Build renders p as a vCard. Optional properties are left out entirely
// when their source field is empty.
func Build(p *model.AthleteProfile, profileURL string) string {
	fn := p.FullName
	if p.JerseyNumber != "" {
		fn += " #" + p.JerseyNumber
	}

	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + escape(fn),
		"N:" + familyGiven(p.FullName),
	}

	if p.Phone != "" {
		lines = append(lines, "TEL;TYPE=CELL:"+escape(p.Phone))
	}
	if p.Email != "" {
		lines = append(lines, "EMAIL:"+escape(p.Email))
	}

	lines = append(lines, "ORG:"+escape(p.HighSchoolName))
	if title := title(p); title != "" {
		lines = append(lines, "TITLE:"+escape(title))
	}

	if p.Twitter != "" {
		lines = append(lines, "X-TWITTER:"+escape(p.Twitter))
	}
	if p.Photo != "" && !hasLineBreak(p.Photo) {
		lines = append(lines, "PHOTO;VALUE=URL:"+p.Photo)
	}

	profileURL = stripLineBreaks(profileURL)
	lines = append(lines,
		"URL:"+profileURL,
		"X-ONESHOT-PROFILE:"+profileURL,
	)

	if p.CoachName != "" && p.CoachPhone != "" {
		lines = append(lines, "NOTE:"+escape("Head Coach: "+p.CoachName+" - "+p.CoachPhone))
	}

	lines = append(lines,
		"X-ONESHOT-PLATFORM:Generated by OneShot Recruiting Platform",
		"PRODID:-//OneShot//OneShot Recruiting Platform//EN",
		"END:VCARD",
	)

	return strings.Join(lines, lineBreak)
}

// FileName is "<name-slug>[-<jersey>]-contact.vcf".
func FileName(p *model.AthleteProfile) string {
	base := utils.GenerateSlug(p.FullName)
	if base == "" {
		base = "athlete"
	}
	if jersey := utils.GenerateSlug(p.JerseyNumber); jersey != "" {
		base += "-" + jersey
	}
	return base + "-contact.vcf"
}

// BuildFile bundles the card with its download name and mime type.
func BuildFile(p *model.AthleteProfile, profileURL string) File {
	return File{
		Content:  Build(p, profileURL),
		FileName: FileName(p),
		MimeType: MimeType,
	}
}

// familyGiven reverses the whitespace separated name parts: "Jane Doe" → "Doe;Jane".
func familyGiven(fullName string) string {
	parts := strings.Fields(fullName)
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	for i := range parts {
		parts[i] = escape(parts[i])
	}
	return strings.Join(parts, ";")
}

func title(p *model.AthleteProfile) string {
	positions := p.Positions()
	if p.GraduationYear == 0 {
		return positions
	}
	class := "Class of " + strconv.Itoa(p.GraduationYear)
	if positions == "" {
		return class
	}
	return positions + " - " + class
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", "",
)

// URI values are not TEXT-escaped; a line break in one is never written.
func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

func stripLineBreaks(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// escape applies vCard TEXT escaping so user input cannot inject properties.
func escape(s string) string {
	return textEscaper.Replace(s)
}
