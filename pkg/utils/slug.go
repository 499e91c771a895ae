package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9-]")
	slugRepeat  = regexp.MustCompile("-+")
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugRepeat.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateProductCode generates a unique product code
func GenerateProductCode() string {
	return "MBT-" + strings.ToUpper(uuid.New().String()[:8])
}
