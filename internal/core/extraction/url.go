package extraction

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidURL means the input is not one of the accepted YouTube shapes.
var ErrInvalidURL = errors.New("not a YouTube video URL or id")

const idPattern = `([A-Za-z0-9_-]{11})`

var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^#]*&)?v=` + idPattern + `(?:[&#].*)?$`),
	regexp.MustCompile(`^(?:https?://)?youtu\.be/` + idPattern + `(?:[?#].*)?$`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/embed/` + idPattern + `(?:[?#].*)?$`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/` + idPattern + `(?:[?#].*)?$`),
	regexp.MustCompile(`^` + idPattern + `$`),
}

// ParseVideoID returns the 11-character video id of a watch, short-link,
// embed or shorts URL, or of a bare id.
func ParseVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	for _, re := range videoURLPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1], nil
		}
	}
	return "", ErrInvalidURL
}

// NormalizeURL is the canonical watch URL of a video id.
func NormalizeURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
