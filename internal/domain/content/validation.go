package content

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Fields is the raw, untrusted shape of a content item as it arrives from a
// form, a JSON body or a CSV row.
type Fields struct {
	Title        string
	Description  string
	Category     string
	MediaType    string
	URL          string
	ThumbnailURL string
	Placement    string
}

// Normalized holds Fields after trimming and enum parsing.
type Normalized struct {
	Title        string
	Description  string
	Category     Category
	MediaType    MediaType
	URL          string
	ThumbnailURL string
	Placement    Placement
}

// Check validates f and returns the normalized values plus every problem found.
// An empty media type defaults to image and an empty placement to gallery.
func Check(f Fields) (Normalized, []string) {
	var problems []string
	n := Normalized{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		URL:          strings.TrimSpace(f.URL),
		ThumbnailURL: strings.TrimSpace(f.ThumbnailURL),
	}

	if n.Title == "" {
		problems = append(problems, "title is required")
	} else if len([]rune(n.Title)) > maxTitleLength {
		problems = append(problems, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if len([]rune(n.Description)) > maxDescriptionLength {
		problems = append(problems, fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}

	if n.URL == "" {
		problems = append(problems, "url is required")
	} else if !IsHTTPURL(n.URL) {
		problems = append(problems, fmt.Sprintf("url %q must be an absolute http(s) URL", n.URL))
	}
	if n.ThumbnailURL != "" && !IsHTTPURL(n.ThumbnailURL) {
		problems = append(problems, fmt.Sprintf("thumbnail_url %q must be an absolute http(s) URL", n.ThumbnailURL))
	}

	if strings.TrimSpace(f.Category) == "" {
		problems = append(problems, fmt.Sprintf("category is required (allowed: %s)", joinEnum(Categories)))
	} else if c, ok := ParseCategory(f.Category); ok {
		n.Category = c
	} else {
		problems = append(problems, fmt.Sprintf("invalid category %q (allowed: %s)", strings.TrimSpace(f.Category), joinEnum(Categories)))
	}

	if strings.TrimSpace(f.MediaType) == "" {
		n.MediaType = MediaTypeImage
	} else if m, ok := ParseMediaType(f.MediaType); ok {
		n.MediaType = m
	} else {
		problems = append(problems, fmt.Sprintf("invalid media_type %q (allowed: %s)", strings.TrimSpace(f.MediaType), joinEnum(MediaTypes)))
	}

	if strings.TrimSpace(f.Placement) == "" {
		n.Placement = PlacementGallery
	} else if p, ok := ParsePlacement(f.Placement); ok {
		n.Placement = p
	} else {
		problems = append(problems, fmt.Sprintf("invalid placement %q (allowed: %s)", strings.TrimSpace(f.Placement), joinEnum(Placements)))
	}

	return n, problems
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	if err := validate.Var(s, "required,url"); err != nil {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
