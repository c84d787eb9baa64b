package content

import (
	"context"
	"strings"
	"time"

	"github.com/maisonbelle/salon-site/internal/domain/query"
)

// Category groups content by salon service line.
type Category string

const (
	CategoryHair        Category = "hair"
	CategoryMakeup      Category = "makeup"
	CategoryNails       Category = "nails"
	CategorySkincare    Category = "skincare"
	CategoryLashesBrows Category = "lashes_brows"
	CategoryBridal      Category = "bridal"
	CategoryAcademy     Category = "academy"
	CategorySalon       Category = "salon"
)

// Categories lists the accepted categories in display order.
var Categories = []Category{
	CategoryHair, CategoryMakeup, CategoryNails, CategorySkincare,
	CategoryLashesBrows, CategoryBridal, CategoryAcademy, CategorySalon,
}

// MediaType is the kind of asset a content item points to.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

var MediaTypes = []MediaType{MediaTypeImage, MediaTypeVideo}

// Placement is the page section a content item is rendered in.
type Placement string

const (
	PlacementHero         Placement = "hero"
	PlacementServices     Placement = "services"
	PlacementTestimonials Placement = "testimonials"
	PlacementGallery      Placement = "gallery"
	PlacementAcademy      Placement = "academy"
	PlacementAbout        Placement = "about"
)

var Placements = []Placement{
	PlacementHero, PlacementServices, PlacementTestimonials,
	PlacementGallery, PlacementAcademy, PlacementAbout,
}

// ParseCategory normalizes s and reports whether it is an accepted category.
func ParseCategory(s string) (Category, bool) {
	c := Category(normalizeEnum(s))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return c, false
}

// ParseMediaType normalizes s and reports whether it is an accepted media type.
func ParseMediaType(s string) (MediaType, bool) {
	m := MediaType(normalizeEnum(s))
	for _, known := range MediaTypes {
		if m == known {
			return m, true
		}
	}
	return m, false
}

// ParsePlacement normalizes s and reports whether it is an accepted placement.
func ParsePlacement(s string) (Placement, bool) {
	p := Placement(normalizeEnum(s))
	for _, known := range Placements {
		if p == known {
			return p, true
		}
	}
	return p, false
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Item is a media asset row shown on the public site.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     Category  `json:"category"`
	MediaType    MediaType `json:"media_type"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	IsFeatured   bool      `json:"is_featured"`
	Placement    Placement `json:"placement"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedBy    string    `json:"created_by,omitempty"`
	UpdatedBy    string    `json:"updated_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows content listings. Nil fields are not applied.
type Filter struct {
	Category  *Category
	MediaType *MediaType
	Placement *Placement
	Featured  *bool
	Active    *bool
}

// CreateInput carries the fields of a new content item. Enum fields are raw
// strings so callers get one validation error listing every problem.
type CreateInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	MediaType    string `json:"media_type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsFeatured   bool   `json:"is_featured"`
	Placement    string `json:"placement"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	MediaType    *string `json:"media_type"`
	URL          *string `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	IsFeatured   *bool   `json:"is_featured"`
	Placement    *string `json:"placement"`
	DisplayOrder *int    `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

// Repository defines persistence operations for content items.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Item, error)
	FindByFilter(ctx context.Context, filter Filter, p *query.Pagination) ([]*Item, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}
