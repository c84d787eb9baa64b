package site

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/domain/query"
)

const (
	DefaultGalleryLimit = 24
	sectionLimit        = 12
)

// ContentLister lists active content.
type ContentLister interface {
	ListPublic(ctx context.Context, filter content.Filter, p *query.Pagination) ([]*content.Item, int64, error)
}

// Greeter provides the chatbot greeting.
type Greeter interface {
	Greeting() string
}

// Home is the landing page payload.
type Home struct {
	Hero         []*content.Item `json:"hero"`
	Services     []*content.Item `json:"services"`
	Testimonials []*content.Item `json:"testimonials"`
	Academy      []*content.Item `json:"academy"`
	About        []*content.Item `json:"about"`
	Gallery      []*content.Item `json:"gallery"`
	Greeting     string          `json:"chat_greeting"`
}

// Service composes the public landing page.
type Service struct {
	content      ContentLister
	greeter      Greeter
	galleryLimit int
	log          zerolog.Logger
}

// NewService creates a site service.
func NewService(lister ContentLister, greeter Greeter, galleryLimit int, log zerolog.Logger) *Service {
	if galleryLimit <= 0 {
		galleryLimit = DefaultGalleryLimit
	}
	return &Service{
		content:      lister,
		greeter:      greeter,
		galleryLimit: galleryLimit,
		log:          log.With().Str("component", "site-service").Logger(),
	}
}

// Home returns active content grouped by placement, featured items first.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	home := &Home{Greeting: s.greeter.Greeting()}

	sections := []struct {
		placement content.Placement
		limit     int
		dst       *[]*content.Item
	}{
		{content.PlacementHero, sectionLimit, &home.Hero},
		{content.PlacementServices, sectionLimit, &home.Services},
		{content.PlacementTestimonials, sectionLimit, &home.Testimonials},
		{content.PlacementAcademy, sectionLimit, &home.Academy},
		{content.PlacementAbout, sectionLimit, &home.About},
		{content.PlacementGallery, s.galleryLimit, &home.Gallery},
	}

	for _, section := range sections {
		placement := section.placement
		items, _, err := s.content.ListPublic(ctx, content.Filter{Placement: &placement}, &query.Pagination{Limit: section.limit})
		if err != nil {
			s.log.Error().Err(err).Str("placement", string(placement)).Msg("load home section")
			return nil, err
		}
		*section.dst = featuredFirst(items)
	}

	return home, nil
}

func featuredFirst(items []*content.Item) []*content.Item {
	if items == nil {
		return []*content.Item{}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].IsFeatured && !items[j].IsFeatured
	})
	return items
}
