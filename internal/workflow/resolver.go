package workflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/services"
	"github.com/desertthunder/festify/internal/shared"
)

// Source is the input of a discovery: a text query or a poster.
type Source struct {
	Query  string
	Poster *models.Poster
}

// QuerySource returns a search source.
func QuerySource(q string) Source { return Source{Query: q} }

// PosterSource returns a scan source.
func PosterSource(p *models.Poster) Source { return Source{Poster: p} }

// Resolver turns a [Source] into artist candidates.
type Resolver struct {
	catalog    services.Catalog
	recognizer services.Recognizer
	logger     *log.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(catalog services.Catalog, recognizer services.Recognizer, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Resolver{catalog: catalog, recognizer: recognizer, logger: logger}
}

// Resolve dispatches to [Resolver.Scan] when src carries a poster and to [Resolver.Search] otherwise.
func (r *Resolver) Resolve(ctx context.Context, src Source) ([]models.ArtistCandidate, error) {
	if src.Poster != nil {
		return r.Scan(ctx, src.Poster)
	}
	return r.Search(ctx, src.Query)
}

// Search returns ranked candidates for query. A blank query returns nothing without a call.
func (r *Resolver) Search(ctx context.Context, query string) ([]models.ArtistCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	artists, err := r.catalog.SearchArtists(ctx, query)
	if err != nil {
		r.logger.Warn("search failed", "query", query, "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrSearchFailed, err)
	}

	r.logger.Debug("search complete", "query", query, "results", len(artists))
	return artists, nil
}

// Scan reads artist names off a poster.
//
// The poster is validated before any call. Names are trimmed and deduplicated in first-seen order.
func (r *Resolver) Scan(ctx context.Context, poster *models.Poster) ([]models.ArtistCandidate, error) {
	if err := poster.Validate(); err != nil {
		return nil, err
	}

	names, err := r.recognizer.ScanPoster(ctx, poster)
	if err != nil {
		r.logger.Warn("scan failed", "file", poster.Filename, "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrScanFailed, err)
	}

	candidates := CandidatesFromNames(names)
	if len(candidates) == 0 {
		return nil, shared.ErrNoArtistsFound
	}

	r.logger.Debug("scan complete", "file", poster.Filename, "artists", len(candidates))
	return candidates, nil
}

// CandidatesFromNames builds name-only candidates, skipping blanks and repeated names.
func CandidatesFromNames(names []string) []models.ArtistCandidate {
	seen := make(map[string]bool, len(names))
	out := make([]models.ArtistCandidate, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := shared.NormalizeName(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.ArtistCandidate{Name: n})
	}
	return out
}
