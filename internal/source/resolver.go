package source

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/extract"
	"github.com/quantav/stockscope/pkg/models"
)

// Resolver walks an ordered list of section sources and merges their output
// per field: the first source to produce a non-empty value for a field wins.
// A source error, timeout, or empty extraction just moves on to the next
// source. There is no retry, and running out of sources is not a failure;
// downstream rating tolerates partial and empty field sets.
type Resolver struct {
	sources []SectionSource
	timeout time.Duration
	log     zerolog.Logger
}

// NewResolver creates a resolver over the given sources, consulted in order.
func NewResolver(log zerolog.Logger, sources ...SectionSource) *Resolver {
	return &Resolver{
		sources: sources,
		timeout: attemptTimeout,
		log:     log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve produces the merged field set for one section. The result always
// carries the section's full field vocabulary, with "" for anything no
// source could provide.
func (r *Resolver) Resolve(ctx context.Context, symbol string, section models.Section) models.SectionData {
	merged := models.SectionData{Fields: extract.EmptyFields(section)}

	for _, src := range r.sources {
		if !supports(src, section) {
			continue
		}
		if r.complete(merged, section) {
			break
		}

		data, err := r.attempt(ctx, src, symbol, section)
		if err != nil {
			r.log.Debug().Err(err).
				Str("symbol", symbol).
				Str("section", string(section)).
				Str("source", src.Name()).
				Msg("source attempt failed, falling through")
			continue
		}

		for name, v := range data.Fields {
			if v != "" && merged.Fields[name] == "" {
				merged.Fields[name] = v
			}
		}
		if len(merged.Headlines) == 0 && len(data.Headlines) > 0 {
			merged.Headlines = data.Headlines
		}
	}

	return merged
}

// attempt runs one bounded fetch. Timeouts surface as errors and are treated
// identically to network failures by the caller.
func (r *Resolver) attempt(ctx context.Context, src SectionSource, symbol string, section models.Section) (models.SectionData, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return src.Fetch(attemptCtx, symbol, section)
}

// complete reports whether every field is filled and, for the news section,
// headlines were found.
func (r *Resolver) complete(data models.SectionData, section models.Section) bool {
	for _, v := range data.Fields {
		if v == "" {
			return false
		}
	}
	if section == models.SectionNews && len(data.Headlines) == 0 {
		return false
	}
	return true
}
