// Package mediameta extracts movie and TV episode metadata from media filenames.
package mediameta

import "fmt"

// MediaType classifies a detection as a movie or a TV episode.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaMovie
	MediaTVShow
)

func (t MediaType) String() string {
	switch t {
	case MediaMovie:
		return "movie"
	case MediaTVShow:
		return "tv_show"
	default:
		return "unknown"
	}
}

// NoNumber marks an absent season or episode number. Zero stays valid
// because specials ship as season 0.
const NoNumber = -1

// Episode holds metadata extracted for a TV episode.
type Episode struct {
	Series  string
	Title   string
	Year    int // 0 when unknown
	Season  int // NoNumber when unknown
	Episode int // NoNumber when unknown
	AirDate string
	Pattern string
}

// ID returns the "S01E05" style identifier, or "" when either number is
// unknown.
func (e Episode) ID() string {
	if e.Season == NoNumber || e.Episode == NoNumber {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", e.Season, e.Episode)
}

// Movie holds metadata extracted for a movie.
type Movie struct {
	Title   string
	Year    int // 0 when unknown
	Edition string
	Pattern string
}

// Detection is the result of metadata detection for one filename. Exactly
// one of Episode or Movie is set, matching Type.
type Detection struct {
	Type    MediaType
	Episode *Episode
	Movie   *Movie

	// Pattern names the strategy that produced the result, e.g.
	// "tv_standard", "movie_paren_year", "manual-pattern" or the
	// synthetic "override-show"/"override-movie".
	Pattern string

	// Matched is false only for synthetic fallbacks created when a type
	// override was requested but nothing in the name matched.
	Matched bool

	// Manual is true when the result came from a user-supplied pattern
	// or a synthetic override fallback rather than auto-detection.
	Manual bool
}
