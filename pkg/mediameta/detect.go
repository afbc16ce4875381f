package mediameta

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	dashEpisodeRe = regexp.MustCompile(`(?i)^(?P<series>.+?)\s*-\s*S(?P<season>\d{1,2})E(?P<episode>\d{2})\s*-\s*(?P<title>.+)$`)
	seasonEpRe    = regexp.MustCompile(`(?i)S(?P<season>\d{1,2})E(?P<episode>\d{2})`)
	altSeasonEpRe = regexp.MustCompile(`(?i)(?P<season>\d{1,2})x(?P<episode>\d{2})`)
	airDateRe     = regexp.MustCompile(`(?P<air_date>\d{4}-\d{2}-\d{2})`)
	digitRunRe    = regexp.MustCompile(`\d+`)

	parenYearMovieRe  = regexp.MustCompile(`(?i)^(?P<title>.+?)\s*\((?P<year>\d{4})\)(?:[ ._\-]+(?P<rest>.+))?$`)
	dottedYearMovieRe = regexp.MustCompile(`(?i)^(?P<title>.+)[ ._\-](?P<year>\d{4})(?:[ ._\-]+(?P<rest>.+))?$`)
)

// Detect extracts metadata from a filename. The manual matcher, when
// non-nil, is tried first; override forces the result type, synthesizing
// a fallback from the cleaned stem when nothing matches. Returns nil when
// no strategy matches and no override was requested.
//
// The strategies run in a fixed order and the first match wins: manual
// pattern, TV heuristics (dash layout, S01E02, 1x02, bare three-digit
// marker, ISO air date), then movie heuristics (parenthesized year,
// separator-delimited year).
func Detect(filename string, manual *Matcher, override MediaType) *Detection {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	if manual != nil {
		if d := matchManual(filename, stem, manual); d != nil {
			applyOverride(d, override)
			return d
		}
	}

	switch override {
	case MediaTVShow:
		if ep := detectTV(stem); ep != nil {
			return &Detection{Type: MediaTVShow, Episode: ep, Pattern: ep.Pattern, Matched: true}
		}
		title := cleanComponent(stem)
		return &Detection{
			Type: MediaTVShow,
			Episode: &Episode{
				Series: title, Title: title,
				Season: NoNumber, Episode: NoNumber,
				Pattern: "override-show",
			},
			Pattern: "override-show",
			Manual:  true,
		}
	case MediaMovie:
		if mv := detectMovie(stem); mv != nil {
			return &Detection{Type: MediaMovie, Movie: mv, Pattern: mv.Pattern, Matched: true}
		}
		return &Detection{
			Type:    MediaMovie,
			Movie:   &Movie{Title: cleanComponent(stem), Pattern: "override-movie"},
			Pattern: "override-movie",
			Manual:  true,
		}
	}

	if ep := detectTV(stem); ep != nil {
		return &Detection{Type: MediaTVShow, Episode: ep, Pattern: ep.Pattern, Matched: true}
	}
	if mv := detectMovie(stem); mv != nil {
		return &Detection{Type: MediaMovie, Movie: mv, Pattern: mv.Pattern, Matched: true}
	}
	return nil
}

// matchManual interprets a manual pattern match. Which metadata is built
// depends on the groups the template declares, not on the filename.
func matchManual(filename, stem string, m *Matcher) *Detection {
	fields := m.groups(filename)
	if fields == nil {
		return nil
	}

	switch {
	case m.hasGroup("season") && m.hasGroup("episode"):
		series := fields["series"]
		if series == "" {
			series = fields["movie"]
		}
		if series == "" {
			series = stem
		}
		title := cleanComponent(fields["title"])
		if title == "" {
			title = stem
		}
		return &Detection{
			Type: MediaTVShow,
			Episode: &Episode{
				Series:  cleanComponent(series),
				Title:   title,
				Year:    parseInt(fields["year"], 0),
				Season:  parseInt(fields["season"], NoNumber),
				Episode: parseInt(fields["episode"], NoNumber),
				AirDate: fields["air_date"],
				Pattern: "manual-pattern",
			},
			Pattern: "manual-pattern",
			Matched: true,
			Manual:  true,
		}

	case m.hasGroup("movie") || (m.hasGroup("series") && m.hasGroup("year") && !m.hasGroup("episode")):
		name := fields["movie"]
		if name == "" {
			name = fields["series"]
		}
		return &Detection{
			Type: MediaMovie,
			Movie: &Movie{
				Title:   cleanComponent(name),
				Year:    parseInt(fields["year"], 0),
				Pattern: "manual-pattern",
			},
			Pattern: "manual-pattern",
			Matched: true,
			Manual:  true,
		}

	case m.hasGroup("title") && !m.hasGroup("movie"):
		series := fields["series"]
		if series == "" {
			series = stem
		}
		return &Detection{
			Type: MediaTVShow,
			Episode: &Episode{
				Series:  cleanComponent(series),
				Title:   cleanComponent(fields["title"]),
				Year:    parseInt(fields["year"], 0),
				Season:  parseInt(fields["season"], NoNumber),
				Episode: parseInt(fields["episode"], NoNumber),
				AirDate: fields["air_date"],
				Pattern: "manual-pattern",
			},
			Pattern: "manual-pattern",
			Matched: true,
			Manual:  true,
		}
	}
	return nil
}

// applyOverride flips a manual detection to the forced type, converting
// the metadata rather than discarding it.
func applyOverride(d *Detection, override MediaType) {
	if override == MediaUnknown || d.Type == override {
		return
	}
	switch override {
	case MediaTVShow:
		d.Type = MediaTVShow
		if d.Movie != nil {
			d.Episode = &Episode{
				Series: d.Movie.Title, Title: d.Movie.Title,
				Year:   d.Movie.Year,
				Season: NoNumber, Episode: NoNumber,
				Pattern: d.Pattern,
			}
			d.Movie = nil
		}
	case MediaMovie:
		d.Type = MediaMovie
		if d.Episode != nil {
			d.Movie = &Movie{Title: d.Episode.Series, Year: d.Episode.Year, Pattern: d.Pattern}
			d.Episode = nil
		}
	}
}

func detectTV(stem string) *Episode {
	if m := dashEpisodeRe.FindStringSubmatch(stem); m != nil {
		return buildEpisodeFromGroups(m[1], m[4], m[2], m[3], "tv_dash_title")
	}

	if loc := seasonEpRe.FindStringSubmatchIndex(stem); loc != nil {
		return buildEpisodeFromParts(
			stem[:loc[0]], stem[loc[1]:],
			stem[loc[2]:loc[3]], stem[loc[4]:loc[5]],
			"tv_standard",
		)
	}

	if loc := altSeasonEpRe.FindStringSubmatchIndex(stem); loc != nil {
		return buildEpisodeFromParts(
			stem[:loc[0]], stem[loc[1]:],
			stem[loc[2]:loc[3]], stem[loc[4]:loc[5]],
			"tv_alt_1x",
		)
	}

	if ep := detectThreeDigit(stem); ep != nil {
		return ep
	}

	if loc := airDateRe.FindStringIndex(stem); loc != nil {
		airDate := stem[loc[0]:loc[1]]
		ep := buildEpisodeFromParts(stem[:loc[0]], stem[loc[1]:], "", "", "tv_airdate")
		if ep != nil {
			ep.AirDate = airDate
			ep.Year = parseInt(airDate[:4], 0)
		}
		return ep
	}

	return nil
}

// detectThreeDigit handles the bare "305" season+episode marker. Only the
// first standalone three-digit run is considered, and it is rejected when
// it looks like a codec (X265, H264), a resolution (720P), or a plausible
// year (1900-2099).
func detectThreeDigit(stem string) *Episode {
	for _, loc := range digitRunRe.FindAllStringIndex(stem, -1) {
		if loc[1]-loc[0] != 3 {
			continue
		}
		combined := stem[loc[0]:loc[1]]

		if loc[0] > 0 {
			prev := stem[loc[0]-1]
			if prev == 'X' || prev == 'x' || prev == 'H' || prev == 'h' {
				return nil
			}
		}
		if loc[1] < len(stem) {
			next := stem[loc[1]]
			if next == 'P' || next == 'p' {
				return nil
			}
		}
		if year, _ := strconv.Atoi(combined); year >= 1900 && year <= 2099 {
			return nil
		}

		return buildEpisodeFromParts(
			stem[:loc[0]], stem[loc[1]:],
			combined[:1], combined[1:],
			"tv_three_digit",
		)
	}
	return nil
}

func detectMovie(stem string) *Movie {
	if m := parenYearMovieRe.FindStringSubmatch(stem); m != nil {
		return buildMovie(m[1], m[2], m[3], "movie_paren_year")
	}
	if m := dottedYearMovieRe.FindStringSubmatch(stem); m != nil {
		return buildMovie(m[1], m[2], m[3], "movie_dotted_year")
	}
	return nil
}

func buildEpisodeFromGroups(rawSeries, rawTitle, season, episode, pattern string) *Episode {
	series, year := splitTrailingYear(rawSeries)
	cleanedSeries := cleanComponent(series)
	title := cleanEpisodeTitle(rawTitle)
	if title == "" {
		title = cleanedSeries
	}
	return &Episode{
		Series:  cleanedSeries,
		Title:   title,
		Year:    year,
		Season:  parseInt(season, NoNumber),
		Episode: parseInt(episode, NoNumber),
		Pattern: pattern,
	}
}

func buildEpisodeFromParts(seriesPart, suffixPart, season, episode, pattern string) *Episode {
	series, year := splitTrailingYear(seriesPart)
	cleanedSeries := cleanComponent(series)
	title := cleanEpisodeTitle(suffixPart)

	seriesName := cleanedSeries
	if seriesName == "" {
		seriesName = suffixPart
	}
	episodeTitle := title
	if episodeTitle == "" {
		episodeTitle = cleanedSeries
	}
	if episodeTitle == "" {
		episodeTitle = suffixPart
	}

	return &Episode{
		Series:  seriesName,
		Title:   episodeTitle,
		Year:    year,
		Season:  parseInt(season, NoNumber),
		Episode: parseInt(episode, NoNumber),
		Pattern: pattern,
	}
}

func buildMovie(rawTitle, rawYear, rest, pattern string) *Movie {
	mv := &Movie{
		Title:   cleanComponent(rawTitle),
		Year:    parseInt(rawYear, 0),
		Pattern: pattern,
	}
	if rest != "" {
		if m := editionBlockRe.FindStringSubmatch(rest); m != nil {
			mv.Edition = strings.TrimSpace(m[1])
		}
	}
	return mv
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
