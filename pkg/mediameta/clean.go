package mediameta

import (
	"regexp"
	"strconv"
	"strings"
)

// qualityBreakWords are release-spec tokens that terminate an episode
// title: everything from the first occurrence onward is discarded.
var qualityBreakWords = map[string]bool{
	"480P": true, "720P": true, "1080P": true, "2160P": true,
	"4K": true, "8K": true,
	"BLURAY": true, "BDRIP": true, "BRRIP": true,
	"WEB": true, "WEBRIP": true, "WEBDL": true, "WEB-DL": true,
	"HDR": true, "HDR10": true, "HDR10PLUS": true,
	"DOLBY": true, "DV": true, "ATMOS": true,
	"DDP5": true, "DDP5.1": true, "TRUEHD": true,
	"REMUX": true, "UHD": true, "IMAX": true,
	"AMZN": true, "HMAX": true, "MAX": true, "HULU": true, "NF": true, "NETFLIX": true,
	"H265": true, "X265": true, "H264": true, "X264": true, "AV1": true,
}

var (
	bracketBlockRe   = regexp.MustCompile(`\[.*?\]`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
	trailingGroupRe  = regexp.MustCompile(`-[A-Za-z0-9]+$`)
	tokenBoundaryRe  = regexp.MustCompile(`[ ._\-]+`)
	qualityNumberRe  = regexp.MustCompile(`^(?i)\d{3,4}P$`)
	yearSuffixRe     = regexp.MustCompile(`\((\d{4})\)$`)
	yearTrailingRe   = regexp.MustCompile(`(\d{4})$`)
	editionBlockRe   = regexp.MustCompile(`(?i)\{edition-([^}]+)\}`)
)

// cleanComponent normalizes a series or movie name component: bracketed
// blocks are dropped, separators become spaces, and a trailing release
// group (-GROUP) is stripped.
func cleanComponent(value string) string {
	cleaned := bracketBlockRe.ReplaceAllString(value, "")
	cleaned = strings.ReplaceAll(cleaned, "_", " ")
	cleaned = strings.ReplaceAll(cleaned, ".", " ")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " -_.")
	cleaned = trailingGroupRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// cleanEpisodeTitle tokenizes the raw title on separators and keeps
// tokens up to the first quality break word or NNNP-style resolution.
func cleanEpisodeTitle(value string) string {
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "(", " ")
	value = strings.ReplaceAll(value, ")", " ")
	value = bracketBlockRe.ReplaceAllString(value, "")

	var kept []string
	for _, token := range tokenBoundaryRe.Split(value, -1) {
		if token == "" {
			continue
		}
		if qualityBreakWords[strings.ToUpper(token)] || qualityNumberRe.MatchString(token) {
			break
		}
		kept = append(kept, token)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// splitTrailingYear splits "Show (2008)" or "Show 2008" into the name and
// the year. Returns year 0 when no trailing year is present.
func splitTrailingYear(value string) (string, int) {
	if value == "" {
		return "", 0
	}
	trimmed := strings.TrimSpace(value)
	if m := yearSuffixRe.FindStringSubmatchIndex(trimmed); m != nil {
		year, _ := strconv.Atoi(trimmed[m[2]:m[3]])
		return strings.Trim(trimmed[:m[0]], " -_."), year
	}
	if m := yearTrailingRe.FindStringSubmatchIndex(trimmed); m != nil {
		year, _ := strconv.Atoi(trimmed[m[2]:m[3]])
		return strings.Trim(trimmed[:m[0]], " -_."), year
	}
	return value, 0
}

// FallbackTitle maps a raw file stem to a displayable title when no
// pattern matched: underscores and dots become spaces, nothing else.
func FallbackTitle(stem string) string {
	cleaned := strings.ReplaceAll(stem, "_", " ")
	cleaned = strings.ReplaceAll(cleaned, ".", " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return stem
	}
	return cleaned
}
