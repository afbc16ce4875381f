package mediameta

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFilenamePattern matches the naming scheme used by common library
// managers for episode files.
const DefaultFilenamePattern = "<Series Name> (<Year>) - S<season:2 digits>E<episode:2 digits> - <Episode Name> (<video specs>).mkv"

// patternTokens maps template tokens to their regex fragments. Tokens are
// matched literally, everything between them is escaped.
var patternTokens = map[string]string{
	"<Series Name>":         `(?P<series>.+?)`,
	"<Movie Name>":          `(?P<movie>.+?)`,
	"<Episode Name>":        `(?P<title>.+?)`,
	"<Year>":                `(?P<year>\d{4})`,
	"<season:2 digits>":     `(?P<season>\d{2})`,
	"<season:1-2 digits>":   `(?P<season>\d{1,2})`,
	"<episode:2 digits>":    `(?P<episode>\d{2})`,
	"<episode:1-2 digits>":  `(?P<episode>\d{1,2})`,
	"<Air Date>":            `(?P<air_date>\d{4}-\d{2}-\d{2})`,
	"<video specs>":         `(?P<specs>.+?)`,
}

// PatternError reports an invalid filename pattern template. It is raised
// at compile time, before any file is processed.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid filename pattern %q: %s", e.Pattern, e.Reason)
}

// Matcher is a compiled filename pattern template.
type Matcher struct {
	re *regexp.Regexp
}

// CompilePattern translates a human-readable template into an anchored
// case-insensitive matcher. Unknown or unterminated tokens fail with a
// PatternError.
func CompilePattern(pattern string) (*Matcher, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] != '<' {
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
			continue
		}
		end := strings.IndexByte(pattern[i:], '>')
		if end == -1 {
			return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("incomplete token near %q", pattern[i:])}
		}
		token := pattern[i : i+end+1]
		fragment, ok := patternTokens[token]
		if !ok {
			return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("unsupported token %q", token)}
		}
		b.WriteString(fragment)
		i += end + 1
	}

	re, err := regexp.Compile(`(?i)^` + b.String() + `$`)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Reason: err.Error()}
	}
	return &Matcher{re: re}, nil
}

// groups returns the named submatches for name, or nil when the pattern
// does not match. Only groups present in the template appear in the map.
func (m *Matcher) groups(name string) map[string]string {
	sub := m.re.FindStringSubmatch(name)
	if sub == nil {
		return nil
	}
	fields := make(map[string]string)
	for i, groupName := range m.re.SubexpNames() {
		if groupName != "" {
			fields[groupName] = sub[i]
		}
	}
	return fields
}

// hasGroup reports whether the template captured the given field at all,
// matched or not.
func (m *Matcher) hasGroup(name string) bool {
	return m.re.SubexpIndex(name) >= 0
}
