package media

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Kind distinguishes movies from episodic content.
type Kind int

const (
	KindMovie Kind = iota
	KindSeries
)

func (k Kind) String() string {
	if k == KindSeries {
		return "series"
	}
	return "movie"
}

// Identity is a best-effort extraction from a release-style filename. It may
// be wrong for ambiguous names (titles containing year-like numbers, release
// tags resembling season markers); callers treat it as a hint, never proof.
type Identity struct {
	Title   string
	Year    int // 0 when absent
	Kind    Kind
	Season  int // series only, 0 when unknown
	Episode int // series only, 0 when unknown
}

// ErrUnparsable is returned when no usable title survives token stripping.
// Parse failure is a skip condition for callers, not an error to escalate.
var ErrUnparsable = errors.New("filename does not parse to a title")

var (
	seasonEpisodeRe = regexp.MustCompile(`[Ss](\d{1,2})[Ee](\d{1,2})`)
	altEpisodeRe    = regexp.MustCompile(`\b(\d{1,2})x(\d{1,2})\b`)
	seasonOnlyRe    = regexp.MustCompile(`(?i)Season\s*\d+`)

	// Unanchored on purpose: the historical behavior strips these tokens
	// wherever they occur, even mid-word.
	qualityTokensRe = regexp.MustCompile(`(?i)(1080p|720p|480p|2160p|4K|BluRay|WEB-DL|HDTV|WEBRip|DVDRip|x264|x265|HEVC|AAC|AC3|DTS|PROPER|REPACK|EXTENDED|UNRATED|DC|Directors\.Cut|xvid|divx)`)

	bracketTagRe   = regexp.MustCompile(`\[.*?\]`)
	trailingGrpRe  = regexp.MustCompile(`-[A-Z0-9]+$`)
	yearRe         = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// ParseIdentity extracts title, year, kind and (for series) season/episode
// from a filename. It never guesses: an empty post-strip title yields
// ErrUnparsable.
func ParseIdentity(filename string) (Identity, error) {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	var id Identity
	if m := seasonEpisodeRe.FindStringSubmatch(name); m != nil {
		id.Kind = KindSeries
		id.Season, _ = strconv.Atoi(m[1])
		id.Episode, _ = strconv.Atoi(m[2])
	} else if m := altEpisodeRe.FindStringSubmatch(name); m != nil {
		id.Kind = KindSeries
		id.Season, _ = strconv.Atoi(m[1])
		id.Episode, _ = strconv.Atoi(m[2])
	} else if seasonOnlyRe.MatchString(name) {
		id.Kind = KindSeries
	}

	name = qualityTokensRe.ReplaceAllString(name, " ")
	name = bracketTagRe.ReplaceAllString(name, " ")
	name = trailingGrpRe.ReplaceAllString(name, " ")

	if m := yearRe.FindString(name); m != "" {
		id.Year, _ = strconv.Atoi(m)
		name = strings.ReplaceAll(name, m, " ")
	}

	if id.Kind == KindSeries {
		name = seasonEpisodeRe.ReplaceAllString(name, " ")
		name = altEpisodeRe.ReplaceAllString(name, " ")
		name = seasonOnlyRe.ReplaceAllString(name, " ")
	}

	name = strings.ReplaceAll(name, ".", " ")
	name = strings.ReplaceAll(name, "_", " ")
	id.Title = strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))

	if id.Title == "" {
		return Identity{}, ErrUnparsable
	}
	return id, nil
}
