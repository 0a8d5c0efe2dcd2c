// Package media classifies download artifacts and extracts identity from
// release-style filenames.
package media

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Class is the retention category of a file.
type Class int

const (
	ClassVideo Class = iota
	ClassSubtitle
	ClassExtra
)

func (c Class) String() string {
	switch c {
	case ClassVideo:
		return "video"
	case ClassSubtitle:
		return "subtitle"
	default:
		return "extra"
	}
}

// DefaultMinVideoSize is the size floor below which a video file is treated
// as a sample.
const DefaultMinVideoSize = 100 << 20 // 100 MiB

// SizeUnknown disables the size rule when the caller has no stat available.
const SizeUnknown = int64(-1)

var subtitleExts = map[string]bool{
	".srt": true, ".sub": true, ".ass": true, ".ssa": true,
	".vtt": true, ".idx": true, ".sup": true,
}

var videoExts = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".m4v": true, ".ts": true,
	".mpg": true, ".mpeg": true, ".wmv": true, ".flv": true, ".mov": true,
}

// extraPatterns mark trailers, samples and other never-retained material.
// Separator-anchored so "sample" in a real title does not match.
var extraPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[-_.\s](trailer|preview|teaser|clip)s?[-_.\s]`),
	regexp.MustCompile(`(?i)[-_.\s](sample|rarbg)[-_.\s]`),
	regexp.MustCompile(`(?i)[-_.\s](behind\.?the\.?scenes?|bts|making\.?of)[-_.\s]`),
	regexp.MustCompile(`(?i)[-_.\s](deleted\.?scenes?|extras?|bonus)[-_.\s]`),
	regexp.MustCompile(`(?i)[-_.\s](featurette|interview|promo)[-_.\s]`),
	regexp.MustCompile(`(?i)[-_.\s](proof|screener)[-_.\s]`),
	regexp.MustCompile(`(?i)^(sample|trailer|teaser|preview)s?[-_.\s]`),
	regexp.MustCompile(`(?i)[-_.]sample$`),
}

// Classifier decides the retention category of a file path.
type Classifier struct {
	// MinVideoSize is the sample-size floor; zero means DefaultMinVideoSize.
	MinVideoSize int64
}

// Classify categorizes path as video, subtitle or extra. size is the on-disk
// size in bytes, or SizeUnknown to skip the sample-size rule. No I/O.
func (c Classifier) Classify(path string, size int64) Class {
	name := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(name)

	if subtitleExts[ext] {
		return ClassSubtitle
	}
	if !videoExts[ext] {
		return ClassExtra
	}

	for _, p := range extraPatterns {
		if p.MatchString(name) {
			return ClassExtra
		}
	}

	min := c.MinVideoSize
	if min == 0 {
		min = DefaultMinVideoSize
	}
	if size != SizeUnknown && size < min {
		return ClassExtra
	}
	return ClassVideo
}
