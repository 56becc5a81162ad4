// Package filename extracts structured attributes from release-style video
// filenames: title, episode and season numbers, checksum, resolution and the
// codec/source tokens fansub groups pack into bracketed segments.
//
// Parsing is pure and deterministic. Identical filename strings always
// produce identical attributes, so results are memoized per string; the
// cache is sized far beyond any realistic collection.
package filename

import (
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Attributes holds everything extracted from a single filename string.
// Absent fields are zero values; extraction never fails.
type Attributes struct {
	Title          string
	EpisodeTitle   string
	Episodes       []int // empty when no episode token was present
	Season         int   // 0 when absent
	Checksum       string
	Resolution     string
	Year           string
	ReleaseVersion string
	ReleaseGroup   string
	AudioTerms     []string
	VideoTerms     []string
	SourceTerms    []string
}

// Result is the path-level parse outcome: string attributes plus the
// extension classification used to decide whether a file is tracked at all.
type Result struct {
	Path      string
	Extension string
	IsAnime   bool
	Attributes
}

const dirFallbackThreshold = 95

var (
	extensionRe     = regexp.MustCompile(`\.(?:[a-z]+|\[\w+\])`)
	checksumRe      = regexp.MustCompile(`[ -]?[\[(](?P<checksum>[A-Fa-f0-9]{8})[\])][ -]?`)
	resolutionRe    = regexp.MustCompile(`(?i)(?P<posheight>\d{3,4})(?:p|[x\x{00D7}](?P<height>\d{3,4}))|\[(?P<aloneheight>\d{3,4})\]`)
	yearRe          = regexp.MustCompile(`[\[( \-](?P<year>\d{4})[\]) \-]`)
	releaseVerRe    = regexp.MustCompile(`(?i)(?P<release>v\d+)`)
	releaseGroupRe  = regexp.MustCompile(`[\[(](?P<releasegroup>[\w\s\- ]+)[\])]`)
	emptyBracketsRe = regexp.MustCompile(`[\[(][_\-. ]*[\])]`)
	episodeRe       = regexp.MustCompile(`(?i)[^a-z0-9()\[\]](?:s(?P<season>\d+))?(?:(?:e|sp|ep)|(?P<season2>\d+)x)?(?P<episode>\d+)(?:[-~](?P<episode2>\d+))?`)

	leadingSlashRe   = regexp.MustCompile(`^/ *`)
	underscoresRe    = regexp.MustCompile(`_+`)
	squareBracketsRe = regexp.MustCompile(`[\[\]]`)
	trailingDashRe   = regexp.MustCompile(` ?-$`)
	titleSplitRe     = regexp.MustCompile(` ?- `)
)

// groupBinding maps a named regex group to an attribute key. Bindings are
// ordered: when one match fills several groups, the earliest binding wins.
type groupBinding struct {
	group string
	attr  string
}

type rule struct {
	re     *regexp.Regexp
	groups []groupBinding
}

// Pass 1: bracketed metadata tokens, stripped before episode detection so a
// resolution or checksum can never be mistaken for an episode number.
var step1Rules = []rule{
	{checksumRe, []groupBinding{{"checksum", "checksum"}}},
	{resolutionRe, []groupBinding{
		{"height", "resolution"},
		{"posheight", "resolution"},
		{"aloneheight", "resolution"},
	}},
	{yearRe, []groupBinding{{"year", "year"}}},
	{releaseVerRe, []groupBinding{{"release", "release_version"}}},
}

var releaseGroupRule = rule{releaseGroupRe, []groupBinding{{"releasegroup", "release_group"}}}

// Parse extracts attributes from a file path. The filename itself is parsed
// first; when it yields a title but no episode title, the parent directory
// name is consulted as a fallback series title (generic container directory
// names excluded). A file counts as anime when a title was extracted and the
// extension is a known video or subtitle format; files with no episode token
// are assumed to be movies and default to episode 1.
func Parse(path string) Result {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	res := Result{Path: path, Extension: ext}
	res.Attributes = parseString(filepath.Base(path))

	// Only a series title was found in the filename itself. The real series
	// title may live in the directory name, with the filename holding the
	// episode title instead.
	if res.Title != "" && res.EpisodeTitle == "" {
		dir := filepath.Base(filepath.Dir(path))
		if dir != "." && dir != string(filepath.Separator) && dir != "" {
			dirAttrs := parseString(dir)
			if dirAttrs.Title != "" && !genericDirNames[strings.ToLower(dirAttrs.Title)] {
				if Ratio(res.Title, dirAttrs.Title) < dirFallbackThreshold {
					res.EpisodeTitle = res.Title
					res.Title = dirAttrs.Title
				}
			}
		}
	}

	res.IsAnime = res.Title != "" &&
		(IsVideoExtension(ext) || IsSubtitleExtension(ext))
	if res.IsAnime && len(res.Episodes) == 0 {
		res.Episodes = []int{1}
	}
	return res
}

// memo holds parse results per filename string. A parsed entry is tiny;
// even a couple hundred thousand distinct names stay well under any
// problematic memory use.
var memo, _ = lru.New[string, Attributes](1 << 17)

func parseString(name string) Attributes {
	if cached, ok := memo.Get(name); ok {
		return cloneAttributes(cached)
	}
	attrs := parseStringUncached(name)
	memo.Add(name, cloneAttributes(attrs))
	return attrs
}

func cloneAttributes(a Attributes) Attributes {
	a.Episodes = slices.Clone(a.Episodes)
	a.AudioTerms = slices.Clone(a.AudioTerms)
	a.VideoTerms = slices.Clone(a.VideoTerms)
	a.SourceTerms = slices.Clone(a.SourceTerms)
	return a
}

func parseStringUncached(name string) Attributes {
	// The leading slash gives boundary-sensitive patterns a separator to
	// consume when the token sits at the very start of the name.
	s := "/" + extensionRe.ReplaceAllString(name, "")

	data := make(map[string]string)
	for _, r := range step1Rules {
		s = stripAndTrack(s, r, data)
	}

	var audio, video, source []string
	s, audio = stripTerms(s, audioTermRe)
	s, video = stripTerms(s, videoTermRe)
	s, source = stripTerms(s, sourceTermRe)

	// Term stripping can leave brackets with nothing useful inside.
	s = emptyBracketsRe.ReplaceAllString(s, "")

	s = stripEpisode(s, data)
	s = stripAndTrack(s, releaseGroupRule, data)

	s = leadingSlashRe.ReplaceAllString(s, "")
	s = underscoresRe.ReplaceAllString(s, " ")
	s = squareBracketsRe.ReplaceAllString(s, "")
	s = trailingDashRe.ReplaceAllString(s, "")

	var segments []string
	for _, seg := range titleSplitRe.Split(s, -1) {
		seg = strings.TrimSpace(seg)
		if dropSegments[strings.ToUpper(seg)] {
			continue
		}
		segments = append(segments, seg)
	}

	attrs := Attributes{
		Checksum:       data["checksum"],
		Resolution:     data["resolution"],
		Year:           data["year"],
		ReleaseVersion: data["release_version"],
		ReleaseGroup:   strings.TrimSpace(data["release_group"]),
		AudioTerms:     audio,
		VideoTerms:     video,
		SourceTerms:    source,
	}
	if len(segments) > 0 {
		attrs.Title = segments[0]
	}
	if len(segments) == 2 {
		attrs.EpisodeTitle = segments[1]
	}
	if season, err := strconv.Atoi(data["season"]); err == nil {
		attrs.Season = season
	}
	attrs.Episodes = expandEpisodes(data["episode"], data["episode2"])
	return attrs
}

// expandEpisodes turns an episode token, optionally with a range end
// ("01-12" batch packs), into the ordered list of episode numbers.
func expandEpisodes(first, last string) []int {
	if first == "" {
		return nil
	}
	start, err := strconv.Atoi(first)
	if err != nil {
		return nil
	}
	if last == "" {
		return []int{start}
	}
	end, err := strconv.Atoi(last)
	if err != nil || end <= start || end-start > 500 {
		return []int{start}
	}
	eps := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		eps = append(eps, n)
	}
	return eps
}

// stripAndTrack removes every match of the rule from s and records named
// group captures into data. The first non-empty capture for an attribute
// wins; later matches are still removed from the working string.
func stripAndTrack(s string, r rule, data map[string]string) string {
	matches := r.re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	groupIndex := subexpIndex(r.re)

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		last = m[1]
		for _, gb := range r.groups {
			gi, ok := groupIndex[gb.group]
			if !ok {
				continue
			}
			start, end := m[2*gi], m[2*gi+1]
			if start < 0 || start == end {
				continue
			}
			if _, exists := data[gb.attr]; !exists {
				data[gb.attr] = s[start:end]
			}
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

// stripTerms removes codec/source tokens. A token only counts when followed
// by a non-word character, so "AAC" inside a longer word is left alone.
func stripTerms(s string, re *regexp.Regexp) (string, []string) {
	var terms []string
	var b strings.Builder
	pos := 0
	for pos < len(s) {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil {
			b.WriteString(s[pos:])
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if !nonWordFollows(s, end) {
			b.WriteString(s[pos : start+1])
			pos = start + 1
			continue
		}
		b.WriteString(s[pos:start])
		terms = append(terms, s[start:end])
		pos = end
	}
	return b.String(), terms
}

func nonWordFollows(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

// stripEpisode removes episode/season tokens (S02E05, 2x05, bare 05) and
// records the first capture of each group. A candidate is rejected when the
// character after it could extend the token (letters other than the release
// version marker, digits, parentheses) so "264" in a codec or a bare year
// glued to text never reads as an episode.
func stripEpisode(s string, data map[string]string) string {
	groupIndex := subexpIndex(episodeRe)

	var b strings.Builder
	pos := 0
	for pos < len(s) {
		m := episodeRe.FindStringSubmatchIndex(s[pos:])
		if m == nil {
			b.WriteString(s[pos:])
			break
		}
		start, end := pos+m[0], pos+m[1]
		if !episodeBoundary(s, end) {
			b.WriteString(s[pos : start+1])
			pos = start + 1
			continue
		}
		b.WriteString(s[pos:start])

		capture := func(group, attr string) {
			gi := groupIndex[group]
			gs, ge := m[2*gi], m[2*gi+1]
			if gs < 0 || gs == ge {
				return
			}
			if _, exists := data[attr]; !exists {
				data[attr] = s[pos+gs : pos+ge]
			}
		}
		capture("episode", "episode")
		capture("episode2", "episode2")
		capture("season", "season")
		capture("season2", "season")

		for end < len(s) && (s[end] == '.' || s[end] == '-') {
			end++
		}
		pos = end
	}
	return b.String()
}

func episodeBoundary(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	lr := unicode.ToLower(r)
	switch {
	case lr >= '0' && lr <= '9':
		return false
	case lr >= 'a' && lr <= 'z' && lr != 'v':
		return false
	case lr == '(' || lr == ')':
		return false
	}
	return true
}

func subexpIndex(re *regexp.Regexp) map[string]int {
	idx := make(map[string]int)
	for i, name := range re.SubexpNames() {
		if name != "" {
			idx[name] = i
		}
	}
	return idx
}
