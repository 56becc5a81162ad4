package filename

import (
	"regexp"
	"strings"
)

// videoExtensions is the allow-list of container formats treated as video.
var videoExtensions = map[string]bool{
	"webm": true, "mkv": true, "flv": true, "vob": true, "ogv": true,
	"ogg": true, "drc": true, "gif": true, "gifv": true, "mng": true,
	"avi": true, "mts": true, "m2ts": true, "ts": true, "mov": true,
	"qt": true, "wmv": true, "yuv": true, "rm": true, "rmvb": true,
	"viv": true, "asf": true, "amv": true, "mp4": true, "m4p": true,
	"m4v": true, "mpg": true, "mp2": true, "mpeg": true, "mpe": true,
	"mpv": true, "m2v": true, "svi": true, "3gp": true, "3g2": true,
	"mxf": true, "roq": true, "nsv": true, "f4v": true, "f4p": true,
	"f4a": true, "f4b": true,
}

// subtitleExtensions is the allow-list of standalone subtitle formats.
var subtitleExtensions = map[string]bool{
	"ass": true, "cmml": true, "lrc": true, "sami": true,
	"ttml": true, "srt": true, "ssa": true, "usf": true,
}

// IsVideoExtension reports whether ext (without leading dot) is a known video format.
func IsVideoExtension(ext string) bool {
	return videoExtensions[strings.ToLower(ext)]
}

// IsSubtitleExtension reports whether ext (without leading dot) is a known subtitle format.
func IsSubtitleExtension(ext string) bool {
	return subtitleExtensions[strings.ToLower(ext)]
}

// Codec, audio and source token alternatives stripped out of filenames.
// Each list is joined into a single alternation; matches are collected into
// the corresponding term list on the parse result.
var audioTermAlternatives = []string{
	`[25](?:\.[01])?CH`,
	`DTS(?:5\.1|-ES)?`,
	`TRUEHD5\.1`,
	`AAC(?:X[234])?`,
	`(?:E-?)?AC-?3`,
	`FLAC(?:X[234])?`,
	`LOSSLESS`,
	`MP3`,
	`OGG`,
	`VORBIS`,
	`DUAL[\- ]?AUDIO`,
}

var videoTermAlternatives = []string{
	`\d+(?:\.\d+)?FPS`,
	`(?:8|10)[\- ]?BITS?`,
	`HI(?:10|444)P?`,
	`[HX]\.?26[45]`,
	`HEVC2?`,
	`DIVX[56]`,
	`AV[CI]`,
	`WMV[39]`,
	`XVID`,
	`RMVB`,
	`[HL]Q`,
	`[HS]D`,
}

var sourceTermAlternatives = []string{
	`BD(?:RIP)?`,
	`BLU[\- ]?RAY`,
	`DVD-?(?:[59]|R2J|RIP)?`,
	`R2J?(?:DVD)?(?:RIP)?`,
	`HDTV(?:RIP)?`,
	`TV-?RIP`,
	`WEB(?:CAST|RIP)`,
}

var (
	audioTermRe  = regexp.MustCompile(`(?i)(?:` + strings.Join(audioTermAlternatives, "|") + `)`)
	videoTermRe  = regexp.MustCompile(`(?i)(?:` + strings.Join(videoTermAlternatives, "|") + `)`)
	sourceTermRe = regexp.MustCompile(`(?i)(?:` + strings.Join(sourceTermAlternatives, "|") + `)`)
)

// dropSegments are title segments that are release markers, not real titles.
var dropSegments = map[string]bool{
	"": true, "ONA": true, "OVA": true, "END": true, "FINAL": true,
}

// genericDirNames are container directories excluded from the parent-directory
// title fallback.
var genericDirNames = map[string]bool{
	"anime": true, "videos": true, "torrents": true,
	"downloads": true, "documents": true,
}
