// Package match locates a remote file whose exact name is unknown, tolerating
// date and version suffixes appended to a known base name (timestamped
// exports, versioned dumps).
package match

import (
	"path"
	"regexp"
	"strings"

	"digital.vasic.transfer/pkg/client"
)

// Strategy selects the matching algorithm.
type Strategy string

const (
	// StrategyExact matches the basename of Options.Filepath literally.
	StrategyExact Strategy = "exact"
	// StrategyPrefix matches names starting with Options.Basename,
	// case-sensitive and literal.
	StrategyPrefix Strategy = "prefix"
	// StrategyRegex compiles Options.Basename as a regular expression; an
	// invalid pattern matches nothing.
	StrategyRegex Strategy = "regex"
	// StrategySmart is the default: tolerant matching that accepts date and
	// version suffixes on the base name.
	StrategySmart Strategy = "smart"
)

// Options carries the target name being matched.
type Options struct {
	// Basename is the target name without extension, or the full pattern in
	// regex mode.
	Basename string
	// Filepath is the originally requested path, used by exact matching.
	Filepath string
	// Extname is the expected extension including the dot; may be empty.
	Extname string
}

// suffixPatterns is the fixed grammar of date/version suffixes accepted by
// smart matching, each with an optional leading underscore. Tested against
// the normalized remainder after the base name.
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^_?\d{4}-?\d{2}-?\d{2}$`),  // YYYY[-]MM[-]DD / YYYYMMDD
	regexp.MustCompile(`^_?\d{2}-?\d{2}-?\d{4}$`),  // DD[-]MM[-]YYYY
	regexp.MustCompile(`^_?\d{6}$`),                // YYMMDD
	regexp.MustCompile(`^_?\d{4}$`),                // bare year
	regexp.MustCompile(`^_?\d{1,2}$`),              // numeric counter
	regexp.MustCompile(`^_?v\d+(\.\d+)*$`),         // v-prefixed version
	regexp.MustCompile(`^_?\d{2}:\d{2}$`),          // HH:MM
}

// normalizer strips the separators tolerated by smart matching.
var normalizer = strings.NewReplacer(" ", "", "_", "", "-", "")

func normalize(s string) string {
	return normalizer.Replace(strings.ToLower(s))
}

// Matches reports whether a single file satisfies the target under the given
// strategy. Directories never match.
func Matches(file *client.FileInfo, opts Options, strategy Strategy) bool {
	if file == nil || file.IsDir {
		return false
	}

	switch strategy {
	case StrategyExact:
		return file.Name == path.Base(opts.Filepath)

	case StrategyPrefix:
		return strings.HasPrefix(file.Name, opts.Basename)

	case StrategyRegex:
		re, err := regexp.Compile(opts.Basename)
		if err != nil {
			return false
		}
		return re.MatchString(file.Name)

	default:
		return smartMatch(file.Name, opts)
	}
}

func smartMatch(name string, opts Options) bool {
	if name == opts.Basename+opts.Extname {
		return true
	}

	ext := path.Ext(name)
	if opts.Extname != "" && !strings.EqualFold(ext, opts.Extname) {
		return false
	}

	base := strings.TrimSuffix(name, ext)
	normBase := normalize(base)
	normTarget := normalize(opts.Basename)

	if normBase == normTarget {
		return true
	}
	if !strings.HasPrefix(normBase, normTarget) {
		return false
	}

	suffix := normBase[len(normTarget):]
	for _, re := range suffixPatterns {
		if re.MatchString(suffix) {
			return true
		}
	}
	return false
}

// FindBestMatch returns the single best match for the target among files, or
// nil when nothing matches. With multiple matches the newest by Timestamp
// wins; among equally-new candidates the first encountered in the input slice
// is kept.
func FindBestMatch(files []*client.FileInfo, opts Options, strategy Strategy) *client.FileInfo {
	var best *client.FileInfo
	for _, f := range files {
		if !Matches(f, opts, strategy) {
			continue
		}
		if best == nil || f.Timestamp().After(best.Timestamp()) {
			best = f
		}
	}
	return best
}
