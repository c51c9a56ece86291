package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	annotationRe    = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)\s*$`)
	compactOffsetRe = regexp.MustCompile(`^([+-])(\d{1,2})(?::?(\d{2}))?$`)
	gmtOffsetRe     = regexp.MustCompile(`^GMT([+-])(\d{1,2})(?::?(\d{2}))?$`)
)

// zone abbreviations seen in exports, as offsets east of UTC in minutes
var zoneAbbreviations = map[string]int{
	"UTC":  0,
	"GMT":  0,
	"BST":  60,
	"CET":  60,
	"CEST": 120,
	"EST":  -5 * 60,
	"EDT":  -4 * 60,
	"CST":  -6 * 60,
	"CDT":  -5 * 60,
	"MST":  -7 * 60,
	"MDT":  -6 * 60,
	"PST":  -8 * 60,
	"PDT":  -7 * 60,
	"AKST": -9 * 60,
	"AKDT": -8 * 60,
	"HST":  -10 * 60,
}

var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"01/02/2006 15:04",
	"2006-01-02",
}

// RewriteOffset turns the trailing zone annotation of an export timestamp
// into the explicit "(GMT±HH[:MM])" form, e.g. "2021-01-05 07:31 (-05)"
// becomes "2021-01-05 07:31 (GMT-05)". Strings without a recognised
// annotation are returned unchanged.
func RewriteOffset(s string) string {
	m := annotationRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	token := strings.TrimSpace(m[2])

	var minutes int
	if om := compactOffsetRe.FindStringSubmatch(token); om != nil {
		h, _ := strconv.Atoi(om[2])
		mm := 0
		if om[3] != "" {
			mm, _ = strconv.Atoi(om[3])
		}
		minutes = h*60 + mm
		if om[1] == "-" {
			minutes = -minutes
		}
	} else if off, ok := zoneAbbreviations[strings.ToUpper(token)]; ok {
		minutes = off
	} else {
		return s
	}
	return fmt.Sprintf("%s (%s)", m[1], gmtName(minutes))
}

func gmtName(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	name := fmt.Sprintf("GMT%s%02d", sign, minutes/60)
	if minutes%60 != 0 {
		name += fmt.Sprintf(":%02d", minutes%60)
	}
	return name
}

// gmtOffset returns the offset in seconds for a "GMT±HH[:MM]" zone name.
func gmtOffset(name string) (int, bool) {
	if name == "GMT" {
		return 0, true
	}
	m := gmtOffsetRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[2])
	mm := 0
	if m[3] != "" {
		mm, _ = strconv.Atoi(m[3])
	}
	if h > 14 || mm > 59 {
		return 0, false
	}
	secs := (h*60 + mm) * 60
	if m[1] == "-" {
		secs = -secs
	}
	return secs, true
}

// ParseTimestamp parses an export timestamp into a UTC instant. A missing
// zone annotation means UTC. Unknown annotations and unparseable text
// report false.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	s = RewriteOffset(s)

	body, loc := s, time.UTC
	if m := annotationRe.FindStringSubmatch(s); m != nil {
		zone := strings.TrimSpace(m[2])
		off, ok := gmtOffset(zone)
		if !ok {
			return time.Time{}, false
		}
		body, loc = strings.TrimSpace(m[1]), time.FixedZone(zone, off)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, body, loc); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
