// Package classify decides whether free-text post content plausibly
// announces an event. The heuristic is keyword density plus date-pattern
// presence: single-keyword posts are noisy (a "free" food post), but a
// date reference alongside any contextual keyword is a strong joint signal.
package classify

import (
	"regexp"
	"strings"
)

// eventKeywords are the bilingual (Turkish/English) indicator terms.
// Matched case-insensitively as substrings; each distinct keyword counts once.
var eventKeywords = []string{
	// Turkish
	"etkinlik", "davet", "katılım", "konser", "seminer", "workshop",
	"atölye", "buluşma", "toplantı", "tarih", "saat", "yer", "konum",
	"kayıt", "bilet", "giriş", "ücretsiz", "festival", "söyleşi",
	// English
	"event", "join", "attend", "concert", "seminar",
	"meetup", "meeting", "date", "time", "location", "register",
	"ticket", "entry", "free", "talk", "presentation",
}

// datePatterns match explicit calendar references in either language.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[./]\d{1,2}[./]\d{2,4}`),
	regexp.MustCompile(`\d{1,2}\s+(ocak|şubat|mart|nisan|mayıs|haziran|temmuz|ağustos|eylül|ekim|kasım|aralık)`),
	regexp.MustCompile(`\d{1,2}\s+(january|february|march|april|may|june|july|august|september|october|november|december)`),
	regexp.MustCompile(`(pazartesi|salı|çarşamba|perşembe|cuma|cumartesi|pazar)`),
	regexp.MustCompile(`(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`),
}

// timePatterns match time-of-day references. They contribute to the signal
// counts but not to the verdict.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[:.]\d{2}`),
	regexp.MustCompile(`\d{1,2}\s*(am|pm)`),
}

// Result is the classification verdict plus the contributing signal counts.
type Result struct {
	IsEvent     bool
	KeywordHits int
	DateHits    int
	TimeHits    int
}

// Classify scores raw post text for event likelihood. Deterministic and
// side-effect free; empty or whitespace-only text classifies negative.
func Classify(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{}
	}

	lower := strings.ToLower(text)

	var res Result
	for _, keyword := range eventKeywords {
		if strings.Contains(lower, keyword) {
			res.KeywordHits++
		}
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(lower) {
			res.DateHits++
		}
	}
	for _, pattern := range timePatterns {
		if pattern.MatchString(lower) {
			res.TimeHits++
		}
	}

	res.IsEvent = res.KeywordHits >= 2 || (res.DateHits > 0 && res.KeywordHits >= 1)
	return res
}
