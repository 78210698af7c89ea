package dateformat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// Formatter renders epoch seconds with a moment-style pattern
// ("Do MMMM, YYYY") in the given language.
type Formatter interface {
	Format(epochSeconds int64, locale, pattern string) string
	// Location is the zone dates are rendered and computed in
	Location() *time.Location
}

// MomentFormatter implements Formatter. Month and weekday names come from
// monday's locale tables; unknown languages fall back to English.
type MomentFormatter struct {
	loc *time.Location
}

// NewMomentFormatter creates a formatter rendering dates in loc (UTC when nil)
func NewMomentFormatter(loc *time.Location) *MomentFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return &MomentFormatter{loc: loc}
}

// longest tokens first so "MMMM" wins over "MM" and "M"
var tokens = []string{
	"YYYY", "YY",
	"MMMM", "MMM", "MM", "Mo", "M",
	"Do", "DD", "D",
	"dddd", "ddd", "d",
	"HH", "H", "hh", "h",
	"mm", "m", "ss", "s",
	"A", "a", "Z", "X",
}

var languages = map[string]monday.Locale{
	"en": monday.LocaleEnUS,
	"fr": monday.LocaleFrFR,
	"de": monday.LocaleDeDE,
	"es": monday.LocaleEsES,
	"it": monday.LocaleItIT,
	"pt": monday.LocalePtPT,
	"nl": monday.LocaleNlNL,
	"ru": monday.LocaleRuRU,
	"ja": monday.LocaleJaJP,
	"pl": monday.LocalePlPL,
	"sv": monday.LocaleSvSE,
	"da": monday.LocaleDaDK,
	"fi": monday.LocaleFiFI,
	"nb": monday.LocaleNbNO,
}

// Location implements Formatter
func (f *MomentFormatter) Location() *time.Location {
	return f.loc
}

// Format implements Formatter
func (f *MomentFormatter) Format(epochSeconds int64, locale, pattern string) string {
	t := time.Unix(epochSeconds, 0).In(f.loc)
	lang, mondayLocale := resolve(locale)

	var b strings.Builder
	for i := 0; i < len(pattern); {
		// [escaped text] is copied verbatim
		if pattern[i] == '[' {
			if end := strings.IndexByte(pattern[i:], ']'); end > 0 {
				b.WriteString(pattern[i+1 : i+end])
				i += end + 1
				continue
			}
		}

		token := matchToken(pattern[i:])
		if token == "" {
			b.WriteByte(pattern[i])
			i++
			continue
		}
		b.WriteString(render(t, token, lang, mondayLocale))
		i += len(token)
	}
	return b.String()
}

func matchToken(s string) string {
	for _, token := range tokens {
		if strings.HasPrefix(s, token) {
			return token
		}
	}
	return ""
}

// resolve maps "fr", "fr-FR" or "fr_FR" to a language code and a monday locale
func resolve(locale string) (string, monday.Locale) {
	normalized := strings.ReplaceAll(strings.TrimSpace(locale), "-", "_")
	lang := strings.ToLower(strings.SplitN(normalized, "_", 2)[0])
	if lang == "" {
		lang = "en"
	}

	if strings.Contains(normalized, "_") {
		parts := strings.SplitN(normalized, "_", 2)
		return lang, monday.Locale(lang + "_" + strings.ToUpper(parts[1]))
	}
	if l, ok := languages[lang]; ok {
		return lang, l
	}
	return "en", monday.LocaleEnUS
}

func render(t time.Time, token, lang string, locale monday.Locale) string {
	switch token {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MMMM":
		return monday.Format(t, "January", locale)
	case "MMM":
		return monday.Format(t, "Jan", locale)
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "Mo":
		return ordinal(int(t.Month()), lang)
	case "M":
		return strconv.Itoa(int(t.Month()))
	case "Do":
		return ordinal(t.Day(), lang)
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "dddd":
		return monday.Format(t, "Monday", locale)
	case "ddd":
		return monday.Format(t, "Mon", locale)
	case "d":
		return strconv.Itoa(int(t.Weekday()))
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "H":
		return strconv.Itoa(t.Hour())
	case "hh":
		return fmt.Sprintf("%02d", hour12(t))
	case "h":
		return strconv.Itoa(hour12(t))
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "m":
		return strconv.Itoa(t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	case "s":
		return strconv.Itoa(t.Second())
	case "A":
		return t.Format("PM")
	case "a":
		return t.Format("pm")
	case "Z":
		return t.Format("-07:00")
	case "X":
		return strconv.FormatInt(t.Unix(), 10)
	}
	return token
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		return 12
	}
	return h
}

func ordinal(n int, lang string) string {
	switch lang {
	case "fr":
		if n == 1 {
			return "1er"
		}
		return strconv.Itoa(n)
	case "de", "da", "nb", "fi", "pl":
		return strconv.Itoa(n) + "."
	case "es", "it", "pt":
		return strconv.Itoa(n) + "º"
	case "en":
		return strconv.Itoa(n) + englishSuffix(n)
	}
	return strconv.Itoa(n)
}

func englishSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
