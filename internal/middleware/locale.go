package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type narrationLangKey struct{}

// NarrationLangKey carries the detected narration language in the
// request context.
var NarrationLangKey = narrationLangKey{}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// Languages the narration templates and voices are tuned for.
var supported = language.NewMatcher([]language.Tag{
	language.Korean, // first entry is the matcher default
	language.English,
	language.Japanese,
	language.Indonesian,
	language.Chinese,
})

// NarrationLocale detects the default narration language for a request:
// an explicit header wins, then Accept-Language, then the caller's
// GeoIP country, then the configured fallback. Handlers still let the
// registration payload override the detected value.
func NarrationLocale(fallback string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := detectLanguage(r, fallback, lookup)
			ctx := context.WithValue(r.Context(), NarrationLangKey, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LanguageFromContext returns the detected narration language, if any.
func LanguageFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(NarrationLangKey).(string); ok {
		return v
	}
	return ""
}

func detectLanguage(r *http.Request, fallback string, lookup CountryLookup) string {
	if v := r.Header.Get("X-Narration-Lang"); v != "" {
		if lang := matchLanguage(v); lang != "" {
			return lang
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			tag, _, conf := supported.Match(tags...)
			if conf > language.No {
				return baseLang(tag)
			}
		}
	}
	if lookup != nil {
		if country, err := lookup(clientIP(r)); err == nil {
			if lang := languageForCountry(country); lang != "" {
				return lang
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "ko"
}

func matchLanguage(raw string) string {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	matched, _, conf := supported.Match(tag)
	if conf == language.No {
		return ""
	}
	return baseLang(matched)
}

func baseLang(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

func languageForCountry(country string) string {
	switch strings.ToUpper(country) {
	case "KR":
		return "ko"
	case "JP":
		return "ja"
	case "ID":
		return "id"
	case "CN", "TW", "HK":
		return "zh"
	case "":
		return ""
	default:
		return "en"
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
