package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizePhotoURL lower-cases scheme and host, drops tracking parameters
// and defaults a bare host to https. Paths keep their case since object
// stores treat them as case-sensitive keys. Anything that is not an
// http(s) URL with a host comes back empty.
func NormalizePhotoURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	lowered := strings.ToLower(s)
	if !strings.HasPrefix(lowered, "http://") && !strings.HasPrefix(lowered, "https://") {
		if strings.Contains(lowered, "://") {
			return ""
		}
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if strings.HasPrefix(strings.ToLower(key), "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String()
}

func NormalizePhotoURLs(urls []string) []string {
	return SanitizeSlice(urls, NormalizePhotoURL)
}
