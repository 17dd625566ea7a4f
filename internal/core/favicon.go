package core

import (
	"net/url"
	"strings"
)

const faviconService = "https://www.google.com/s2/favicons"

// FaviconURL returns an icon URL for the host of rawURL, or "" when rawURL is not
// an absolute http(s) URL with a host. It never fails.
func FaviconURL(rawURL string) string {
	host := Hostname(rawURL)
	if host == "" {
		return ""
	}
	q := url.Values{}
	q.Set("domain", host)
	q.Set("sz", "32")
	return faviconService + "?" + q.Encode()
}

// Hostname extracts the lowercase host of an http(s) URL without a leading "www.".
// It returns "" for anything that does not parse.
func Hostname(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
