package handlers

import "strings"

// extractCookieToken pulls a named cookie's value out of a raw Cookie
// header, or returns empty when the cookie is absent.
func extractCookieToken(cookieHeader, cookieName string) string {
	_, after, found := strings.Cut(cookieHeader, cookieName+"=")
	if !found {
		return ""
	}
	token, _, _ := strings.Cut(after, ";")
	return token
}
