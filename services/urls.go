package services

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildPublicPortfolioURL returns the address of username's rendered
// portfolio, or "" when either part is missing.
func BuildPublicPortfolioURL(baseURL, username string) string {
	if baseURL == "" || username == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s", strings.TrimSuffix(baseURL, "/"), url.PathEscape(username))
}

// BuildObjectURL joins a public bucket base URL with an object key.
func BuildObjectURL(baseURL, key string) string {
	if baseURL == "" || key == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}
