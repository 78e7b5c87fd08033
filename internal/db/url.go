package db

import (
	"net/url"
	"strings"
)

// managedHostSuffixes lists hosted Postgres providers that only accept TLS connections.
var managedHostSuffixes = []string{
	"render.com",
	"onrender.com",
}

// NormalizeURL prepares a connection string for pgx.
// Hosted databases that require TLS get sslmode=require unless the URL already
// sets an sslmode. Key/value DSNs and unparsable strings are returned unchanged.
func NormalizeURL(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return databaseURL
	}

	if !requiresTLS(u.Hostname()) {
		return databaseURL
	}

	q := u.Query()
	if q.Get("sslmode") != "" {
		return databaseURL
	}
	q.Set("sslmode", "require")
	u.RawQuery = q.Encode()
	return u.String()
}

func requiresTLS(host string) bool {
	for _, suffix := range managedHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
