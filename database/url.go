package database

import "net/url"

// defaultURLParams are added to a database URL when it does not set them
var defaultURLParams = map[string]string{
	"sslmode":          "disable",
	"application_name": "leetstreak",
}

// ConstructDatabaseURL points baseURL at databaseName and fills in missing defaultURLParams.
// An empty name or a URL without scheme and host is returned unchanged.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return baseURL
	}

	u.Path = "/" + databaseName
	u.RawPath = ""

	query := u.Query()
	for key, value := range defaultURLParams {
		if !query.Has(key) {
			query.Set(key, value)
		}
	}
	u.RawQuery = query.Encode()

	return u.String()
}
