package shodan

// SearchResult is the decoded body of /shodan/host/search.
type SearchResult struct {
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
}

// Match is one banner returned for a query. Optional attributes are pointers
// so that a missing key and a JSON null can be told apart from a zero value.
type Match struct {
	IPStr    string    `json:"ip_str"`
	Port     int       `json:"port"`
	Org      *string   `json:"org"`
	Product  *string   `json:"product"`
	Location *Location `json:"location"`
}

// Location is the geolocation block attached to a match.
type Location struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	CountryName *string  `json:"country_name"`
	City        *string  `json:"city"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (m Match) HasCoordinates() bool {
	return m.Location != nil && m.Location.Latitude != nil && m.Location.Longitude != nil
}

// APIError is the error envelope the API returns with non-2xx responses.
type APIError struct {
	Message string `json:"error"`
}
