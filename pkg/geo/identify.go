// Package geo holds small geographic helpers: country name normalisation,
// coordinate validation and centroids.
package geo

import "strings"

var countries = []string{
	"Afghanistan", "Albania", "Algeria", "Andorra", "Angola", "Antigua and Barbuda", "Argentina", "Armenia", "Australia", "Austria", "Azerbaijan",
	"Bahamas", "Bahrain", "Bangladesh", "Barbados", "Belarus", "Belgium", "Belize", "Benin", "Bhutan", "Bolivia", "Bosnia and Herzegovina", "Botswana", "Brazil", "Brunei", "Bulgaria", "Burkina Faso", "Burundi",
	"Cambodia", "Cameroon", "Canada", "Cape Verde", "Central African Republic", "Chad", "Chile", "China", "Colombia", "Comoros", "Costa Rica", "Croatia", "Cuba", "Cyprus", "Czechia",
	"Denmark", "Djibouti", "Dominica", "Dominican Republic",
	"East Timor", "Ecuador", "Egypt", "El Salvador", "Equatorial Guinea", "Eritrea", "Estonia", "Eswatini", "Ethiopia",
	"Fiji", "Finland", "France",
	"Gabon", "Gambia", "Georgia", "Germany", "Ghana", "Greece", "Grenada", "Guatemala", "Guinea", "Guinea-Bissau", "Guyana",
	"Haiti", "Honduras", "Hong Kong", "Hungary",
	"Iceland", "India", "Indonesia", "Iran", "Iraq", "Ireland", "Israel", "Italy",
	"Jamaica", "Japan", "Jordan",
	"Kazakhstan", "Kenya", "Kiribati", "North Korea", "South Korea", "Kuwait", "Kyrgyzstan",
	"Laos", "Latvia", "Lebanon", "Lesotho", "Liberia", "Libya", "Liechtenstein", "Lithuania", "Luxembourg",
	"Madagascar", "Malawi", "Malaysia", "Maldives", "Mali", "Malta", "Marshall Islands", "Mauritania", "Mauritius", "Mexico", "Micronesia", "Moldova", "Monaco", "Mongolia", "Montenegro", "Morocco", "Mozambique", "Myanmar",
	"Namibia", "Nauru", "Nepal", "Netherlands", "New Zealand", "Nicaragua", "Niger", "Nigeria", "North Macedonia", "Norway",
	"Oman",
	"Pakistan", "Palau", "Panama", "Papua New Guinea", "Paraguay", "Peru", "Philippines", "Poland", "Portugal", "Puerto Rico",
	"Qatar",
	"Romania", "Russia", "Rwanda",
	"Saint Kitts and Nevis", "Saint Lucia", "Saint Vincent and the Grenadines", "Samoa", "San Marino", "Sao Tome and Principe", "Saudi Arabia", "Senegal", "Serbia", "Seychelles", "Sierra Leone", "Singapore", "Slovakia", "Slovenia", "Solomon Islands", "Somalia", "South Africa", "South Sudan", "Spain", "Sri Lanka", "Sudan", "Suriname", "Sweden", "Switzerland", "Syria",
	"Taiwan", "Tajikistan", "Tanzania", "Thailand", "Togo", "Tonga", "Trinidad and Tobago", "Tunisia", "Turkey", "Turkmenistan", "Tuvalu",
	"Uganda", "Ukraine", "United Arab Emirates", "United Kingdom", "United States", "Uruguay", "Uzbekistan",
	"Vanuatu", "Vatican City", "Venezuela", "Vietnam",
	"Yemen",
	"Zambia", "Zimbabwe",
}

// aliases maps the long-form names some geo databases report onto the short
// names in countries. Keys are lower case.
var aliases = map[string]string{
	"russian federation":                     "Russia",
	"korea, republic of":                     "South Korea",
	"republic of korea":                      "South Korea",
	"korea, democratic people's republic of": "North Korea",
	"viet nam":                               "Vietnam",
	"czech republic":                         "Czechia",
	"iran, islamic republic of":              "Iran",
	"syrian arab republic":                   "Syria",
	"taiwan, province of china":              "Taiwan",
	"moldova, republic of":                   "Moldova",
	"tanzania, united republic of":           "Tanzania",
	"lao people's democratic republic":       "Laos",
	"united states of america":               "United States",
	"great britain":                          "United Kingdom",
	"turkiye":                                "Turkey",
	"türkiye":                                "Turkey",
	"the federated states of micronesia":     "Micronesia",
}

// IsCountry reports whether place names a known country, ignoring case.
func IsCountry(place string) bool {
	_, ok := lookup(place)
	return ok
}

// CanonicalCountry returns the canonical spelling of name when it is a known
// country or alias. Unrecognised names are returned trimmed but otherwise
// untouched.
func CanonicalCountry(name string) string {
	if c, ok := lookup(name); ok {
		return c
	}
	return strings.TrimSpace(name)
}

func lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, c := range countries {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	if c, ok := aliases[strings.ToLower(name)]; ok {
		return c, true
	}
	return "", false
}
