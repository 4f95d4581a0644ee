package services

import "strings"

// CountryDetector maps free-form location strings to Adzuna country codes
// via static lookup tables.
type CountryDetector struct{}

func NewCountryDetector() *CountryDetector {
	return &CountryDetector{}
}

// supportedCountries are the Adzuna market codes.
var supportedCountries = map[string]string{
	"au": "Australia",
	"at": "Austria",
	"be": "Belgium",
	"br": "Brazil",
	"ca": "Canada",
	"ch": "Switzerland",
	"de": "Germany",
	"es": "Spain",
	"fr": "France",
	"gb": "United Kingdom",
	"in": "India",
	"it": "Italy",
	"mx": "Mexico",
	"nl": "Netherlands",
	"nz": "New Zealand",
	"pl": "Poland",
	"sg": "Singapore",
	"us": "United States",
	"za": "South Africa",
}

// cityMapping covers major cities per market.
var cityMapping = map[string]string{
	"sydney": "au", "melbourne": "au", "brisbane": "au", "perth": "au",
	"vienna": "at", "salzburg": "at", "graz": "at",
	"brussels": "be", "antwerp": "be", "ghent": "be", "leuven": "be",
	"sao paulo": "br", "rio de janeiro": "br", "brasilia": "br",
	"toronto": "ca", "vancouver": "ca", "montreal": "ca", "ottawa": "ca",
	"zurich": "ch", "geneva": "ch", "basel": "ch", "bern": "ch",
	"berlin": "de", "munich": "de", "hamburg": "de", "frankfurt": "de", "cologne": "de",
	"madrid": "es", "barcelona": "es", "valencia": "es", "seville": "es",
	"paris": "fr", "marseille": "fr", "lyon": "fr", "toulouse": "fr",
	"london": "gb", "manchester": "gb", "birmingham": "gb", "glasgow": "gb", "edinburgh": "gb",
	"mumbai": "in", "delhi": "in", "bangalore": "in", "hyderabad": "in", "pune": "in",
	"rome": "it", "milan": "it", "naples": "it", "turin": "it",
	"mexico city": "mx", "guadalajara": "mx", "monterrey": "mx",
	"amsterdam": "nl", "rotterdam": "nl", "the hague": "nl", "utrecht": "nl",
	"auckland": "nz", "wellington": "nz", "christchurch": "nz",
	"warsaw": "pl", "krakow": "pl", "wroclaw": "pl", "gdansk": "pl",
	"singapore": "sg",
	"new york": "us", "los angeles": "us", "chicago": "us", "houston": "us",
	"san francisco": "us", "seattle": "us", "boston": "us", "austin": "us",
	"denver": "us", "atlanta": "us", "miami": "us", "washington": "us",
	"johannesburg": "za", "cape town": "za", "durban": "za", "pretoria": "za",
}

// countryKeywords match country names and common abbreviations inside a
// location string. Longer names are checked before shorter ones.
var countryKeywords = []struct {
	keyword string
	code    string
}{
	{"united kingdom", "gb"},
	{"united states", "us"},
	{"new zealand", "nz"},
	{"south africa", "za"},
	{"netherlands", "nl"},
	{"switzerland", "ch"},
	{"australia", "au"},
	{"singapore", "sg"},
	{"austria", "at"},
	{"belgium", "be"},
	{"germany", "de"},
	{"brazil", "br"},
	{"canada", "ca"},
	{"france", "fr"},
	{"mexico", "mx"},
	{"poland", "pl"},
	{"india", "in"},
	{"italy", "it"},
	{"spain", "es"},
	{"uk", "gb"},
	{"usa", "us"},
}

// Detect returns the country code for the location, or empty when unknown.
// Cities are checked before country keywords so "Paris, Texas" style
// ambiguity resolves to the more specific city table.
func (c *CountryDetector) Detect(location string) string {
	location = strings.ToLower(strings.TrimSpace(location))
	if location == "" {
		return ""
	}

	for city, code := range cityMapping {
		if strings.Contains(location, city) {
			return code
		}
	}

	for _, entry := range countryKeywords {
		if containsWord(location, entry.keyword) {
			return entry.code
		}
	}

	return ""
}

// IsSupported reports whether the code is an Adzuna market.
func (c *CountryDetector) IsSupported(code string) bool {
	_, ok := supportedCountries[strings.ToLower(code)]
	return ok
}

// CountryName returns the display name for a country code.
func (c *CountryDetector) CountryName(code string) string {
	return supportedCountries[strings.ToLower(code)]
}

// containsWord matches the keyword on word boundaries so that "uk" does
// not match inside "ukulele".
func containsWord(text, keyword string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], keyword)
		if pos == -1 {
			return false
		}
		start := idx + pos
		end := start + len(keyword)

		beforeOK := start == 0 || !isAlpha(text[start-1])
		afterOK := end == len(text) || !isAlpha(text[end])
		if beforeOK && afterOK {
			return true
		}

		idx = start + 1
		if idx >= len(text) {
			return false
		}
	}
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
