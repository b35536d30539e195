package client

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/Belphemur/TVApi/internal/models"
)

const (
	defaultSort  = "seeds"
	defaultLimit = 50
	// popularitySorter is the host's default sorter; the catalog has no such sort key.
	popularitySorter = "popularity"
)

// queryParam is a single key/value pair of an ordered query string.
type queryParam struct {
	key   string
	value string
}

// showsQuery builds the ordered query parameters of a shows listing.
// Unset filters are omitted.
func showsQuery(filters models.Filters) []queryParam {
	sort := defaultSort
	if filters.Sorter != "" && filters.Sorter != popularitySorter {
		sort = filters.Sorter
	}

	params := make([]queryParam, 0, 5)
	if filters.Keywords != "" {
		params = append(params, queryParam{"keywords", filters.Keywords})
	}
	if filters.Order != "" {
		params = append(params, queryParam{"order", filters.Order})
	}
	if filters.Genre != "" {
		params = append(params, queryParam{"genre", filters.Genre})
	}
	params = append(params,
		queryParam{"sort", sort},
		queryParam{"limit", strconv.Itoa(defaultLimit)},
	)
	return params
}

// encodeQuery joins params in order. Every whitespace character is sent as %20.
func encodeQuery(params []queryParam) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(escapeValue(p.value))
	}
	return b.String()
}

func escapeValue(value string) string {
	spaced := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, value)
	// QueryEscape turns spaces into "+" and a literal "+" into "%2B".
	return strings.ReplaceAll(url.QueryEscape(spaced), "+", "%20")
}

// showsPath returns the catalog path of a shows listing, page defaulting to 1.
func showsPath(filters models.Filters) string {
	page := filters.Page
	if page < 1 {
		page = 1
	}
	return "shows/" + strconv.Itoa(page) + "?" + encodeQuery(showsQuery(filters))
}

func showPath(id string) string {
	return "show/" + url.PathEscape(id)
}

const randomShowPath = "random/show"
