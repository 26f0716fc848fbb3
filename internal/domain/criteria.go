package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// TextSearchLimit caps the result set of every free-text search.
const TextSearchLimit = 50

// CategoryAll is the sentinel "show everything" value of the category picker.
const CategoryAll = "All"

// SearchCriteria is the request-scoped set of optional listing filters.
// Absent fields contribute no constraint.
type SearchCriteria struct {
	Query     string
	Category  Category
	MinPrice  *float64
	MaxPrice  *float64
	MinRooms  *int
	Amenities []string
	// Limit applies only to non-text browses; text searches are always
	// capped at TextSearchLimit.
	Limit int64
}

// HasTextSearch reports whether a free-text clause is present.
func (c SearchCriteria) HasTextSearch() bool {
	return c.Query != ""
}

// Empty reports whether the criteria constrain nothing (match all).
func (c SearchCriteria) Empty() bool {
	return c.Query == "" && c.Category == "" && c.MinPrice == nil &&
		c.MaxPrice == nil && c.MinRooms == nil && len(c.Amenities) == 0
}

// CriteriaFromValues translates raw, untrusted query parameters into search
// criteria. Parsing is deliberately permissive: blank text queries and
// unparseable or unknown values are dropped rather than rejected, so a
// malformed parameter degrades to "no constraint" instead of an error.
func CriteriaFromValues(values url.Values) SearchCriteria {
	var c SearchCriteria

	if q := strings.TrimSpace(values.Get("q")); q != "" {
		c.Query = q
	}
	if raw := values.Get("category"); raw != "" && raw != CategoryAll {
		if cat := Category(raw); cat.IsValid() {
			c.Category = cat
		}
	}
	if v, err := strconv.ParseFloat(values.Get("minPrice"), 64); err == nil {
		c.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(values.Get("maxPrice"), 64); err == nil {
		c.MaxPrice = &v
	}
	if v, err := strconv.Atoi(values.Get("rooms")); err == nil && v > 0 {
		c.MinRooms = &v
	}
	c.Amenities = SplitAmenities(values["amenities"])
	if v, err := strconv.ParseInt(values.Get("limit"), 10, 64); err == nil && v > 0 {
		c.Limit = v
	}
	return c
}

// SplitAmenities normalizes amenity input into a deduplicated set. The form
// may submit a single value, repeated parameters, or one comma-separated
// string; all three collapse to the same set.
func SplitAmenities(raw []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
