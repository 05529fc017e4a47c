package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DefaultLimit is the page size used when a filter does not specify one.
const DefaultLimit = 12

// QueryKey is the full tuple of server-side filter parameters identifying
// one distinct paginated result set. Any change to the key invalidates all
// accumulated pages for the previous key.
type QueryKey struct {
	Query      string
	Event      string
	Pavilion   string
	Artist     string
	Techniques []string
	Limit      int
}

// Normalize trims fields, sorts and de-duplicates the technique set and
// applies the default page size, so that equivalent filters produce the same
// canonical key.
func (k QueryKey) Normalize() QueryKey {
	k.Query = strings.TrimSpace(k.Query)
	k.Pavilion = strings.TrimSpace(k.Pavilion)
	k.Artist = strings.TrimSpace(k.Artist)
	if k.Limit <= 0 {
		k.Limit = DefaultLimit
	}

	seen := make(map[string]struct{}, len(k.Techniques))
	techniques := make([]string, 0, len(k.Techniques))
	for _, t := range k.Techniques {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		techniques = append(techniques, t)
	}
	sort.Strings(techniques)
	k.Techniques = techniques
	return k
}

// Values renders the key as the query parameters of the catalog list
// endpoint. Empty parameters are omitted entirely.
func (k QueryKey) Values() url.Values {
	v := url.Values{}
	if k.Query != "" {
		v.Set("q", k.Query)
	}
	if k.Event != "" {
		v.Set("event", k.Event)
	}
	if k.Pavilion != "" {
		v.Set("pavilion", k.Pavilion)
	}
	if len(k.Techniques) > 0 {
		v.Set("technique", strings.Join(k.Techniques, ","))
	}
	if k.Artist != "" {
		v.Set("artist", k.Artist)
	}
	v.Set("limit", strconv.Itoa(k.Limit))
	return v
}

// String is the canonical identity of the key. Two keys with equal strings
// address the same result set.
func (k QueryKey) String() string {
	return k.Values().Encode()
}
