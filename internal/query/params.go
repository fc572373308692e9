package query

// Params is the flat, string-keyed query description a builder consumes. It
// is produced by the boundary layer from the request's query string, then
// merged with service-derived constraints (e.g. forcing createdBy for "my
// events") before translation.
type Params map[string]string

// Clone returns an independent copy so that translation never mutates the
// caller's mapping.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// control parameters are consumed by dedicated builder stages and excluded
// from the filter stage.
var controlParams = map[string]struct{}{
	"searchTerm": {},
	"search":     {},
	"sort":       {},
	"limit":      {},
	"page":       {},
	"fields":     {},
	"filterBy":   {},
}

// Options configures how one collection's API fields translate to columns.
type Options struct {
	// Columns maps exposed API field names to database columns. It doubles
	// as the whitelist for filter keys, sort keys and projections: unmapped
	// names are dropped rather than interpolated into SQL.
	Columns map[string]string

	// DateColumn receives the startDate/endDate range constraint.
	DateColumn string

	// PointsColumn receives the minPoints/maxPoints range constraint.
	// Empty means the collection has no such numeric field and the
	// parameters are ignored.
	PointsColumn string

	// DefaultSort is applied when no sort parameter is given, in the same
	// "-field,field" notation the sort parameter uses.
	DefaultSort string
}
