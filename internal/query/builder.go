package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Meta is the pagination metadata computed alongside a translated query. It
// is derived from the same filter predicate as the data fetch, so total and
// the returned page never drift apart.
type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

// Builder translates a flat parameter mapping into a composed, unexecuted
// GORM query. It is a value type: every stage takes and returns a Builder,
// and the input Params are copied up front, so no stage mutates its caller.
//
// Stages are applied in a fixed order:
//
//	New(tx, params, opts).Search(fields...).Filter().Sort().Paginate().Fields()
//
// Filter must come before CountTotal so the count sees the full predicate;
// Sort, Paginate and Fields act after the count snapshot and cannot skew it.
type Builder struct {
	tx       *gorm.DB
	filtered *gorm.DB
	params   Params
	opts     Options
}

func New(tx *gorm.DB, params Params, opts Options) Builder {
	return Builder{tx: tx, filtered: tx, params: params.Clone(), opts: opts}
}

// Search ORs a case-insensitive substring match over the given API fields
// when a searchTerm (or search) parameter is present. Unknown fields are
// skipped; an empty or absent term is a no-op.
func (b Builder) Search(fields ...string) Builder {
	term := b.params["searchTerm"]
	if term == "" {
		term = b.params["search"]
	}
	if term == "" {
		return b
	}

	var clauses []string
	var args []interface{}
	for _, field := range fields {
		column, ok := b.opts.Columns[field]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", column))
		args = append(args, "%"+strings.ToLower(term)+"%")
	}
	if len(clauses) == 0 {
		return b
	}

	b.tx = b.tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	b.filtered = b.tx
	return b
}

// Filter builds the predicate from every non-control parameter.
// startDate/endDate become a single range on the configured date column and
// minPoints/maxPoints a range on the points column; either bound may appear
// alone, and a bound that fails to parse is omitted. Everything else is an
// equality constraint on a whitelisted column.
func (b Builder) Filter() Builder {
	if b.opts.DateColumn != "" {
		if from, ok := parseDate(b.params["startDate"]); ok {
			b.tx = b.tx.Where(b.opts.DateColumn+" >= ?", from)
		}
		if until, ok := parseDate(b.params["endDate"]); ok {
			b.tx = b.tx.Where(b.opts.DateColumn+" <= ?", until)
		}
	}

	if b.opts.PointsColumn != "" {
		if min, err := strconv.ParseFloat(b.params["minPoints"], 64); err == nil {
			b.tx = b.tx.Where(b.opts.PointsColumn+" >= ?", min)
		}
		if max, err := strconv.ParseFloat(b.params["maxPoints"], 64); err == nil {
			b.tx = b.tx.Where(b.opts.PointsColumn+" <= ?", max)
		}
	}

	for key, value := range b.params {
		if _, isControl := controlParams[key]; isControl {
			continue
		}
		switch key {
		case "startDate", "endDate", "minPoints", "maxPoints":
			continue
		}
		column, ok := b.opts.Columns[key]
		if !ok {
			continue
		}
		b.tx = b.tx.Where(column+" = ?", value)
	}

	// Snapshot the predicate for CountTotal before sort/paginate/projection
	// are layered on.
	b.filtered = b.tx.Session(&gorm.Session{})
	b.tx = b.tx.Session(&gorm.Session{})
	return b
}

// Sort translates a comma-separated field list, "-" prefix meaning
// descending, into a compound order clause. Unknown fields are skipped.
// Without a sort parameter the Options default applies.
func (b Builder) Sort() Builder {
	spec := b.params["sort"]
	if spec == "" {
		spec = b.opts.DefaultSort
	}

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		direction := "ASC"
		if strings.HasPrefix(token, "-") {
			direction = "DESC"
			token = token[1:]
		}
		column, ok := b.opts.Columns[token]
		if !ok {
			continue
		}
		b.tx = b.tx.Order(column + " " + direction)
	}
	return b
}

// Paginate applies the skip/take window: skip = (page-1)*limit. Values that
// fail to parse, or are not positive, fall back to the defaults. No upper
// bound on limit is enforced here.
func (b Builder) Paginate() Builder {
	page := b.page()
	limit := b.limit()
	b.tx = b.tx.Offset((page - 1) * limit).Limit(limit)
	return b
}

// Fields restricts the selected columns to the comma-separated field list.
// Without a fields parameter every column is selected.
func (b Builder) Fields() Builder {
	spec := b.params["fields"]
	if spec == "" {
		return b
	}

	var columns []string
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		column, ok := b.opts.Columns[token]
		if !ok {
			continue
		}
		columns = append(columns, column)
	}
	if len(columns) == 0 {
		return b
	}

	b.tx = b.tx.Select(columns)
	return b
}

// Find executes the composed data query into dest.
func (b Builder) Find(dest interface{}) error {
	return b.tx.Find(dest).Error
}

// CountTotal executes a count against the post-Filter predicate, ignoring
// sort, pagination and projection, and derives totalPage = ceil(total/limit).
func (b Builder) CountTotal() (Meta, error) {
	var total int64
	if err := b.filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Meta{}, err
	}

	limit := b.limit()
	return Meta{
		Page:      b.page(),
		Limit:     limit,
		Total:     total,
		TotalPage: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (b Builder) page() int {
	if n, err := strconv.Atoi(b.params["page"]); err == nil && n > 0 {
		return n
	}
	return DefaultPage
}

func (b Builder) limit() int {
	if n, err := strconv.Atoi(b.params["limit"]); err == nil && n > 0 {
		return n
	}
	return DefaultLimit
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
