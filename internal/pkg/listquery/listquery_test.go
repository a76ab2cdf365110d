package listquery

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Key  int
	Seq  int
	Name string
	At   time.Time
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{Key: i % 3, Seq: i + 1, Name: string(rune('a' + i%26))}
	}
	return out
}

func TestApply_SortIsStable(t *testing.T) {
	items := []row{{Key: 1, Seq: 1}, {Key: 1, Seq: 2}}

	got := Apply(items, Query[row]{Sort: By(func(r row) int { return r.Key }), PageSize: 10})
	require.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.Items[0].Seq)
	assert.Equal(t, 2, got.Items[1].Seq)

	desc := Apply(items, Query[row]{Sort: By(func(r row) int { return r.Key }), Direction: Desc, PageSize: 10})
	assert.Equal(t, 1, desc.Items[0].Seq, "descending order keeps ties in filtered order")
	assert.Equal(t, 2, desc.Items[1].Seq)
}

func TestApply_StableAcrossManyTies(t *testing.T) {
	items := rows(30)
	got := Apply(items, Query[row]{Sort: By(func(r row) int { return r.Key }), PageSize: 100})

	lastSeq := map[int]int{}
	for _, r := range got.Items {
		assert.Greater(t, r.Seq, lastSeq[r.Key])
		lastSeq[r.Key] = r.Seq
	}
}

func TestApply_FilterThenSortThenPage(t *testing.T) {
	items := rows(10)
	q := Query[row]{
		Filter:    func(r row) bool { return r.Seq%2 == 0 },
		Sort:      By(func(r row) int { return r.Seq }),
		Direction: Desc,
		Page:      2,
		PageSize:  2,
	}

	got := Apply(items, q)
	assert.Equal(t, 5, got.TotalItems)
	assert.Equal(t, 3, got.TotalPages)
	assert.Equal(t, 2, got.CurrentPage)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 6, got.Items[0].Seq)
	assert.Equal(t, 4, got.Items[1].Seq)
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply([]row{}, Query[row]{Page: 3, PageSize: 5})
	assert.Equal(t, 0, got.TotalItems)
	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, 1, got.CurrentPage)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
}

func TestApply_ClampsPage(t *testing.T) {
	items := rows(7)

	last := Apply(items, Query[row]{Page: 99, PageSize: 3})
	assert.Equal(t, 3, last.CurrentPage)
	assert.Equal(t, 3, last.TotalPages)
	require.Len(t, last.Items, 1)
	assert.Equal(t, 7, last.Items[0].Seq)

	first := Apply(items, Query[row]{Page: -4, PageSize: 3})
	assert.Equal(t, 1, first.CurrentPage)
	assert.Equal(t, 1, first.Items[0].Seq)
}

func TestApply_DefaultPageSize(t *testing.T) {
	got := Apply(rows(25), Query[row]{})
	assert.Len(t, got.Items, DefaultLimit)
	assert.Equal(t, 2, got.TotalPages)
}

func TestApply_Deterministic(t *testing.T) {
	items := rows(17)
	q := Query[row]{
		Filter:   func(r row) bool { return r.Key != 2 },
		Sort:     ByFold(func(r row) string { return r.Name }),
		Page:     2,
		PageSize: 4,
	}

	assert.Equal(t, Apply(items, q), Apply(items, q))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := []row{{Seq: 3}, {Seq: 1}, {Seq: 2}}
	original := append([]row(nil), items...)

	got := Apply(items, Query[row]{Sort: By(func(r row) int { return r.Seq }), PageSize: 10})
	assert.Equal(t, original, items)

	got.Items[0].Seq = 100
	assert.Equal(t, original, items)
}

func TestByOptionalTime(t *testing.T) {
	now := time.Now()
	items := []*time.Time{&now, nil}
	c := ByOptionalTime(func(t *time.Time) *time.Time { return t })
	assert.Equal(t, 1, c(items[0], items[1]))
	assert.Equal(t, -1, c(items[1], items[0]))
	assert.Equal(t, 0, c(items[1], items[1]))
}

func TestFields_Lookup(t *testing.T) {
	bySeq := By(func(r row) int { return r.Seq })
	byName := ByFold(func(r row) string { return r.Name })
	fields := Fields[row]{"seq": bySeq, "name": byName}

	assert.NotNil(t, fields.Lookup("NAME", "seq"))
	assert.Equal(t, 1, fields.Lookup("unknown", "seq")(row{Seq: 2}, row{Seq: 1}))
	assert.Nil(t, fields.Lookup("unknown", "missing"))
}

func TestParse(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?page=3&limit=500&sort_by=name&sort_order=DESC", nil)
	p := Parse(r, DefaultLimits)
	assert.Equal(t, Params{Page: 3, Limit: MaxLimit, SortBy: "name", SortOrder: Desc}, p)

	r = httptest.NewRequest("GET", "/x?page=abc&limit=0", nil)
	p = Parse(r, Limits{Default: 10, Max: 50})
	assert.Equal(t, Params{Page: 1, Limit: 10, SortOrder: Asc}, p)
}

func TestBuild(t *testing.T) {
	fields := Fields[row]{"seq": By(func(r row) int { return r.Seq })}
	q := Build(Params{Page: 1, Limit: 2, SortBy: "bogus", SortOrder: Desc}, fields, "seq", nil)

	got := Apply(rows(5), q)
	assert.Equal(t, []int{5, 4}, []int{got.Items[0].Seq, got.Items[1].Seq})
}
