package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPaginate_SpecExample(t *testing.T) {
	ids := []int{1, 2, 3, 4}

	first := Paginate(ids, 1, 3)
	second := Paginate(ids, 2, 3)

	assert.Equal(t, []int{1, 2, 3}, first.Items)
	assert.Equal(t, []int{4}, second.Items)
	assert.Equal(t, 2, first.TotalPages)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)
	assert.True(t, second.HasPrev)
	assert.False(t, second.HasNext)
}

func TestPaginate_ConcatenationReconstructs(t *testing.T) {
	for n := 0; n <= 12; n++ {
		for size := 1; size <= 5; size++ {
			items := make([]int, n)
			for i := range items {
				items[i] = i * 10
			}

			var joined []int
			pages := All(items, size)
			for _, p := range pages {
				joined = append(joined, p.Items...)
			}
			if joined == nil {
				joined = []int{}
			}

			wantPages := (n + size - 1) / size
			if wantPages == 0 {
				wantPages = 1
			}
			assert.Len(t, pages, wantPages, "n=%d size=%d", n, size)
			if diff := cmp.Diff(items, joined); diff != "" {
				t.Errorf("n=%d size=%d mismatch (-want +got):\n%s", n, size, diff)
			}
		}
	}
}

func TestPaginate_Clamping(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name     string
		page     int
		wantPage int
		want     []string
	}{
		{"zero clamps to first", 0, 1, []string{"a", "b", "c"}},
		{"negative clamps to first", -3, 1, []string{"a", "b", "c"}},
		{"past the end clamps to last", 9, 2, []string{"d", "e"}},
		{"exact last", 2, 2, []string{"d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, 3)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.want, p.Items)
		})
	}
}

func TestPaginate_EmptySequence(t *testing.T) {
	p := Paginate([]int{}, 4, 3)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.Total)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}

func TestPaginate_InvalidPageSizeUsesDefault(t *testing.T) {
	p := Paginate([]int{1, 2, 3, 4}, 1, 0)

	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, []int{1, 2, 3}, p.Items)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 3))
	assert.Equal(t, 1, TotalPages(3, 3))
	assert.Equal(t, 2, TotalPages(4, 3))
	assert.Equal(t, 4, TotalPages(10, 3))
}
