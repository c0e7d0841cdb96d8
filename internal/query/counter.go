// filename: internal/query/counter.go
package query

import (
	"sort"

	"github.com/novasec/honeydash/internal/models"
)

// counter считает метки, сохраняя порядок первого появления.
// При равных счетчиках рейтинг сохраняет этот порядок.
type counter struct {
	index map[string]int
	items []models.TopItem
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(label string) {
	pos, ok := c.index[label]
	if !ok {
		pos = len(c.items)
		c.index[label] = pos
		c.items = append(c.items, models.TopItem{Label: label})
	}
	c.items[pos].Count++
}

// top сортирует по убыванию и только затем усекает; limit <= 0 без усечения // v1.0
func (c *counter) top(limit int) []models.TopItem {
	out := make([]models.TopItem, len(c.items))
	copy(out, c.items)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
