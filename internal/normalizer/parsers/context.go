// filename: internal/normalizer/parsers/context.go
package parsers

import (
	"time"

	"github.com/novasec/honeydash/internal/geo"
	"github.com/novasec/honeydash/internal/models"
)

// Context состояние одного цикла загрузки: момент загрузки, справочник стран
// и таблица попыток. Не разделяется между загрузками.
type Context struct {
	Now       time.Time
	Geo       *geo.Table
	Attempts  models.AttemptTable
	Estimated int
}

// NewContext создает контекст загрузки // v1.0
func NewContext(now time.Time) *Context {
	return &Context{
		Now:      now.UTC(),
		Geo:      geo.Default(),
		Attempts: models.AttemptTable{},
	}
}

// Timestamp нормализует первый непустой кандидат. Возвращает метку и признак
// того, что она заменена на момент загрузки. // v1.0
func (c *Context) Timestamp(candidates ...string) (time.Time, bool) {
	ts, ok := NormalizeTimestamp(firstNonEmpty(candidates...), c.Now)
	if !ok {
		c.Estimated++
	}
	return ts, !ok
}
