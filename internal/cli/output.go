// filename: internal/cli/output.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgWhite, color.Bold)
	titleColor  = color.New(color.FgCyan, color.Bold)
	warnColor   = color.New(color.FgYellow)
	alertColor  = color.New(color.FgRed, color.Bold)
)

// printer печатает результат таблицей или JSON
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format}
}

// isJSON проверяет, выбран ли JSON вывод
func (p *printer) isJSON() bool {
	return p.format == OutputJSON
}

// JSON печатает значение с отступами
func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Title печатает заголовок секции
func (p *printer) Title(format string, a ...any) {
	titleColor.Fprintf(p.w, format+"\n", a...)
}

// Warn печатает предупреждение
func (p *printer) Warn(format string, a ...any) {
	warnColor.Fprintf(p.w, "! "+format+"\n", a...)
}

// table выравнивает колонки по самой широкой ячейке
type table struct {
	headers []string
	rows    [][]string
	// highlight выделяет строку цветом
	highlight func(row []string) bool
}

func newTable(headers ...string) *table {
	return &table{headers: headers, rows: [][]string{}}
}

func (t *table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render печатает таблицу // v1.0
func (t *table) Render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range t.headers {
		headerColor.Fprintf(w, "%-*s  ", widths[i], h)
	}
	fmt.Fprintln(w)

	for i := range t.headers {
		fmt.Fprint(w, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(w)

	for _, row := range t.rows {
		line := &strings.Builder{}
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(line, "%-*s  ", widths[i], cell)
			}
		}
		if t.highlight != nil && t.highlight(row) {
			alertColor.Fprintln(w, line.String())
			continue
		}
		fmt.Fprintln(w, line.String())
	}

	if len(t.rows) == 0 {
		fmt.Fprintln(w, "(no data)")
	}
}
