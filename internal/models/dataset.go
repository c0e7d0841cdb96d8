// internal/models/dataset.go
package models

import "time"

// AttemptTable хранит объявленное число попыток на original_id.
// Заполняется только во время развертывания, далее только читается.
type AttemptTable map[string]int

// Record сохраняет число попыток для группы, пустой id и n <= 0 игнорируются // v1.0
func (t AttemptTable) Record(id string, n int) {
	if id == "" || n <= 0 {
		return
	}
	t[id] = n
}

// Get возвращает число попыток и признак наличия записи // v1.0
func (t AttemptTable) Get(id string) (int, bool) {
	n, ok := t[id]
	return n, ok
}

// SourceReport итог разбора одного NDJSON источника
type SourceReport struct {
	Source  string `json:"source"`
	Lines   int    `json:"lines"`
	Empty   int    `json:"empty"`
	Parsed  int    `json:"parsed"`
	Dropped int    `json:"dropped"`
}

// LoadReport итог одного цикла загрузки
type LoadReport struct {
	Sources             []SourceReport `json:"sources"`
	Records             int            `json:"records"`
	Dropped             int            `json:"dropped"`
	Events              int            `json:"events"`
	EstimatedTimestamps int            `json:"estimatedTimestamps"`
	Duration            time.Duration  `json:"duration"`
}

// Dataset развернутый набор событий одного цикла загрузки.
// События отсортированы по убыванию timestamp.
type Dataset struct {
	Events    []Event      `json:"-"`
	Attempts  AttemptTable `json:"-"`
	Report    LoadReport   `json:"report"`
	LoadedAt  time.Time    `json:"loadedAt"`
	Synthetic bool         `json:"synthetic"`
}

// Len возвращает число событий; nil набор считается пустым // v1.0
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Events)
}
