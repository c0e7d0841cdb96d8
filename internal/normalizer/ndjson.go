// filename: internal/normalizer/ndjson.go
package normalizer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/models"
)

// maxLoggedLine ограничивает длину строки в предупреждении
const maxLoggedLine = 256

// errNotObject строка разобралась как JSON, но это не объект
var errNotObject = errors.New("line is not a JSON object")

// ParseNDJSON читает NDJSON выгрузку построчно. Пустые строки пропускаются,
// битые строки отбрасываются с предупреждением. Ошибка возвращается только при сбое чтения. // v1.0
func ParseNDJSON(r io.Reader, source string, logger *logging.Logger) ([]models.RawRecord, models.SourceReport, error) {
	report := models.SourceReport{Source: source}
	reader := bufio.NewReader(r)

	var records []models.RawRecord
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 || readErr == nil {
			report.Lines++

			trimmed := bytes.TrimSpace(line)
			if len(trimmed) == 0 {
				report.Empty++
			} else if rec, err := decodeRecord(trimmed); err != nil {
				report.Dropped++
				logger.WithSource(source).WithFields(map[string]interface{}{
					"line":  report.Lines,
					"error": err.Error(),
					"text":  truncate(trimmed, maxLoggedLine),
				}).Warn("Skipping invalid NDJSON line")
			} else {
				report.Parsed++
				records = append(records, rec)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return records, report, fmt.Errorf("failed to read %s: %w", source, readErr)
		}
	}

	return records, report, nil
}

// decodeRecord разбирает одну строку; строка должна быть JSON объектом // v1.0
func decodeRecord(line []byte) (models.RawRecord, error) {
	var rec models.RawRecord
	if line[0] != '{' {
		if !json.Valid(line) {
			return rec, fmt.Errorf("invalid JSON")
		}
		return rec, errNotObject
	}
	if err := json.Unmarshal(line, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
