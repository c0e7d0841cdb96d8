// filename: internal/common/logging/logger.go
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Logger представляет логгер приложения
type Logger struct {
	*logrus.Logger
}

// Config представляет конфигурацию логирования
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// NewLogger создает новый логгер // v1.0
func NewLogger(config Config) (*Logger, error) {
	logger := logrus.New()

	// Устанавливаем уровень логирования
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	// Устанавливаем формат
	switch config.Format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Устанавливаем вывод
	if err := setOutput(logger, config); err != nil {
		return nil, err
	}

	return &Logger{Logger: logger}, nil
}

// NewNop создает логгер, который ничего не пишет. Используется в тестах и CLI. // v1.0
func NewNop() *Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Logger{Logger: logger}
}

// setOutput устанавливает вывод для логгера // v1.0
func setOutput(logger *logrus.Logger, config Config) error {
	switch config.Output {
	case "", "stdout":
		logger.SetOutput(os.Stdout)
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		return setFileOutput(logger, config.Output)
	}
	return nil
}

// setFileOutput устанавливает файловый вывод // v1.0
func setFileOutput(logger *logrus.Logger, path string) error {
	// Создаем директорию если не существует
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return nil
}

// WithSource добавляет файл-источник выгрузки к логгеру // v1.0
func (l *Logger) WithSource(source string) *logrus.Entry {
	return l.Logger.WithField("source", source)
}

// WithRecord добавляет информацию о сырой записи сенсора // v1.0
func (l *Logger) WithRecord(kind, id string) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields{
		"record_kind": kind,
		"record_id":   id,
	})
}

// WithDataset добавляет сводку загруженного датасета // v1.0
func (l *Logger) WithDataset(events, records, dropped int) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields{
		"events":  events,
		"records": records,
		"dropped": dropped,
	})
}

// WithRequest добавляет информацию о запросе к логгеру // v1.0
func (l *Logger) WithRequest(method, path, remoteAddr string) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"remote_addr": remoteAddr,
	})
}

// WithDuration добавляет длительность к логгеру // v1.0
func (l *Logger) WithDuration(duration float64) *logrus.Entry {
	return l.Logger.WithField("duration_ms", duration)
}

// SetLevel устанавливает уровень логирования // v1.0
func (l *Logger) SetLevel(level string) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.Logger.SetLevel(logLevel)
	return nil
}
