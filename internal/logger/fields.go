package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldStrategy is the structured log field key for the extraction strategy name.
	FieldStrategy = "extract_strategy"
	// FieldDocument is the structured log field key for the analysed document name.
	FieldDocument = "document"
	// FieldRole is the structured log field key for the target job role.
	FieldRole = "target_role"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced by a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// DocumentFields returns the fields describing which document is processed and for which role.
// Empty values are ignored to keep log entries compact.
func DocumentFields(document, role string) []zap.Field {
	return StringFields(
		StringField{Key: FieldDocument, Value: document},
		StringField{Key: FieldRole, Value: role},
	)
}

// WithDocument attaches the document fields to the provided logger.
func WithDocument(logger *zap.Logger, document, role string) *zap.Logger {
	return WithFields(logger, DocumentFields(document, role)...)
}

// WithStrategy attaches the extraction strategy name to the provided logger.
func WithStrategy(logger *zap.Logger, strategy string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldStrategy, Value: strategy})...)
}
