// pkg/match/errors.go
package match

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
)

// ErrorCategory classifies failures observed during a matching run
type ErrorCategory int

const (
	// ErrorCategoryNone indicates no error
	ErrorCategoryNone ErrorCategory = iota
	// ErrorCategoryInput rejects the run before any matching happens
	ErrorCategoryInput
	// ErrorCategoryStore covers pattern-store read failures, degraded locally
	ErrorCategoryStore
	// ErrorCategoryFallback covers classifier timeouts and errors, degraded to unmapped
	ErrorCategoryFallback
	// ErrorCategoryAssignment covers reconciliation anomalies, resolved deterministically
	ErrorCategoryAssignment
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryInput:
		return "Input"
	case ErrorCategoryStore:
		return "Store"
	case ErrorCategoryFallback:
		return "Fallback"
	case ErrorCategoryAssignment:
		return "Assignment"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// InputError rejects a run atomically: nothing partial is ever returned
// alongside one
type InputError struct {
	Reason string
}

// Error implements the error interface
func (e *InputError) Error() string {
	return "invalid matching input: " + e.Reason
}

// NewInputError creates an InputError with the given reason
func NewInputError(reason string) *InputError {
	return &InputError{Reason: reason}
}

// IsInputError reports whether err is (or wraps) an InputError
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

// ErrorRecord represents a single recovered error during a run
type ErrorRecord struct {
	Category  ErrorCategory
	Header    string
	Position  int
	Target    string
	Error     error
	Message   string // Derived from Error but stored for serialization
	Timestamp time.Time
}

// NewErrorRecord creates a new error record with current timestamp
func NewErrorRecord(err error, category ErrorCategory) ErrorRecord {
	record := ErrorRecord{
		Category:  category,
		Error:     err,
		Timestamp: time.Now(),
		Position:  -1,
	}
	if err != nil {
		record.Message = err.Error()
	}
	return record
}

// WithHeader adds header information to the error record
func (r ErrorRecord) WithHeader(header model.Header) ErrorRecord {
	r.Header = header.Text
	r.Position = header.Position
	return r
}

// WithTarget adds target column information to the error record
func (r ErrorRecord) WithTarget(target string) ErrorRecord {
	r.Target = target
	return r
}

// String returns a formatted error message
func (r ErrorRecord) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", r.Category))

	if r.Header != "" {
		sb.WriteString(fmt.Sprintf("Header: %q ", r.Header))
	}
	if r.Position >= 0 {
		sb.WriteString(fmt.Sprintf("Position: %d ", r.Position))
	}
	if r.Target != "" {
		sb.WriteString(fmt.Sprintf("Target: %s ", r.Target))
	}
	if r.Message != "" {
		sb.WriteString("Error: " + r.Message)
	}

	return strings.TrimSpace(sb.String())
}

// ErrorHandler collects recovered errors during a run. Every category
// here is non-fatal: the handler exists for observability, not control
// flow
type ErrorHandler struct {
	logger     *zap.Logger
	mu         sync.Mutex
	counts     map[ErrorCategory]int
	samples    map[ErrorCategory][]ErrorRecord
	maxSamples int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger:     logger,
		counts:     make(map[ErrorCategory]int),
		samples:    make(map[ErrorCategory][]ErrorRecord),
		maxSamples: 5, // Store up to 5 sample errors per category
	}
}

// Record registers a recovered error
func (eh *ErrorHandler) Record(record ErrorRecord) {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	eh.counts[record.Category]++
	if len(eh.samples[record.Category]) < eh.maxSamples {
		eh.samples[record.Category] = append(eh.samples[record.Category], record)
	}

	if eh.logger != nil {
		eh.logger.Debug("Recovered matching error",
			zap.String("category", record.Category.String()),
			zap.String("detail", record.String()))
	}
}

// Count returns how many errors of a category were recorded
func (eh *ErrorHandler) Count(category ErrorCategory) int {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	return eh.counts[category]
}

// Total returns the total number of recorded errors
func (eh *ErrorHandler) Total() int {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	total := 0
	for _, count := range eh.counts {
		total += count
	}
	return total
}

// Samples returns stored sample errors for a category
func (eh *ErrorHandler) Samples(category ErrorCategory) []ErrorRecord {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	out := make([]ErrorRecord, len(eh.samples[category]))
	copy(out, eh.samples[category])
	return out
}
