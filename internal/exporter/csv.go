package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility
	BOMPrefix bool
}

// WriteCSV streams CSV data to w: header row first, then records, no
// index column.
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Exporter writes export files under a base directory
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// NewExporter creates an exporter rooted at dir
func NewExporter(dir string, logger *slog.Logger) *Exporter {
	return &Exporter{
		dir:    dir,
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// WriteCSVFile writes a CSV file under the export directory and returns
// its full path.
func (e *Exporter) WriteCSVFile(filename string, options WriteOptions) (string, error) {
	fullPath := filepath.Join(e.dir, filename)
	jobID := uuid.New().String()

	e.logger.Info("writing csv export",
		slog.String("job_id", jobID),
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, options); err != nil {
		return "", err
	}

	e.logger.Info("csv export complete",
		slog.String("job_id", jobID),
		slog.String("path", fullPath))
	return fullPath, nil
}

// FilterFilename builds an export filename from filter tokens, e.g.
// ("csv", "United Kingdom", "2000", "2020") -> "United-Kingdom_2000_2020.csv".
// Empty tokens are skipped; unsafe characters are replaced.
func FilterFilename(ext string, tokens ...string) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		parts = append(parts, sanitizeToken(tok))
	}
	if len(parts) == 0 {
		parts = append(parts, "export")
	}
	return strings.Join(parts, "_") + "." + ext
}

// sanitizeToken makes a filter value safe for use in a filename
func sanitizeToken(tok string) string {
	var b strings.Builder
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "all"
	}
	return b.String()
}
