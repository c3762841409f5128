package dataprocessing

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

const utf8BOM = "\uFEFF"

// LoadOptions tunes how a tabular file is read.
type LoadOptions struct {
	// Sheet selects the worksheet of a workbook; empty means the first sheet.
	Sheet string
	// Delimiter overrides CSV delimiter detection.
	Delimiter rune
}

// Loader reads CSV, TSV and XLSX files into row tables.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads path into a Table named after the file. The format follows the
// extension: .xlsx/.xlsm are read as workbooks, anything else as delimited
// text. The first non-blank row is the header.
func (l *Loader) Load(ctx context.Context, path string, opts LoadOptions) (*domain.Table, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(path, opts.Sheet)
	default:
		records, err = readDelimited(path, opts.Delimiter)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := buildTable(records)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read table", err).WithContext("path", path)
	}
	table.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	table.Source = path

	l.logger.InfoContext(ctx, "table loaded",
		slog.String("path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.Len()))

	return table, nil
}

func openError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.NewAppError(apperrors.ErrTypeNotFound, fmt.Sprintf("input file %s not found", path), err)
	}
	return apperrors.NewStorageError("failed to open input file", err).WithContext("path", path)
}

func readWorkbook(path, sheet string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, openError(path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("path", path)
	}
	return rows, nil
}

func readDelimited(path string, delimiter rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if delimiter == 0 {
		delimiter = sniffDelimiter(path, br)
	}

	r := csv.NewReader(br)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to parse delimited file", err).WithContext("path", path)
		}
		records = append(records, rec)
	}
	return records, nil
}

// sniffDelimiter picks tab for .tsv files, otherwise the most frequent of
// comma, semicolon and tab on the first line. Comma wins ties.
func sniffDelimiter(path string, br *bufio.Reader) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}

	line, _ := br.Peek(4096)
	if i := strings.IndexByte(string(line), '\n'); i >= 0 {
		line = line[:i]
	}

	best, bestCount := ',', strings.Count(string(line), ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(string(line), string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// buildTable turns raw records into a Table. Header cells are trimmed, a
// leading BOM is dropped and repeated names get ".1", ".2" suffixes. Short
// rows are padded, cells beyond the header are ignored and blank rows are
// skipped.
func buildTable(records [][]string) (*domain.Table, error) {
	start := -1
	for i, rec := range records {
		if !blank(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, errors.New("no header row")
	}

	header := records[start]
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		columns[i] = h
	}

	table := &domain.Table{Columns: columns, Rows: make([]domain.Row, 0, len(records)-start-1)}
	for _, rec := range records[start+1:] {
		if blank(rec) {
			continue
		}
		row := make(domain.Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
