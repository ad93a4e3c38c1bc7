package entry

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/xamin-app/xamin/pkg/xamin/hint"
)

// DefaultDelimiters are the delimiter candidates tried when sniffing a
// delimited file's dialect.
var DefaultDelimiters = []rune{',', '\t'}

// errNoDialect is returned by sniffDelimiter when no candidate delimiter
// appears consistently across the sampled rows.
var errNoDialect = errors.New("no consistent delimiter")

// Csv is an entry whose payload is a grid of string cells. The column
// delimiter is sniffed from the file content and reused when writing, so
// a tab-separated file round-trips as tab-separated.
type Csv struct {
	file
	delims []rune
	comma  rune
	data   [][]string
}

// NewCsv returns a CSV entry for path using the default delimiter
// candidates.
func NewCsv(path string) *Csv {
	return NewCsvWithDelimiters(path, nil)
}

// NewCsvWithDelimiters returns a CSV entry for path sniffing among the
// given delimiter candidates. Nil means DefaultDelimiters.
func NewCsvWithDelimiters(path string, delims []rune) *Csv {
	c := &Csv{delims: delims}
	c.init(c, path)
	return c
}

// CsvType registers delimited text files. It matches when the hint
// decodes as UTF-8 and a consistent delimiter can be sniffed from it.
// Nil delims means DefaultDelimiters.
func CsvType(delims []rune) Type {
	return Type{
		Name:  KindCsv,
		Score: ScoreFormat,
		Match: func(_ string, h *hint.Hint) bool {
			text, ok := h.Text()
			if !ok {
				return false
			}
			_, err := sniffDelimiter(text, delims)
			return err == nil
		},
		New: func(path string) Entry { return NewCsvWithDelimiters(path, delims) },
	}
}

// Kind returns the CSV tag name.
func (c *Csv) Kind() string { return KindCsv }

// Rows returns the payload grid, loading the file first if stale.
func (c *Csv) Rows() ([][]string, error) {
	if err := c.EnsureLoaded(); err != nil {
		return nil, err
	}
	return c.data, nil
}

// SetRows replaces the payload grid.
func (c *Csv) SetRows(rows [][]string) {
	c.data = rows
	c.markLoaded()
}

// Dialect returns the delimiter used when serializing: the one sniffed
// at load time, or a comma for entries that never loaded a file.
func (c *Csv) Dialect() rune {
	if c.comma == 0 {
		return ','
	}
	return c.comma
}

// Shape returns (rows, columns) for non-empty data and nil otherwise.
// The column count is taken from the first row.
func (c *Csv) Shape() []int {
	if err := c.EnsureLoaded(); err != nil {
		return nil
	}
	if len(c.data) == 0 {
		return nil
	}
	return []int{len(c.data), len(c.data[0])}
}

func (c *Csv) setDefault() { c.data = [][]string{} }

func (c *Csv) marshal() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = c.Dialect()
	if err := w.WriteAll(c.data); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Csv) unmarshal(raw []byte) error {
	text := string(raw)

	// Re-sniff on every load so the dialect follows the file. A file the
	// sniffer cannot classify (e.g. empty) falls back to commas.
	if comma, err := sniffDelimiter(text, c.delims); err == nil {
		c.comma = comma
	} else {
		c.comma = ','
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = c.comma
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("reading csv: %w", err)
	}
	c.data = rows
	return nil
}

// sniffDelimiter picks the first candidate delimiter that appears the
// same number of times (at least once) on every sampled row. The final
// line of the sample is dropped when more lines exist, since a hint may
// cut it mid-row. Nil candidates means DefaultDelimiters.
func sniffDelimiter(text string, candidates []rune) (rune, error) {
	if len(candidates) == 0 {
		candidates = DefaultDelimiters
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}
	rows := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			rows = append(rows, l)
		}
	}
	if len(rows) == 0 {
		return 0, errNoDialect
	}

	for _, cand := range candidates {
		want := strings.Count(rows[0], string(cand))
		if want == 0 {
			continue
		}
		consistent := true
		for _, row := range rows[1:] {
			if strings.Count(row, string(cand)) != want {
				consistent = false
				break
			}
		}
		if consistent {
			return cand, nil
		}
	}
	return 0, errNoDialect
}
