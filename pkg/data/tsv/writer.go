package tsv

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

type Writer struct {
	file io.WriteCloser

	*csv.Writer
}

// NewWriterFile creates filename, and its parent directory when missing
func NewWriterFile(filename string) (*Writer, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return NewWriter(f), nil
}

func NewWriter(file io.WriteCloser) *Writer {
	tsv := csv.NewWriter(file)
	tsv.Comma = '\t'
	return &Writer{
		Writer: tsv,
		file:   file,
	}
}

// WriteIndexed writes a row led by an integer index followed by the values in
// their shortest exact decimal form.
func (w *Writer) WriteIndexed(index int, values ...float64) error {
	row := make([]string, 0, len(values)+1)
	row = append(row, strconv.Itoa(index))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return w.Write(row)
}

func (w *Writer) Close() error {
	w.Writer.Flush()
	if err := w.Writer.Error(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
