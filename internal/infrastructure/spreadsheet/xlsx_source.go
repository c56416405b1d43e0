// Package spreadsheet reads import rows from XLSX workbooks.
package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sngm3741/interview-assist/api/internal/admin/application"
	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn はヘッダーに必須列が見つからない場合に返す。
var ErrMissingColumn = errors.New("required column is missing")

// headerAliases はヘッダー名（トリム・小文字化後）から列の役割への対応。
var headerAliases = map[string]string{
	"job":         "job",
	"직무":          "job",
	"category":    "category",
	"카테고리":        "category",
	"question":    "question",
	"질문":          "question",
	"active":      "active",
	"active(1|0)": "active",
	"활성":          "active",
}

// XLSXSource は先頭シートを 1 行ずつ読み出す RowSource。1 行目はヘッダー。
type XLSXSource struct {
	file    *excelize.File
	rows    *excelize.Rows
	columns map[string]int
}

// OpenXLSX はワークブックを開き、ヘッダー行を解析する。
// job / category / question 列は必須。active 列がなければ全行を有効とみなす。
func OpenXLSX(r io.Reader) (*XLSXSource, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		file.Close()
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := file.Rows(sheets[0])
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	src := &XLSXSource{file: file, rows: rows}
	if !rows.Next() {
		err := rows.Error()
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMissingColumn, sheets[0])
	}
	header, err := rows.Columns()
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns, err := mapHeader(header)
	if err != nil {
		src.Close()
		return nil, err
	}
	src.columns = columns
	return src, nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, name := range header {
		role, ok := headerAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, dup := columns[role]; !dup {
			columns[role] = i
		}
	}
	for _, role := range []string{"job", "category", "question"} {
		if _, ok := columns[role]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, role)
		}
	}
	return columns, nil
}

// Next は次の非空行を返す。読み終えたら io.EOF。
func (s *XLSXSource) Next(ctx context.Context) (application.ImportRow, error) {
	for {
		if err := ctx.Err(); err != nil {
			return application.ImportRow{}, err
		}
		if !s.rows.Next() {
			if err := s.rows.Error(); err != nil {
				return application.ImportRow{}, err
			}
			return application.ImportRow{}, io.EOF
		}
		cells, err := s.rows.Columns()
		if err != nil {
			return application.ImportRow{}, err
		}
		if blank(cells) {
			continue
		}
		return application.ImportRow{
			Job:      s.cell(cells, "job"),
			Category: s.cell(cells, "category"),
			Question: s.cell(cells, "question"),
			Active:   s.cell(cells, "active"),
		}, nil
	}
}

func (s *XLSXSource) cell(cells []string, role string) string {
	i, ok := s.columns[role]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// Close releases the row iterator and the workbook.
func (s *XLSXSource) Close() error {
	var errs []error
	if s.rows != nil {
		errs = append(errs, s.rows.Close())
	}
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	return errors.Join(errs...)
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
