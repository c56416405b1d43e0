package spreadsheet

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sngm3741/interview-assist/api/internal/admin/application"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func readAll(t *testing.T, src *XLSXSource) []application.ImportRow {
	t.Helper()
	var out []application.ImportRow
	for {
		row, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, row)
	}
}

func TestXLSXSourceReadsRowsWithAliases(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Note", " Job ", "CATEGORY", "Question", "active(1|0)"},
		{"ignored", "Backend Developer", "a", "What is REST?", 1},
		{"", "", "", "", ""},
		{"", "SRE", "b", "Tell me about an outage", 0},
	})
	src, err := OpenXLSX(buf)
	if err != nil {
		t.Fatalf("OpenXLSX: %v", err)
	}
	defer src.Close()

	rows := readAll(t, src)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2: %+v", len(rows), rows)
	}
	want := application.ImportRow{Job: "Backend Developer", Category: "a", Question: "What is REST?", Active: "1"}
	if rows[0] != want {
		t.Fatalf("row[0] = %+v, want %+v", rows[0], want)
	}
	if rows[1].Active != "0" || rows[1].Job != "SRE" {
		t.Fatalf("row[1] = %+v", rows[1])
	}
}

func TestXLSXSourceKoreanHeadersWithoutActive(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"직무", "카테고리", "질문"},
		{"Backend Developer", "c", "How would you design a rate limiter?"},
	})
	src, err := OpenXLSX(buf)
	if err != nil {
		t.Fatalf("OpenXLSX: %v", err)
	}
	defer src.Close()

	rows := readAll(t, src)
	if len(rows) != 1 || rows[0].Category != "c" || rows[0].Active != "" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestOpenXLSXRequiresColumns(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"job", "question"},
		{"SRE", "x"},
	})
	if _, err := OpenXLSX(buf); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

func TestOpenXLSXRejectsGarbage(t *testing.T) {
	if _, err := OpenXLSX(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatalf("expected error for non-xlsx input")
	}
}

func TestXLSXSourceFeedsImporter(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"job", "category", "question", "active"},
		{"Backend Developer", "A", "What is REST?", ""},
		{"Backend Developer", "x", "skipped", ""},
	})
	src, err := OpenXLSX(buf)
	if err != nil {
		t.Fatalf("OpenXLSX: %v", err)
	}
	defer src.Close()

	var _ application.RowSource = src
	rows := readAll(t, src)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}
