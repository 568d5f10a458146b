package tableio

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "points.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, "name,lat,lon\nAlpha,-1.90,30.10\nBravo,-1.95,30.12\n")

	table, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	wantColumns := []string{"name", "lat", "lon"}
	if len(table.Columns) != len(wantColumns) {
		t.Fatalf("columns = %v, want %v", table.Columns, wantColumns)
	}
	for i, c := range wantColumns {
		if table.Columns[i] != c {
			t.Errorf("column %d = %q, want %q", i, table.Columns[i], c)
		}
	}

	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	if table.Rows[0][0] != "Alpha" || table.Rows[1][2] != "30.12" {
		t.Errorf("unexpected row contents: %v", table.Rows)
	}
}

func TestReadCSVToleratesShortRows(t *testing.T) {
	path := writeTempCSV(t, "name,lat,lon\nAlpha,-1.90\n")

	table, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(table.Rows) != 1 || len(table.Rows[0]) != 2 {
		t.Errorf("rows = %v, want one short row", table.Rows)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")

	if _, err := ReadCSV(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestReadFileRejectsUnknownExtension(t *testing.T) {
	if _, err := ReadFile("points.json"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
