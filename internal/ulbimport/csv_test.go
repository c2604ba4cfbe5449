package ulbimport

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/janmitra/locmaster/internal/masterdata"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCSVHeaderCaseInsensitive(t *testing.T) {
	path := writeFile(t, "ulb.csv", "GRADE,Name Of The ULB,TOTAL NO. OF WARDS\nMunicipality,Arakonam,30\n")

	rows, malformed, err := ParseCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if malformed != 0 {
		t.Errorf("malformed = %d", malformed)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := Row{Grade: "Municipality", Name: "Arakonam", Wards: 30}
	if rows[0] != want {
		t.Errorf("row = %+v, want %+v", rows[0], want)
	}
}

func TestParseCSVStripsByteOrderMark(t *testing.T) {
	path := writeFile(t, "ulb.csv", "\ufeffGrade,Name of the ULB,Total No. of Wards\nMunicipality,Arakonam,30\n")

	rows, _, err := ParseCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Grade != "Municipality" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestParseCSVMissingColumn(t *testing.T) {
	path := writeFile(t, "ulb.csv", "Grade,Name of the ULB\nMunicipality,Arakonam\n")

	_, _, err := ParseCSV(path)
	if !errors.Is(err, masterdata.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestParseCSVMalformedRows(t *testing.T) {
	content := "Grade,Name of the ULB,Total No. of Wards\n" +
		"Municipality,Arakonam,30\n" +
		"Municipality,,25\n" +
		"Municipality,Nowhere,not-a-number\n" +
		"Corporation,Vellore,\"60 wards\"\n"
	path := writeFile(t, "ulb.csv", content)

	rows, malformed, err := ParseCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if malformed != 2 {
		t.Errorf("malformed = %d, want 2", malformed)
	}
	if rows[1].Wards != 60 {
		t.Errorf("trailing text after the count should parse, got %d", rows[1].Wards)
	}
}

func TestParseCSVMissingFile(t *testing.T) {
	_, _, err := ParseCSV("/does/not/exist.csv")
	if !errors.Is(err, masterdata.ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
}

func TestParseWardJSON(t *testing.T) {
	content := `{
		"Vellore": {"Vellore Corporation": 60},
		"Ranipet": {"Arakonam Municipality": 30, "Walajapet Municipality": 0}
	}`
	path := writeFile(t, "wards.json", content)

	rows, err := ParseWardJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	// Zero-ward entries are dropped; order is deterministic.
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := Row{Grade: "Municipality", Name: "Arakonam Municipality", District: "Ranipet", Wards: 30}
	if rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
	}
	if rows[1].Grade != "Corporation" || rows[1].District != "Vellore" {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}
