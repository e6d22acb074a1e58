package display

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable([]string{"Name", "Value"})
	if tbl == nil {
		t.Fatal("NewTable returned nil")
	}
	if tbl.highlightRow != -1 {
		t.Errorf("highlightRow = %d, want -1", tbl.highlightRow)
	}
}

func TestTable_EmptyHeaders(t *testing.T) {
	tbl := NewTable([]string{})
	if got := tbl.Render(); got != "" {
		t.Errorf("Render() with empty headers = %q, want empty", got)
	}
}

func TestTable_BasicRender(t *testing.T) {
	SetEnabled(false) // disable colors for predictable output

	tbl := NewTable([]string{"Tarih", "İmsak", "Akşam"})
	tbl.AddRow([]string{"19-02-2026", "05:12", "18:47"})
	tbl.AddRow([]string{"20-02-2026", "05:11", "18:48"})

	got := tbl.Render()

	for _, want := range []string{"Tarih", "İmsak", "Akşam", "─", "19-02-2026", "20-02-2026", "18:48"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q in:\n%s", want, got)
		}
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestTable_AlignsMultibyteCells(t *testing.T) {
	SetEnabled(false)

	tbl := NewTable([]string{"Gün", "Vakit"})
	tbl.AddRow([]string{"Ramazan 1. Gün", "05:12"})
	tbl.AddRow([]string{"Şaban", "05:13"})

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	// The second column starts at the same rune offset on every data row.
	off2 := strings.Index(lines[2], "05:12")
	off3 := strings.Index(lines[3], "05:13")
	if utf8.RuneCountInString(lines[2][:off2]) != utf8.RuneCountInString(lines[3][:off3]) {
		t.Errorf("misaligned rows:\n%s\n%s", lines[2], lines[3])
	}
}

func TestTable_HighlightRow(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tbl := NewTable([]string{"Date", "Time"})
	tbl.AddRow([]string{"Mon", "05:00"})
	tbl.AddRow([]string{"Tue", "05:01"})
	tbl.SetHighlightRow(0)

	lines := strings.Split(tbl.Render(), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected at least 4 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[2], "  "+bold+cyan) {
		t.Errorf("highlighted row should start with accent codes: %q", lines[2])
	}
	if strings.Contains(lines[3], cyan) {
		t.Error("other rows should not be accented")
	}
}

func TestTable_StyleColumn(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tbl := NewTable([]string{"Gün", "Akşam"})
	tbl.AddRow([]string{"1", "18:47"})
	tbl.StyleColumn(1, Iftar)

	if !strings.Contains(tbl.Render(), bold+magenta+"18:47"+reset) {
		t.Error("styled column should be wrapped in the iftar style")
	}
}

func TestFormatRow(t *testing.T) {
	got := formatRow([]string{"abc", "de"}, []int{5, 4}, nil)
	want := "abc    de"
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}

func TestFormatRow_MissingCells(t *testing.T) {
	got := formatRow([]string{"a"}, []int{3, 5, 2}, nil)
	// "a  " + sep + "     " + sep + "" (last column unpadded)
	want := "a" + strings.Repeat(" ", 11)
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}
