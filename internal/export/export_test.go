package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/avolkov/tgexport/internal/extract"
)

func folderFixtures() []extract.FolderRecord {
	return []extract.FolderRecord{
		{
			Name:                "Work",
			Id:                  7,
			Emoticon:            "💼",
			PinnedChats:         []string{"DevTeam"},
			IncludedChats:       []string{"DevTeam", "Alice"},
			ExcludedChats:       []string{},
			RuleGroups:          true,
			RuleExcludeArchived: true,
		},
		{
			Name:          "News",
			Id:            8,
			Emoticon:      "None",
			PinnedChats:   []string{},
			IncludedChats: []string{"NewsCh", "Weather, Daily"},
			ExcludedChats: []string{"Spam"},
			RuleChannels:  true,
		},
	}
}

func asRecords(folders []extract.FolderRecord) []Record {
	records := make([]Record, 0, len(folders))
	for _, f := range folders {
		records = append(records, f)
	}
	return records
}

func TestWriteCSVShape(t *testing.T) {
	chats := []Record{
		extract.ChatRecord{Name: "Alice", Type: extract.ChatTypePersonal, Id: 111},
		extract.ChatRecord{Name: "DevTeam", Type: extract.ChatTypeGroup, Id: -222},
		extract.ChatRecord{Name: "NewsCh", Type: extract.ChatTypeChannel, Id: -333, IsArchived: true},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, chats); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(rows) != len(chats)+1 {
		t.Fatalf("got %d rows, want %d (header + records)", len(rows), len(chats)+1)
	}
	header := rows[0]
	want := []string{"chat_name", "chat_type", "chat_id", "is_archived"}
	if diff := cmp.Diff(want, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			t.Errorf("row %d has %d columns, header has %d", i, len(row), len(header))
		}
	}
}

func TestWriteCSVFlattensLists(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, asRecords(folderFixtures())); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	// included_chats is the 5th column.
	if got, want := rows[1][4], "DevTeam, Alice"; got != want {
		t.Errorf("flattened list = %q, want %q", got, want)
	}
	// A name containing the delimiter still lands in a single cell.
	if got, want := rows[2][4], "NewsCh, Weather, Daily"; got != want {
		t.Errorf("flattened list = %q, want %q", got, want)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	folders := folderFixtures()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, asRecords(folders)); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got []extract.FolderRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("parsing exported json: %v", err)
	}
	if diff := cmp.Diff(folders, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, asRecords(folderFixtures()[:1])); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &objects); err != nil {
		t.Fatalf("parsing exported json: %v", err)
	}
	obj := objects[0]
	for _, key := range folderFixtures()[0].Fields() {
		if _, ok := obj[key]; !ok {
			t.Errorf("exported object is missing key %q", key)
		}
	}
	if got, ok := obj["rule_groups"].(bool); !ok || !got {
		t.Errorf("rule_groups = %v, want true", obj["rule_groups"])
	}
	if _, ok := obj["pinned_chats"].([]any); !ok {
		t.Errorf("pinned_chats should stay an array in json, got %T", obj["pinned_chats"])
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		base   string
		format Format
		want   string
	}{
		{"master_chat_list", FormatCSV, "master_chat_list_2026-08-26.csv"},
		{"folder_export", FormatJSON, "folder_export_2026-08-26.json"},
	}
	for _, tt := range tests {
		if got := FileName(tt.base, tt.format, now); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	records := asRecords(folderFixtures())

	first, err := WriteFile(dir, "folders", FormatJSON, records)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	second, err := WriteFile(dir, "folders", FormatJSON, records[:1])
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if first != second {
		t.Fatalf("same day export produced different names: %q vs %q", first, second)
	}

	data, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var got []extract.FolderRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected overwrite to leave 1 record, got %d", len(got))
	}
	if !strings.HasPrefix(filepath.Base(second), "folders_") {
		t.Errorf("unexpected file name %q", second)
	}
}

func TestWriteFileEmpty(t *testing.T) {
	if _, err := WriteFile(t.TempDir(), "folders", FormatCSV, nil); err == nil {
		t.Fatal("expected error for empty export, got nil")
	}
}
