package knowledge

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"train_delay.json":   {Data: []byte(`{"scenario":"train_delay","do":["check running status"],"humor_allowed":true}`)},
		"office_stress.json": {Data: []byte(`[{"scenario":"office_stress","tone":"calm"},{"scenario":"ignored"}]`)},
		"breakup.yaml":       {Data: []byte("scenario: breakup\ndont:\n  - say plenty of fish\n")},
		"exam.yml":           {Data: []byte("- scenario: exam\n- scenario: second\n")},
		"broken.json":        {Data: []byte(`{"scenario": `)},
		"empty.json":         {Data: []byte(`[]`)},
		"notes.txt":          {Data: []byte("not a record")},
	}

	entries, err := LoadFS(fsys, discardLogger())
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{"breakup", "exam", "office_stress", "train_delay"}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	byID := map[string]Record{}
	for _, e := range entries {
		byID[e.ID] = e.Record
	}
	if byID["office_stress"].Scenario != "office_stress" || *byID["office_stress"].Tone != "calm" {
		t.Errorf("expected first element of list, got %+v", byID["office_stress"])
	}
	if byID["exam"].Scenario != "exam" {
		t.Errorf("expected first element of yaml list, got %+v", byID["exam"])
	}
	if got := byID["breakup"].Dont; len(got) != 1 || got[0] != "say plenty of fish" {
		t.Errorf("unexpected yaml record %+v", byID["breakup"])
	}
	if h := byID["train_delay"].HumorAllowed; h == nil || !*h {
		t.Errorf("expected humor_allowed true, got %v", h)
	}
	if byID["train_delay"].Tone != nil {
		t.Error("expected absent tone to stay nil")
	}
}

func TestLoad_Dir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "family_pressure.json"), []byte(`{"scenario":"family_pressure"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Load(dir, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "family_pressure" {
		t.Errorf("unexpected entries %+v", entries)
	}

	if _, err := Load(filepath.Join(dir, "missing"), discardLogger()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestDefault(t *testing.T) {
	lib, err := Default(discardLogger())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if lib.Len() < 5 {
		t.Fatalf("expected the embedded library to have several entries, got %d", lib.Len())
	}
	if !slices.Contains(lib.Scenarios(), "office stress") {
		t.Errorf("expected office stress scenario, got %v", lib.Scenarios())
	}
	for _, e := range lib.Entries() {
		if e.Record.Scenario == "" || len(e.Record.Do) == 0 {
			t.Errorf("embedded entry %s is incomplete", e.ID)
		}
	}
}

func TestDefault_FindRelevant(t *testing.T) {
	lib, err := Default(discardLogger())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	s := extractor.Signals{
		PrimaryEmotion: extractor.EmotionAnger,
		Relationship:   extractor.RelationshipAuthority,
		UserNeed:       extractor.NeedVent,
	}
	rec, ok := lib.FindRelevant("My boss just yelled at me in front of everyone", s)
	if !ok {
		t.Fatal("expected a match")
	}
	if rec.Scenario != "boss_yelling_at_work" {
		t.Errorf("expected the office record, got %q", rec.Scenario)
	}
}

func TestLibrary_Replace(t *testing.T) {
	lib := NewLibrary([]Entry{{ID: "a", Record: Record{Scenario: "a"}}})

	snapshot := lib.Entries()
	lib.Replace([]Entry{{ID: "b_enhanced"}, {ID: "c"}})

	if len(snapshot) != 1 {
		t.Error("snapshot should not change after Replace")
	}
	if diff := cmp.Diff([]string{"b", "c"}, lib.Scenarios()); diff != "" {
		t.Errorf("scenarios mismatch:\n%s", diff)
	}
}
