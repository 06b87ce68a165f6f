package orchestrator

import "testing"

func TestWithPlace(t *testing.T) {
	tests := []struct {
		name    string
		meta    map[string]string
		message string
		want    string
	}{
		{"transit", nil, "Bhai train chut gayi", "transit"},
		{"workplace", nil, "My BOSS yelled", "workplace"},
		{"educational", nil, "exam tomorrow", "educational"},
		{"airport", nil, "flight delayed", "airport"},
		{"hospital", nil, "at the doctor", "hospital"},
		{"transit beats workplace", nil, "late for work, metro stuck", "transit"},
		{"caller wins", map[string]string{"place": "home"}, "boss called", "home"},
		{"nothing", nil, "feeling meh", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withPlace(tt.meta, tt.message)
			if got["place"] != tt.want {
				t.Errorf("place = %q, want %q", got["place"], tt.want)
			}
		})
	}
}

func TestWithPlace_DoesNotMutateInput(t *testing.T) {
	meta := map[string]string{"city": "Pune"}
	withPlace(meta, "office drama")
	if _, ok := meta["place"]; ok {
		t.Error("caller's meta was modified")
	}
}
