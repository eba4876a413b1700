package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sabah Gazetesi", "sabah-gazetesi"},
		{"Habertürk", "haberturk"},
		{"TRT Haber", "trt-haber"},
		{"Dünya Gündemi", "dunya-gundemi"},
		{"Kültür & Sanat", "kultur--sanat"},
		{"İstanbul", "istanbul"},
		{"  çok   boşluk  ", "-cok-bosluk-"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Make(tt.in); got != tt.want {
			t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	if !Match("Sabah Gazetesi", "sabah-gazetesi") {
		t.Error("slug form should match original name")
	}
	if !Match("Sabah Gazetesi", "Sabah Gazetesi") {
		t.Error("exact form should match")
	}
	if Match("Sabah Gazetesi", "Hürriyet") {
		t.Error("unrelated names should not match")
	}
}
