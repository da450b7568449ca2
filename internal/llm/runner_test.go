package llm

import "testing"

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"bare object", `{"subject": "Hi"}`, false},
		{"wrapped in prose", "Here is the draft:\n{\"subject\": \"Hi\"}\nLet me know.", false},
		{"array", `[{"subject": "Hi"}]`, false},
		{"no json", "I could not produce a draft.", true},
		{"malformed", `{"subject": `, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target any
			err := ParseJSON(tt.input, &target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseJSON(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q, want unchanged", got)
	}
	if got := truncate("a long response body", 6); got != "a long..." {
		t.Errorf("truncate = %q, want %q", got, "a long...")
	}
}
