package model

import "testing"

func TestFullName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"opus", "claude-opus-4-5-20251101"},
		{"Opus", "claude-opus-4-5-20251101"},
		{"SONNET", "claude-sonnet-4-20250514"},
		{" haiku ", "claude-3-5-haiku-20241022"},
		{"claude-3-5-sonnet", "claude-3-5-sonnet"},
		{"my-custom-model", "my-custom-model"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FullName(tt.in); got != tt.want {
				t.Errorf("FullName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsAlias(t *testing.T) {
	if !IsAlias("Haiku") {
		t.Error("expected Haiku to be an alias")
	}
	if IsAlias("claude-3-5-haiku-20241022") {
		t.Error("full identifier should not be an alias")
	}
}

func TestAliases(t *testing.T) {
	got := Aliases()
	want := []ModelName{ModelHaiku, ModelOpus, ModelSonnet}
	if len(got) != len(want) {
		t.Fatalf("Aliases() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Aliases()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNormalizeModelName(t *testing.T) {
	tests := []struct {
		in   string
		want ModelName
	}{
		{"opus", ModelOpus},
		{"claude-opus-4-5-20251101", ModelOpus},
		{"claude-sonnet-4-20250514", ModelSonnet},
		{"claude-3-5-haiku-20241022", ModelHaiku},
		{"unknown-model", ModelName("unknown-model")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeModelName(tt.in); got != tt.want {
				t.Errorf("NormalizeModelName(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFullNameRoundTrip(t *testing.T) {
	for _, alias := range Aliases() {
		if got := NormalizeModelName(FullName(string(alias))); got != alias {
			t.Errorf("NormalizeModelName(FullName(%s)) = %s", alias, got)
		}
	}
}
