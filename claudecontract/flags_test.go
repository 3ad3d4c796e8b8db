package claudecontract

import (
	"strings"
	"testing"
)

func TestFlagNameFormat(t *testing.T) {
	for _, flag := range []string{FlagPrint, FlagModel, FlagVersion, FlagHelp} {
		if !strings.HasPrefix(flag, "--") {
			t.Errorf("Flag %q should start with '--'", flag)
		}
	}
	if FlagPrintShort != "-p" {
		t.Errorf("FlagPrintShort = %q, want -p", FlagPrintShort)
	}
}

func TestHasPrintFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--model", "opus"}, false},
		{[]string{"--print"}, true},
		{[]string{"--model", "opus", "-p"}, true},
		{[]string{"--printer"}, false},
	}

	for _, tt := range tests {
		if got := HasPrintFlag(tt.args); got != tt.want {
			t.Errorf("HasPrintFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestHasModelFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"none", []string{"-p"}, false},
		{"with value", []string{"--model", "claude-3-5-sonnet"}, true},
		{"value then more args", []string{"--model", "opus", "--verbose"}, true},
		{"dangling", []string{"-p", "--model"}, false},
		{"equals form", []string{"--model=opus"}, true},
		{"empty equals form", []string{"--model="}, false},
		{"other flag", []string{"--models", "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasModelFlag(tt.args); got != tt.want {
				t.Errorf("HasModelFlag(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
