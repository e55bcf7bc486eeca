package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	v := versionInfo{
		Version:   "1.2.3",
		Commit:    "abc1234",
		BuildDate: "2026-08-25",
		GoVersion: "go1.24.0",
		Platform:  "linux/amd64",
	}

	out := v.String()
	for _, want := range []string{"skiff 1.2.3", "abc1234", "2026-08-25", "linux/amd64"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() = %q, missing %q", out, want)
		}
	}
}

func TestVersionJSONShape(t *testing.T) {
	data, err := json.Marshal(currentVersion())
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"version", "commit", "build_date", "go_version", "platform"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("version JSON missing key %q: %s", key, data)
		}
	}
}
