package preset

import (
	"errors"
	"testing"
)

func TestResolveCanonicalNames(t *testing.T) {
	tests := []struct {
		name      string
		wantImage string
		wantPort  int
		wantGPU   bool
	}{
		{"crf", "grobid/grobid:0.8.1-crf", 8070, false},
		{"full", "grobid/grobid:0.8.1-full", 8070, true},
		{"mentions", "grobid/software-mentions:0.8.1", 8060, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.name)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.name, err)
			}
			if cfg.Name != tt.name {
				t.Errorf("Name = %q, want %q", cfg.Name, tt.name)
			}
			if cfg.Image != tt.wantImage {
				t.Errorf("Image = %q, want %q", cfg.Image, tt.wantImage)
			}
			if cfg.APIPort != tt.wantPort {
				t.Errorf("APIPort = %d, want %d", cfg.APIPort, tt.wantPort)
			}
			if cfg.GPUCapable != tt.wantGPU {
				t.Errorf("GPUCapable = %v, want %v", cfg.GPUCapable, tt.wantGPU)
			}
			if cfg.Template != "docker" {
				t.Errorf("Template = %q, want %q", cfg.Template, "docker")
			}
		})
	}
}

func TestResolveDeprecatedAlias(t *testing.T) {
	aliased, err := Resolve("software-mentions")
	if err != nil {
		t.Fatalf("Resolve(software-mentions) error = %v", err)
	}
	canonical, err := Resolve("mentions")
	if err != nil {
		t.Fatalf("Resolve(mentions) error = %v", err)
	}
	if aliased != canonical {
		t.Errorf("alias resolved to %+v, want %+v", aliased, canonical)
	}
}

func TestResolveUnknown(t *testing.T) {
	for _, name := range []string{"", "CRF", "Mentions", "grobid", "crf "} {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(name)
			var unknownErr *UnknownConfigError
			if !errors.As(err, &unknownErr) {
				t.Fatalf("Resolve(%q) error = %v, want *UnknownConfigError", name, err)
			}
			if unknownErr.Name != name {
				t.Errorf("error carries name %q, want %q", unknownErr.Name, name)
			}
		})
	}
}

func TestNamesSortedAndCanonicalOnly(t *testing.T) {
	names := Names()
	want := []string{"crf", "full", "mentions"}

	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
