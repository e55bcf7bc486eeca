package provider

import "testing"

func TestIsGPUInstanceType(t *testing.T) {
	tests := []struct {
		instanceType string
		want         bool
	}{
		{"p3.2xlarge", true},
		{"p4d.24xlarge", true},
		{"p4de.24xlarge", true},
		{"p5.48xlarge", true},
		{"g4dn.xlarge", true},
		{"g5.xlarge", true},
		{"g5.48xlarge", true},
		{"g6.xlarge", true},
		{"gr6.4xlarge", true},
		{"t3.micro", false},
		{"m5.large", false},
		{"m6a.4xlarge", false},
		{"m6g.large", false},
		{"c5.xlarge", false},
		{"r6i.large", false},
	}

	for _, tt := range tests {
		t.Run(tt.instanceType, func(t *testing.T) {
			if got := IsGPUInstanceType(tt.instanceType); got != tt.want {
				t.Errorf("IsGPUInstanceType(%q) = %v, want %v", tt.instanceType, got, tt.want)
			}
		})
	}
}

func TestIsGravitonInstanceType(t *testing.T) {
	tests := []struct {
		instanceType string
		want         bool
	}{
		{"m6g.large", true},
		{"m6gd.large", true},
		{"c7g.xlarge", true},
		{"t4g.micro", true},
		{"g5g.xlarge", true},
		{"g5.xlarge", false},
		{"g6.xlarge", false},
		{"m6a.4xlarge", false},
		{"m5.large", false},
		{"p5.48xlarge", false},
		{"t3.micro", false},
	}

	for _, tt := range tests {
		t.Run(tt.instanceType, func(t *testing.T) {
			if got := IsGravitonInstanceType(tt.instanceType); got != tt.want {
				t.Errorf("IsGravitonInstanceType(%q) = %v, want %v", tt.instanceType, got, tt.want)
			}
		})
	}
}
