package provider

import "strings"

// gpuFamilies are the EC2-style instance families that carry NVIDIA GPUs.
var gpuFamilies = []string{"p2", "p3", "p4d", "p4de", "p5", "g3", "g4dn", "g4ad", "g5", "g5g", "g6", "gr6"}

// IsGPUInstanceType reports whether an instance type belongs to a
// GPU-bearing family (the p* and g* accelerated-computing families).
func IsGPUInstanceType(instanceType string) bool {
	family, _, ok := strings.Cut(instanceType, ".")
	if !ok {
		family = instanceType
	}
	for _, f := range gpuFamilies {
		if family == f {
			return true
		}
	}
	// New generations appear faster than this table is updated; fall back
	// to the family-prefix convention.
	return strings.HasPrefix(family, "p") && len(family) > 1 && family[1] >= '0' && family[1] <= '9' ||
		strings.HasPrefix(family, "g") && len(family) > 1 && family[1] >= '0' && family[1] <= '9'
}

// IsGravitonInstanceType reports whether an instance type runs on arm64.
// Graviton families mark it with a "g" in the suffix after the generation
// digit (m6g, c7g, t4g), unlike the GPU "g" families where the g precedes
// the digit (g5, g6).
func IsGravitonInstanceType(instanceType string) bool {
	family, _, ok := strings.Cut(instanceType, ".")
	if !ok {
		family = instanceType
	}
	i := strings.IndexFunc(family, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return false
	}
	suffix := family[i:]
	// Skip the generation digits, then look for the Graviton marker.
	suffix = strings.TrimLeft(suffix, "0123456789")
	return strings.Contains(suffix, "g")
}
