package aws

import (
	"fmt"

	"github.com/SkiffProject/skiff/pkg/provider"
)

// ubuntuAMIs maps region and architecture to Ubuntu 22.04 LTS server AMIs.
// These rotate slowly; refresh from the Ubuntu cloud image locator when
// bumping the OS baseline.
var ubuntuAMIs = map[string]map[string]string{
	"us-east-1": {
		"amd64": "ami-0e2c8caa4b6378d8c",
		"arm64": "ami-05d47d29a4c2d19e1",
	},
	"us-east-2": {
		"amd64": "ami-036841078a4b68e14",
		"arm64": "ami-0f30a9c3a48f3fa79",
	},
	"us-west-1": {
		"amd64": "ami-0657605d763ac72a8",
		"arm64": "ami-056d1c7c5c5f5f4cb",
	},
	"us-west-2": {
		"amd64": "ami-05134c8ef96964280",
		"arm64": "ami-0b5ca3e77bfa4cabf",
	},
	"eu-west-1": {
		"amd64": "ami-0694d931cee176e7d",
		"arm64": "ami-0cbdf7a9bb3e0f693",
	},
	"eu-central-1": {
		"amd64": "ami-0e872aee57663ae2d",
		"arm64": "ami-01fc429821ac8e70a",
	},
	"ap-southeast-1": {
		"amd64": "ami-003c463c8207b4dfa",
		"arm64": "ami-0da0ef1b3a68a4a38",
	},
	"ap-northeast-1": {
		"amd64": "ami-0595d6e81396a9efb",
		"arm64": "ami-070bb3b0b452a95f7",
	},
}

// resolveAMI picks the Ubuntu AMI for a region and the architecture implied
// by the instance type.
func resolveAMI(region, instanceType string) (string, error) {
	arch := "amd64"
	if provider.IsGravitonInstanceType(instanceType) {
		arch = "arm64"
	}

	byArch, ok := ubuntuAMIs[region]
	if !ok {
		return "", fmt.Errorf("no AMI known for region %s", region)
	}
	ami, ok := byArch[arch]
	if !ok {
		return "", fmt.Errorf("no %s AMI known for region %s", arch, region)
	}
	return ami, nil
}
