// Package userdata renders the bootstrap shell script handed to a cloud
// instance at boot. The script installs a container runtime and starts the
// preset's service container on the configured port.
package userdata

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"al.essio.dev/pkg/shellescape"
)

// Params are the inputs to a render. Rendering is a pure function of these:
// identical Params produce byte-identical scripts.
type Params struct {
	// Image is the container image reference to run.
	Image string
	// Port is exposed as both the host and container port.
	Port int
	// GPU enables the GPU container runtime install and the GPU
	// passthrough flag on the run command. Callers set it only when the
	// instance type actually carries a GPU and the preset can use one.
	GPU bool
}

// TemplateError is returned when the requested template ID is not registered.
type TemplateError struct {
	ID string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("bootstrap template %q is not registered (known: %v)", e.ID, IDs())
}

// templateVars is what the script templates see. Fragments are empty
// strings when not applicable so every template stays a plain substitution.
type templateVars struct {
	Image      string
	Port       int
	GPUInstall string
	GPUFlag    string
}

const dockerTemplate = `#!/bin/bash
set -euo pipefail

export DEBIAN_FRONTEND=noninteractive
apt-get update
apt-get install -y docker.io
systemctl enable --now docker
{{.GPUInstall}}
docker run -d --restart unless-stopped {{.GPUFlag}}-p {{.Port}}:{{.Port}} {{.Image}}
`

// gpuInstallFragment sets up the NVIDIA container toolkit so docker can
// pass the GPU through to the service container.
const gpuInstallFragment = `curl -fsSL https://nvidia.github.io/libnvidia-container/gpgkey | gpg --dearmor -o /usr/share/keyrings/nvidia-container-toolkit-keyring.gpg
curl -fsSL https://nvidia.github.io/libnvidia-container/stable/deb/nvidia-container-toolkit.list | sed 's#deb https://#deb [signed-by=/usr/share/keyrings/nvidia-container-toolkit-keyring.gpg] https://#g' > /etc/apt/sources.list.d/nvidia-container-toolkit.list
apt-get update
apt-get install -y nvidia-container-toolkit
nvidia-ctk runtime configure --runtime=docker
systemctl restart docker
`

// gpuFlagFragment carries its own trailing space so the run command needs
// no conditional logic.
const gpuFlagFragment = "--gpus all "

var templates = map[string]*template.Template{
	"docker": template.Must(template.New("docker").Parse(dockerTemplate)),
}

// Render fills the template registered under id with p. The image reference
// is shell-escaped to keep preset values from breaking out of the run command.
func Render(id string, p Params) (string, error) {
	tmpl, ok := templates[id]
	if !ok {
		return "", &TemplateError{ID: id}
	}

	vars := templateVars{
		Image: shellescape.Quote(p.Image),
		Port:  p.Port,
	}
	if p.GPU {
		vars.GPUInstall = gpuInstallFragment
		vars.GPUFlag = gpuFlagFragment
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("executing bootstrap template %q: %w", id, err)
	}
	return buf.String(), nil
}

// IDs returns the registered template IDs, sorted.
func IDs() []string {
	ids := make([]string, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
