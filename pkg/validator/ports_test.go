package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExtractPorts tests host port extraction from runtime configuration text
func TestExtractPorts(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		expected []int
	}{
		{
			name:     "podman flag",
			config:   "podman run -d -p 8080:80 nginx:latest",
			expected: []int{8080},
		},
		{
			name:     "quoted flag value",
			config:   `podman run -p "8080:80" nginx`,
			expected: []int{8080},
		},
		{
			name:     "quoted mapping in command options",
			config:   `commandOptions: ["-p", "8080:80"]`,
			expected: []int{8080},
		},
		{
			name:     "bare whitespace delimited mapping",
			config:   "forward 8080:80 to the container",
			expected: []int{8080},
		},
		{
			name:     "multiple ports sorted ascending",
			config:   "podman run -p 9090:90 -p 8080:80 nginx",
			expected: []int{8080, 9090},
		},
		{
			name:     "duplicate across patterns deduplicated",
			config:   `podman run -p 8080:80 "8080:80" nginx`,
			expected: []int{8080},
		},
		{
			name:     "container port alone does not match",
			config:   "image: nginx\ncontainerPort: 80",
			expected: nil,
		},
		{
			name:     "no ports",
			config:   "image: docker.io/library/alpine:latest",
			expected: nil,
		},
		{
			name:     "empty config",
			config:   "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPorts(tt.config))
		})
	}
}

// TestExtractPortsMultiline tests extraction from a full runtimeConfig block
func TestExtractPortsMultiline(t *testing.T) {
	config := `image: docker.io/library/nginx:latest
commandOptions:
  - "-p"
  - "8080:80"
  - "-p"
  - "8443:443"
`
	assert.Equal(t, []int{8080, 8443}, ExtractPorts(config))
}
