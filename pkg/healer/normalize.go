package healer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cuemby/preflight/pkg/manifest"
)

// FallbackImage replaces references that point at placeholder
// registries nothing could ever pull from.
const FallbackImage = "docker.io/library/alpine:latest"

// DefaultRegistry qualifies bare image names so runtimes never fall
// back to short-name resolution.
const DefaultRegistry = "docker.io/library"

// imagePattern captures "image:" declarations inside runtimeConfig
// text: the prefix (including whitespace) and the reference itself,
// with optional registry, path, and tag components.
var imagePattern = regexp.MustCompile(`(image:\s*)([a-zA-Z0-9\-\.]+(?:[/:][a-zA-Z0-9\-\./]*)*(?::[a-zA-Z0-9\-\.]+)?)`)

// normalize runs the unconditional cleanup passes over every workload:
// image qualification, runtimeConfig whitespace cleanup, and
// dependencies sanitization. It reports whether anything changed; some
// changes (whitespace, coercions) are silent while the rest append to
// the log.
func (r *Remediator) normalize(doc *manifest.Document, logEntries *[]string) bool {
	changed := false
	if r.qualifyImages(doc, logEntries) {
		changed = true
	}
	if r.cleanRuntimeConfigs(doc) {
		changed = true
	}
	if r.sanitizeDependencies(doc, logEntries) {
		changed = true
	}
	return changed
}

// qualifyImages rewrites image references in scalar runtimeConfig
// text: placeholder registries are swapped for FallbackImage, bare
// names gain the default registry prefix, and anything already
// qualified passes through untouched.
func (r *Remediator) qualifyImages(doc *manifest.Document, logEntries *[]string) bool {
	changed := false
	for _, w := range doc.Workloads() {
		rc, ok := w.StringField("runtimeConfig")
		if !ok || rc == "" {
			continue
		}
		name := w.Name()
		fixed := imagePattern.ReplaceAllStringFunc(rc, func(m string) string {
			parts := imagePattern.FindStringSubmatch(m)
			prefix, image := parts[1], parts[2]

			if strings.Contains(image, "ghcr.io/example") || strings.Contains(image, "/example/") {
				*logEntries = append(*logEntries,
					fmt.Sprintf("Replaced placeholder image in %s: %q → %q (non-existent registry).", name, image, FallbackImage))
				return prefix + FallbackImage
			}
			if strings.Contains(image, "/") {
				return m
			}
			qualified := DefaultRegistry + "/" + image
			*logEntries = append(*logEntries,
				fmt.Sprintf("Qualified image in %s: %q → %q.", name, image, qualified))
			return prefix + qualified
		})
		if fixed != rc {
			w.SetRuntimeConfig(fixed)
			changed = true
		}
	}
	return changed
}

// cleanRuntimeConfigs strips control characters, surrounding blank
// lines, and common indentation from scalar runtimeConfig text. A
// value that only differs by its trailing newline is left alone, so
// canonical literal blocks stay untouched.
func (r *Remediator) cleanRuntimeConfigs(doc *manifest.Document) bool {
	changed := false
	for _, w := range doc.Workloads() {
		rc, ok := w.StringField("runtimeConfig")
		if !ok || rc == "" {
			continue
		}
		cleaned := cleanRuntimeConfigText(rc)
		if cleaned == rc || cleaned+"\n" == rc {
			continue
		}
		w.SetRuntimeConfig(cleaned)
		changed = true
	}
	return changed
}

func cleanRuntimeConfigText(val string) string {
	val = strings.ReplaceAll(val, "\r", "")
	val = strings.ReplaceAll(val, "\x00", "")

	lines := strings.Split(val, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent > 0 {
		for i, line := range lines {
			if len(line) >= minIndent {
				lines[i] = line[minIndent:]
			} else {
				lines[i] = ""
			}
		}
	}
	return strings.Join(lines, "\n")
}

// sanitizeDependencies enforces the mapping shape of every workload's
// dependencies field, logging outright removals. Key drops and value
// coercions inside a surviving mapping happen silently.
func (r *Remediator) sanitizeDependencies(doc *manifest.Document, logEntries *[]string) bool {
	changed := false
	for _, w := range doc.Workloads() {
		removedInvalid, removedEmpty, wChanged := w.SanitizeDependencies()
		if removedInvalid {
			*logEntries = append(*logEntries,
				fmt.Sprintf("Removed invalid dependencies field from %q (not a mapping).", w.Name()))
		}
		if removedEmpty {
			*logEntries = append(*logEntries,
				fmt.Sprintf("Removed empty dependencies from %q.", w.Name()))
		}
		if wChanged {
			changed = true
		}
	}
	return changed
}
