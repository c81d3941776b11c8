package moderation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultGuidelines are shown on the moderation page when no guidelines
// file is configured.
var DefaultGuidelines = []string{
	"Be respectful: No personal attacks, harassment, or hate speech.",
	"Stay on topic: Keep discussions relevant to the forum category.",
	"No spam or self-promotion: Commercial advertising is not allowed unless in designated areas.",
	"No illegal content: Do not share or promote illegal activities.",
	"Use appropriate language: Avoid excessive profanity or offensive terms.",
}

type guidelinesFile struct {
	Guidelines []string `yaml:"guidelines"`
}

// LoadGuidelines reads a YAML file with a top level "guidelines" list. An
// empty path yields DefaultGuidelines.
func LoadGuidelines(path string) ([]string, error) {
	if path == "" {
		return DefaultGuidelines, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guidelines file: %w", err)
	}

	var file guidelinesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse guidelines file: %w", err)
	}

	guidelines := make([]string, 0, len(file.Guidelines))
	for _, g := range file.Guidelines {
		if g = strings.TrimSpace(g); g != "" {
			guidelines = append(guidelines, g)
		}
	}
	if len(guidelines) == 0 {
		return nil, fmt.Errorf("guidelines file %s has no entries", path)
	}
	return guidelines, nil
}

// FormatGuidelines renders guidelines as a numbered list.
func FormatGuidelines(guidelines []string) string {
	var b strings.Builder
	for i, g := range guidelines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, g)
	}
	return b.String()
}
