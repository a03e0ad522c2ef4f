package avatar

import (
	"math/rand"
	"strings"
	"testing"
)

func TestPromptSynthesizerBuild(t *testing.T) {
	s := NewPromptSynthesizer(DefaultCatalogs(), rand.New(rand.NewSource(1)))
	got := s.Build()

	checks := []string{
		"preserve the subject's identifiable facial features",
		"directly onto the depicted face itself",
		"not an overlay on the background",
		"color scheme",
		"Compose the shot with the subject",
		"Add a humorous touch:",
		"movie poster for \"The ",
		"Maintain the original aspect ratio",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("prompt missing %q: %s", expect, got)
		}
	}
}

func TestPromptSynthesizerSamplesFromCatalogs(t *testing.T) {
	catalogs := DefaultCatalogs()
	s := NewPromptSynthesizer(catalogs, rand.New(rand.NewSource(7)))
	got := s.Build()

	groups := map[string][]string{
		"archetype":  catalogs.Archetypes,
		"costume":    catalogs.Costumes,
		"colors":     catalogs.ColorSchemes,
		"pose":       catalogs.Poses,
		"background": catalogs.Backgrounds,
		"lighting":   catalogs.Lighting,
		"humor":      catalogs.HumorTouches,
		"faceEffect": catalogs.FaceEffects,
	}
	for name, pool := range groups {
		found := false
		for _, entry := range pool {
			if strings.Contains(got, entry) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("no %s catalog entry found in prompt: %s", name, got)
		}
	}
}

func TestPromptSynthesizerSeededDeterminism(t *testing.T) {
	a := NewPromptSynthesizer(DefaultCatalogs(), rand.New(rand.NewSource(42)))
	b := NewPromptSynthesizer(DefaultCatalogs(), rand.New(rand.NewSource(42)))
	if a.Build() != b.Build() {
		t.Fatalf("same seed should produce the same prompt")
	}
}

func TestPromptSynthesizerVariesAcrossDraws(t *testing.T) {
	s := NewPromptSynthesizer(DefaultCatalogs(), rand.New(rand.NewSource(3)))
	seen := map[string]struct{}{}
	for i := 0; i < 10; i++ {
		seen[s.Build()] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("expected varied prompts across draws, got %d distinct", len(seen))
	}
}
