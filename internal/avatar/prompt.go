package avatar

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PromptCatalogs holds the fixed pools the synthesizer samples from. Each
// catalog is sampled independently and uniformly; determinism is intentionally
// absent so the same photo submitted twice yields different prompts.
type PromptCatalogs struct {
	Archetypes   []string
	Costumes     []string
	ColorSchemes []string
	Poses        []string
	Backgrounds  []string
	Lighting     []string
	HumorTouches []string
	FaceEffects  []string
}

// DefaultCatalogs returns the built-in catalogs. They are loaded once at
// startup and treated as immutable afterwards.
func DefaultCatalogs() PromptCatalogs {
	return PromptCatalogs{
		Archetypes: []string{
			"cosmic guardian",
			"armored vigilante",
			"storm-wielding defender",
			"speedster hero",
			"mystic sorcerer hero",
			"galactic ranger",
			"shadow knight",
			"solar-powered champion",
		},
		Costumes: []string{
			"sleek armored suit with glowing seams",
			"classic caped costume with an emblem on the chest",
			"high-tech nanofiber suit with utility belt",
			"battle-worn plated armor with a tattered cape",
			"streamlined stealth suit with luminous accents",
			"regal ceremonial armor with flowing drapes",
		},
		ColorSchemes: []string{
			"crimson and gold",
			"midnight blue and silver",
			"emerald and obsidian",
			"scarlet and slate grey",
			"violet and chrome",
			"teal and bronze",
		},
		Poses: []string{
			"landing in a three-point superhero crouch",
			"standing tall with arms crossed",
			"mid-flight with one fist forward",
			"charging forward with energy crackling around the fists",
			"hovering above the ground with a billowing cape",
		},
		Backgrounds: []string{
			"a neon-lit city skyline at night",
			"a shattered battlefield with floating debris",
			"a swirling cosmic nebula",
			"a rain-soaked rooftop overlooking the city",
			"a collapsing skyscraper canyon with lens flares",
		},
		Lighting: []string{
			"dramatic rim lighting with strong contrast",
			"golden-hour backlight with volumetric rays",
			"cold moonlight with deep shadows",
			"electric blue glow from below",
			"cinematic spotlight with haze",
		},
		HumorTouches: []string{
			"a tiny sidekick pigeon wearing a matching mask",
			"a cape snagged on a nearby antenna",
			"a coffee cup still clutched in one hand",
			"a cat peeking out of the utility belt",
			"socks with sandals visible under the armor",
		},
		FaceEffects: []string{
			"a subtle glowing emblem etched onto one cheek",
			"faint luminous circuit lines across the temples",
			"a heroic domino mask blended onto the skin",
			"softly glowing irises",
			"a thin scar of shimmering energy over one eyebrow",
		},
	}
}

// PromptSynthesizer builds randomized generation instructions from the
// catalogs using an injected random source.
type PromptSynthesizer struct {
	catalogs PromptCatalogs
	rng      *rand.Rand
	titler   cases.Caser
}

// NewPromptSynthesizer wires catalogs to a random source. Tests pass a seeded
// source to pin the sampled values.
func NewPromptSynthesizer(catalogs PromptCatalogs, rng *rand.Rand) *PromptSynthesizer {
	return &PromptSynthesizer{
		catalogs: catalogs,
		rng:      rng,
		titler:   cases.Title(language.English),
	}
}

// Build assembles one natural-language instruction for the image provider.
// Identity preservation leads the instruction; the face effect is phrased as
// an alteration of the depicted face itself, never a background overlay.
func (s *PromptSynthesizer) Build() string {
	archetype := s.pick(s.catalogs.Archetypes)
	costume := s.pick(s.catalogs.Costumes)
	colors := s.pick(s.catalogs.ColorSchemes)
	pose := s.pick(s.catalogs.Poses)
	background := s.pick(s.catalogs.Backgrounds)
	lighting := s.pick(s.catalogs.Lighting)
	humor := s.pick(s.catalogs.HumorTouches)
	faceEffect := s.pick(s.catalogs.FaceEffects)

	parts := []string{
		fmt.Sprintf("Transform this person into an epic %s.", archetype),
		"Top priority: preserve the subject's identifiable facial features so they remain clearly recognizable.",
		fmt.Sprintf("Apply %s directly onto the depicted face itself, as a literal alteration of the face, not an overlay on the background.", faceEffect),
		fmt.Sprintf("Dress them in %s in a %s color scheme, with their powers implied by the costume design.", costume, colors),
		fmt.Sprintf("Compose the shot with the subject %s, set against %s, lit by %s.", pose, background, lighting),
		fmt.Sprintf("Add a humorous touch: %s.", humor),
		fmt.Sprintf("Frame it like a movie poster for \"The %s\".", s.titler.String(archetype)),
		"Maintain the original aspect ratio and a photorealistic finish.",
	}
	return strings.Join(parts, " ")
}

func (s *PromptSynthesizer) pick(catalog []string) string {
	if len(catalog) == 0 {
		return ""
	}
	return catalog[s.rng.Intn(len(catalog))]
}
