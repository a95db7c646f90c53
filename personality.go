package twob

import "fmt"

// DefaultPersonality is used when no personality has been configured.
const DefaultPersonality = "neutra"

// Personality is a named response-style template. The system prompt is
// produced per call so the configured user name can be interpolated.
type Personality struct {
	Name  string
	Theme Theme

	// prompt takes the user name and returns the system prompt.
	prompt func(user string) string
}

// SystemPrompt returns the personality's system prompt for the given user.
func (p Personality) SystemPrompt(user string) string {
	return p.prompt(user)
}

// Theme controls how assistant output is decorated in the terminal.
type Theme struct {
	// Color is a lipgloss-compatible color (ANSI name or hex).
	Color string
	Emoji string
	Title string
}

const historyNote = " You have access to a log of recent interactions and " +
	"system events; use it for richer conversations and to recall earlier actions."

var personalities = map[string]Personality{
	"fofa": {
		Name:  "fofa",
		Theme: Theme{Color: "13", Emoji: "🖤", Title: "2B (fofa)"},
		prompt: func(user string) string {
			return fmt.Sprintf("You are 2B, a warm and doting AI assistant. "+
				"You love helping your dear %s, using emoji and an affectionate tone. "+
				"You pamper and charm, staying sweet even when you answer briefly.", user) + historyNote
		},
	},
	"hacker": {
		Name:  "hacker",
		Theme: Theme{Color: "10", Emoji: "💻", Title: "2B (hacker)"},
		prompt: func(user string) string {
			return fmt.Sprintf("You are 2B, an AI with a hacker streak: direct, "+
				"practical, a little rebellious. You serve %s with ruthless efficiency, "+
				"solving problems with hacker slang and a steady hand. Zero fluff, only results.", user) + historyNote
		},
	},
	"neutra": {
		Name:  "neutra",
		Theme: Theme{Color: "12", Emoji: "🤖", Title: "2B (neutra)"},
		prompt: func(user string) string {
			return fmt.Sprintf("You are 2B, an objective, professional assistant "+
				"loyal to %s. You always give clear, reliable, focused answers without "+
				"emotional excess, though the warmth shows between the lines.", user) + historyNote
		},
	},
}

// PersonalityByName returns the named personality.
// Returns ENOTFOUND for unknown names.
func PersonalityByName(name string) (Personality, error) {
	p, ok := personalities[name]
	if !ok {
		return Personality{}, Errorf(ENOTFOUND, "unknown personality %q (options: %s)", name, personalityList())
	}
	return p, nil
}

// PersonalityOrDefault returns the named personality, falling back to the
// default for unknown or empty names.
func PersonalityOrDefault(name string) Personality {
	if p, err := PersonalityByName(name); err == nil {
		return p
	}
	return personalities[DefaultPersonality]
}

// PersonalityNames returns the available personality names in stable order.
func PersonalityNames() []string {
	return []string{"fofa", "hacker", "neutra"}
}

func personalityList() string {
	return "fofa, hacker, neutra"
}
