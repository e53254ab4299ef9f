package assistant

import "strings"

// ActionPolicy controls which lines qualify as extracted actions
type ActionPolicy struct {
	Markers []string
	MinLen  int
	Max     int
}

// DefaultActionPolicy recognizes bullet and numbered lines. It is the policy
// the query pipeline uses.
func DefaultActionPolicy() ActionPolicy {
	return ActionPolicy{
		Markers: []string{"-", "•", "1.", "2.", "3.", "4.", "5."},
		MinLen:  10,
		Max:     5,
	}
}

// ReportActionPolicy additionally recognizes lines led by the words
// Recommend, Action or Step, with a stricter length floor. Used for styled
// report output.
func ReportActionPolicy() ActionPolicy {
	return ActionPolicy{
		Markers: []string{"-", "•", "1.", "2.", "3.", "4.", "5.", "Recommend", "Action", "Step"},
		MinLen:  15,
		Max:     5,
	}
}

// ExtractActions scans the text line by line and collects lines that start
// with one of the policy's markers and exceed its length floor, in order.
// The marker is stripped; lines that still open with bold markup are heading
// lines and are dropped. At most policy.Max actions are returned.
func ExtractActions(text string, policy ActionPolicy) []string {
	var actions []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= policy.MinLen {
			continue
		}

		matched := ""
		for _, marker := range policy.Markers {
			if strings.HasPrefix(line, marker) {
				matched = marker
				break
			}
		}
		if matched == "" {
			continue
		}

		action := strings.TrimSpace(strings.TrimPrefix(line, matched))
		if action == "" || strings.HasPrefix(action, "**") {
			continue
		}

		actions = append(actions, action)
		if len(actions) == policy.Max {
			break
		}
	}
	return actions
}

// Style names accepted by ApplyStyle
const (
	StyleConversational = "Conversational"
	StyleFormal         = "Formal"
	StyleTechnical      = "Technical"
	StyleStorytelling   = "Storytelling"
)

// ApplyStyle prepends a fixed header for the three formatted styles.
// Conversational, and any unknown style, returns the text unchanged.
func ApplyStyle(text, style string) string {
	switch style {
	case StyleFormal:
		return "**Formal Analysis**\n\n" + text
	case StyleTechnical:
		return "**Technical Assessment**\n\n" + text
	case StyleStorytelling:
		return "**Narrative Insights**\n\n" + text
	default:
		return text
	}
}
