package summarize

// Style selects the summary shape requested by the UI.
type Style string

const (
	StyleBrief       Style = "brief"
	StyleDetailed    Style = "detailed"
	StyleBullets     Style = "bullet_points"
	StyleActionItems Style = "action_items"
)

var instructions = map[Style]string{
	StyleBrief: `Summarize the following video transcript into a short paragraph.
Capture the main topic and the most important points. Keep it under 150 words.`,
	StyleDetailed: `Write a detailed summary of the following video transcript.
Cover every major topic in the order it appears, preserving important names,
numbers, and conclusions.`,
	StyleBullets: `Summarize the following video transcript as a bullet list.
One bullet per distinct point, most important first.`,
	StyleActionItems: `Extract the action items from the following video transcript.
List each task with its owner and deadline when mentioned. If there are no
action items, say so.`,
}

// Instruction resolves a style tag to its prompt. Unknown tags fall back to
// the brief instruction rather than failing.
func Instruction(s Style) string {
	if inst, ok := instructions[s]; ok {
		return inst
	}
	return instructions[StyleBrief]
}
