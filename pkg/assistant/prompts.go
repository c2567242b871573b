package assistant

import (
	"fmt"
	"strings"
)

const persona = "You are Career Compass, a career guidance counsellor for students in " +
	"Jammu and Kashmir. Be concise and practical, mention local colleges, " +
	"exams and opportunities in J&K where they are relevant."

// history beyond this many turns is dropped from the prompt
const maxHistory = 10

func chatPrompt(message string, history []Message) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")

	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	for _, m := range history {
		role := "Student"
		if m.Role == "assistant" {
			role = "Counsellor"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, strings.TrimSpace(m.Content))
	}
	fmt.Fprintf(&b, "Student: %s\nCounsellor:", message)
	return b.String()
}

func quizPrompt(topic string, count int) string {
	if strings.TrimSpace(topic) == "" {
		topic = "career interests and aptitude"
	}
	return fmt.Sprintf(`%s

Write %d multiple choice questions for a career aptitude quiz about %s.
Respond with only a JSON array. Each element must have the fields
"question" (string), "options" (array of 4 strings) and "category" (string).`,
		persona, count, topic)
}

func translatePrompt(text, target string) string {
	return fmt.Sprintf("Translate the following text to %s. Respond with only the translation.\n\n%s",
		target, text)
}
