package backend

import "strings"

// FormatMessages renders a chat transcript as a plain prompt for engines
// without a native chat template. Each turn becomes "Role: content" and the
// prompt ends with an open assistant turn for the engine to complete.
//
//	System: You are terse.
//	User: hi
//	Assistant:
func FormatMessages(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(capitalize(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("Assistant:")
	return b.String()
}

// capitalize upper-cases the first byte and lower-cases the rest, so "user",
// "USER" and "User" all render the same turn label.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
