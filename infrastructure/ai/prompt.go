package ai

import "fmt"

// wrapPrompt combines the connected-source context with the user's message.
// With no context the message is sent untouched.
func wrapPrompt(contextText, userMessage string) string {
	if contextText == "" {
		return userMessage
	}
	return fmt.Sprintf(
		"Context from connected canvas elements:\n\n%s\n\n---\n\nAnswer using the context above when relevant.\n\nUser message:\n%s",
		contextText, userMessage,
	)
}
