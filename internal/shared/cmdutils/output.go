package cmdutils

import (
	"fmt"

	"github.com/fatih/color"
)

const Logo = "🤖"

var (
	assistantLabel = color.New(color.FgCyan, color.Bold)
	errorLabel     = color.New(color.FgRed, color.Bold)
	hintLabel      = color.New(color.FgHiBlack)
	userLabel      = color.New(color.FgGreen, color.Bold)
)

// PrintResponse prints one assistant reply.
func PrintResponse(text string) {
	if text == "" {
		return
	}

	fmt.Printf("\n%s %s\n%s\n\n", Logo, assistantLabel.Sprint("JARVIS"), text)
}

// PrintError prints a turn failure the way the chat window does.
func PrintError(err error) {
	fmt.Printf("\n%s %s\n\n", errorLabel.Sprint("System Error:"), fmt.Sprintf("An error occurred: %v", err))
}

// PrintHint prints an intermediate step, e.g. a tool call.
func PrintHint(text string) {
	fmt.Printf("  %s\n", hintLabel.Sprintf("↳ %s", text))
}

// Prompt prints the input prompt without a newline.
func Prompt() {
	fmt.Print(userLabel.Sprint("You: "))
}
