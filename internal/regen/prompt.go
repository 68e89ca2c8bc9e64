package regen

import (
	"fmt"
	"strings"

	"tagcheck/internal/diagnostic"
)

const basePrompt = `Translate the Text parts of this game script file into %s.
Rules:
1. Keep the file structure exactly as it is: every header, key and line stays in place.
2. Copy every tag written in angle brackets, such as <cf> or <IfGender_ACTOR(him,her)>, exactly as-is, with the same number of parameters.
3. Copy every placeholder written in braces, such as {NAME}, exactly as-is.
4. Output ONLY the translated file, without explanations.`

// SystemPrompt builds the regeneration instructions. Findings from the
// previous check are listed so the model can correct them.
func SystemPrompt(language string, diags []diagnostic.Diagnostic) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(basePrompt, language))

	if len(diags) == 0 {
		return sb.String()
	}

	sb.WriteString("\n\nThe previous translation had the following problems. Fix them in the new translation:\n")
	for _, d := range diags {
		sb.WriteString(fmt.Sprintf("- %s\n", d.Message))
	}
	return sb.String()
}
