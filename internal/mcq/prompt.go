package mcq

import "fmt"

// SystemPrompt is the system message sent alongside every generation prompt.
const SystemPrompt = "You generate MCQs"

// promptTemplate is the sole contract between this service and the model:
// Parse depends on the model following the block shape it describes, so the
// wording must stay stable across calls.
const promptTemplate = `Generate %d multiple-choice questions.

Format:
Q1: Question
A. option
B. option
C. option
D. option
Answer: B
Explanation: reason

Text:
"""%s"""`

// BuildPrompt renders the generation request for the given source text and
// question count. It is pure and deterministic.
func BuildPrompt(text string, numQuestions int) string {
	return fmt.Sprintf(promptTemplate, numQuestions, text)
}
