package essay

import (
	"fmt"
	"strings"
)

// OutlineOnlyRule is the grading convention applied to submissions with no essay body.
const OutlineOnlyRule = "If the submission is only an outline with no essay body, score only the outline category out of its maximum and set all other category scores to 0."

// BuildPrompt formats the essay and the rubric into instructions for the model.
func BuildPrompt(essayText string) string {
	builder := strings.Builder{}
	builder.WriteString("You are a senior examiner for the CSS (Central Superior Services) English Essay paper. ")
	builder.WriteString("Evaluate the essay below strictly against the rubric and report the result as JSON.\n\n")

	builder.WriteString("## Essay\n")
	builder.WriteString("<<<ESSAY\n")
	builder.WriteString(essayText)
	builder.WriteString("\nESSAY>>>\n\n")

	builder.WriteString(fmt.Sprintf("## Rubric (%s, total %d marks)\n", RubricVersion, MaxTotalScore))
	for i, c := range Categories() {
		def := rubric[c]
		builder.WriteString(fmt.Sprintf("%d. %s (%s): %d marks - %s\n", i+1, def.label, def.key, def.max, def.focus))
	}

	builder.WriteString("\n## Special rule\n")
	builder.WriteString(OutlineOnlyRule)
	builder.WriteString(" Set \"isOutlineOnly\" to true in that case.\n")

	builder.WriteString("\n## Output format\n")
	builder.WriteString("Respond with a single JSON object and nothing else: no prose, no markdown, no code fences. Use exactly this shape:\n")
	builder.WriteString(responseShape())
	builder.WriteString("\nRules:\n")
	builder.WriteString("- Every category score is an integer between 0 and its maximum.\n")
	builder.WriteString("- \"score\" and \"totalMarks\" both equal the sum of the category scores (0-100).\n")
	builder.WriteString("- \"mistakes\" lists grammar, spelling and usage errors in the order they appear; use [] if there are none.\n")
	builder.WriteString("- \"corrected_text\" is the full essay with the mistakes fixed.\n")
	return builder.String()
}

func responseShape() string {
	builder := strings.Builder{}
	builder.WriteString("{\n")
	builder.WriteString("  \"corrected_text\": \"string\",\n")
	builder.WriteString("  \"mistakes\": [{\"original\": \"string\", \"correction\": \"string\", \"explanation\": \"string\"}],\n")
	builder.WriteString("  \"suggestions\": [\"string\"],\n")
	builder.WriteString("  \"score\": 0,\n")
	builder.WriteString("  \"evaluation\": {\n")
	cats := Categories()
	for i, c := range cats {
		sep := ","
		if i == len(cats)-1 {
			sep = ""
		}
		builder.WriteString(fmt.Sprintf("    \"%s\": {\"score\": 0, \"comment\": \"string\"}%s\n", c.Key(), sep))
	}
	builder.WriteString("  },\n")
	builder.WriteString("  \"totalMarks\": 0,\n")
	builder.WriteString("  \"isOutlineOnly\": false,\n")
	builder.WriteString("  \"examinerRemarks\": {\"strengths\": [\"string\"], \"weaknesses\": [\"string\"], \"suggestions\": [\"string\"]}\n")
	builder.WriteString("}\n")
	return builder.String()
}
