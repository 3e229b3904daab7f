package answer

import "strings"

// systemPrompt pins the model to the retrieved context; it must not answer
// from general knowledge.
const systemPrompt = "You are a study assistant embedded in a note editor. " +
	"Answer strictly from the supplied document context. " +
	"If the context does not contain the answer, say you cannot find it in the document."

// BuildPrompt combines the retrieved context and the user's question into a
// single prompt with explicit formatting directives, so the raw output maps
// cleanly onto the markup converter.
func BuildPrompt(query, contextText string) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the context below.\n\n")
	b.WriteString("Formatting requirements:\n")
	b.WriteString("- Use markdown headers (#, ##, ###) for sections.\n")
	b.WriteString("- Present procedures as numbered steps (1., 2., ...).\n")
	b.WriteString("- Include at least one worked example.\n")
	b.WriteString("- Present tabular data as pipe-delimited rows (| col | col |).\n\n")
	b.WriteString("Context:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)
	b.WriteString("\n")
	return b.String()
}
