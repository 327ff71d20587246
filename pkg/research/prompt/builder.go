package prompt

import (
	"fmt"
	"strings"

	"legal-research-be/pkg/store"
)

// Builders for the three generation prompts of the research pipeline:
// decomposition, per-sub-question answering and final reasoning. All three
// insist the model stays inside the provided material; the answering and
// reasoning prompts tell it to decline rather than invent.

// Decomposition builds the prompt that splits a legal question into
// independently answerable sub-questions. The model must NOT answer yet.
func Decomposition(question string) string {
	var b strings.Builder

	b.WriteString("You are a legal research assistant that breaks complex legal queries into simpler questions answerable independently.\n\n")
	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString("- Break the main question into logical sub-questions that collectively address the original query\n")
	b.WriteString("- Do NOT attempt to answer any question yet - only decompose the query\n")
	b.WriteString("- Structure questions to encourage retrieval of specific legal information, citations and case references\n")
	b.WriteString("- Always be jurisdiction-aware, particularly for Nigerian jurisprudence questions\n\n")

	b.WriteString("Consider decomposing into:\n")
	b.WriteString("1. Statutory analysis questions (relevant statutes/codes/acts)\n")
	b.WriteString("2. Case law questions (relevant precedents)\n")
	b.WriteString("3. Jurisdictional questions (federal vs. state)\n")
	b.WriteString("4. Element analysis questions (required elements of a legal concept)\n")
	b.WriteString("5. Timeline/procedural questions (stages of proceedings)\n")
	b.WriteString("6. Citation-specific questions (specific legal references)\n\n")

	b.WriteString("Example:\n")
	b.WriteString("Query: What constitutes insider trading under Nigerian securities law and what are the penalties?\n")
	b.WriteString("Sub-questions:\n")
	b.WriteString("- How is insider trading defined under the Investment and Securities Act in Nigeria?\n")
	b.WriteString("- What specific provisions in Nigerian securities law govern insider trading?\n")
	b.WriteString("- What are the criminal penalties for insider trading?\n")
	b.WriteString("- What regulatory bodies in Nigeria enforce insider trading laws?\n")
	b.WriteString("- Are there landmark Nigerian cases on insider trading that establish precedent?\n\n")

	b.WriteString("Query: ")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String()
}

// Answering builds the prompt that resolves each sub-question strictly
// from its retrieved documents.
func Answering(originalQuestion string, pairs []store.QuestionContext) string {
	var b strings.Builder

	b.WriteString("You are a legal research assistant answering specific legal questions STRICTLY from the provided documents.\n\n")
	b.WriteString("Original legal query: ")
	b.WriteString(originalQuestion)
	b.WriteString("\n\n")

	b.WriteString("STRICT GUIDELINES - YOU MUST FOLLOW THESE:\n")
	b.WriteString("1. ONLY answer using information explicitly found in the provided context documents\n")
	b.WriteString("2. If the documents do not contain sufficient information, explicitly state: \"Based on the provided documents, I cannot answer this question adequately.\"\n")
	b.WriteString("3. DO NOT use any legal knowledge beyond what is in the documents\n")
	b.WriteString("4. Include EXACT citations, case references and legal provisions AS THEY APPEAR in the documents\n")
	b.WriteString("5. Quote directly from the documents where possible, with attribution\n")
	b.WriteString("6. Always indicate which document supports each statement, by its title\n\n")

	b.WriteString("Sub-questions and their legal context:\n\n")
	for _, pair := range pairs {
		b.WriteString("Question: ")
		b.WriteString(pair.Question)
		b.WriteString("\nLegal Context:\n")
		if len(pair.Documents) == 0 {
			b.WriteString("  (no documents retrieved)\n")
		}
		for _, doc := range pair.Documents {
			b.WriteString("  ")
			b.WriteString(documentHeader(doc))
			b.WriteString("\n  ")
			b.WriteString(doc.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Answer each sub-question using ONLY its legal context. State explicitly when documents are insufficient.\n")

	return b.String()
}

// Reasoning builds the final synthesis prompt over the resolved
// sub-questions. The analysis must introduce no fact absent from the
// sub-answers.
func Reasoning(originalQuestion string, resolved store.QuestionSet) string {
	var b strings.Builder

	b.WriteString("You are an expert legal analyst synthesizing research to answer a complex legal query. Use ONLY the information in the sub-question answers below.\n\n")
	b.WriteString("Original query: ")
	b.WriteString(originalQuestion)
	b.WriteString("\n\n")

	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	b.WriteString("1. DO NOT introduce legal information, cases or principles not explicitly mentioned in the sub-answers\n")
	b.WriteString("2. If the sub-answers indicate insufficient information, acknowledge the limitation\n")
	b.WriteString("3. Present conflicting interpretations fairly\n")
	b.WriteString("4. Maintain ALL citations, statute references and legal authorities exactly as they appear\n")
	b.WriteString("5. Never fill gaps with general legal knowledge\n\n")

	b.WriteString("Researched sub-questions:\n")
	for i, q := range resolved.Questions {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Text))
		if q.Answer != nil && *q.Answer != "" {
			b.WriteString("   Answer: ")
			b.WriteString(*q.Answer)
			b.WriteString("\n")
		} else {
			b.WriteString("   Answer: (not resolved from the documents)\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("Structure your analysis with these sections:\n")
	b.WriteString("- Introduction: restate the question and which aspects could be addressed\n")
	b.WriteString("- Legal Framework: summarize the relevant laws, statutes and cases from the sub-answers\n")
	b.WriteString("- Analysis: apply the framework to the question, using only the sub-answers\n")
	b.WriteString("- Conclusion: a clear, document-based answer to the original question\n\n")

	b.WriteString("Final Analysis:")

	return b.String()
}

func documentHeader(doc store.Document) string {
	for _, field := range store.TitleFields {
		if v, ok := doc.Meta[field].(string); ok && v != "" {
			switch field {
			case "case_title":
				return "[Case: " + v + "]"
			case "article_title":
				return "[Article: " + v + "]"
			default:
				return "[Legislation: " + v + "]"
			}
		}
	}
	if id, ok := doc.Meta["document_id"].(string); ok && id != "" {
		return "[Document ID: " + id + "]"
	}
	return "[Untitled Document]"
}
