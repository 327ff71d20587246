package store

// Question is a single research question, optionally answered.
// Created by the decomposer (or the validator fallback), answered by the
// resolver, read-only afterwards.
type Question struct {
	Text   string  `json:"question"`
	Answer *string `json:"answer"`
}

// QuestionSet is an ordered collection of questions. Order matters: index i
// pairs positionally with the i-th dense embedding, sparse embedding and
// question-context pair throughout the pipeline.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// Len is a convenience for the common length check.
func (qs QuestionSet) Len() int {
	return len(qs.Questions)
}

// Document represents a retrieved legal document passed between retrieval
// and resolution. Metadata conventionally carries document_id, one of the
// title fields, court, year and citation.
type Document struct {
	ID      string                 `json:"id,omitempty"`
	Content string                 `json:"content"`
	Score   float64                `json:"score,omitempty"`
	Meta    map[string]interface{} `json:"metadata"`
}

// TitleFields lists the metadata keys that can carry a document title, in
// lookup order. Only the first present field counts.
var TitleFields = []string{"case_title", "article_title", "legislation_title"}

// SourceKey derives the deduplication identity for a document:
// "titleField:titleValue" when a title field is present, else document_id,
// else the store-level id.
func (d Document) SourceKey() string {
	for _, field := range TitleFields {
		if v, ok := d.Meta[field]; ok {
			if s, ok := v.(string); ok && s != "" {
				return field + ":" + s
			}
		}
	}
	if v, ok := d.Meta["document_id"]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if d.ID != "" {
		return d.ID
	}
	return "unknown"
}

// QuestionContext bridges retrieval and resolution: one sub-question with
// its ranked supporting documents.
type QuestionContext struct {
	Question  string     `json:"question"`
	Documents []Document `json:"documents"`
}

// DocumentMeta is the flattened per-document summary surfaced to callers.
// Score here is a display-only ordinal hint (1.0 - 0.1*position), NOT the
// reranker's relevance score.
type DocumentMeta struct {
	ID               string  `json:"id"`
	Score            float64 `json:"score"`
	DocumentID       string  `json:"document_id"`
	CaseTitle        string  `json:"case_title,omitempty"`
	ArticleTitle     string  `json:"article_title,omitempty"`
	LegislationTitle string  `json:"legislation_title,omitempty"`
}

// PipelineResult is the unit of work the pipeline produces and the cache
// stores. SubQuestions must always be re-materializable as a QuestionSet
// whatever shape it took on the wire (see CoerceQuestionSet).
type PipelineResult struct {
	Answer           string         `json:"answer"`
	SubQuestions     QuestionSet    `json:"sub_questions"`
	DocumentMetadata []DocumentMeta `json:"document_metadata"`
	ProcessingTime   float64        `json:"processing_time"`
	CacheHit         bool           `json:"cache_hit"`
	Error            string         `json:"error,omitempty"`
}

// SparseEmbedding is a lexical (sparse) query vector: parallel index/value
// slices, the usual wire format of BM42-style embedders.
type SparseEmbedding struct {
	Indices []int32   `json:"indices"`
	Values  []float32 `json:"values"`
}
