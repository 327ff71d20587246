package retrieve

import (
	"sort"

	"legal-research-be/pkg/store"
)

// FormatDocuments sorts documents by score descending and deduplicates by
// source key, keeping the highest-scored entry per logical source (ties
// broken first-seen). Idempotent: formatting its own output changes
// nothing.
func FormatDocuments(documents []store.Document) []store.Document {
	sorted := make([]store.Document, len(documents))
	copy(sorted, documents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	formatted := make([]store.Document, 0, len(sorted))
	seen := make(map[string]bool)

	for _, doc := range sorted {
		key := doc.SourceKey()
		if seen[key] {
			continue
		}
		seen[key] = true

		formatted = append(formatted, store.Document{
			Content: doc.Content,
			Score:   doc.Score,
			Meta:    extractMeta(doc),
		})
	}

	return formatted
}

// extractMeta keeps only the metadata downstream stages consume: the
// document id and the first available title field.
func extractMeta(doc store.Document) map[string]interface{} {
	meta := make(map[string]interface{})

	if v, ok := doc.Meta["document_id"].(string); ok && v != "" {
		meta["document_id"] = v
	} else if doc.ID != "" {
		meta["document_id"] = doc.ID
	}

	for _, field := range store.TitleFields {
		if v, ok := doc.Meta[field].(string); ok && v != "" {
			meta[field] = v
			break
		}
	}

	for _, extra := range []string{"court", "year", "citation"} {
		if v, ok := doc.Meta[extra]; ok {
			meta[extra] = v
		}
	}

	return meta
}
