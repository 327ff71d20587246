package main

import (
	"context"
	"log"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"legal-research-be/internal/config"
	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/implementation"
	"legal-research-be/pkg/database"
	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/embedding/fastembed"
)

// Seeds a handful of legal documents so the pipeline has something to
// retrieve in a fresh environment. Requires the FastEmbed sidecar.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	provider := fastembed.NewProvider(cfg.Ai.FastEmbedBaseURL, "", "")
	repo := implementation.NewLegalDocumentRepository(db)
	ctx := context.Background()

	samples := []struct {
		documentId string
		content    string
		metadata   map[string]interface{}
	}{
		{
			documentId: "case-donoghue-v-stevenson-1932",
			content:    "Donoghue v Stevenson established the modern law of negligence, holding that a manufacturer owes a duty of care to the ultimate consumer of its products. Lord Atkin's neighbour principle requires reasonable care to avoid acts or omissions likely to injure persons closely and directly affected.",
			metadata: map[string]interface{}{
				"case_title": "Donoghue v Stevenson",
				"court":      "House of Lords",
				"year":       1932,
				"citation":   "[1932] AC 562",
			},
		},
		{
			documentId: "case-caparo-v-dickman-1990",
			content:    "Caparo Industries plc v Dickman set out the threefold test for a duty of care in negligence: foreseeability of damage, proximity between claimant and defendant, and whether imposing a duty is fair, just and reasonable.",
			metadata: map[string]interface{}{
				"case_title": "Caparo Industries plc v Dickman",
				"court":      "House of Lords",
				"year":       1990,
				"citation":   "[1990] 2 AC 605",
			},
		},
		{
			documentId: "legislation-occupiers-liability-act-1957",
			content:    "The Occupiers' Liability Act 1957 regulates the duty which an occupier of premises owes to lawful visitors in respect of dangers due to the state of the premises. The common duty of care is a duty to take such care as is reasonable to see that the visitor will be reasonably safe.",
			metadata: map[string]interface{}{
				"legislation_title": "Occupiers' Liability Act 1957",
				"year":              1957,
			},
		},
		{
			documentId: "article-negligence-elements-overview",
			content:    "A claim in negligence requires the claimant to establish four elements: a duty of care owed by the defendant, breach of that duty measured against the reasonable person standard, causation both factual and legal, and recoverable damage that is not too remote.",
			metadata: map[string]interface{}{
				"article_title": "The Elements of Negligence: An Overview",
				"year":          2019,
			},
		},
	}

	color.Cyan("Seeding %d legal documents...", len(samples))

	docs := make([]*entity.LegalDocument, 0, len(samples))
	for _, sample := range samples {
		existing, err := repo.FindByDocumentId(ctx, sample.documentId)
		if err != nil {
			log.Fatalf("Error: lookup failed for %s: %v", sample.documentId, err)
		}
		if existing != nil {
			color.Yellow("Skipping %s (already seeded)", sample.documentId)
			continue
		}

		dense, err := provider.Generate(sample.content, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Fatalf("Error: dense embedding failed for %s: %v", sample.documentId, err)
		}
		sparse, err := provider.GenerateSparse(sample.content)
		if err != nil {
			log.Fatalf("Error: sparse embedding failed for %s: %v", sample.documentId, err)
		}

		docs = append(docs, &entity.LegalDocument{
			Id:              uuid.New(),
			DocumentId:      sample.documentId,
			Content:         sample.content,
			Metadata:        sample.metadata,
			DenseEmbedding:  dense.Embedding.Values,
			SparseEmbedding: sparse,
		})
		color.Green("Embedded %s", sample.documentId)
	}

	if len(docs) > 0 {
		if err := repo.CreateBulk(ctx, docs); err != nil {
			log.Fatalf("Error: bulk insert failed: %v", err)
		}
	}

	color.Cyan("Done: %d documents inserted", len(docs))
}
