package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Small CLI for exercising the research API from a terminal:
//
//	go run ./cmd/ask "What are the elements of negligence?"
func main() {
	if len(os.Args) < 2 {
		color.Red("Usage: ask <question>")
		os.Exit(1)
	}
	question := strings.Join(os.Args[1:], " ")

	baseURL := os.Getenv("ASK_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}

	color.Cyan("Asking: %s\n", question)

	payload, _ := json.Marshal(map[string]string{"question": question})
	resp, err := http.Post(baseURL+"/research/v1/ask", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		color.Red("Request failed: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		color.Red("Failed to read response: %v", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		color.Red("Status: %s", resp.Status)
		fmt.Println(string(body))
		os.Exit(1)
	}

	var envelope struct {
		Data struct {
			Answer       string `json:"answer"`
			SubQuestions struct {
				Questions []struct {
					Question string  `json:"question"`
					Answer   *string `json:"answer"`
				} `json:"questions"`
			} `json:"sub_questions"`
			DocumentMetadata []struct {
				DocumentId       string `json:"document_id"`
				CaseTitle        string `json:"case_title"`
				ArticleTitle     string `json:"article_title"`
				LegislationTitle string `json:"legislation_title"`
			} `json:"document_metadata"`
			ProcessingTime float64 `json:"processing_time"`
			CacheHit       bool    `json:"cache_hit"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		color.Red("Failed to decode response: %v", err)
		fmt.Println(string(body))
		os.Exit(1)
	}
	data := envelope.Data

	color.Yellow("\nSub-questions (%d):", len(data.SubQuestions.Questions))
	for i, q := range data.SubQuestions.Questions {
		fmt.Printf("  %d. %s\n", i+1, q.Question)
		if q.Answer != nil {
			fmt.Printf("     -> %s\n", *q.Answer)
		}
	}

	color.Yellow("\nSources (%d):", len(data.DocumentMetadata))
	for _, doc := range data.DocumentMetadata {
		title := doc.CaseTitle
		if title == "" {
			title = doc.ArticleTitle
		}
		if title == "" {
			title = doc.LegislationTitle
		}
		fmt.Printf("  - %s (%s)\n", title, doc.DocumentId)
	}

	color.Green("\nAnswer:")
	fmt.Println(data.Answer)

	if data.CacheHit {
		color.Cyan("\n(cached result)")
	} else {
		color.Cyan("\n(processed in %.2fs)", data.ProcessingTime)
	}
}
