package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/dmoracle/oracle/models"
)

// The original SRD corpus does not label every chunk, so unlabeled passages
// get a generic provenance.
const defaultPassageSource = "D&D SRD"

// OllamaEmbedder produces embedding vectors through a local Ollama server.
// Both the searcher and the indexer embed text the same way so query and
// corpus vectors live in the same space.
type OllamaEmbedder struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewOllamaEmbedder(client *http.Client, baseURL, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		httpClient: client,
		baseURL:    baseURL,
		model:      model,
	}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(models.OllamaEmbedRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama embedding api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp models.OllamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", err)
	}
	return ollamaResp.Embedding, nil
}

// chromaSearcher implements CorpusSearcher against a ChromaDB collection of
// embedded rules chunks.
type chromaSearcher struct {
	collection chromago.Collection
	embedder   *OllamaEmbedder
	topK       int
}

func NewChromaSearcher(collection chromago.Collection, embedder *OllamaEmbedder, topK int) CorpusSearcher {
	if topK <= 0 {
		topK = 3
	}
	return &chromaSearcher{
		collection: collection,
		embedder:   embedder,
		topK:       topK,
	}
}

func (s *chromaSearcher) Search(ctx context.Context, question string) ([]models.Passage, error) {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	embedding := embeddings.NewEmbeddingFromFloat32(vector)

	results, err := s.collection.Query(
		ctx,
		chromago.WithQueryEmbeddings(embedding),
		chromago.WithNResults(s.topK),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var passages []models.Passage
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()

	if len(documentGroups) > 0 {
		for i, doc := range documentGroups[0] {
			if doc.ContentString() == "" {
				continue
			}
			source := defaultPassageSource
			if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
				if label := metadataSource(metadataGroups[0][i]); label != "" {
					source = label
				}
			}
			passages = append(passages, models.Passage{
				Content: doc.ContentString(),
				Source:  source,
			})
		}
	}
	return passages, nil
}

// metadataSource pulls the "source" attribute out of chroma document
// metadata. DocumentMetadata has no public accessor for arbitrary keys, so it
// goes through a JSON round-trip.
func metadataSource(metadata chromago.DocumentMetadata) string {
	if metadata == nil {
		return ""
	}
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	var metadataMap map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &metadataMap); err != nil {
		return ""
	}
	if source, ok := metadataMap["source"].(string); ok {
		return source
	}
	return ""
}
