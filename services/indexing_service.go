package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// CorpusIndexingService keeps the Chroma collection in sync with a directory
// of rules documents: markdown and text directly, PDF sourcebooks through the
// extractor. Each chunk carries a human-readable source label used later for
// answer provenance.
type CorpusIndexingService struct {
	collection chromago.Collection
	embedder   *OllamaEmbedder
	logger     *log.Logger
}

func NewCorpusIndexingService(collection chromago.Collection, embedder *OllamaEmbedder, logger *log.Logger) *CorpusIndexingService {
	return &CorpusIndexingService{
		collection: collection,
		embedder:   embedder,
		logger:     logger,
	}
}

type indexState struct {
	Hash string
}

// ScanAndIndexDirectory syncs the directory with the collection: new and
// changed files are re-embedded, deleted files are removed from the index.
func (s *CorpusIndexingService) ScanAndIndexDirectory(ctx context.Context, dirPath string) {
	s.logger.Info("starting corpus scan", "dir", dirPath)

	indexedFiles, err := s.currentIndexState(ctx)
	if err != nil {
		s.logger.Error("could not read current index state", "error", err)
		return
	}

	localFiles := make(map[string]bool)
	err = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSupportedFile(path) {
			return nil
		}
		localFiles[path] = true

		hash, err := hashFile(path)
		if err != nil {
			s.logger.Warn("could not hash file", "path", path, "error", err)
			return nil
		}
		if state, ok := indexedFiles[path]; ok {
			if state.Hash == hash {
				return nil
			}
			s.logger.Info("file changed, re-indexing", "path", path)
			if err := s.deleteDocumentsByFilepath(ctx, path); err != nil {
				s.logger.Error("failed to delete old chunks", "path", path, "error", err)
				return nil
			}
		}
		if err := s.processAndEmbedFile(ctx, path, hash); err != nil {
			s.logger.Error("failed to index file", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("error walking corpus directory", "dir", dirPath, "error", err)
	}

	for path := range indexedFiles {
		if !localFiles[path] {
			s.logger.Info("file removed, deleting from index", "path", path)
			if err := s.deleteDocumentsByFilepath(ctx, path); err != nil {
				s.logger.Error("failed to delete chunks", "path", path, "error", err)
			}
		}
	}
	s.logger.Info("corpus scan finished")
}

// WatchDirectory blocks, re-indexing files as they change, until ctx is done.
func (s *CorpusIndexingService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Error("failed to create file watcher", "error", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isSupportedFile(event.Name) {
					continue
				}
				// Editors often write via create-temp-and-rename, so Create
				// and Write are handled identically.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					hash, err := hashFile(event.Name)
					if err != nil {
						s.logger.Warn("could not hash file", "path", event.Name, "error", err)
						continue
					}
					if err := s.deleteDocumentsByFilepath(ctx, event.Name); err != nil {
						s.logger.Warn("failed to delete old chunks", "path", event.Name, "error", err)
					}
					if err := s.processAndEmbedFile(ctx, event.Name, hash); err != nil {
						s.logger.Error("failed to re-index file", "path", event.Name, "error", err)
					}
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					if err := s.deleteDocumentsByFilepath(ctx, event.Name); err != nil {
						s.logger.Error("failed to delete chunks", "path", event.Name, "error", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := watcher.Add(dirPath); err != nil {
		s.logger.Error("failed to watch directory", "dir", dirPath, "error", err)
		return
	}
	s.logger.Info("watching corpus directory", "dir", dirPath)

	<-ctx.Done()
}

func (s *CorpusIndexingService) processAndEmbedFile(ctx context.Context, path, hash string) error {
	content, err := ExtractTextFromFile(path)
	if err != nil {
		return err
	}

	splitter := textsplitter.NewRecursiveCharacter(textsplitter.WithChunkSize(1000), textsplitter.WithChunkOverlap(150))
	chunks, err := splitter.SplitText(content)
	if err != nil {
		return err
	}
	s.logger.Info("split file into chunks", "path", path, "chunks", len(chunks))

	source := sourceLabelFor(path)
	for i, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("could not embed chunk %d of %s: %w", i, path, err)
		}
		embedding := embeddings.NewEmbeddingFromFloat32(vector)
		metadata := chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("source", source),
			chromago.NewStringAttribute("source_file", path),
			chromago.NewStringAttribute("file_hash", hash),
			chromago.NewIntAttribute("chunk_num", int64(i)),
		)
		docID := chromago.DocumentID(fmt.Sprintf("%s-chunk%d", uuid.New().String(), i))
		err = s.collection.Add(ctx,
			chromago.WithIDs(docID),
			chromago.WithTexts(chunk),
			chromago.WithEmbeddings(embedding),
			chromago.WithMetadatas(metadata),
		)
		if err != nil {
			return fmt.Errorf("failed to add chunk %d of %s to chromadb: %w", i, path, err)
		}
	}
	return nil
}

func (s *CorpusIndexingService) currentIndexState(ctx context.Context) (map[string]indexState, error) {
	state := make(map[string]indexState)
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, err
	}
	for _, meta := range results.GetMetadatas() {
		if meta == nil {
			continue
		}
		jsonBytes, err := json.Marshal(meta)
		if err != nil {
			continue
		}
		var metaMap map[string]interface{}
		if err := json.Unmarshal(jsonBytes, &metaMap); err != nil {
			continue
		}
		path, ok := metaMap["source_file"].(string)
		if !ok {
			continue
		}
		if hash, ok := metaMap["file_hash"].(string); ok {
			if _, exists := state[path]; !exists {
				state[path] = indexState{Hash: hash}
			}
		}
	}
	return state, nil
}

func (s *CorpusIndexingService) deleteDocumentsByFilepath(ctx context.Context, path string) error {
	where := chromago.EqString("source_file", path)
	return s.collection.Delete(ctx, chromago.WithWhereDelete(where))
}

// sourceLabelFor turns "srd/players_handbook.md" into "Players Handbook" for
// provenance lists.
func sourceLabelFor(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")

	words := strings.Fields(base)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".pdf":
		return true
	default:
		return false
	}
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
