package services

import (
	"context"
	"fmt"
	"log"
)

// ResumeIndexService chunks resume text, embeds each chunk and stores the
// vectors so resumes stay searchable after extraction.
type ResumeIndexService interface {
	IndexResume(ctx context.Context, applicationID string, resumeText string) error
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type resumeIndexService struct {
	llm         LLMService
	chunker     TextChunker
	vectorStore VectorStoreService
	chunkSize   int
	overlap     int
}

func NewResumeIndexService(llm LLMService, chunker TextChunker, vectorStore VectorStoreService) ResumeIndexService {
	return &resumeIndexService{
		llm:         llm,
		chunker:     chunker,
		vectorStore: vectorStore,
		chunkSize:   1000,
		overlap:     100,
	}
}

// IndexResume implements ResumeIndexService.
func (s *resumeIndexService) IndexResume(ctx context.Context, applicationID string, resumeText string) error {
	chunks := s.chunker.ChunkText(resumeText, s.chunkSize, s.overlap)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks produced from resume text")
	}

	// Old chunks for the same application are replaced, not accumulated.
	if err := s.vectorStore.DeleteResume(ctx, applicationID); err != nil {
		log.Printf("⚠️  Failed to clear previous chunks for %s: %v\n", applicationID, err)
	}

	for i, chunk := range chunks {
		embedding, err := s.llm.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		if err := s.vectorStore.UpsertResumeChunk(ctx, applicationID, i, chunk, embedding); err != nil {
			return fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
	}

	log.Printf("✅ Indexed %d resume chunks for application %s\n", len(chunks), applicationID)
	return nil
}

// Search implements ResumeIndexService.
func (s *resumeIndexService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	embedding, err := s.llm.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.vectorStore.SearchSimilar(ctx, embedding, "", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search resumes: %w", err)
	}

	return results, nil
}
