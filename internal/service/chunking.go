package service

import "github.com/gregverse/gregverse/internal/domain"

// ChunkConfig controls chunking for archive embeddings.
type ChunkConfig struct {
	MaxChars int
	Overlap  int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChars: 1000,
		Overlap:  200,
	}
}

// Validate rejects parameter pairs the splitter cannot make progress
// with. Overlap must be strictly less than MaxChars.
func (cfg ChunkConfig) Validate() error {
	if cfg.MaxChars <= 0 || cfg.Overlap < 0 || cfg.Overlap >= cfg.MaxChars {
		return domain.ErrInvalidChunkConfig
	}
	return nil
}

// SplitText splits text into overlapping fixed-size windows. Each
// chunk except the last is exactly MaxChars runes; consecutive chunks
// share exactly Overlap runes, so re-concatenating the chunks minus
// the overlaps reconstructs the input verbatim. Deterministic: no
// trimming, no boundary adjustment.
func SplitText(text string, cfg ChunkConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	if len(runes) <= cfg.MaxChars {
		return []string{text}, nil
	}

	stride := cfg.MaxChars - cfg.Overlap
	chunks := make([]string, 0, (len(runes)+stride-1)/stride)
	for start := 0; start < len(runes); start += stride {
		end := start + cfg.MaxChars
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks, nil
}
