package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/infographic/pkg/llm"
)

func TestNewEmbedderWithConfig(t *testing.T) {
	emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{Provider: "ollama"})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text:latest", emb.Config.Model)

	_, err = llm.NewEmbedderWithConfig(llm.EmbedderConfig{Provider: "openai"})
	assert.ErrorIs(t, err, llm.ErrDisabled)

	_, err = llm.NewEmbedderWithConfig(llm.EmbedderConfig{Provider: "autre"})
	assert.Error(t, err)
}

func TestEmbed(t *testing.T) {
	fake, srv := newFakeOpenAI(t, "")

	emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", emb.Config.Model)

	vector, err := emb.Embed(context.Background(), "Rapport annuel")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 1}, vector)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "text-embedding-3-small", fake.requests[0]["model"])
	assert.Equal(t, []any{"Rapport annuel"}, fake.requests[0]["input"])
}

func TestEmbeddingText(t *testing.T) {
	assert.Equal(t, "Titre\n\nRésumé.", llm.EmbeddingText("Titre", "Résumé."))
	assert.Equal(t, "Résumé.", llm.EmbeddingText("", "Résumé."))
}
