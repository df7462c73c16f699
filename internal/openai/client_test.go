package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingAPI is a mock implementation of EmbeddingAPI
type MockEmbeddingAPI struct {
	mock.Mock
}

func (m *MockEmbeddingAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockCompletionAPI is a mock implementation of CompletionAPI
type MockCompletionAPI struct {
	mock.Mock
}

func (m *MockCompletionAPI) CreateCompletion(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func newMockedClient(embeddings EmbeddingAPI, completions CompletionAPI, dimensions int) *Client {
	return &Client{
		embeddings:  embeddings,
		completions: completions,
		dimensions:  dimensions,
	}
}

func TestGenerateEmbedding_Success(t *testing.T) {
	api := new(MockEmbeddingAPI)
	vector := make([]float32, DefaultEmbeddingDimensions)
	api.On("CreateEmbeddings", mock.Anything, "some text").Return(vector, nil)

	client := newMockedClient(api, nil, DefaultEmbeddingDimensions)
	embedding, err := client.GenerateEmbedding(context.Background(), "some text")

	require.NoError(t, err)
	assert.Len(t, embedding, DefaultEmbeddingDimensions)
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	api := new(MockEmbeddingAPI)

	client := newMockedClient(api, nil, DefaultEmbeddingDimensions)
	_, err := client.GenerateEmbedding(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
	api.AssertNotCalled(t, "CreateEmbeddings", mock.Anything, mock.Anything)
}

func TestGenerateEmbedding_WrongDimensions(t *testing.T) {
	api := new(MockEmbeddingAPI)
	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return([]float32{0.1, 0.2, 0.3}, nil)

	client := newMockedClient(api, nil, DefaultEmbeddingDimensions)
	_, err := client.GenerateEmbedding(context.Background(), "text")

	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestGenerateEmbedding_APIError(t *testing.T) {
	api := new(MockEmbeddingAPI)
	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	client := newMockedClient(api, nil, DefaultEmbeddingDimensions)
	_, err := client.GenerateEmbedding(context.Background(), "text")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create embedding")
}

func TestGenerateEmbedding_CustomDimensions(t *testing.T) {
	api := new(MockEmbeddingAPI)
	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(make([]float32, 256), nil)

	client := newMockedClient(api, nil, 256)
	embedding, err := client.GenerateEmbedding(context.Background(), "text")

	require.NoError(t, err)
	assert.Len(t, embedding, 256)
}

func TestComplete_Success(t *testing.T) {
	api := new(MockCompletionAPI)
	api.On("CreateCompletion", mock.Anything, "a prompt").Return("an answer", nil)

	client := newMockedClient(nil, api, DefaultEmbeddingDimensions)
	answer, err := client.Complete(context.Background(), "a prompt")

	require.NoError(t, err)
	assert.Equal(t, "an answer", answer)
}

func TestComplete_EmptyPrompt(t *testing.T) {
	api := new(MockCompletionAPI)

	client := newMockedClient(nil, api, DefaultEmbeddingDimensions)
	_, err := client.Complete(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyPrompt)
	api.AssertNotCalled(t, "CreateCompletion", mock.Anything, mock.Anything)
}

func TestComplete_APIError(t *testing.T) {
	api := new(MockCompletionAPI)
	api.On("CreateCompletion", mock.Anything, mock.Anything).Return("", errors.New("server error"))

	client := newMockedClient(nil, api, DefaultEmbeddingDimensions)
	_, err := client.Complete(context.Background(), "prompt")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create completion")
}
