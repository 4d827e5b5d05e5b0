package embedding

import "context"

// MockClient returns a deterministic embedding derived from the text,
// so equal inputs embed equally in tests.
type MockClient struct {
	EmbedError error

	EmbedCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedError != nil {
		return nil, c.EmbedError
	}
	vec := make([]float32, Dimensions)
	for i, r := range text {
		vec[i%Dimensions] += float32(r%13) / 13
	}
	return vec, nil
}
