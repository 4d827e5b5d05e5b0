package llm

import "context"

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what Generate returns.
type MockClient struct {
	GenerateResponse string
	GenerateError    error

	// Call tracking for assertions
	GenerateCalls []struct{ System, Prompt string }
}

func NewMockClient() *MockClient {
	return &MockClient{
		GenerateResponse: "Claim: mock debate response",
	}
}

func (c *MockClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	c.GenerateCalls = append(c.GenerateCalls, struct{ System, Prompt string }{system, prompt})
	if c.GenerateError != nil {
		return "", c.GenerateError
	}
	return c.GenerateResponse, nil
}
