package llm

import (
	"context"
	"time"
)

// WithTimeout bounds every Generate call of c by d. A non-positive d returns c unchanged.
func WithTimeout(c Client, d time.Duration) Client {
	if d <= 0 {
		return c
	}
	return &timeoutClient{Client: c, timeout: d}
}

type timeoutClient struct {
	Client
	timeout time.Duration
}

func (t *timeoutClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Client.Generate(ctx, prompt)
}
