// Package verify confirms an access token is actually accepted by the
// Anthropic API, beyond what the locally stored expiry claims.
package verify

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AccessToken calls a cheap authenticated endpoint with the given bearer
// token. A nil return means the API accepted it; any error means the
// operator should re-authenticate.
func AccessToken(ctx context.Context, token string, opts ...option.RequestOption) error {
	if token == "" {
		return fmt.Errorf("no access token to verify")
	}

	opts = append([]option.RequestOption{option.WithAuthToken(token)}, opts...)
	client := anthropic.NewClient(opts...)

	_, err := client.Models.List(ctx, anthropic.ModelListParams{Limit: anthropic.Int(1)})
	if err != nil {
		return fmt.Errorf("access token rejected: %w", err)
	}
	return nil
}
