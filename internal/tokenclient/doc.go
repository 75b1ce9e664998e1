// Package tokenclient performs the OAuth2 refresh-token grant against
// Anthropic's authorization server.
//
// Anthropic's token endpoint deviates from standard OAuth2: the exchange
// takes a JSON-encoded request body instead of form encoding. The client
// posts {grant_type, refresh_token, client_id} as JSON and maps every
// outcome to either a Token or a typed *Error.
//
// Nothing in this package retries. A failed exchange surfaces immediately
// so the operator can re-authenticate instead of hammering the endpoint.
package tokenclient
