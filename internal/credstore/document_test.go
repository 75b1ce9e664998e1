package credstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const credentialsVariant = `{
  "claudeAiOauth": {
    "accessToken": "sk-ant-oat01-x",
    "refreshToken": "sk-ant-ort01-x",
    "expiresAt": 1700000000000,
    "scopes": ["user:inference", "user:profile"],
    "subscriptionType": "max"
  }
}`

const accountVariant = `{
  "oauthAccount": {
    "accessToken": "sk-ant-oat01-x",
    "refreshToken": "sk-ant-ort01-x",
    "expiresAt": 1700000000000,
    "accountUuid": "001"
  },
  "numStartups": 42,
  "theme": "dark"
}`

func TestDecode_ClaudeAiOauthVariant(t *testing.T) {
	doc, err := Decode([]byte(credentialsVariant))
	require.NoError(t, err)

	assert.Equal(t, VariantClaudeAiOauth, doc.Variant)
	assert.Equal(t, "sk-ant-oat01-x", doc.Record.AccessToken)
	assert.Equal(t, "sk-ant-ort01-x", doc.Record.RefreshToken)
	assert.Equal(t, int64(1700000000000), doc.Record.ExpiresAt)
	assert.Equal(t, []string{"user:inference", "user:profile"}, doc.Record.Scopes)
}

func TestDecode_OauthAccountVariant(t *testing.T) {
	doc, err := Decode([]byte(accountVariant))
	require.NoError(t, err)

	assert.Equal(t, VariantOauthAccount, doc.Variant)
	assert.Equal(t, "sk-ant-ort01-x", doc.Record.RefreshToken)
	assert.Nil(t, doc.Record.Scopes)
}

func TestDecode_PrefersClaudeAiOauthWhenBothPresent(t *testing.T) {
	both := `{
		"oauthAccount": {"accessToken": "a", "refreshToken": "account-rt", "expiresAt": 1},
		"claudeAiOauth": {"accessToken": "b", "refreshToken": "oauth-rt", "expiresAt": 2}
	}`
	doc, err := Decode([]byte(both))
	require.NoError(t, err)

	assert.Equal(t, VariantClaudeAiOauth, doc.Variant)
	assert.Equal(t, "oauth-rt", doc.Record.RefreshToken)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_NoOAuthSection(t *testing.T) {
	_, err := Decode([]byte(`{"theme": "dark"}`))
	assert.ErrorIs(t, err, ErrNoOAuthSection)
}

func TestDecode_MissingRefreshToken(t *testing.T) {
	for name, payload := range map[string]string{
		"absent": `{"claudeAiOauth": {"accessToken": "a", "expiresAt": 1}}`,
		"empty":  `{"claudeAiOauth": {"accessToken": "a", "refreshToken": "", "expiresAt": 1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			assert.ErrorIs(t, err, ErrMissingRefreshToken)
		})
	}
}

func TestApply_ReplacesOnlyCredentialFields(t *testing.T) {
	doc, err := Decode([]byte(accountVariant))
	require.NoError(t, err)

	err = doc.Apply(Record{
		AccessToken:  "new-at",
		RefreshToken: "new-rt",
		ExpiresAt:    1800000000000,
	})
	require.NoError(t, err)

	data, err := doc.Encode()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	// Top-level siblings survive.
	assert.Equal(t, float64(42), got["numStartups"])
	assert.Equal(t, "dark", got["theme"])

	section := got["oauthAccount"].(map[string]any)
	assert.Equal(t, "new-at", section["accessToken"])
	assert.Equal(t, "new-rt", section["refreshToken"])
	assert.Equal(t, float64(1800000000000), section["expiresAt"])
	// Sibling inside the section survives too.
	assert.Equal(t, "001", section["accountUuid"])
}

func TestApply_ScopesOnlyWrittenWhenReturned(t *testing.T) {
	doc, err := Decode([]byte(credentialsVariant))
	require.NoError(t, err)

	err = doc.Apply(Record{AccessToken: "a", RefreshToken: "r", ExpiresAt: 1})
	require.NoError(t, err)

	// Stored scopes stay when the exchange returned none.
	assert.Equal(t, []string{"user:inference", "user:profile"}, doc.Record.Scopes)

	data, err := doc.Encode()
	require.NoError(t, err)
	reparsed, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"user:inference", "user:profile"}, reparsed.Record.Scopes)

	// And are replaced when it did.
	err = doc.Apply(Record{AccessToken: "a", RefreshToken: "r", ExpiresAt: 1, Scopes: []string{"user:inference"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"user:inference"}, doc.Record.Scopes)
}

func TestRoundTrip_UnchangedRecordPreservesDocument(t *testing.T) {
	doc, err := Decode([]byte(accountVariant))
	require.NoError(t, err)

	require.NoError(t, doc.Apply(doc.Record))

	data, err := doc.Encode()
	require.NoError(t, err)

	var before, after map[string]any
	require.NoError(t, json.Unmarshal([]byte(accountVariant), &before))
	require.NoError(t, json.Unmarshal(data, &after))
	assert.Equal(t, before, after)
}

func TestOriginal_ReturnsDecodedBytes(t *testing.T) {
	doc, err := Decode([]byte(credentialsVariant))
	require.NoError(t, err)

	require.NoError(t, doc.Apply(Record{AccessToken: "a", RefreshToken: "r", ExpiresAt: 1}))
	assert.Equal(t, []byte(credentialsVariant), doc.Original())
}
