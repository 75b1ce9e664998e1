package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Variant identifies which top-level key wraps the credential object.
type Variant string

const (
	VariantClaudeAiOauth Variant = "claudeAiOauth"
	VariantOauthAccount  Variant = "oauthAccount"
)

// variantPriority is the fixed probe order. claudeAiOauth wins when both
// keys are present.
var variantPriority = []Variant{VariantClaudeAiOauth, VariantOauthAccount}

var (
	// ErrMalformed indicates the stored document is not valid JSON.
	ErrMalformed = errors.New("credential document is not valid JSON")

	// ErrNoOAuthSection indicates neither known wrapper key exists.
	ErrNoOAuthSection = errors.New("no claudeAiOauth or oauthAccount section in credential document")

	// ErrMissingRefreshToken indicates a refresh cannot be attempted at all.
	// The corrective action is logging in again, not retrying.
	ErrMissingRefreshToken = errors.New("stored credentials have no refresh token")
)

// Document is one parsed credential document. The full JSON tree is kept as
// raw messages so keys outside the credential section survive a rewrite
// without loss.
type Document struct {
	Variant Variant
	Record  Record

	original []byte
	top      map[string]json.RawMessage
	section  map[string]json.RawMessage
}

// Decode parses data into a Document, normalizing whichever schema variant
// is present.
func Decode(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var variant Variant
	var sectionRaw json.RawMessage
	for _, v := range variantPriority {
		if raw, ok := top[string(v)]; ok {
			variant = v
			sectionRaw = raw
			break
		}
	}
	if variant == "" {
		return nil, ErrNoOAuthSection
	}

	var section map[string]json.RawMessage
	if err := json.Unmarshal(sectionRaw, &section); err != nil {
		return nil, fmt.Errorf("%w: %s section: %v", ErrMalformed, variant, err)
	}

	rec, err := decodeRecord(section, variant)
	if err != nil {
		return nil, err
	}

	original := make([]byte, len(data))
	copy(original, data)

	return &Document{
		Variant:  variant,
		Record:   rec,
		original: original,
		top:      top,
		section:  section,
	}, nil
}

func decodeRecord(section map[string]json.RawMessage, variant Variant) (Record, error) {
	var rec Record
	fields := []struct {
		key string
		dst any
	}{
		{"accessToken", &rec.AccessToken},
		{"refreshToken", &rec.RefreshToken},
		{"expiresAt", &rec.ExpiresAt},
		{"scopes", &rec.Scopes},
	}
	for _, f := range fields {
		raw, ok := section[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return Record{}, fmt.Errorf("%w: %s.%s: %v", ErrMalformed, variant, f.key, err)
		}
	}
	if rec.RefreshToken == "" {
		return Record{}, ErrMissingRefreshToken
	}
	return rec, nil
}

// Apply replaces the credential fields inside the matched section with rec.
// Scopes are only written when rec carries them, so an exchange that returns
// no scope leaves the stored ones alone. All sibling keys, inside and
// outside the section, are untouched.
func (d *Document) Apply(rec Record) error {
	set := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s.%s: %w", d.Variant, key, err)
		}
		d.section[key] = raw
		return nil
	}

	if err := set("accessToken", rec.AccessToken); err != nil {
		return err
	}
	if err := set("refreshToken", rec.RefreshToken); err != nil {
		return err
	}
	if err := set("expiresAt", rec.ExpiresAt); err != nil {
		return err
	}
	if rec.Scopes != nil {
		if err := set("scopes", rec.Scopes); err != nil {
			return err
		}
	} else {
		rec.Scopes = d.Record.Scopes
	}

	sectionRaw, err := json.Marshal(d.section)
	if err != nil {
		return fmt.Errorf("encoding %s section: %w", d.Variant, err)
	}
	d.top[string(d.Variant)] = sectionRaw
	d.Record = rec
	return nil
}

// Encode serializes the document's current state.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d.top, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Original returns the bytes the document was decoded from, for backups.
func (d *Document) Original() []byte {
	return d.original
}
