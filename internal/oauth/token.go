package oauth

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenSet is the flat key-value bundle returned by the token endpoint
// (access_token, refresh_token, id_token, expires_in, ...).
type TokenSet map[string]any

// String returns the named value when it is a string, otherwise "".
func (t TokenSet) String(key string) string {
	value, ok := t[key].(string)
	if !ok {
		return ""
	}
	return value
}

// Indent renders the token set as indented JSON for display.
func (t TokenSet) Indent() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}
