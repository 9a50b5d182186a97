package audit

import (
	"encoding/json"
	"strings"
)

// credentialKeys are field names that must never appear in a persisted
// snapshot, regardless of nesting depth. Matching is case-insensitive.
var credentialKeys = map[string]struct{}{
	"password":        {},
	"password_hash":   {},
	"passwordhash":    {},
	"senha":           {},
	"senha_hash":      {},
	"credential_hash": {},
}

// sanitizeSnapshot normalizes v to JSON with every credential-hash-shaped
// field removed. Returns nil for nil input or when v cannot be marshalled;
// snapshot loss is preferable to failing the audit write.
func sanitizeSnapshot(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}

	decoded = scrub(decoded)

	out, err := json.Marshal(decoded)
	if err != nil {
		return nil
	}
	return out
}

func scrub(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		for key, nested := range value {
			if _, blocked := credentialKeys[strings.ToLower(key)]; blocked {
				delete(value, key)
				continue
			}
			value[key] = scrub(nested)
		}
		return value
	case []interface{}:
		for i, item := range value {
			value[i] = scrub(item)
		}
		return value
	default:
		return v
	}
}
