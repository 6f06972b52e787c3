package domain

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID means a value could not be normalized to an ObjectID.
var ErrInvalidID = errors.New("invalid object id")

var hexIDPattern = regexp.MustCompile(`[0-9a-fA-F]{24}`)

// NormalizeID flattens the identifier shapes callers are known to send:
// raw hex strings, {"_id": ...} and {"$oid": ...} wrapper objects, and
// JSON-encoded wrapper objects. Unknown shapes fall back to the first
// embedded 24-character hex token, then to the trimmed raw string.
func NormalizeID(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return val.Hex()
	case map[string]any:
		if id, ok := val["_id"]; ok {
			return NormalizeID(id)
		}
		if id, ok := val["$oid"]; ok {
			return NormalizeID(id)
		}
		return ""
	case json.RawMessage:
		return normalizeIDString(string(val))
	case string:
		return normalizeIDString(val)
	default:
		return ""
	}
}

func normalizeIDString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		var wrapper map[string]any
		if err := json.Unmarshal([]byte(s), &wrapper); err == nil {
			if id, ok := wrapper["$oid"]; ok {
				return normalizeIDValue(id)
			}
			if id, ok := wrapper["_id"]; ok {
				return normalizeIDValue(id)
			}
		}
		// fall through: malformed JSON may still carry a hex token
	}

	if m := hexIDPattern.FindString(s); m != "" {
		return m
	}
	return s
}

func normalizeIDValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// ParseID normalizes v and parses the result as an ObjectID.
func ParseID(v any) (primitive.ObjectID, error) {
	s := NormalizeID(v)
	if s == "" {
		return primitive.NilObjectID, ErrInvalidID
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
