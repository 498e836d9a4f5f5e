package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID generates a UUID with an optional prefix; prefixed IDs drop the dashes.
func GenerateUUID(prefix string) string {
	id := uuid.New()
	if prefix != "" {
		return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(id.String(), "-", ""))
	}
	return id.String()
}

// GeneratePlanID identifies one calculated grid plan returned by the API
func GeneratePlanID() string {
	return GenerateUUID("grid")
}

// GenerateRequestID generates an ID for request logging
func GenerateRequestID() string {
	return GenerateUUID("req")
}

// IsRequestID reports whether id looks like GenerateRequestID output.
func IsRequestID(id string) bool {
	raw, ok := strings.CutPrefix(id, "req_")
	if !ok || len(raw) != 32 {
		return false
	}
	_, err := uuid.Parse(raw)
	return err == nil
}
