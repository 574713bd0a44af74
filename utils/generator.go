package utils

import (
	"strings"

	"github.com/google/uuid"
)

const orderReferenceLength = 12

// GenerateOrderReference returns a gateway-facing order id such as "PB-MAT-7C2F09D1A4BE".
// The suffix comes from a random UUID, so it is safe to call from concurrent requests.
func GenerateOrderReference(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:orderReferenceLength]
	if prefix == "" {
		return "PB-" + suffix
	}
	return "PB-" + prefix + "-" + suffix
}
