package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateAPIKey returns a new admin API key using a stable dash_ prefix
// followed by the uppercase UUID without dashes. Keys issued during setup
// use the same format so rotations stay compatible.
func GenerateAPIKey() string {
	key := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "dash_" + key
}
