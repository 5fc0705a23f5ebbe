package instance

import (
	"os"
	"strings"
)

// GetID returns the process identifier used in logs: DYNO on Heroku style
// hosts, then PRODEEL_INSTANCE_ID, then "local".
func GetID() string {
	for _, key := range []string{"DYNO", "PRODEEL_INSTANCE_ID"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	return "local"
}
