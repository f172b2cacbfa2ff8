package instance

import (
	"fmt"
	"os"
	"strings"
)

// ID returns the configured instance identifier, or host and pid when none is set.
// Relay events carry it so an instance can skip its own announcements.
func ID(configured string) string {
	if id := strings.TrimSpace(configured); id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "drinkshop"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
