package client

import (
	"fmt"
	"os"
	"os/user"
)

// DetectReporter returns "username@hostname" of the current process.
func DetectReporter() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return currentUser.Username + "@" + hostname, nil
}
