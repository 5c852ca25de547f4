package schema

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewRuleID generates a new rule ID in format RGL-{nanoid(10)}.
func NewRuleID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RGL-%s", id), nil
}
