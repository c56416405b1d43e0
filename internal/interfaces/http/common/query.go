package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOptionalBool は空文字なら nil を返す。"1"/"0"/"true"/"false" などを受け付ける。
func ParseOptionalBool(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", value)
	}
	return &parsed, nil
}

// ParseFlag parses a boolean form/query value, treating empty or invalid input as false.
func ParseFlag(value string) bool {
	parsed, err := ParseOptionalBool(value)
	if err != nil || parsed == nil {
		return false
	}
	return *parsed
}
