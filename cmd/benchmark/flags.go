package main

import (
	"fmt"
	"strconv"
	"strings"
)

// intList is a repeatable flag that also accepts comma separated values:
// -sizes 5,8,10 -sizes 20
type intList []int

func (l *intList) String() string {
	return fmt.Sprintf("%v", *l)
}

func (l *intList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", part, err)
		}
		if n < 1 {
			return fmt.Errorf("size %d must be positive", n)
		}
		*l = append(*l, n)
	}
	return nil
}
