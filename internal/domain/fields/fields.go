package fields

import (
	"fmt"
	"strconv"
)

// Runtime is a duration in minutes rendered as "N mins" in JSON.
type Runtime int32

func (r Runtime) MarshalJSON() ([]byte, error) {
	if r == 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(fmt.Sprintf("%d mins", r))), nil
}

// ContentType distinguishes single features from episodic content.
type ContentType string

const (
	Movie  ContentType = "movie"
	Series ContentType = "series"
)

func (t ContentType) Valid() bool {
	return t == Movie || t == Series
}
