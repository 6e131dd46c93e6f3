package dtos

import "strconv"

// ReadTimeText renders minutes as "5 min read".
func ReadTimeText(minutes int) string {
	return strconv.Itoa(minutes) + " min read"
}
