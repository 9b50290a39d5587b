// Package mention parses Discord user mentions used as command arguments.
package mention

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedMention is returned when an argument is not a <@ID> mention
var ErrMalformedMention = errors.New("malformed mention")

const marker = "<@"

// UserID is a Discord user snowflake
type UserID uint64

// String returns the decimal form discordgo uses for IDs
func (id UserID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Mention renders the ID back into <@ID> form
func (id UserID) Mention() string {
	return marker + id.String() + ">"
}

// ParseMention extracts the user ID from a raw "<@123>" argument.
// Surrounding whitespace is ignored; anything else (a missing marker, a
// missing closing '>', trailing text, or a body that is not an unsigned
// decimal integer) yields ErrMalformedMention.
func ParseMention(raw string) (UserID, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, marker) {
		return 0, ErrMalformedMention
	}

	body := raw[len(marker):]
	end := strings.IndexByte(body, '>')
	if end < 0 || end != len(body)-1 {
		return 0, ErrMalformedMention
	}
	id, err := strconv.ParseUint(body[:end], 10, 64)
	if err != nil {
		return 0, ErrMalformedMention
	}
	return UserID(id), nil
}

// Find returns every well-formed user mention embedded in text, in order.
// Role (<@&id>) and channel (<#id>) mentions are skipped.
func Find(text string) []UserID {
	var ids []UserID
	for {
		start := strings.Index(text, marker)
		if start < 0 {
			return ids
		}
		text = text[start:]
		end := strings.IndexByte(text, '>')
		if end < 0 {
			return ids
		}
		if id, err := ParseMention(text[:end+1]); err == nil {
			ids = append(ids, id)
		}
		text = text[end+1:]
	}
}
