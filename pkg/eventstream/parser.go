// Package eventstream consumes a Server-Sent Events endpoint and keeps the
// connection alive across disconnects.
package eventstream

import (
	"bufio"
	"io"
	"strings"
)

// DefaultEvent is the name of events sent without an "event:" field
const DefaultEvent = "message"

// Event is one dispatched SSE event
type Event struct {
	Name string
	Data string
	ID   string
}

// Parse reads events from r until EOF or a read error and calls emit for each
// complete event. Comment lines and unknown fields are ignored. A trailing
// event without its blank terminator line is dropped.
func Parse(r io.Reader, emit func(Event)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var (
		name    string
		id      string
		data    strings.Builder
		hasData bool
	)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if hasData {
				if name == "" {
					name = DefaultEvent
				}
				emit(Event{Name: name, Data: data.String(), ID: id})
			}
			name = ""
			data.Reset()
			hasData = false
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "id":
			id = value
		}
	}
	return scanner.Err()
}
