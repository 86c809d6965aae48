package realtime

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gem-auction/internal/models"
)

// PingEvent is the keepalive event name; readers skip it
const PingEvent = "ping"

// Marshal gives the server-sent-event name and data line for ev
func Marshal(ev models.AuctionEvent) (name, data string, err error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return "", "", fmt.Errorf("realtime: marshal %s: %w", ev.Type, err)
	}
	return string(ev.Type), string(raw), nil
}

// Reader decodes auction events from a text/event-stream body
type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: sc}
}

// Next returns the next auction event, skipping keepalives, comments and
// event types it does not know. It returns io.EOF when the stream ends.
func (r *Reader) Next() (models.AuctionEvent, error) {
	var (
		name string
		data strings.Builder
	)
	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if data.Len() == 0 {
				name = ""
				continue
			}
			ev, ok, err := decode(name, data.String())
			name = ""
			data.Reset()
			if err != nil {
				return models.AuctionEvent{}, err
			}
			if ok {
				return ev, nil
			}
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
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(value)
		}
	}

	if err := r.scanner.Err(); err != nil {
		return models.AuctionEvent{}, fmt.Errorf("realtime: read stream: %w", err)
	}
	return models.AuctionEvent{}, io.EOF
}

func decode(name, data string) (models.AuctionEvent, bool, error) {
	switch models.EventType(name) {
	case models.EventBidInserted, models.EventMessageInserted:
	default:
		return models.AuctionEvent{}, false, nil
	}

	var ev models.AuctionEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return models.AuctionEvent{}, false, fmt.Errorf("realtime: decode %s: %w", name, err)
	}
	if ev.Type == "" {
		ev.Type = models.EventType(name)
	}
	if ev.AuctionID() == "" {
		return models.AuctionEvent{}, false, nil
	}
	return ev, true, nil
}
