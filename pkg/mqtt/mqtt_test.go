package mqtt

import (
	"errors"
	"testing"
)

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"modbot/request/warnings/list", "modbot/request/warnings/list", true},
		{"modbot/request/+/list", "modbot/request/warnings/list", true},
		{"modbot/request/#", "modbot/request/warnings/list", true},
		{"modbot/request/#", "modbot/request", true},
		{"modbot/request/+", "modbot/request/warnings/list", false},
		{"modbot/request/warnings", "modbot/request/warnings/list", false},
		{"modbot/request/warnings/list", "modbot/request/warnings", false},
	}

	for _, tt := range tests {
		if got := topicMatch(tt.pattern, tt.topic); got != tt.want {
			t.Errorf("topicMatch(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
		}
	}
}

func TestTopics(t *testing.T) {
	if got := RequestTopic("warnings/list"); got != "modbot/request/warnings/list" {
		t.Errorf("RequestTopic() = %q", got)
	}
	if got := ResponseTopic("warnings/list", "abc"); got != "modbot/response/warnings/list/abc" {
		t.Errorf("ResponseTopic() = %q", got)
	}
	if got := EventTopic(ActionWarn); got != "modbot/events/warn" {
		t.Errorf("EventTopic() = %q", got)
	}
}

func TestHandleRequest(t *testing.T) {
	mc := newCommunicator("test")
	mc.routes[RequestTopic("warnings/list")] = func(payload map[string]interface{}) (interface{}, error) {
		if payload["_topic"] != "warnings/list" {
			t.Errorf("_topic = %v", payload["_topic"])
		}
		if payload["userId"] == "404" {
			return nil, errors.New("no warnings recorded")
		}
		return []string{"[2024-01-01 10:00:00] spam"}, nil
	}

	topic, resp, ok := mc.handleRequest("modbot/request/warnings/list",
		[]byte(`{"correlationId":"c1","payload":{"userId":"42"}}`))
	if !ok {
		t.Fatal("handleRequest() ok = false, want true")
	}
	if topic != "modbot/response/warnings/list/c1" {
		t.Errorf("response topic = %q", topic)
	}
	if resp.CorrelationID != "c1" || resp.Error != "" {
		t.Errorf("response = %+v", resp)
	}
	lines, _ := resp.Data.([]string)
	if len(lines) != 1 {
		t.Errorf("response data = %v", resp.Data)
	}

	_, resp, ok = mc.handleRequest("modbot/request/warnings/list",
		[]byte(`{"correlationId":"c2","payload":{"userId":"404"}}`))
	if !ok || resp.Error != "no warnings recorded" || resp.Data != nil {
		t.Errorf("error response = %+v, ok %v", resp, ok)
	}
}

func TestHandleRequestRejects(t *testing.T) {
	mc := newCommunicator("test")
	mc.routes[RequestTopic("warnings/list")] = func(map[string]interface{}) (interface{}, error) {
		return nil, nil
	}

	tests := []struct {
		name  string
		topic string
		raw   string
	}{
		{"bad json", "modbot/request/warnings/list", "{"},
		{"missing correlation id", "modbot/request/warnings/list", `{"payload":{}}`},
		{"no route", "modbot/request/other", `{"correlationId":"x"}`},
	}
	for _, tt := range tests {
		if _, _, ok := mc.handleRequest(tt.topic, []byte(tt.raw)); ok {
			t.Errorf("%s: handleRequest() ok = true, want false", tt.name)
		}
	}
}

func TestNilCommunicator(t *testing.T) {
	var mc *MqttCommunicator
	if mc.IsConnected() {
		t.Error("nil communicator reports connected")
	}
	if err := mc.Publish("x", 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want %v", err, ErrNotConnected)
	}
	if err := mc.PublishModeration(ModerationEvent{Action: ActionWarn}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishModeration() error = %v, want %v", err, ErrNotConnected)
	}
}
