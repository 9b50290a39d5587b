package events

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/PancyStudios/ModBotGo/pkg/discord/discordtest"
	"github.com/bwmarrin/discordgo"
)

func TestApplicationOwners(t *testing.T) {
	tests := []struct {
		name string
		app  *discordgo.Application
		want []string
	}{
		{"nil", nil, nil},
		{"owner", &discordgo.Application{Owner: &discordgo.User{ID: "1"}}, []string{"1"}},
		{"team wins", &discordgo.Application{
			Owner: &discordgo.User{ID: "1"},
			Team:  &discordgo.Team{OwnerID: "2"},
		}, []string{"2"}},
		{"empty", &discordgo.Application{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applicationOwners(tt.app); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("applicationOwners() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFreshJoin(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		joined time.Time
		want   bool
	}{
		{now.Add(-2 * time.Second), true},
		{now.Add(-time.Hour), false},
		{time.Time{}, false},
	}
	for _, tt := range tests {
		g := &discordgo.Guild{JoinedAt: tt.joined}
		if got := isFreshJoin(g, now); got != tt.want {
			t.Errorf("isFreshJoin(%v) = %v, want %v", tt.joined, got, tt.want)
		}
	}
	if isFreshJoin(nil, now) {
		t.Error("isFreshJoin(nil) = true, want false")
	}
}

func TestWelcomeEmbedUsesPrefix(t *testing.T) {
	embed := welcomeEmbed("!")
	if embed.Description != "Use `!help` to see every command." {
		t.Errorf("Description = %q", embed.Description)
	}
}

func TestAnswerMention(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"<@999>", 1},
		{"  <@!999> ", 1},
		{"<@999> help", 0},
		{"hello", 0},
		{"<@123>", 0},
	}
	for _, tt := range tests {
		fake := discordtest.New()
		if err := answerMention(fake, discordtest.Message(tt.content, "2", "300"), "999", "?"); err != nil {
			t.Fatalf("answerMention(%q) returned error: %v", tt.content, err)
		}
		if len(fake.Sent) != tt.want {
			t.Errorf("answerMention(%q) sent %d messages, want %d", tt.content, len(fake.Sent), tt.want)
		}
	}

	fake := discordtest.New()
	_ = answerMention(fake, discordtest.Message("<@999>", "2", "300"), "999", "?")
	if got := fake.Last().Content; got != "👋 My prefix is `?`. Try `?help`." {
		t.Errorf("reply = %q", got)
	}
}

func TestAnswerMentionIgnoresBots(t *testing.T) {
	fake := discordtest.New()
	m := discordtest.Message("<@999>", "2", "300")
	m.Author.Bot = true
	_ = answerMention(fake, m, "999", "?")
	if len(fake.Sent) != 0 {
		t.Errorf("sent %d messages to a bot, want 0", len(fake.Sent))
	}
}

func TestPepitoRelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: pepito\ndata: {\"event\":\"in\"}\n\n")
		fmt.Fprint(w, "event: heartbeat\ndata: {}\n\n")
		fmt.Fprint(w, "event: other\ndata: {}\n\n")
	}))
	defer srv.Close()

	fake := discordtest.New()
	sup := NewPepitoRelay(srv.URL, "42", fake)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for len(fake.Contents()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("relayed %v, want two notices", fake.Contents())
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	got := fake.Contents()[:2]
	want := []string{"received pepito", "received heartbeat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("relayed %v, want %v", got, want)
	}
	if ch := fake.Last().ChannelID; ch != "42" {
		t.Errorf("channel = %q, want 42", ch)
	}
}
