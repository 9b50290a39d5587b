package mod

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/discord/discordtest"
	"github.com/PancyStudios/ModBotGo/pkg/mqtt"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/bwmarrin/discordgo"
)

const moderator = "10"

type recordingPublisher struct {
	events []mqtt.ModerationEvent
}

func (p *recordingPublisher) PublishModeration(ev mqtt.ModerationEvent) error {
	p.events = append(p.events, ev)
	return nil
}

type harness struct {
	router *discord.Router
	fake   *discordtest.Messenger
	ledger *warnings.Ledger
	events *recordingPublisher
	errs   map[string]error
}

func newHarness(t *testing.T, ledger *warnings.Ledger) *harness {
	t.Helper()
	if ledger == nil {
		ledger = warnings.New(warnings.NewFileStore(filepath.Join(t.TempDir(), "warnings")))
	}
	h := &harness{
		fake:   discordtest.New(),
		ledger: ledger,
		events: &recordingPublisher{},
		errs:   make(map[string]error),
	}
	h.router = discord.NewRouter(discord.Config{}, discord.Hooks{
		After: func(ctx *discord.CommandContext, name string, err error) {
			h.errs[name] = err
		},
	})
	h.router.AddGroup(Group(Deps{Ledger: ledger, Events: h.events}))
	h.fake.Perms[moderator] = discordgo.PermissionAdministrator
	return h
}

func (h *harness) run(content string) string {
	h.router.Dispatch(h.fake, discordtest.Message(content, moderator, "g"), "")
	return h.fake.Last().Content
}

func TestWarnThenWarnings(t *testing.T) {
	h := newHarness(t, nil)

	if got := h.run("?mod warn <@42> spamming links"); got != "Warned <@42>: spamming links" {
		t.Errorf("warn reply = %q", got)
	}
	if got := h.run("?mod warn <@42>"); got != "Warned <@42>: No reason provided." {
		t.Errorf("warn without reason reply = %q", got)
	}

	got := h.run("?mod warnings <@42>")
	lines := strings.Split(got, "\n")
	if len(lines) != 3 || lines[0] != "Warnings for <@42> (2):" {
		t.Fatalf("warnings reply = %q", got)
	}
	if !strings.HasSuffix(lines[1], "] spamming links") || !strings.HasSuffix(lines[2], "] No reason provided.") {
		t.Errorf("warnings lines = %q", lines[1:])
	}

	if len(h.events.events) != 2 || h.events.events[0].Action != mqtt.ActionWarn || h.events.events[0].UserID != "42" {
		t.Errorf("published events = %+v", h.events.events)
	}
	if h.events.events[0].ModeratorID != moderator || h.events.events[0].GuildID != "g" {
		t.Errorf("event metadata = %+v", h.events.events[0])
	}
}

func TestWarningsEmpty(t *testing.T) {
	h := newHarness(t, nil)

	if got := h.run("?mod warnings <@7>"); got != "<@7> has no warnings." {
		t.Errorf("warnings reply = %q", got)
	}
}

func TestInvalidMention(t *testing.T) {
	for _, content := range []string{
		"?mod warn bob being rude",
		"?mod warn",
		"?mod warnings <@abc>",
		"?mod kick @someone",
		"?mod ban <@-1>",
	} {
		h := newHarness(t, nil)
		if got := h.run(content); got != invalidMentionReply {
			t.Errorf("%s reply = %q, want %q", content, got, invalidMentionReply)
		}
	}
}

func TestWarnStorageUnavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "warnings")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, warnings.New(warnings.NewFileStore(blocker)))

	if got := h.run("?mod warn <@42> spam"); got != storageErrorReply {
		t.Errorf("warn reply = %q, want %q", got, storageErrorReply)
	}
	if err := h.errs["warn"]; !errors.Is(err, warnings.ErrStorageUnavailable) {
		t.Errorf("warn error = %v, want %v", err, warnings.ErrStorageUnavailable)
	}
	if len(h.events.events) != 0 {
		t.Errorf("failed warn published %+v", h.events.events)
	}
}

func TestKickAndBan(t *testing.T) {
	h := newHarness(t, nil)

	if got := h.run("?mod kick <@42> flooding"); got != "Kicked <@42>: flooding" {
		t.Errorf("kick reply = %q", got)
	}
	if got := h.run("?mod ban <@43>"); got != "Banned <@43>: No reason provided." {
		t.Errorf("ban reply = %q", got)
	}
	if !reflect.DeepEqual(h.fake.Kicked, []string{"42:flooding"}) {
		t.Errorf("kicked = %v", h.fake.Kicked)
	}
	if !reflect.DeepEqual(h.fake.Banned, []string{"43:No reason provided."}) {
		t.Errorf("banned = %v", h.fake.Banned)
	}
	if len(h.events.events) != 2 || h.events.events[0].Action != mqtt.ActionKick || h.events.events[1].Action != mqtt.ActionBan {
		t.Errorf("published events = %+v", h.events.events)
	}
}

func TestKickFailure(t *testing.T) {
	h := newHarness(t, nil)
	// Owners skip the permission lookup, so only the kick itself fails
	h.router.AddOwners(moderator)
	h.fake.Err = errors.New("missing access")

	h.run("?mod kick <@42>")
	if h.errs["kick"] == nil {
		t.Error("kick error = nil, want the API failure")
	}
}

func TestModRequiresPermissions(t *testing.T) {
	h := newHarness(t, nil)
	h.fake.Perms[moderator] = discordgo.PermissionSendMessages

	h.run("?mod warn <@42> spam")
	if _, err := h.ledger.List(context.Background(), "42"); !errors.Is(err, warnings.ErrNotFound) {
		t.Errorf("warn ran without permission: %v", err)
	}
}

func TestDel(t *testing.T) {
	h := newHarness(t, nil)

	if got := h.run("?mod del"); got != delUsage {
		t.Errorf("del without reference = %q, want usage", got)
	}

	m := discordtest.Message("?mod del", moderator, "g")
	m.MessageReference = &discordgo.MessageReference{MessageID: "55", ChannelID: "200"}
	h.router.Dispatch(h.fake, m, "")

	if want := []string{"200/55", "200/100"}; !reflect.DeepEqual(h.fake.Deleted, want) {
		t.Errorf("deleted = %v, want %v", h.fake.Deleted, want)
	}
}

func TestChunkLines(t *testing.T) {
	got := chunkLines("head", []string{"aaaa", "bbbb", "cccc"}, 10)
	want := []string{"head\naaaa", "bbbb\ncccc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("chunkLines() = %q, want %q", got, want)
	}

	for _, c := range chunkLines("h", []string{strings.Repeat("x", 50)}, 20) {
		if len(c) > 20 {
			t.Errorf("chunk of %d bytes exceeds the limit", len(c))
		}
	}

	for _, c := range chunkLines("h", []string{strings.Repeat("é日", 20)}, 20) {
		if len(c) > 20 {
			t.Errorf("chunk of %d bytes exceeds the limit", len(c))
		}
		if !utf8.ValidString(c) {
			t.Errorf("chunk %q is not valid UTF-8", c)
		}
	}
}

func TestWarningsRequestHandler(t *testing.T) {
	ledger := warnings.New(warnings.NewFileStore(filepath.Join(t.TempDir(), "warnings")))
	if _, err := ledger.Warn(context.Background(), "42", "spam"); err != nil {
		t.Fatal(err)
	}
	handler := WarningsRequestHandler(ledger)

	data, err := handler(map[string]interface{}{"userId": "42"})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if m := data.(map[string]interface{}); m["count"] != 1 {
		t.Errorf("count = %v, want 1", m["count"])
	}

	if _, err := handler(map[string]interface{}{"userId": "7"}); !errors.Is(err, warnings.ErrNotFound) {
		t.Errorf("unknown user error = %v, want %v", err, warnings.ErrNotFound)
	}
	if _, err := handler(map[string]interface{}{}); !errors.Is(err, warnings.ErrInvalidKey) {
		t.Errorf("missing userId error = %v, want %v", err, warnings.ErrInvalidKey)
	}
}
