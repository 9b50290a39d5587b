package discord

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/ModBotGo/pkg/discord/discordtest"
	"github.com/bwmarrin/discordgo"
)

const (
	botID   = "999"
	ownerID = "1"
	userID  = "2"
)

type recorded struct {
	unknown    []string
	normal     int
	dispatched []DispatchErrorKind
	after      map[string]error
}

func echo(prefix string) CommandRunFunc {
	return func(ctx *CommandContext) error {
		return ctx.Say(prefix + ctx.Args.Rest())
	}
}

func newTestRouter(rec *recorded) *Router {
	rec.after = make(map[string]error)
	r := NewRouter(Config{
		Prefixes:       []string{"?"},
		OnMention:      true,
		WithWhitespace: true,
		Owners:         []string{ownerID},
	}, Hooks{
		After: func(ctx *CommandContext, name string, err error) {
			rec.after[name] = err
		},
		UnknownCommand: func(s Messenger, m *discordgo.Message, name string) {
			rec.unknown = append(rec.unknown, name)
		},
		NormalMessage: func(s Messenger, m *discordgo.Message) {
			rec.normal++
		},
		DispatchError: func(ctx *CommandContext, err *DispatchError, name string) {
			rec.dispatched = append(rec.dispatched, err.Kind)
			DefaultDispatchError(ctx, err, name)
		},
	})

	say := NewCommand("say", "Repeats text", "General", echo("say:")).
		WithSubCommands(NewCommand("vallah", "", "General", func(ctx *CommandContext) error {
			return ctx.Say("Nee")
		}))
	boom := NewCommand("boom", "", "General", func(ctx *CommandContext) error {
		panic("kaboom")
	})
	fail := NewCommand("fail", "", "General", func(ctx *CommandContext) error {
		return errors.New("broken")
	})

	r.AddGroup(NewGroup("General", "", say, boom, fail))
	r.AddGroup(NewGroup("Emoji", "",
		NewCommand("cat", "Sends a cat", "Emoji", echo("cat")).WithAliases("kitty", "neko"),
		NewCommand("dog", "Sends a dog", "Emoji", echo("dog")),
	).WithPrefixes("emoji").WithBucket("emoji"))
	r.AddGroup(NewGroup("Mod", "",
		NewCommand("warn", "Warns a user", "Mod", echo("warn:")).
			WithPermissions(discordgo.PermissionModerateMembers),
	).WithPrefixes("mod").AsGuildOnly())
	r.AddGroup(NewGroup("Dev", "",
		NewCommand("eval", "", "Dev", echo("eval:")),
	).WithPrefixes("dev").AsOwnerOnly())
	r.SetHelp(NewHelpCommand())

	r.now = func() time.Time { return t0 }
	r.sleep = func(time.Duration) {}
	return r
}

func TestDispatchParsing(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"?say hello there", []string{"say:hello there"}},
		{"? say spaced", []string{"say:spaced"}},
		{"<@999> say hi", []string{"say:hi"}},
		{"<@!999>say hi", []string{"say:hi"}},
		{"?SAY loud", []string{"say:loud"}},
		{"?say vallah", []string{"Nee"}},
		{"?say", []string{"say:"}},
		{"?emoji kitty", []string{"cat"}},
		{"?emoji dog", []string{"dog"}},
	}

	for _, tt := range tests {
		rec := &recorded{}
		r := newTestRouter(rec)
		fake := discordtest.New()

		r.Dispatch(fake, discordtest.Message(tt.content, userID, "g"), botID)

		if got := fake.Contents(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Dispatch(%q) sent %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestDispatchNonCommands(t *testing.T) {
	rec := &recorded{}
	r := newTestRouter(rec)
	fake := discordtest.New()

	r.Dispatch(fake, discordtest.Message("just chatting", userID, "g"), botID)
	r.Dispatch(fake, discordtest.Message("?", userID, "g"), botID)
	r.Dispatch(fake, discordtest.Message("?cat", userID, "g"), botID)
	r.Dispatch(fake, discordtest.Message("?emoji cow", userID, "g"), botID)

	bot := discordtest.Message("?say hi", "5", "g")
	bot.Author.Bot = true
	r.Dispatch(fake, bot, botID)

	if len(fake.Sent) != 0 {
		t.Errorf("sent %q, want nothing", fake.Contents())
	}
	if rec.normal != 2 {
		t.Errorf("normal messages = %d, want 2", rec.normal)
	}
	if want := []string{"cat", "emoji cow"}; !reflect.DeepEqual(rec.unknown, want) {
		t.Errorf("unknown = %v, want %v", rec.unknown, want)
	}
}

func TestDispatchChecks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		author  string
		guild   string
		perms   int64
		want    []DispatchErrorKind
		sent    int
	}{
		{"guild only in dm", "?mod warn x", userID, "", 0, []DispatchErrorKind{OnlyForGuilds}, 0},
		{"missing permission", "?mod warn x", userID, "g", discordgo.PermissionSendMessages, []DispatchErrorKind{LackingPermissions}, 0},
		{"has permission", "?mod warn x", userID, "g", discordgo.PermissionModerateMembers, nil, 1},
		{"administrator", "?mod warn x", userID, "g", discordgo.PermissionAdministrator, nil, 1},
		{"owner bypasses permissions", "?mod warn x", ownerID, "g", 0, nil, 1},
		{"owner only", "?dev eval 1", userID, "g", 0, []DispatchErrorKind{OnlyForOwners}, 0},
		{"owner", "?dev eval 1", ownerID, "g", 0, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorded{}
			r := newTestRouter(rec)
			fake := discordtest.New()
			fake.Perms[tt.author] = tt.perms

			r.Dispatch(fake, discordtest.Message(tt.content, tt.author, tt.guild), botID)

			if !reflect.DeepEqual(rec.dispatched, tt.want) {
				t.Errorf("dispatch errors = %v, want %v", rec.dispatched, tt.want)
			}
			if len(fake.Sent) != tt.sent {
				t.Errorf("sent %d messages, want %d", len(fake.Sent), tt.sent)
			}
		})
	}
}

func TestDispatchRatelimitNotifiesOnce(t *testing.T) {
	rec := &recorded{}
	r := newTestRouter(rec)
	r.AddBucket("emoji", BucketConfig{Delay: 5 * time.Second})
	fake := discordtest.New()

	for i := 0; i < 3; i++ {
		r.Dispatch(fake, discordtest.Message("?emoji cat", userID, "g"), botID)
	}

	want := []string{"cat", "Try this again in 5 seconds."}
	if got := fake.Contents(); !reflect.DeepEqual(got, want) {
		t.Errorf("sent %q, want %q", got, want)
	}
	if len(rec.dispatched) != 2 {
		t.Errorf("dispatch errors = %v, want two rate limits", rec.dispatched)
	}

	// Owners are not rate limited
	fake = discordtest.New()
	r.Dispatch(fake, discordtest.Message("?emoji cat", ownerID, "g"), botID)
	r.Dispatch(fake, discordtest.Message("?emoji cat", ownerID, "g"), botID)
	if len(fake.Sent) != 2 {
		t.Errorf("owner sent %q, want two replies", fake.Contents())
	}
}

func TestDispatchAwaitsRatelimit(t *testing.T) {
	rec := &recorded{}
	r := newTestRouter(rec)
	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }
	r.AddBucket("emoji", BucketConfig{
		Limit:           1,
		TimeSpan:        30 * time.Second,
		LimitedFor:      LimitChannel,
		AwaitRatelimits: 1,
		DelayAction: func(ctx *CommandContext) {
			_ = ctx.React("⏱")
		},
	})
	fake := discordtest.New()

	r.Dispatch(fake, discordtest.Message("?emoji cat", userID, "g"), botID)
	r.Dispatch(fake, discordtest.Message("?emoji dog", "3", "g"), botID)

	if got := fake.Contents(); !reflect.DeepEqual(got, []string{"cat", "dog"}) {
		t.Errorf("sent %q, want both commands to run", got)
	}
	if !reflect.DeepEqual(fake.Reactions, []string{"⏱"}) {
		t.Errorf("reactions = %v, want the delay action", fake.Reactions)
	}
	if len(slept) != 1 || slept[0] < 29*time.Second || slept[0] > 31*time.Second {
		t.Errorf("slept %v, want about 30s once", slept)
	}
}

func TestDispatchHooks(t *testing.T) {
	rec := &recorded{}
	r := newTestRouter(rec)
	fake := discordtest.New()

	r.Dispatch(fake, discordtest.Message("?fail", userID, "g"), botID)
	r.Dispatch(fake, discordtest.Message("?boom", userID, "g"), botID)
	r.Dispatch(fake, discordtest.Message("?say ok", userID, "g"), botID)

	if err := rec.after["fail"]; err == nil || err.Error() != "broken" {
		t.Errorf("after(fail) = %v, want broken", err)
	}
	if err := rec.after["boom"]; err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Errorf("after(boom) = %v, want the recovered panic", err)
	}
	if err, ok := rec.after["say"]; !ok || err != nil {
		t.Errorf("after(say) = %v, %v, want nil error", err, ok)
	}

	cancelled := NewRouter(Config{}, Hooks{
		Before: func(ctx *CommandContext, name string) bool { return name != "say" },
	})
	cancelled.AddGroup(NewGroup("General", "", NewCommand("say", "", "", echo(""))))
	fake = discordtest.New()
	cancelled.Dispatch(fake, discordtest.Message("?say hi", userID, ""), botID)
	if len(fake.Sent) != 0 {
		t.Errorf("Before returning false still ran the command: %q", fake.Contents())
	}
}

func TestStripPrefixWithoutWhitespace(t *testing.T) {
	r := NewRouter(Config{Prefixes: []string{"!"}}, Hooks{})

	if _, ok := r.stripPrefix("! say", ""); ok {
		t.Error("stripPrefix accepted whitespace after the prefix")
	}
	if rest, ok := r.stripPrefix("!say", ""); !ok || rest != "say" {
		t.Errorf("stripPrefix(!say) = %q, %v", rest, ok)
	}
	if _, ok := r.stripPrefix("<@999> say", "999"); ok {
		t.Error("stripPrefix accepted a mention with OnMention disabled")
	}
}

func TestRetrySeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{5 * time.Second, 5},
		{4200 * time.Millisecond, 5},
		{100 * time.Millisecond, 1},
	}
	for _, tt := range tests {
		e := &DispatchError{Kind: Ratelimited, RetryAfter: tt.d}
		if got := e.RetrySeconds(); got != tt.want {
			t.Errorf("RetrySeconds(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
