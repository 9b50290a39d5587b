package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestBucketDelay(t *testing.T) {
	b := NewBucket(BucketConfig{Delay: 5 * time.Second})

	if v := b.take("u", t0); !v.allowed() {
		t.Fatalf("first use rejected: %+v", v)
	}

	v := b.take("u", t0.Add(time.Second))
	if v.allowed() || v.wait != 4*time.Second || !v.isFirstTry {
		t.Errorf("take after 1s = %+v, want wait 4s on first try", v)
	}
	v = b.take("u", t0.Add(2*time.Second))
	if v.allowed() || v.isFirstTry {
		t.Errorf("take after 2s = %+v, want rejection without first try", v)
	}

	if v := b.take("other", t0.Add(time.Second)); !v.allowed() {
		t.Errorf("other target rejected: %+v", v)
	}
	if v := b.take("u", t0.Add(6*time.Second)); !v.allowed() {
		t.Errorf("take after delay = %+v, want allowed", v)
	}
	if v := b.take("u", t0.Add(7*time.Second)); !v.isFirstTry {
		t.Errorf("first rejection after a successful use should notify again: %+v", v)
	}
}

func TestBucketLimitWithAwait(t *testing.T) {
	b := NewBucket(BucketConfig{Limit: 2, TimeSpan: 30 * time.Second, AwaitRatelimits: 1})

	for i := 0; i < 2; i++ {
		if v := b.take("c", t0); !v.allowed() {
			t.Fatalf("use %d rejected: %+v", i, v)
		}
	}

	v := b.take("c", t0)
	if !v.await || v.wait <= 0 {
		t.Fatalf("third use = %+v, want an awaited slot", v)
	}

	v = b.take("c", t0)
	if v.allowed() || v.await || !v.isFirstTry {
		t.Errorf("fourth use = %+v, want a rejection", v)
	}

	b.doneWaiting("c")
	if got := b.targets["c"].awaiting; got != 0 {
		t.Errorf("awaiting = %d after doneWaiting, want 0", got)
	}
}

func TestBucketLimitIsSlidingWindow(t *testing.T) {
	b := NewBucket(BucketConfig{
		Delay:           5 * time.Second,
		Limit:           2,
		TimeSpan:        30 * time.Second,
		AwaitRatelimits: 1,
	})

	tests := []struct {
		at       time.Duration
		allowed  bool
		await    bool
		wantWait time.Duration
	}{
		{0, true, false, 0},
		{5 * time.Second, true, false, 0},
		{15 * time.Second, false, true, 15 * time.Second},
		{20 * time.Second, false, false, 15 * time.Second},
		{29 * time.Second, false, false, 6 * time.Second},
	}
	immediate := 0
	for _, tt := range tests {
		v := b.take("c", t0.Add(tt.at))
		if v.allowed() {
			immediate++
		}
		if v.allowed() != tt.allowed || v.await != tt.await || v.wait != tt.wantWait {
			t.Errorf("take at %v = %+v, want allowed %v await %v wait %v", tt.at, v, tt.allowed, tt.await, tt.wantWait)
		}
	}
	if immediate > 2 {
		t.Errorf("%d immediate uses inside one 30s window, want at most 2", immediate)
	}

	b.doneWaiting("c")
	// 0s and 5s have left the window; the awaited use at 30s still counts
	if v := b.take("c", t0.Add(40*time.Second)); !v.allowed() {
		t.Errorf("take at 40s = %+v, want allowed", v)
	}
	if v := b.take("c", t0.Add(50*time.Second)); v.allowed() || v.wait != 10*time.Second {
		t.Errorf("take at 50s = %+v, want wait 10s", v)
	}
}

func TestBucketTargetKey(t *testing.T) {
	m := &discordgo.Message{ChannelID: "c", GuildID: "g", Author: &discordgo.User{ID: "u"}}
	dm := &discordgo.Message{ChannelID: "c", Author: &discordgo.User{ID: "u"}}

	tests := []struct {
		limit LimitedFor
		msg   *discordgo.Message
		want  string
	}{
		{LimitUser, m, "u"},
		{LimitChannel, m, "c"},
		{LimitGuild, m, "g"},
		{LimitGuild, dm, "c"},
	}
	for _, tt := range tests {
		b := NewBucket(BucketConfig{LimitedFor: tt.limit})
		if got := b.targetKey(tt.msg); got != tt.want {
			t.Errorf("targetKey(%v) = %v, want %v", tt.limit, got, tt.want)
		}
	}
}
