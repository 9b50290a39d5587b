package discord

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// LimitedFor selects what a bucket counts uses against
type LimitedFor int

const (
	LimitUser LimitedFor = iota
	LimitChannel
	LimitGuild
)

// BucketConfig describes a command rate limit. Delay is the minimum gap
// between two uses by the same target; at most Limit uses fall inside any
// TimeSpan.
// Up to AwaitRatelimits invocations per target wait for their turn instead of
// being rejected, and DelayAction runs when one starts waiting.
type BucketConfig struct {
	Delay           time.Duration
	Limit           int
	TimeSpan        time.Duration
	LimitedFor      LimitedFor
	AwaitRatelimits int
	DelayAction     func(ctx *CommandContext)
}

// verdict is the outcome of taking a ticket from a bucket
type verdict struct {
	wait       time.Duration
	await      bool
	isFirstTry bool
}

func (v verdict) allowed() bool { return v.wait == 0 }

type bucketTarget struct {
	gap      *rate.Limiter
	uses     []time.Time
	awaiting int
	notified bool
}

// windowWait is how long until fewer than limit uses fall inside the span
// ending at now. Old uses are dropped as a side effect.
func (t *bucketTarget) windowWait(now time.Time, limit int, span time.Duration) time.Duration {
	kept := t.uses[:0]
	for _, u := range t.uses {
		if u.Add(span).After(now) {
			kept = append(kept, u)
		}
	}
	t.uses = kept
	if len(t.uses) < limit {
		return 0
	}
	return t.uses[len(t.uses)-limit].Add(span).Sub(now)
}

func (t *bucketTarget) record(at time.Time) {
	i := len(t.uses)
	for i > 0 && t.uses[i-1].After(at) {
		i--
	}
	t.uses = append(t.uses, time.Time{})
	copy(t.uses[i+1:], t.uses[i:])
	t.uses[i] = at
}

// Bucket tracks one BucketConfig across targets
type Bucket struct {
	cfg     BucketConfig
	mu      sync.Mutex
	targets map[string]*bucketTarget
}

// NewBucket creates a Bucket from cfg
func NewBucket(cfg BucketConfig) *Bucket {
	return &Bucket{cfg: cfg, targets: make(map[string]*bucketTarget)}
}

// targetKey picks the id the bucket counts against for m
func (b *Bucket) targetKey(m *discordgo.Message) string {
	switch b.cfg.LimitedFor {
	case LimitChannel:
		return m.ChannelID
	case LimitGuild:
		if m.GuildID != "" {
			return m.GuildID
		}
		return m.ChannelID
	default:
		if m.Author != nil {
			return m.Author.ID
		}
		return m.ChannelID
	}
}

func (b *Bucket) target(key string) *bucketTarget {
	t, ok := b.targets[key]
	if !ok {
		t = &bucketTarget{}
		if b.cfg.Delay > 0 {
			t.gap = rate.NewLimiter(rate.Every(b.cfg.Delay), 1)
		}
		b.targets[key] = t
	}
	return t
}

// take tries to use the bucket for key at now. An awaited verdict has
// already reserved its slot; the caller must sleep wait and then call
// doneWaiting.
func (b *Bucket) take(key string, now time.Time) verdict {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.target(key)

	var wait time.Duration
	var res *rate.Reservation
	if t.gap != nil {
		res = t.gap.ReserveN(now, 1)
		wait = res.DelayFrom(now).Round(time.Millisecond)
	}

	windowed := b.cfg.Limit > 0 && b.cfg.TimeSpan > 0
	if windowed {
		if d := t.windowWait(now, b.cfg.Limit, b.cfg.TimeSpan); d > wait {
			wait = d
		}
	}

	if wait == 0 {
		if windowed {
			t.record(now)
		}
		t.notified = false
		return verdict{}
	}

	if t.awaiting < b.cfg.AwaitRatelimits {
		t.awaiting++
		if windowed {
			t.record(now.Add(wait))
		}
		return verdict{wait: wait, await: true}
	}

	if res != nil {
		res.CancelAt(now)
	}
	first := !t.notified
	t.notified = true
	return verdict{wait: wait, isFirstTry: first}
}

// doneWaiting releases an awaited slot for key
func (b *Bucket) doneWaiting(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.targets[key]; ok && t.awaiting > 0 {
		t.awaiting--
	}
}
