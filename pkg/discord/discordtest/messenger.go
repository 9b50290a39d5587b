// Package discordtest provides a recording Messenger for handler tests.
package discordtest

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Sent is one message the fake was asked to send
type Sent struct {
	ChannelID string
	Content   string
	Data      *discordgo.MessageSend
}

// Messenger records every call. Err, when set, fails every call.
type Messenger struct {
	mu sync.Mutex

	Sent      []Sent
	Deleted   []string
	Reactions []string
	Kicked    []string
	Banned    []string

	// Perms maps user IDs to the permissions UserChannelPermissions reports
	Perms map[string]int64
	Err   error

	nextID int
}

// New creates an empty Messenger
func New() *Messenger {
	return &Messenger{Perms: make(map[string]int64)}
}

func (f *Messenger) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *Messenger) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Sent = append(f.Sent, Sent{ChannelID: channelID, Content: content})
	return &discordgo.Message{ID: f.id(), ChannelID: channelID, Content: content}, nil
}

func (f *Messenger) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Sent = append(f.Sent, Sent{ChannelID: channelID, Content: data.Content, Data: data})
	return &discordgo.Message{ID: f.id(), ChannelID: channelID, Content: data.Content}, nil
}

func (f *Messenger) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Deleted = append(f.Deleted, channelID+"/"+messageID)
	return nil
}

func (f *Messenger) MessageReactionAdd(channelID, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Reactions = append(f.Reactions, emojiID)
	return nil
}

func (f *Messenger) GuildMemberDeleteWithReason(guildID, userID, reason string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Kicked = append(f.Kicked, userID+":"+reason)
	return nil
}

func (f *Messenger) GuildBanCreateWithReason(guildID, userID, reason string, days int, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Banned = append(f.Banned, userID+":"+reason)
	return nil
}

func (f *Messenger) UserChannelPermissions(userID, channelID string, _ ...discordgo.RequestOption) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Perms[userID], nil
}

// Contents returns the text of every sent message in order
func (f *Messenger) Contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Sent))
	for _, s := range f.Sent {
		out = append(out, s.Content)
	}
	return out
}

// Last returns the most recent sent message, zero when nothing was sent
func (f *Messenger) Last() Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return Sent{}
	}
	return f.Sent[len(f.Sent)-1]
}

// Message builds a message as it arrives from the gateway
func Message(content, authorID, guildID string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "100",
		ChannelID: "200",
		GuildID:   guildID,
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: "user" + authorID},
	}
}
