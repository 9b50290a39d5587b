// Package warnings implements the moderation warning ledger: an append-only
// history of timestamped reasons per user, backed by a pluggable Store.
package warnings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned by List when a key has no record
	ErrNotFound = errors.New("no warnings recorded")
	// ErrStorageUnavailable wraps any failure to open, read or write the store
	ErrStorageUnavailable = errors.New("warning storage unavailable")
	// ErrInvalidKey is returned for empty keys or keys that are not a plain name
	ErrInvalidKey = errors.New("invalid warning key")
)

// PlaceholderReason is stored when a warning is issued without a reason
const PlaceholderReason = "No reason provided."

// TimeLayout is the timestamp layout of a stored line
const TimeLayout = "2006-01-02 15:04:05"

// Store persists rendered warning lines. Append must be durable before it
// returns nil; Lines returns ErrNotFound when the key has no record.
type Store interface {
	Append(ctx context.Context, key, line string) error
	Lines(ctx context.Context, key string) ([]string, error)
}

// Entry is one warning
type Entry struct {
	At     time.Time
	Reason string
}

// Line renders the entry as it is stored: "[2006-01-02 15:04:05] reason"
func (e Entry) Line() string {
	return "[" + e.At.Format(TimeLayout) + "] " + e.Reason
}

// ParseLine reverses Entry.Line. The timestamp is read in the local zone.
func ParseLine(line string) (Entry, error) {
	if len(line) < len(TimeLayout)+3 || line[0] != '[' || line[len(TimeLayout)+1] != ']' {
		return Entry{}, fmt.Errorf("malformed warning line %q", line)
	}
	at, err := time.ParseInLocation(TimeLayout, line[1:len(TimeLayout)+1], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("malformed warning timestamp: %w", err)
	}
	return Entry{At: at, Reason: strings.TrimPrefix(line[len(TimeLayout)+2:], " ")}, nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// NormalizeReason applies the placeholder and keeps the reason on one line
func NormalizeReason(reason string) string {
	reason = strings.TrimSpace(lineBreaks.Replace(reason))
	if reason == "" {
		return PlaceholderReason
	}
	return reason
}

// ValidateKey checks that key can name a record
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`+"\x00") || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Ledger serializes access per key on top of a Store
type Ledger struct {
	store Store
	locks *keyedLocker
	now   func() time.Time
}

// New creates a Ledger over store
func New(store Store) *Ledger {
	return &Ledger{
		store: store,
		locks: newKeyedLocker(),
		now:   time.Now,
	}
}

// Append records a warning for key at the given instant
func (l *Ledger) Append(ctx context.Context, key, reason string, at time.Time) (Entry, error) {
	if err := ValidateKey(key); err != nil {
		return Entry{}, err
	}
	entry := Entry{At: at, Reason: NormalizeReason(reason)}

	unlock := l.locks.Lock(key)
	defer unlock()

	if err := l.store.Append(ctx, key, entry.Line()); err != nil {
		return Entry{}, storageError(err)
	}
	return entry, nil
}

// Warn records a warning for key stamped with the current time
func (l *Ledger) Warn(ctx context.Context, key, reason string) (Entry, error) {
	return l.Append(ctx, key, reason, l.now())
}

// List returns every line recorded for key in append order
func (l *Ledger) List(ctx context.Context, key string) ([]string, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	unlock := l.locks.RLock(key)
	defer unlock()

	lines, err := l.store.Lines(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}
	if len(lines) == 0 {
		return nil, ErrNotFound
	}
	return lines, nil
}

// Entries is List with each line parsed back into an Entry
func (l *Ledger) Entries(ctx context.Context, key string) ([]Entry, error) {
	lines, err := l.List(ctx, key)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entry, err := ParseLine(line)
		if err != nil {
			// Keep hand-edited lines visible instead of failing the whole record
			entry = Entry{Reason: line}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func storageError(err error) error {
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
