package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the Bot API limit for one sendMessage text, counted
// in UTF-16 code units.
const MaxMessageLength = 4096

// Telegram posts plain-text messages to one chat through the Bot API.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram verifies the token with getMe before returning.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Send posts text as one or more messages split on line boundaries. It
// stops at the first chunk that fails.
func (t *Telegram) Send(ctx context.Context, text string) error {
	chunks := splitMessage(text, MaxMessageLength)
	for i, chunk := range chunks {
		if err := t.sendChunk(ctx, chunk); err != nil {
			if len(chunks) > 1 {
				return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
			}
			return err
		}
	}
	return nil
}

func (t *Telegram) sendChunk(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true

	errCh := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(msg)
		errCh <- err
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// splitMessage cuts text into pieces of at most limit UTF-16 units. Cuts
// fall after a newline; a single line longer than limit is cut between
// runes. Concatenating the pieces gives back text.
func splitMessage(text string, limit int) []string {
	if utf16Len(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		size   int
	)
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf16Len(line)
		if size+n > limit {
			flush()
		}
		if n <= limit {
			cur.WriteString(line)
			size += n
			continue
		}
		for _, r := range line {
			w := utf16.RuneLen(r)
			if w < 0 {
				w = 1
			}
			if size+w > limit {
				flush()
			}
			cur.WriteRune(r)
			size += w
		}
	}
	flush()
	return chunks
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}
		n += w
	}
	return n
}
