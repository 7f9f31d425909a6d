package telegram

import (
	"fmt"
	"sync"
	"testing"

	"mood-scheduler/internal/config"
	"mood-scheduler/internal/schedule"
	"mood-scheduler/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func newTestBot(cfg *config.Config) *Bot {
	return &Bot{
		cfg:    cfg,
		states: make(map[int64]*session.State),
	}
}

func TestStateConcurrentAccess(t *testing.T) {
	// Webhook updates run on separate handler goroutines, so state lookup
	// and completion toggling must be safe when two chats overlap.
	b := newTestBot(&config.Config{})

	chatIDs := []int64{100, 200}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				chatID := chatIDs[(g+i)%len(chatIDs)]
				st := b.state(chatID)
				st.ToggleCompletion(fmt.Sprintf("activity-%d", i%4))
				st.Completions().Names()
			}
		}(g)
	}
	wg.Wait()

	if len(b.states) != len(chatIDs) {
		t.Fatalf("expected %d chat states, got %d", len(chatIDs), len(b.states))
	}
	if b.state(100) == b.state(200) {
		t.Fatal("expected distinct state per chat")
	}
}

func TestHandleCallbackQueryRejectsDisallowedUser(t *testing.T) {
	cfg := &config.Config{TelegramAllowedUserIDs: []int64{1}}
	b := newTestBot(cfg)

	const chatID = int64(42)
	st := b.state(chatID)
	st.LoadSchedule(&schedule.Envelope{
		Schedule: &schedule.Payload{
			Schedule: []schedule.Item{
				{Time: "9:00 AM", Activity: "Deep work", ActivityType: schedule.ActivityWork},
			},
		},
	})

	msg := &tgbotapi.Message{
		MessageID: 7,
		Chat:      &tgbotapi.Chat{ID: chatID},
	}

	t.Run("DisallowedUserCannotToggle", func(t *testing.T) {
		b.handleCallbackQuery(&tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: 2},
			Message: msg,
			Data:    toggleCallbackPrefix + "0",
		})
		if st.IsCompleted("Deep work") {
			t.Fatal("disallowed user must not toggle completions")
		}
	})

	t.Run("MissingSenderIsIgnored", func(t *testing.T) {
		b.handleCallbackQuery(&tgbotapi.CallbackQuery{
			ID:      "cb-2",
			Message: msg,
			Data:    toggleCallbackPrefix + "0",
		})
		if st.IsCompleted("Deep work") {
			t.Fatal("callback without a sender must not toggle completions")
		}
	})
}
