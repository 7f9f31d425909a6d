package telegram

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"mood-scheduler/internal/config"
	"mood-scheduler/internal/history"
	"mood-scheduler/internal/mentor"
	"mood-scheduler/internal/metrics"
	"mood-scheduler/internal/parse"
	"mood-scheduler/internal/schedule"
	"mood-scheduler/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Conversations expire if the user walks away mid-flow.
const sessionTTL = 15 * time.Minute

// Session types, one per conversational flow.
const (
	typeMood      = "mood"
	typeCreate    = "create"
	typeCustom    = "custom"
	typeAdjust    = "adjust"
	typeNutrition = "nutrition"
)

// Stages within a flow.
const (
	stageMood    = "awaiting_mood"
	stageGoals   = "awaiting_goals"
	stageTasks   = "awaiting_tasks"
	stageRange   = "awaiting_range"
	stageEvents  = "awaiting_events"
	stageDietary = "awaiting_dietary"
)

const helpText = `I turn your mood into a day plan.

/mood <text> — analyze how you're feeling
/plan — build a schedule around your goals
/custom — build a schedule around explicit tasks
/schedule — show the current schedule
/adjust — re-plan around completions and new events
/nutrition — one-day meal plan from your last mood analysis
/history — recent results
/cancel — abandon the current conversation`

// Bot wraps the Telegram API, the mentor service client and per-chat session
// state.
type Bot struct {
	api          *tgbotapi.BotAPI
	client       mentor.Client
	cfg          *config.Config
	prefs        config.Preferences
	sessions     *SessionRepository
	historyRepo  *history.Repository
	metricsStore *metrics.Store

	// Per-chat view state. Webhook updates arrive on concurrent handler
	// goroutines, so the map is guarded here and each State locks itself.
	statesMu sync.Mutex
	states   map[int64]*session.State
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(
	cfg *config.Config,
	prefs config.Preferences,
	client mentor.Client,
	sessions *SessionRepository,
	historyRepo *history.Repository,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	config.Logger.Infof("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	config.Logger.Infof("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		client:       client,
		cfg:          cfg,
		prefs:        prefs,
		sessions:     sessions,
		historyRepo:  historyRepo,
		metricsStore: metricsStore,
		states:       make(map[int64]*session.State),
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		config.Logger.Errorf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		config.Logger.Warnf("Unauthorized access attempt from UserID: %d (@%s)",
			update.Message.From.ID, update.Message.From.UserName)
		return
	}

	b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

// state returns the view state for a chat, creating it on first use.
func (b *Bot) state(chatID int64) *session.State {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	st, ok := b.states[chatID]
	if !ok {
		st = session.New()
		b.states[chatID] = st
	}
	return st
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	chatID := msg.Chat.ID
	userID := fmt.Sprintf("%d", msg.From.ID)

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, userID, msg)
		return
	}

	sess, err := b.sessions.GetActive(ctx, userID, time.Now().UTC())
	if err != nil {
		config.Logger.Errorf("Failed to load session for user %s: %v", userID, err)
		b.sendPlain(chatID, "Something went wrong, please try again.")
		return
	}
	if sess == nil {
		b.sendMarkdown(chatID, helpText)
		return
	}

	b.continueSession(ctx, sess, chatID, userID, msg.Text, false)
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, userID string, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.sendMarkdown(chatID, helpText)

	case "mood":
		args := strings.TrimSpace(msg.CommandArguments())
		if args == "" {
			b.startSession(ctx, chatID, userID, typeMood, stageMood,
				"How are you feeling? Describe your mood and energy level.")
			return
		}
		b.runMoodAnalysis(ctx, chatID, userID, args)

	case "plan":
		b.startSession(ctx, chatID, userID, typeCreate, stageMood,
			"How are you feeling today? I'll shape the schedule around it.")

	case "custom":
		b.startSession(ctx, chatID, userID, typeCustom, stageTasks,
			"Send your tasks, one per line:\n`name | minutes | priority`")

	case "schedule":
		b.showSchedule(chatID)

	case "adjust":
		if _, ok := b.state(chatID).View(); !ok {
			b.sendPlain(chatID, "No schedule data available. Please create a schedule first.")
			return
		}
		b.startSession(ctx, chatID, userID, typeAdjust, stageMood,
			"How are you feeling now? Describe your current mood and energy level.")

	case "nutrition":
		if b.state(chatID).MoodAnalysis() == nil {
			b.sendPlain(chatID, "Analyze your mood first with /mood — the plan is built from it.")
			return
		}
		b.startSession(ctx, chatID, userID, typeNutrition, stageDietary,
			"Any constraints? Send:\n`conditions | dietary preferences | allergies | goals`\nor /skip.")

	case "skip":
		sess, err := b.sessions.GetActive(ctx, userID, time.Now().UTC())
		if err != nil || sess == nil {
			b.sendPlain(chatID, "Nothing to skip right now.")
			return
		}
		b.continueSession(ctx, sess, chatID, userID, "", true)

	case "cancel":
		sess, _ := b.sessions.GetActive(ctx, userID, time.Now().UTC())
		if sess != nil {
			_ = b.sessions.Delete(ctx, sess.ID)
		}
		b.sendPlain(chatID, "Cancelled.")

	case "history":
		b.showHistory(ctx, chatID, userID)

	case "metrics":
		if msg.From.ID != b.cfg.AdminTelegramID {
			b.sendMarkdown(chatID, "⛔ *Access Denied*: Admin only.")
			return
		}
		b.handleMetricsCommand(chatID)

	default:
		b.sendMarkdown(chatID, helpText)
	}
}

// startSession abandons any previous conversation and opens a new one.
func (b *Bot) startSession(ctx context.Context, chatID int64, userID, sessionType, stage, prompt string) {
	if sess, _ := b.sessions.GetActive(ctx, userID, time.Now().UTC()); sess != nil {
		_ = b.sessions.Delete(ctx, sess.ID)
	}
	if _, err := b.sessions.Create(ctx, userID, sessionType, stage, SessionContextData{}, sessionTTL); err != nil {
		config.Logger.Errorf("Failed to create session for user %s: %v", userID, err)
		b.sendPlain(chatID, "Something went wrong, please try again.")
		return
	}
	b.sendMarkdown(chatID, prompt)
}

func (b *Bot) continueSession(ctx context.Context, sess *Session, chatID int64, userID, text string, skipped bool) {
	data, err := sess.GetContextData()
	if err != nil {
		config.Logger.Errorf("Failed to decode session context for user %s: %v", userID, err)
		_ = b.sessions.Delete(ctx, sess.ID)
		b.sendPlain(chatID, "Something went wrong, please start over.")
		return
	}

	switch sess.SessionType {
	case typeMood:
		_ = b.sessions.Delete(ctx, sess.ID)
		b.runMoodAnalysis(ctx, chatID, userID, text)

	case typeCreate:
		switch sess.State {
		case stageMood:
			data.MoodText = text
			_ = b.sessions.Update(ctx, sess.ID, stageGoals, data)
			b.sendMarkdown(chatID, "What do you want to get done today? One goal per line, or /skip.")
		case stageGoals:
			if !skipped {
				data.Goals = parse.Lines(text)
			}
			_ = b.sessions.Delete(ctx, sess.ID)
			b.runCreateSchedule(ctx, chatID, userID, data)
		}

	case typeCustom:
		switch sess.State {
		case stageTasks:
			tasks := parse.Tasks(parse.Lines(text))
			if len(tasks) == 0 {
				b.sendMarkdown(chatID, "I couldn't read any tasks. Send `name | minutes | priority`, one per line.")
				return
			}
			data.Tasks = tasks
			_ = b.sessions.Update(ctx, sess.ID, stageRange, data)
			b.sendMarkdown(chatID, "What time window should I plan? Send `09:00-18:00`, or /skip.")
		case stageRange:
			if !skipped {
				timeRange := parse.TimeRange(text)
				if timeRange == nil {
					b.sendMarkdown(chatID, "I couldn't read that range. Send `HH:MM-HH:MM`, or /skip.")
					return
				}
				data.TimeRange = timeRange
			}
			_ = b.sessions.Delete(ctx, sess.ID)
			b.runCreateCustomSchedule(ctx, chatID, userID, data)
		}

	case typeAdjust:
		switch sess.State {
		case stageMood:
			data.MoodText = text
			_ = b.sessions.Update(ctx, sess.ID, stageEvents, data)
			b.sendMarkdown(chatID, "Anything new on your calendar? Send `title | start | end [| flexible]`, one per line, or /skip.")
		case stageEvents:
			if !skipped {
				data.NewEvents = parse.Events(parse.Lines(text))
			}
			_ = b.sessions.Delete(ctx, sess.ID)
			b.runAdjustment(ctx, chatID, userID, data)
		}

	case typeNutrition:
		_ = b.sessions.Delete(ctx, sess.ID)
		if skipped {
			text = ""
		}
		b.runNutritionPlan(ctx, chatID, userID, text)
	}
}

func (b *Bot) runMoodAnalysis(ctx context.Context, chatID int64, userID, moodText string) {
	messageID := b.sendStatus(chatID, "🧠 *Reading your mood...*")
	st := b.state(chatID)
	st.SetLoading(true)
	defer st.SetLoading(false)

	analysis, err := b.client.AnalyzeMood(ctx, moodText)
	if err != nil {
		config.Logger.Errorf("Error analyzing mood: %v", err)
		b.editMarkdown(chatID, messageID, "❌ Failed to analyze mood. Please try again.")
		return
	}

	st.SetMoodAnalysis(analysis)
	if err := b.historyRepo.Save(ctx, userID, history.KindMood, analysis); err != nil {
		config.Logger.Warnf("Failed to save mood analysis for user %s: %v", userID, err)
	}
	b.editMarkdown(chatID, messageID, formatMoodMarkdown(analysis))
}

func (b *Bot) runCreateSchedule(ctx context.Context, chatID int64, userID string, data SessionContextData) {
	messageID := b.sendStatus(chatID, "📅 *Building your schedule...*")
	st := b.state(chatID)
	st.SetLoading(true)
	defer st.SetLoading(false)

	env, err := b.client.CreateSchedule(ctx, mentor.ScheduleRequest{
		MoodText:    data.MoodText,
		DailyGoals:  data.Goals,
		Preferences: &b.prefs,
	})
	if err != nil {
		config.Logger.Errorf("Error creating schedule: %v", err)
		b.editMarkdown(chatID, messageID, "❌ Failed to create schedule. Please try again.")
		return
	}

	b.applyNewSchedule(ctx, chatID, messageID, userID, env)
}

func (b *Bot) runCreateCustomSchedule(ctx context.Context, chatID int64, userID string, data SessionContextData) {
	messageID := b.sendStatus(chatID, "📅 *Building your schedule...*")
	st := b.state(chatID)
	st.SetLoading(true)
	defer st.SetLoading(false)

	env, err := b.client.CreateCustomSchedule(ctx, mentor.CustomScheduleRequest{
		Tasks:           data.Tasks,
		TimeRange:       data.TimeRange,
		UserPreferences: &b.prefs,
	})
	if err != nil {
		config.Logger.Errorf("Error creating custom schedule: %v", err)
		b.editMarkdown(chatID, messageID, "❌ Failed to create custom schedule. Please try again.")
		return
	}

	b.applyNewSchedule(ctx, chatID, messageID, userID, env)
}

// applyNewSchedule loads a creation result into the chat state. This is the
// brand-new-schedule transition: completion marks are reset.
func (b *Bot) applyNewSchedule(ctx context.Context, chatID int64, messageID int, userID string, env *schedule.Envelope) {
	st := b.state(chatID)
	view, ok := st.LoadSchedule(env)
	if err := b.historyRepo.Save(ctx, userID, history.KindSchedule, env); err != nil {
		config.Logger.Warnf("Failed to save schedule for user %s: %v", userID, err)
	}
	if !ok {
		b.editMarkdown(chatID, messageID, "No schedule data available. Please create a schedule first.")
		return
	}
	b.editSchedule(chatID, messageID, view, st)
}

func (b *Bot) runAdjustment(ctx context.Context, chatID int64, userID string, data SessionContextData) {
	st := b.state(chatID)
	st.ClearDraftEvents()
	for _, ev := range data.NewEvents {
		st.AddDraftEvent(ev)
	}

	// Validation runs before any network call.
	req, err := st.BuildAdjustment(data.MoodText)
	if err != nil {
		switch err {
		case schedule.ErrBlankMood:
			b.sendPlain(chatID, "I need to know how you're feeling — the mood text can't be empty.")
		case schedule.ErrNoSchedule:
			b.sendPlain(chatID, "No schedule data available. Please create a schedule first.")
		default:
			b.sendPlain(chatID, "Couldn't build the adjustment request.")
		}
		return
	}

	messageID := b.sendStatus(chatID, "🔄 *Re-planning your day...*")
	st.SetLoading(true)
	defer st.SetLoading(false)

	env, err := b.client.AdjustSchedule(ctx, *req)
	if err != nil {
		config.Logger.Errorf("Error adjusting schedule: %v", err)
		b.editMarkdown(chatID, messageID, "❌ Failed to adjust schedule. Please try again.")
		return
	}

	// Completion marks survive the adjustment on purpose.
	view, ok := st.ApplyAdjustment(env)
	if err := b.historyRepo.Save(ctx, userID, history.KindSchedule, env); err != nil {
		config.Logger.Warnf("Failed to save adjusted schedule for user %s: %v", userID, err)
	}
	if !ok {
		b.editMarkdown(chatID, messageID, "No schedule data available. Please create a schedule first.")
		return
	}
	b.editSchedule(chatID, messageID, view, st)
}

func (b *Bot) runNutritionPlan(ctx context.Context, chatID int64, userID, dietaryText string) {
	messageID := b.sendStatus(chatID, "🥗 *Putting your plan together...*")
	st := b.state(chatID)
	st.SetLoading(true)
	defer st.SetLoading(false)

	conditions, diets, allergies, goals := parse.Dietary(dietaryText)
	plan, err := b.client.NutritionPlan(ctx, mentor.NutritionRequest{
		MoodData:           st.MoodAnalysis(),
		MedicalConditions:  conditions,
		DietaryPreferences: diets,
		Allergies:          allergies,
		Goals:              goals,
	})
	if err != nil {
		config.Logger.Errorf("Error generating nutrition plan: %v", err)
		b.editMarkdown(chatID, messageID, "❌ Failed to generate nutrition plan. Please try again.")
		return
	}

	st.SetNutritionPlan(plan)
	if err := b.historyRepo.Save(ctx, userID, history.KindNutrition, plan); err != nil {
		config.Logger.Warnf("Failed to save nutrition plan for user %s: %v", userID, err)
	}
	b.editMarkdown(chatID, messageID, formatNutritionMarkdown(plan))
}

func (b *Bot) showSchedule(chatID int64) {
	st := b.state(chatID)
	view, ok := st.View()
	if !ok {
		b.sendPlain(chatID, "No schedule data available. Please create a schedule first.")
		return
	}

	text := formatScheduleMarkdown(view, st.Completions(), st.Envelope().Mood())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if len(view.Items) > 0 {
		msg.ReplyMarkup = scheduleKeyboard(view, st.Completions())
	}
	if _, err := b.api.Send(msg); err != nil {
		config.Logger.Errorf("Failed to send schedule: %v", err)
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// The gate applies to button presses too: in a group chat anyone can
	// see the keyboard, not just the user the schedule belongs to.
	if query.From == nil {
		return
	}
	if !b.isAllowed(query.From.ID) {
		config.Logger.Warnf("Unauthorized callback from UserID: %d", query.From.ID)
		return
	}

	defer b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	if query.Message == nil || !strings.HasPrefix(query.Data, toggleCallbackPrefix) {
		return
	}

	chatID := query.Message.Chat.ID
	st := b.state(chatID)
	view, ok := st.View()
	if !ok {
		return
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(query.Data, toggleCallbackPrefix))
	if err != nil || idx < 0 || idx >= len(view.Items) {
		return
	}
	st.ToggleCompletion(view.Items[idx].Activity)

	text := formatScheduleMarkdown(view, st.Completions(), st.Envelope().Mood())
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID, text,
		scheduleKeyboard(view, st.Completions()))
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		config.Logger.Errorf("Failed to update schedule message: %v", err)
	}
}

func (b *Bot) showHistory(ctx context.Context, chatID int64, userID string) {
	entries, err := b.historyRepo.ListRecent(ctx, userID, "", 10)
	if err != nil {
		config.Logger.Errorf("Failed to list history for user %s: %v", userID, err)
		b.sendPlain(chatID, "❌ Error fetching history.")
		return
	}
	if len(entries) == 0 {
		b.sendPlain(chatID, "No results yet. Start with /mood.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🗂 *Recent Results*\n\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("• %s — %s\n", e.Kind, e.CreatedAt.Local().Format("Jan 2 15:04")))
	}
	b.sendMarkdown(chatID, sb.String())
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.sendPlain(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Service Calls*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d calls, %d failed, avg %dms\n",
			d.Date, d.TotalCalls, d.FailedCalls, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %s (Alloc) / %s (Sys)\n", health.Alloc, health.Sys))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataSize))

	b.sendMarkdown(chatID, sb.String())
}

// editSchedule replaces a status message with the rendered schedule and its
// completion keyboard.
func (b *Bot) editSchedule(chatID int64, messageID int, view *schedule.View, st *session.State) {
	text := formatScheduleMarkdown(view, st.Completions(), st.Envelope().Mood())
	if len(view.Items) == 0 {
		b.editMarkdown(chatID, messageID, text)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text,
		scheduleKeyboard(view, st.Completions()))
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		config.Logger.Errorf("Failed to send schedule: %v", err)
	}
}

// sendStatus posts a progress message and returns its ID for later editing.
func (b *Bot) sendStatus(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		config.Logger.Errorf("Failed to send status message: %v", err)
		return 0
	}
	return sent.MessageID
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		config.Logger.Errorf("Failed to send message: %v", err)
	}
}

func (b *Bot) sendPlain(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		config.Logger.Errorf("Failed to send message: %v", err)
	}
}

func (b *Bot) editMarkdown(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		config.Logger.Errorf("Failed to edit message: %v", err)
	}
}
