package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"chore-planner/internal/config"
	"chore-planner/internal/model"
	"chore-planner/internal/repository"
	"chore-planner/internal/service"
)

const (
	cbCompletePrefix = "complete:"
	cbSkipPrefix     = "skip:"
)

const (
	menuLabelToday    = "🧹 Today"
	menuLabelTasks    = "📋 All chores"
	menuLabelUpcoming = "🔮 Upcoming"
	menuLabelHelp     = "ℹ️ Help"
)

// Bot aggregates Telegram API with services.
type Bot struct {
	api       *tgbotapi.BotAPI
	userRepo  *repository.UserRepository
	taskSvc   *service.TaskService
	occSvc    *service.OccurrenceService
	planner   *service.PlannerService
	digestSvc *service.DigestService
	config    *config.Config
	// limiter paces the digest broadcast below Telegram's bulk limits.
	limiter *rate.Limiter
	log     zerolog.Logger
}

func New(token string, userRepo *repository.UserRepository, taskSvc *service.TaskService, occSvc *service.OccurrenceService, planner *service.PlannerService, digestSvc *service.DigestService, cfg *config.Config, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info().Str("account", api.Self.UserName).Msg("bot authorized")

	return &Bot{
		api:       api,
		userRepo:  userRepo,
		taskSvc:   taskSvc,
		occSvc:    occSvc,
		planner:   planner,
		digestSvc: digestSvc,
		config:    cfg,
		limiter:   rate.NewLimiter(rate.Limit(20), 1),
		log:       log,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error().Err(err).Msg("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error().Err(err).Msg("handle message")
			}
		}
	}

	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() {
		switch strings.TrimSpace(msg.Text) {
		case menuLabelToday:
			return b.handleToday(ctx, msg)
		case menuLabelTasks:
			return b.handleTasks(ctx, msg)
		case menuLabelUpcoming:
			return b.handleUpcoming(ctx, msg)
		case menuLabelHelp:
			return b.handleHelp(msg)
		}
		return b.sendText(msg.Chat.ID, "I did not get that. See /help.")
	}

	b.log.Info().Int64("from", msg.From.ID).Str("command", msg.Command()).Str("args", msg.CommandArguments()).Msg("command")

	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "tasks":
		return b.handleTasks(ctx, msg)
	case "upcoming":
		return b.handleUpcoming(ctx, msg)
	case "add":
		return b.handleAdd(ctx, msg)
	case "done":
		return b.handleTransition(ctx, msg, b.occSvc.MarkComplete)
	case "skip":
		return b.handleTransition(ctx, msg, b.occSvc.Skip)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "budget":
		return b.handleBudget(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "neighbour"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep track of recurring chores and build a daily plan that fits your time budget.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, helpText)
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendPlan(ctx, msg.Chat.ID, user)
}

func (b *Bot) sendPlan(ctx context.Context, chatID int64, user *model.User) error {
	text, plan, err := b.digestSvc.DailyDigest(ctx, user)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not build the plan: %s", escape(err.Error())))
	}
	if len(plan.Today) == 0 {
		return b.sendText(chatID, text)
	}
	return b.sendWithReplyMarkup(chatID, text, planKeyboard(plan))
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	statuses, err := b.planner.Statuses(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load chores: %s", escape(err.Error())))
	}
	if len(statuses) == 0 {
		return b.sendText(msg.Chat.ID, "No chores yet. Add one with /add weekly 20 Vacuum the hallway.")
	}
	areas, err := b.taskSvc.AreaNames(ctx, user)
	if err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, formatStatuses(statuses, areas))
}

func (b *Bot) handleUpcoming(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	forecasts, err := b.planner.Upcoming(ctx, user, upcomingMonths)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the forecast: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, formatForecasts(forecasts))
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	input, err := parseAddArgs(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("%s\n\n%s", escape(err.Error()), addUsage))
	}
	task, occ, err := b.taskSvc.CreateTask(ctx, user, input)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not add the chore: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("➕ Added «%s» (#%d), first due %s.", escape(task.Title), task.ID, occ.DueOn))
}

type transitionFunc func(ctx context.Context, user *model.User, occurrenceID uint) (*service.Completion, error)

func (b *Bot) handleTransition(ctx context.Context, msg *tgbotapi.Message, fn transitionFunc) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the number from the plan, e.g. /done 12")
	}
	return b.transitionAndRefresh(ctx, msg.Chat.ID, msg.From, id, fn)
}

func (b *Bot) transitionAndRefresh(ctx context.Context, chatID int64, from *tgbotapi.User, occurrenceID uint, fn transitionFunc) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	c, err := fn(ctx, user, occurrenceID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return b.sendText(chatID, "No such chore, or it was deleted.")
	case errors.Is(err, service.ErrNotPending):
		return b.sendText(chatID, "That one is already closed.")
	case err != nil:
		return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	if err := b.sendText(chatID, formatCompletion(c)); err != nil {
		return err
	}
	return b.sendPlan(ctx, chatID, user)
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the chore number from /tasks, e.g. /delete 3")
	}
	task, err := b.taskSvc.GetTask(ctx, user, id)
	if err == nil {
		err = b.taskSvc.DeleteTask(ctx, user, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return b.sendText(msg.Chat.ID, "Chore not found or already deleted.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 «%s» (#%d) deleted together with its history.", escape(task.Title), id))
}

func (b *Bot) handleBudget(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	change, err := parseBudgetArg(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error()))
	}
	if change.show {
		return b.sendText(msg.Chat.ID, formatBudgetSetting(b.planner.BudgetFor(user)))
	}

	minutes := user.DailyBudgetMinutes
	if change.minutes > 0 {
		minutes = change.minutes
	}
	if minutes == 0 && !change.disabled {
		minutes = b.config.DailyBudgetMinutes
	}
	if err := b.userRepo.UpdateBudget(ctx, user, minutes, change.disabled); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, "Done. "+formatBudgetSetting(b.planner.BudgetFor(user)))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn().Err(err).Msg("callback ack")
	}

	data := cb.Data
	b.log.Info().Int64("from", cb.From.ID).Str("data", data).Msg("callback")

	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		id, err := parseID(strings.TrimPrefix(data, cbCompletePrefix))
		if err != nil {
			return nil
		}
		return b.transitionAndRefresh(ctx, cb.Message.Chat.ID, cb.From, id, b.occSvc.MarkComplete)
	case strings.HasPrefix(data, cbSkipPrefix):
		id, err := parseID(strings.TrimPrefix(data, cbSkipPrefix))
		if err != nil {
			return nil
		}
		return b.transitionAndRefresh(ctx, cb.Message.Chat.ID, cb.From, id, b.occSvc.Skip)
	default:
		return nil
	}
}

// SendDailyDigests pushes today's plan to every member.
func (b *Bot) SendDailyDigests(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		user := &users[i]
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := b.sendPlan(ctx, user.TelegramID, user); err != nil {
			b.log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("send digest")
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelUpcoming),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func planKeyboard(plan *service.DayPlan) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range plan.Today {
		if c.OccurrenceID == 0 {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", c.OccurrenceID, shortTitle(c.Title, 22)), fmt.Sprintf("%s%d", cbCompletePrefix, c.OccurrenceID)),
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", fmt.Sprintf("%s%d", cbSkipPrefix, c.OccurrenceID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
