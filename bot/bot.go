package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkarpov/interviewbot/ai"
	"github.com/pkarpov/interviewbot/config"
	"github.com/pkarpov/interviewbot/database"
	"github.com/pkarpov/interviewbot/models"
	"github.com/pkarpov/interviewbot/quiz"
)

// Bot represents the Telegram bot
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *quiz.Engine
	db     *database.DB
	pool   *database.Pool
}

const (
	cmdStart    = "start"
	cmdRegister = "register"
	cmdQuestion = "question"
	cmdStat     = "stat"
	cmdHelp     = "help"
)

// New creates a new bot instance
func New(cfg *config.Config) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	botAPI.Debug = os.Getenv("DEBUG") == "true"

	db, err := database.New(cfg.UsersDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize users database: %w", err)
	}

	pool, err := database.OpenPool(cfg.QuestionsDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open questions database: %w", err)
	}

	b := &Bot{
		api:  botAPI,
		db:   db,
		pool: pool,
	}

	// The bot delivers the expiry notices, so it is the notifier.
	b.engine = quiz.NewEngine(pool, db, ai.NewGrader(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), b, quiz.Options{
		AnswerTimeout:     cfg.AnswerTimeout,
		RetryProbability:  cfg.RetryProbability,
		RecordUnparseable: cfg.RecordUnparseable,
	})

	return b, nil
}

// Close releases the database connections
func (b *Bot) Close() {
	if err := b.db.Close(); err != nil {
		log.Printf("Error closing users database: %v", err)
	}
	if err := b.pool.Close(); err != nil {
		log.Printf("Error closing questions database: %v", err)
	}
}

// Start starts the bot and listens for updates
func (b *Bot) Start() {
	log.Println("Starting bot polling...")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleMessage(update.Message)
		}
	}
}

// handleMessage processes incoming messages
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID
	log.Printf("Received message from %s (ID: %d): %s", message.From.UserName, userID, message.Text)

	switch {
	case strings.HasPrefix(message.Text, "/"+cmdStart):
		b.handleStartCommand(message)
	case strings.HasPrefix(message.Text, "/"+cmdRegister):
		b.handleRegisterCommand(message)
	case strings.HasPrefix(message.Text, "/"+cmdQuestion):
		b.handleQuestionCommand(message)
	case strings.HasPrefix(message.Text, "/"+cmdStat):
		b.handleStatCommand(message)
	case strings.HasPrefix(message.Text, "/"+cmdHelp):
		b.handleHelpCommand(message)
	case strings.HasPrefix(message.Text, "/"):
		b.sendMessage(message.Chat.ID, "Неизвестная команда. Используйте /help для списка команд.")
	default:
		b.handleAnswer(message)
	}
}

// handleStartCommand handles the /start command
func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	welcomeText := `Привет! Я помогу тебе подготовиться к собеседованию по Python.

Команды:
/register - зарегистрироваться
/question - получить вопрос
/stat - посмотреть свою статистику
/help - справка

Готов начать?`

	b.sendMessage(message.Chat.ID, welcomeText)
}

// handleRegisterCommand handles the /register command
func (b *Bot) handleRegisterCommand(message *tgbotapi.Message) {
	if err := b.engine.EnsureUser(message.From.ID); err != nil {
		log.Printf("Error registering user %d: %v", message.From.ID, err)
		b.sendMessage(message.Chat.ID, "Не удалось зарегистрироваться, попробуйте позже.")
		return
	}
	b.sendMessage(message.Chat.ID, "Вы успешно зарегистрированы!")
}

// handleQuestionCommand handles the /question command
func (b *Bot) handleQuestionCommand(message *tgbotapi.Message) {
	userID := message.From.ID

	if err := b.engine.EnsureUser(userID); err != nil {
		log.Printf("Error registering user %d: %v", userID, err)
	}

	question, err := b.engine.SelectNextQuestion(userID)
	if errors.Is(err, quiz.ErrNoQuestions) {
		b.sendMessage(message.Chat.ID, "Вопросы закончились, попробуйте позже.")
		return
	}
	if err != nil {
		log.Printf("Error selecting question for user %d: %v", userID, err)
		b.sendMessage(message.Chat.ID, "Не удалось подобрать вопрос, попробуйте позже.")
		return
	}

	b.engine.OpenSession(userID, question)
	b.sendMessage(message.Chat.ID, fmt.Sprintf("Вопрос: %s\nКатегория: %s", question.Text, question.Category))
}

// handleAnswer forwards a free-text message as the answer to the
// user's open question
func (b *Bot) handleAnswer(message *tgbotapi.Message) {
	userID := message.From.ID

	judgment, err := b.engine.SubmitAnswer(context.Background(), userID, message.Text)
	if errors.Is(err, quiz.ErrNoActiveQuestion) {
		b.sendMessage(message.Chat.ID, "Используйте команду /question, чтобы получить вопрос.")
		return
	}
	if err != nil {
		// The judgment was produced even if recording it failed; still
		// show the user their result.
		log.Printf("Error submitting answer for user %d: %v", userID, err)
	}

	reply := verdictText(judgment.Verdict)
	if judgment.Explanation != "" {
		reply += "\n" + judgment.Explanation
	}
	b.sendMessage(message.Chat.ID, reply)
}

// handleStatCommand handles the /stat command
func (b *Bot) handleStatCommand(message *tgbotapi.Message) {
	total, percent, err := b.engine.Stats(message.From.ID)
	if err != nil {
		log.Printf("Error getting user stats: %v", err)
		b.sendMessage(message.Chat.ID, "Не удалось получить статистику, попробуйте позже.")
		return
	}

	statMessage := fmt.Sprintf(`📊 Ваша статистика:

Всего ответов: %d
Правильных: %.1f%%`, total, percent)

	b.sendMessage(message.Chat.ID, statMessage)
}

// handleHelpCommand handles the /help command
func (b *Bot) handleHelpCommand(message *tgbotapi.Message) {
	helpText := `Я задаю вопросы с собеседований по Python и проверяю ответы.

/register - зарегистрироваться
/question - получить вопрос
/stat - статистика: сколько ответов и процент правильных

Получив вопрос, просто отправьте свой ответ текстом.`

	b.sendMessage(message.Chat.ID, helpText)
}

// NotifyExpired tells the user their answer window closed.
func (b *Bot) NotifyExpired(telegramID int64, question models.Question) {
	log.Printf("Answer window expired for user %d, question %d", telegramID, question.ID)
	// In private chats the chat ID equals the user ID.
	b.sendMessage(telegramID, "⏰ Время на ответ вышло. Используйте /question, чтобы получить новый вопрос.")
}

// sendMessage sends a text message
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func verdictText(v models.Verdict) string {
	switch v {
	case models.VerdictCorrect:
		return "✅ Правильно!"
	case models.VerdictIncorrect:
		return "❌ Неправильно."
	default:
		return "Не удалось проверить ответ."
	}
}
