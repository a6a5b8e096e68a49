package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/yourusername/prana-whatsapp-bot/internal/usecase"
)

// maxUploadSize menyu jadvali uchun maksimal hajm (5MB)
const maxUploadSize = 5 * 1024 * 1024

const helpMessage = `🥤 *Prana Juice Bar*

Escríbeme lo que necesites, por ejemplo:
• "menú" para ver nuestras categorías
• "que shots tienen"
• "horarios" o "ubicación"

/start - Saludo
/reset - Empezar una conversación nueva
/help - Esta ayuda`

// BotHandler Telegram bot handler
type BotHandler struct {
	bot        *tgbotapi.BotAPI
	dispatcher usecase.Dispatcher
	importer   usecase.MenuImporter
	admins     map[int64]bool
	httpClient *http.Client
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewBotHandler yangi bot handler yaratish. importer nil bo'lsa menyu yuklash o'chiriladi.
func NewBotHandler(
	token string,
	dispatcher usecase.Dispatcher,
	importer usecase.MenuImporter,
	adminIDs []int64,
	logger *zap.Logger,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}

	return &BotHandler{
		bot:        bot,
		dispatcher: dispatcher,
		importer:   importer,
		admins:     admins,
		httpClient: http.DefaultClient,
		logger:     logger,
	}, nil
}

// Start botni ishga tushirish. ctx bekor qilinganda barcha xabarlar tugashini kutadi.
func (h *BotHandler) Start(ctx context.Context) error {
	h.logger.Info("Bot ishga tushdi", zap.String("username", h.bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Bot to'xtatilmoqda...")
			h.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			h.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer h.wg.Done()
				h.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic", zap.Any("error", r), zap.Int64("user_id", message.From.ID))
			h.sendMessage(message.Chat.ID, usecase.ErrorReply)
		}
	}()

	// Fayl yuborilgan bo'lsa
	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	// Komandalarni qayta ishlash
	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if message.Text != "" {
		h.handleTextMessage(ctx, message)
	}
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		reply := h.dispatcher.Process(ctx, UserKey(message.From.ID), "hola")
		h.sendMessage(message.Chat.ID, reply)
	case "help":
		h.sendMessage(message.Chat.ID, helpMessage)
	case "reset", "clear":
		h.handleResetCommand(ctx, message)
	default:
		h.sendMessage(message.Chat.ID, "Comando desconocido. Usa /help para ver la ayuda.")
	}
}

// handleTextMessage text xabarlarni dispatcher orqali qayta ishlash
func (h *BotHandler) handleTextMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	// "typing" indikatori
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.logger.Debug("typing action", zap.Error(err))
	}

	reply := h.dispatcher.Process(ctx, UserKey(message.From.ID), message.Text)
	h.sendMessage(chatID, reply)
}

// handleResetCommand tarixni tozalash
func (h *BotHandler) handleResetCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.dispatcher.ClearHistory(ctx, UserKey(message.From.ID)); err != nil {
		h.logger.Warn("Tarixni tozalashda xatolik", zap.Int64("user_id", message.From.ID), zap.Error(err))
		h.sendMessage(message.Chat.ID, usecase.ErrorReply)
		return
	}
	h.sendMessage(message.Chat.ID, "✅ Listo, empezamos de nuevo.")
}

// handleDocumentMessage admin menyu jadvalini yuborganda
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if h.importer == nil || !h.admins[message.From.ID] {
		h.sendMessage(chatID, "❌ Solo los administradores pueden subir el menú.")
		return
	}

	doc := message.Document
	if err := validateUpload(doc.FileName, int64(doc.FileSize)); err != nil {
		h.sendMessage(chatID, "❌ "+err.Error())
		return
	}

	h.sendMessage(chatID, "⏳ Procesando el menú...")

	data, err := h.downloadFile(ctx, doc.FileID)
	if err != nil {
		h.logger.Error("File download error", zap.Error(err))
		if errors.Is(err, errFileTooLarge) {
			h.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		h.sendMessage(chatID, "❌ No se pudo descargar el archivo.")
		return
	}

	result, err := h.importer.ImportBytes(ctx, data, doc.FileName)
	if err != nil {
		h.logger.Error("Menu import error", zap.String("file", doc.FileName), zap.Error(err))
		h.sendMessage(chatID, fmt.Sprintf("❌ Error al importar el menú: %v", err))
		return
	}

	h.sendMessage(chatID, ImportSummary(doc.FileName, result))
}

// downloadFile Telegram dan faylni yuklash
func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file: status %d", resp.StatusCode)
	}
	return readLimited(resp.Body, maxUploadSize)
}

// errFileTooLarge yuklangan fayl ruxsat etilgan hajmdan katta
var errFileTooLarge = errors.New("el archivo no debe superar 5MB")

// readLimited limit baytdan ortiq bo'lsa xatolik qaytaradi
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errFileTooLarge
	}
	return data, nil
}

// sendMessage oddiy xabar yuborish
func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Warn("Xabar yuborishda xatolik", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// UserKey Telegram foydalanuvchisi uchun tarix kaliti
func UserKey(id int64) string {
	return "tg:" + strconv.FormatInt(id, 10)
}

// validateUpload fayl nomi va hajmini tekshirish
func validateUpload(name string, size int64) error {
	if size > maxUploadSize {
		return errFileTooLarge
	}
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return errors.New("solo se aceptan archivos Excel (.xlsx)")
	}
	return nil
}

// ImportSummary import natijasi haqida xabar
func ImportSummary(filename string, r *usecase.ImportResult) string {
	var sb strings.Builder
	sb.WriteString("✅ Menú actualizado\n\n")
	fmt.Fprintf(&sb, "📄 Archivo: %s\n", filename)
	fmt.Fprintf(&sb, "📦 Items: %d\n", r.Items)
	fmt.Fprintf(&sb, "🗂 Categorías: %d\n", r.Categories)
	if r.Unavailable > 0 {
		fmt.Fprintf(&sb, "❌ No disponibles: %d\n", r.Unavailable)
	}
	if r.Duplicates > 0 {
		fmt.Fprintf(&sb, "♻️ Duplicados omitidos: %d\n", r.Duplicates)
	}
	sb.WriteString("\nLos cambios se aplican al reiniciar el bot.")
	return sb.String()
}
