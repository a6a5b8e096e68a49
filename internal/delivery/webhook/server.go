package webhook

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/prana-whatsapp-bot/internal/usecase"
)

// shutdownTimeout server to'xtashi uchun kutish vaqti
const shutdownTimeout = 5 * time.Second

const banner = `<h1>🥤 Prana Juice Bar WhatsApp Bot</h1>
<p>Bot is running! Send messages to your WhatsApp number.</p>
<p>Webhook URL: /webhook</p>`

// Server WhatsApp webhook HTTP serveri
type Server struct {
	dispatcher  usecase.Dispatcher
	verifyToken string
	logger      *zap.Logger
	engine      *gin.Engine
	srv         *http.Server
}

// NewServer yangi webhook server yaratish
func NewServer(addr string, dispatcher usecase.Dispatcher, verifyToken string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		dispatcher:  dispatcher,
		verifyToken: verifyToken,
		logger:      logger,
	}

	r := gin.New()
	r.Use(s.requestLogger(), gin.CustomRecovery(s.onPanic))

	r.GET("/", s.home)
	r.GET("/health", s.health)
	r.POST("/webhook", s.twilioWebhook)
	r.GET("/webhook/meta", s.metaVerify)
	r.POST("/webhook/meta", s.metaWebhook)
	r.POST("/test", s.test)

	s.engine = r
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler router (testlar uchun)
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serverni ishga tushirish, ctx bekor qilinganda to'xtatish
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server ishga tushdi", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("HTTP server to'xtatilmoqda...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}

func (s *Server) home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(banner))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "bot": "running"})
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// twilioWebhook Twilio formatidagi xabar (Body, From) va TwiML javob
func (s *Server) twilioWebhook(c *gin.Context) {
	body := c.PostForm("Body")
	from := c.PostForm("From")

	s.logger.Info("Xabar keldi", zap.String("from", from), zap.String("message", body))

	reply, err := s.process(c.Request.Context(), from, body)
	if err != nil {
		s.logger.Error("Xabarni qayta ishlashda xatolik", zap.String("from", from), zap.Error(err))
		reply = usecase.ErrorReply
	}

	s.logger.Debug("Javob", zap.String("from", from), zap.String("reply", preview(reply, 100)))
	c.XML(http.StatusOK, twimlResponse{Message: reply})
}

// metaVerify WhatsApp Cloud API webhook tasdiqlash
func (s *Server) metaVerify(c *gin.Context) {
	if s.verifyToken == "" ||
		c.Query("hub.mode") != "subscribe" ||
		c.Query("hub.verify_token") != s.verifyToken {
		c.Status(http.StatusForbidden)
		return
	}
	c.String(http.StatusOK, c.Query("hub.challenge"))
}

type metaPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []metaMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type metaMessage struct {
	From string `json:"from"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// firstMessage entry[0].changes[0].value.messages[0]
func (p metaPayload) firstMessage() (metaMessage, bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return metaMessage{}, false
	}
	msgs := p.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 {
		return metaMessage{}, false
	}
	return msgs[0], true
}

// metaWebhook WhatsApp Cloud API JSON xabari
func (s *Server) metaWebhook(c *gin.Context) {
	var payload metaPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	msg, ok := payload.firstMessage()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "no message found"})
		return
	}

	reply, err := s.process(c.Request.Context(), msg.From, msg.Text.Body)
	if err != nil {
		s.logger.Error("Meta xabarini qayta ishlashda xatolik", zap.String("from", msg.From), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": usecase.ErrorReply})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "to": msg.From, "response": reply})
}

type testRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// test lokal sinov uchun endpoint
func (s *Server) test(c *gin.Context) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if req.UserID == "" {
		req.UserID = "test_user"
	}

	reply, err := s.process(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  req.Message,
		"response": reply,
	})
}

// process dispatcher chaqiruvi, panic xatolikka aylantiriladi
func (s *Server) process(ctx context.Context, userID, message string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.dispatcher.Process(ctx, userID, message), nil
}

func (s *Server) onPanic(c *gin.Context, recovered any) {
	s.logger.Error("Panic", zap.Any("error", recovered), zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": usecase.ErrorReply})
}

// requestLogger har bir so'rovni log qilish
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
