package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Provider response codes. Only 202 means the message was accepted.
const (
	CodeAccepted       = 202
	CodeInvalidNumber  = 1001
	CodeInvalidAPIKey  = 1002
	CodeEmptyMessage   = 1003
	CodeOperatorFailed = 1011
)

var codeMessages = map[int]string{
	CodeInvalidNumber:  "Invalid Number",
	CodeInvalidAPIKey:  "Invalid API Key",
	CodeEmptyMessage:   "Message body is empty",
	CodeOperatorFailed: "Operator rejected the message",
}

// SendResponse mirrors the provider's JSON answer.
type SendResponse struct {
	ResponseCode   int    `json:"response_code"`
	MessageID      int64  `json:"message_id,omitempty"`
	SuccessMessage string `json:"success_message,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// SentMessage is kept in memory so a developer can inspect what was sent.
type SentMessage struct {
	MessageID int64     `json:"message_id"`
	Number    string    `json:"number"`
	SenderID  string    `json:"sender_id"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// MockProvider simulates the bulk SMS HTTP API used by the ledger.
type MockProvider struct {
	apiKey       string
	deliveryRate float64
	minDelay     time.Duration
	maxDelay     time.Duration
	providerID   string

	nextID atomic.Int64
	mu     sync.Mutex
	rng    *rand.Rand
	sent   []SentMessage
}

func NewMockProvider(apiKey string, deliveryRate float64, minDelay, maxDelay time.Duration) *MockProvider {
	return &MockProvider{
		apiKey:       apiKey,
		deliveryRate: deliveryRate,
		minDelay:     minDelay,
		maxDelay:     maxDelay,
		providerID:   "MOCK_SMS_" + uuid.New().String()[:8],
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockProvider) randomDelay() time.Duration {
	delta := m.maxDelay - m.minDelay
	if delta <= 0 {
		return m.minDelay
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MockProvider) shouldSucceed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64() < m.deliveryRate
}

func reject(code int) SendResponse {
	return SendResponse{ResponseCode: code, ErrorMessage: codeMessages[code]}
}

// Send validates the request the way the real provider does and records
// accepted messages.
func (m *MockProvider) Send(apiKey, senderID, number, message string) SendResponse {
	switch {
	case m.apiKey != "" && apiKey != m.apiKey:
		return reject(CodeInvalidAPIKey)
	case !validNumber(number):
		return reject(CodeInvalidNumber)
	case message == "":
		return reject(CodeEmptyMessage)
	}

	time.Sleep(m.randomDelay())

	if !m.shouldSucceed() {
		return reject(CodeOperatorFailed)
	}

	id := m.nextID.Add(1)
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{MessageID: id, Number: number, SenderID: senderID, Message: message, SentAt: time.Now()})
	m.mu.Unlock()

	return SendResponse{ResponseCode: CodeAccepted, MessageID: id, SuccessMessage: "SMS Submitted Successfully"}
}

func (m *MockProvider) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

func validNumber(n string) bool {
	if len(n) < 3 {
		return false
	}
	if n[0] == '+' {
		n = n[1:]
	}
	_, err := strconv.ParseUint(n, 10, 64)
	return err == nil
}

type Handler struct {
	provider *MockProvider
}

func NewHandler(provider *MockProvider) *Handler {
	return &Handler{provider: provider}
}

// SendSMS accepts the parameters as query or form values.
func (h *Handler) SendSMS(c *gin.Context) {
	number := param(c, "number")
	log.Info().
		Str("number", number).
		Str("sender_id", param(c, "senderid")).
		Msg("Received SMS send request")

	resp := h.provider.Send(param(c, "api_key"), param(c, "senderid"), number, param(c, "message"))
	if resp.ResponseCode == CodeAccepted {
		log.Info().Int64("message_id", resp.MessageID).Str("number", number).Msg("SMS accepted")
	} else {
		log.Warn().Int("response_code", resp.ResponseCode).Str("number", number).Msg("SMS rejected")
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListSent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"provider_id": h.provider.providerID, "messages": h.provider.Sent()})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"provider_id":   h.provider.providerID,
		"timestamp":     time.Now(),
		"delivery_rate": h.provider.deliveryRate,
	})
}

func param(c *gin.Context, key string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return c.PostForm(key)
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	})

	api := router.Group("/api/http/sms")
	{
		api.POST("/send", handler.SendSMS)
		api.GET("/send", handler.SendSMS)
		api.GET("/sent", handler.ListSent)
	}
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8090")
	apiKey := getEnv("SMS_API_KEY", "")
	deliveryRate := getEnvFloat("DELIVERY_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 300*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("delivery_rate", deliveryRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting mock SMS provider")

	handler := NewHandler(NewMockProvider(apiKey, deliveryRate, minDelay, maxDelay))
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      SetupRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
