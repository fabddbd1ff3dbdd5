package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/prom"
)

// ResponseAccepted is the response_code the provider returns for a queued SMS.
const ResponseAccepted = "202"

var (
	ErrNotConfigured = errors.New("sms gateway is not configured")
	ErrRejected      = errors.New("sms rejected by gateway")
)

type Config struct {
	URL      string
	APIKey   string
	SenderID string
	Timeout  time.Duration
	MaxConns int
}

type SendResponse struct {
	ResponseCode json.Number `json:"response_code"`
	MessageID    json.Number `json:"message_id,omitempty"`
	SuccessMsg   string      `json:"success_message,omitempty"`
	ErrorMsg     string      `json:"error_message,omitempty"`
}

type Metrics struct {
	TotalRequests  atomic.Int64
	SuccessfulReqs atomic.Int64
	FailedReqs     atomic.Int64
	TotalLatencyMs atomic.Int64
	LastLatencyMs  atomic.Int64
}

func (m *Metrics) RecordSuccess(latencyMs int64) {
	m.TotalRequests.Add(1)
	m.SuccessfulReqs.Add(1)
	m.TotalLatencyMs.Add(latencyMs)
	m.LastLatencyMs.Store(latencyMs)
}

func (m *Metrics) RecordFailure(latencyMs int64) {
	m.TotalRequests.Add(1)
	m.FailedReqs.Add(1)
	m.TotalLatencyMs.Add(latencyMs)
	m.LastLatencyMs.Store(latencyMs)
}

func (m *Metrics) AvgLatencyMs() int64 {
	total := m.TotalRequests.Load()
	if total == 0 {
		return 0
	}
	return m.TotalLatencyMs.Load() / total
}

func (m *Metrics) SuccessRate() float64 {
	total := m.TotalRequests.Load()
	if total == 0 {
		return 1.0
	}
	return float64(m.SuccessfulReqs.Load()) / float64(total)
}

type Stats struct {
	TotalRequests  int64   `json:"totalRequests"`
	SuccessfulReqs int64   `json:"successfulRequests"`
	FailedReqs     int64   `json:"failedRequests"`
	SuccessRate    float64 `json:"successRate"`
	AvgLatencyMs   int64   `json:"avgLatencyMs"`
	LastLatencyMs  int64   `json:"lastLatencyMs"`
}

// SMSClient posts single messages to the HTTP SMS provider. There is no
// retry: a failed send is reported to the caller once.
type SMSClient struct {
	config  Config
	client  *fasthttp.Client
	metrics *Metrics
}

func NewSMSClient(config Config) *SMSClient {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &SMSClient{
		config: config,
		client: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
		metrics: &Metrics{},
	}
}

// Send delivers message to phone. It succeeds only when the provider answers
// with response_code 202.
func (c *SMSClient) Send(ctx context.Context, phone, message string) (*SendResponse, error) {
	if c.config.URL == "" {
		return nil, ErrNotConfigured
	}

	startTime := time.Now()
	body, err := c.doRequest(ctx, phone, message)
	latency := time.Since(startTime)
	if err != nil {
		c.recordFailure(latency)
		logger.Warn("sms request failed", "phone", phone, "error", err, "latency_ms", latency.Milliseconds())
		return nil, err
	}

	var resp SendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.recordFailure(latency)
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.ResponseCode.String() != ResponseAccepted {
		c.recordFailure(latency)
		logger.Warn("sms rejected", "phone", phone, "response_code", resp.ResponseCode.String(), "error_message", resp.ErrorMsg)
		return &resp, fmt.Errorf("%w: response_code=%s %s", ErrRejected, resp.ResponseCode, resp.ErrorMsg)
	}

	c.metrics.RecordSuccess(latency.Milliseconds())
	prom.ObserveGatewayRequest(latency, "success")
	logger.Info("sms sent", "phone", phone, "message_id", resp.MessageID.String(), "latency_ms", latency.Milliseconds())
	return &resp, nil
}

func (c *SMSClient) Stats() Stats {
	m := c.metrics
	return Stats{
		TotalRequests:  m.TotalRequests.Load(),
		SuccessfulReqs: m.SuccessfulReqs.Load(),
		FailedReqs:     m.FailedReqs.Load(),
		SuccessRate:    m.SuccessRate(),
		AvgLatencyMs:   m.AvgLatencyMs(),
		LastLatencyMs:  m.LastLatencyMs.Load(),
	}
}

func (c *SMSClient) recordFailure(latency time.Duration) {
	c.metrics.RecordFailure(latency.Milliseconds())
	prom.ObserveGatewayRequest(latency, "failure")
}

// doRequest posts the message as query arguments, the way the provider's
// form API expects it.
func (c *SMSClient) doRequest(ctx context.Context, phone, message string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")

	args := req.URI().QueryArgs()
	args.Set("api_key", c.config.APIKey)
	args.Set("senderid", c.config.SenderID)
	args.Set("number", phone)
	args.Set("message", message)
	args.Set("type", "text")

	deadline := time.Now().Add(c.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())

	return result, nil
}
