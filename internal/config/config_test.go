package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "POSTGRES_WRITE_HOST=db\nPOSTGRES_WRITE_USER=ledger\nPOSTGRES_WRITE_DBNAME=ledger\nJWT_SECRET=s3cret\nSMS_TIMEOUT=3s\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	for _, k := range []string{"POSTGRES_WRITE_HOST", "POSTGRES_WRITE_USER", "POSTGRES_WRITE_DBNAME", "JWT_SECRET", "SMS_TIMEOUT", "CORS_ALLOWED_ORIGINS"} {
		k := k
		t.Cleanup(func() { os.Unsetenv(k) })
	}

	require.NoError(t, Load(path))
	c := Get()

	assert.Equal(t, "db", c.PostgresWriteHost)
	assert.Equal(t, "/api", c.HttpBaseRequestUrl)
	assert.Equal(t, 3*time.Second, c.SMSTimeout)
	assert.Equal(t, time.Hour, c.SessionTTL)
	assert.Equal(t, 15*time.Minute, c.PasswordResetTTL)
	assert.False(t, c.IsProduction())
	assert.Equal(t, []string{"http://localhost:3000", "https://a.example", "https://b.example"}, c.AllowedOrigins())

	read := c.ReadPostgres()
	assert.Equal(t, "db", read.Host)
	assert.Equal(t, "disable", read.SSLMode)
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestConfig_Derived(t *testing.T) {
	c := &Config{
		RedisAddr:          "redis:6379",
		QueueName:          "notifications",
		QueueConsumerGroup: "sms-senders",
		QueueBatchSize:     10,
		SMSApiURL:          "http://sms.local/send",
		SMSTimeout:         10 * time.Second,
		SMTPHost:           "smtp.local",
		SMTPPort:           587,
		SMTPUser:           "mailer@example.com",
	}

	assert.Equal(t, []string{"redis:6379"}, c.Redis("api").Addrs)
	assert.Equal(t, "api", c.Redis("api").ClientName)

	q := c.NotificationQueue()
	assert.Equal(t, "notifications", q.Name)
	assert.Equal(t, "sms-senders", q.ConsumerGroup)
	assert.Equal(t, int64(10), q.BatchSize)

	assert.Equal(t, "http://sms.local/send", c.SMSGateway().URL)
	assert.Equal(t, 10*time.Second, c.SMSGateway().Timeout)
	assert.Equal(t, 587, c.SMTP().Port)
}
