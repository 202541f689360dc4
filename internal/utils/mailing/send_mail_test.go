package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome_EscapesName(t *testing.T) {
	body, err := RenderWelcome("<b>Ana</b>", "https://app.example.com")
	require.NoError(t, err)

	assert.Contains(t, body, "&lt;b&gt;Ana&lt;/b&gt;")
	assert.Contains(t, body, "https://app.example.com/onboarding")
}

func TestMailConfig_Enabled(t *testing.T) {
	assert.False(t, MailConfig{}.Enabled())
	assert.True(t, MailConfig{SMTPHost: "smtp.example.com", SMTPPort: "587", SMTPEmail: "noreply@example.com"}.Enabled())
}

func TestNewMessage_Headers(t *testing.T) {
	msg := NewMessage(MailConfig{SMTPEmail: "noreply@example.com", SMTPSender: "NutriScan"}, "ana@example.com", "Hello", "<p>x</p>")

	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Hello"}, msg.GetHeader("Subject"))
	require.Len(t, msg.GetHeader("From"), 1)
	assert.Contains(t, msg.GetHeader("From")[0], "noreply@example.com")
}
