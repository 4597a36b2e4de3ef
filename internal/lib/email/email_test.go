package email

import (
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "msg_1"}, nil
}

func TestRenderPreviewData(t *testing.T) {
	for name, data := range PreviewData {
		body, err := Render(name, data)
		require.NoError(t, err, name)
		for _, v := range data {
			assert.Contains(t, body, v)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	assert.Error(t, err)
}

func TestSendRuleAssignedEmail(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	client := NewClientWithSender(sender, "Sales <sales@x.com>", &logger)

	require.NoError(t, client.SendRuleAssignedEmail("rep@x.com", "FR", nil, "FR-ALL"))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"rep@x.com"}, msg.To)
	assert.Equal(t, "Sales <sales@x.com>", msg.From)
	assert.Contains(t, msg.Subject, "FR")
	assert.Contains(t, msg.Html, "All regions")
	assert.Contains(t, msg.Html, "FR-ALL")
}

func TestSendEmailProviderError(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClientWithSender(&fakeSender{err: errors.New("rate limited")}, "s@x.com", &logger)

	err := client.SendRuleAssignedEmail("rep@x.com", "FR", nil, "FR-ALL")
	assert.ErrorContains(t, err, "rate limited")
}

func TestDisabledClientDropsMail(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClientWithSender(nil, "s@x.com", &logger)

	assert.False(t, client.Enabled())
	assert.NoError(t, client.SendRuleAssignedEmail("rep@x.com", "FR", nil, "FR-ALL"))
}
