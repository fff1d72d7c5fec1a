package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/liancar/yard/internal/config"
)

// MaxTextLength is the Cloud API limit for a text body, in characters.
const MaxTextLength = 4096

// ErrEmptyRecipient is returned when no phone number is given.
var ErrEmptyRecipient = errors.New("whatsapp recipient is empty")

// APIError is an error payload returned by the Cloud API.
type APIError struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d code=%d message=%s", e.Status, e.Code, e.Message)
}

// APIClient sends text messages from the business phone number.
type APIClient struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client. Requests are retried on 5xx and
// transport errors.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/"+cfg.APIVersion).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})

	return &APIClient{http: rc, phoneNumberID: cfg.PhoneNumberID}
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body       string `json:"body"`
		PreviewURL bool   `json:"preview_url"`
	} `json:"text"`
}

type sendResult struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// SendText delivers body to one recipient, split into several messages when
// it exceeds MaxTextLength.
func (c *APIClient) SendText(ctx context.Context, to, body string) error {
	_, err := c.Send(ctx, to, body)
	return err
}

// Send is SendText returning the message IDs.
func (c *APIClient) Send(ctx context.Context, to, body string) ([]string, error) {
	to = NormalizeNumber(to)
	if to == "" {
		return nil, ErrEmptyRecipient
	}

	var ids []string
	for _, part := range SplitText(body, MaxTextLength) {
		id, err := c.sendOne(ctx, to, part)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *APIClient) sendOne(ctx context.Context, to, body string) (string, error) {
	msg := textMessage{MessagingProduct: "whatsapp", To: to, Type: "text"}
	msg.Text.Body = body

	result := new(sendResult)
	apiErr := new(errorEnvelope)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(result).
		SetError(apiErr).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.IsError() {
		e := apiErr.Error
		e.Status = resp.StatusCode()
		return "", &e
	}
	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}

// NormalizeNumber strips the formatting people type around phone numbers,
// e.g. "+55 (11) 99999-9999" becomes "5511999999999".
func NormalizeNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitText cuts text into chunks of at most limit characters, preferring
// line breaks as cut points.
func SplitText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
