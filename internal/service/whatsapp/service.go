package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/liancar/yard/internal/config"
	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/service/commands"
)

const (
	replyTimeout  = 10 * time.Second
	dedupeWindow  = 24 * time.Hour
	operatorsOnly = "Esse comando é exclusivo da equipe Lian Car."
)

// ErrVerification is returned when the webhook challenge does not match.
var ErrVerification = errors.New("webhook verification failed")

// Sender delivers a reply text.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// MessagingService describes the operations the webhook endpoints perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
}

// MetaWhatsAppService answers yard commands received over the WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	sender     Sender
	dispatcher commands.Dispatcher
	seen       *SeenMessages
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, sender Sender, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		sender:     sender,
		dispatcher: dispatcher,
		seen:       NewSeenMessages(dedupeWindow),
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", fmt.Errorf("%w: missing mode or verify token", ErrVerification)
	}
	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("%w: unsupported hub.mode %s", ErrVerification, mode)
	}
	if s.cfg.VerifyToken == "" || verifyToken != s.cfg.VerifyToken {
		return "", fmt.Errorf("%w: invalid verify token", ErrVerification)
	}
	return challenge, nil
}

// HandleWebhook processes inbound messages and logs failed deliveries.
// Messages already handled are skipped since Meta retries callbacks.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, st := range change.Value.Statuses {
				if st.Status == "failed" {
					s.logger.Warn("outbound message failed",
						zap.String("message_id", st.ID),
						zap.String("recipient", st.RecipientID),
						zap.Any("errors", st.Errors))
				}
			}

			for _, msg := range change.Value.Messages {
				if !s.seen.MarkNew(msg.ID) {
					s.logger.Debug("duplicate webhook message skipped", zap.String("message_id", msg.ID))
					continue
				}
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := msg.TextBody()
	if text == "" {
		s.logger.Debug("ignoring non-text message", zap.String("type", msg.Type))
		return nil
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	var reply string
	switch {
	case cmd.RequiresOperator() && !s.cfg.IsOperator(msg.From):
		reply = operatorsOnly
	default:
		out, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
		if err != nil {
			if !errors.Is(err, commands.ErrInvalidArguments) {
				return fmt.Errorf("dispatch %s: %w", cmd.Type, err)
			}
			out = "Informe a placa, por exemplo: status ABC1D23"
		}
		reply = out
	}

	if s.sender == nil {
		s.logger.Warn("reply dropped, whatsapp delivery disabled", zap.String("to", msg.From))
		return nil
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()
	return s.sender.SendText(ctxWithTimeout, msg.From, reply)
}
