package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/service/commands"
	client "github.com/mamadbah2/shopledger/pkg/clients/whatsapp"
)

// ErrInvalidVerifyToken is returned when Meta's verification handshake does not match.
var ErrInvalidVerifyToken = errors.New("invalid verify token")

const sendTimeout = 10 * time.Second

// MessagingService describes the operations the HTTP layer and scheduler can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	allowed    map[string]struct{}
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. Only senders listed in
// cfg.AllowedSenders are served; an empty list serves everyone.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		allowed:    make(map[string]struct{}, len(cfg.AllowedSenders)),
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	for _, sender := range cfg.AllowedSenders {
		svc.allowed[normalizeNumber(sender)] = struct{}{}
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", fmt.Errorf("missing mode or verify token: %w", ErrInvalidVerifyToken)
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s: %w", mode, ErrInvalidVerifyToken)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", ErrInvalidVerifyToken
	}

	return challenge, nil
}

// HandleWebhook runs every inbound text as a ledger command and replies to the
// sender. Delivery statuses are ignored.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
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
	if !s.isAllowed(msg.From) {
		s.logger.Warn("ignoring message from unknown sender", zap.String("from", msg.From))
		return nil
	}

	text := extractMessageText(msg)
	if text == "" {
		s.logger.Debug("skipping non-text message", zap.String("type", msg.Type), zap.String("message_id", msg.ID))
		return nil
	}

	if msg.ID != "" {
		if err := s.client.MarkAsRead(ctx, msg.ID); err != nil {
			s.logger.Debug("mark as read failed", zap.Error(err))
		}
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if err != nil {
		s.logger.Info("command rejected", zap.String("command", string(cmd.Type)), zap.Error(err))
		reply = commands.DescribeError(err)
	}

	return s.send(ctx, msg.From, reply, false)
}

// SendOutbound lets internal operators and the scheduler push notifications.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return s.send(ctx, req.To, req.Message, req.PreviewURL)
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string, preview bool) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       body,
		PreviewURL: preview,
	})
	return err
}

func (s *MetaWhatsAppService) isAllowed(sender string) bool {
	if len(s.allowed) == 0 {
		return true
	}
	_, ok := s.allowed[normalizeNumber(sender)]
	return ok
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return strings.TrimSpace(msg.Text.Body)
	}

	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return strings.TrimSpace(msg.Interactive.ButtonReply.ID)
	}

	return ""
}

func normalizeNumber(number string) string {
	return strings.TrimPrefix(strings.TrimSpace(number), "+")
}
