package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/you/storefront/domain"
)

const whatsappPrefix = "whatsapp:"

// messageAPI is the slice of the Twilio REST API used for delivery
type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioConfig holds sender settings
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	FromNumber  string
	ChatFrom    string
	CountryCode string
	Timeout     time.Duration
}

// TwilioSender implements domain.NotificationSender.
// SMS goes out as a plain message, chat goes out over WhatsApp.
type TwilioSender struct {
	api         messageAPI
	fromNumber  string
	chatFrom    string
	countryCode string
	logger      zerolog.Logger
}

// NewTwilioSender creates a new Twilio notification sender
func NewTwilioSender(cfg TwilioConfig, logger zerolog.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return newTwilioSender(client.Api, cfg, logger)
}

func newTwilioSender(api messageAPI, cfg TwilioConfig, logger zerolog.Logger) *TwilioSender {
	return &TwilioSender{
		api:         api,
		fromNumber:  cfg.FromNumber,
		chatFrom:    cfg.ChatFrom,
		countryCode: cfg.CountryCode,
		logger:      logger.With().Str("component", "twilio").Logger(),
	}
}

// Send implements domain.NotificationSender
func (t *TwilioSender) Send(ctx context.Context, to domain.Destination, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}

	from, addr, err := t.route(to)
	if err != nil {
		return err
	}

	// If credentials are not configured, log instead of sending
	if from == "" {
		t.logger.Info().
			Str("channel", string(to.Channel)).
			Str("to", domain.MaskPhone(to.Address)).
			Msg("notification sender not configured, message dropped")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(addr)
	params.SetFrom(from)
	params.SetBody(message)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send %s message: %w: %v", to.Channel, domain.ErrDelivery, err)
	}
	return nil
}

func (t *TwilioSender) route(to domain.Destination) (from, addr string, err error) {
	switch to.Channel {
	case domain.ChannelSMS:
		return t.fromNumber, ToE164(to.Address, t.countryCode), nil
	case domain.ChannelChat:
		if t.chatFrom == "" {
			return "", "", nil
		}
		return withPrefix(t.chatFrom), withPrefix(ToE164(strings.TrimPrefix(to.Address, whatsappPrefix), t.countryCode)), nil
	default:
		return "", "", fmt.Errorf("%w: unknown channel %q", domain.ErrDelivery, to.Channel)
	}
}

// ToE164 converts a national number with a leading zero into international form.
// Numbers already carrying a plus sign are returned unchanged.
func ToE164(number, countryCode string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "+") || countryCode == "" {
		return number
	}
	return countryCode + strings.TrimPrefix(number, "0")
}

func withPrefix(addr string) string {
	if strings.HasPrefix(addr, whatsappPrefix) {
		return addr
	}
	return whatsappPrefix + addr
}

var _ domain.NotificationSender = (*TwilioSender)(nil)
