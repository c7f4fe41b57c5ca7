package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"marketpulse/server/internal/models"
)

// Service sends market alerts to a Telegram chat. When no bot token is
// configured the service is a no-op, so alerting can never break a
// refresh run.
type Service struct {
	logger   *logrus.Logger
	client   *http.Client
	botToken string
	chatID   string
	enabled  bool
}

func NewService(logger *logrus.Logger, botToken, chatID string, enabled bool) *Service {
	return &Service{
		logger:   logger,
		client:   &http.Client{Timeout: 10 * time.Second},
		botToken: botToken,
		chatID:   chatID,
		enabled:  enabled && botToken != "" && chatID != "",
	}
}

// NotifyConditionChange reports that a tracked metro's market condition
// moved between refreshes.
func (s *Service) NotifyConditionChange(record *models.MarketRecord, previous models.MarketCondition) error {
	message := fmt.Sprintf(
		"📈 <b>Market shift in %s, %s</b>\n\n"+
			"Condition: %s → <b>%s</b>\n"+
			"Median price: $%.0f\n"+
			"Days on market: %d\n"+
			"Competition: %s",
		record.City, record.State,
		previous, record.MarketCondition,
		record.MedianPrice,
		record.AverageDaysOnMarket,
		record.CompetitionLevel,
	)
	return s.SendMessage(message)
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if !s.enabled {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)
	payload := map[string]interface{}{
		"chat_id":    s.chatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram payload: %w", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		s.logger.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"response": string(respBody),
		}).Error("Telegram API returned non-success status")
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}
