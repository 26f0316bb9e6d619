package email

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

type SMTPNotifier struct {
	host   string
	port   int
	from   string
	logger *zap.Logger
}

func NewSMTPNotifier(host string, port int, from string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, from: from, logger: logger}
}

func (n *SMTPNotifier) NotifyFlagged(_ context.Context, recipient string, a *entity.Analysis) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	subject := fmt.Sprintf("VeriScan - Flagged media for review [%s]", a.ID)
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"A media item was flagged as a likely deepfake and needs review.\r\n\r\n"+
			"Analysis ID: %s\r\n"+
			"Media type: %s\r\n"+
			"Filename: %s\r\n"+
			"Score: %.4f (threshold %.2f)\r\n"+
			"Confidence: %.4f\r\n"+
			"Frames scored: %d\r\n\r\n"+
			"The review bundle is available in the review bucket.\r\n\r\n"+
			"-- VeriScan Detection Service",
		a.ID, a.MediaType, a.Filename, a.Score, a.Threshold,
		a.Verdict.Confidence, a.FramesScored,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.from, recipient, subject, body,
	)

	err := smtp.SendMail(addr, nil, n.from, []string{recipient}, []byte(msg))
	if err != nil {
		n.logger.Error("failed to send review notification email",
			zap.String("to", recipient),
			zap.String("analysis_id", a.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("review notification email sent",
		zap.String("to", recipient),
		zap.String("analysis_id", a.ID.String()),
	)
	return nil
}
