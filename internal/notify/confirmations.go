package notify

import (
	"context"
	"fmt"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// Confirmations emails booking confirmations to customers and lead
// alerts to the sales inbox. Failures are logged, never surfaced to the
// caller: a missed email must not undo a booking.
type Confirmations struct {
	sender     EmailSender
	salesEmail string
	logger     *logging.Logger
}

func NewConfirmations(sender EmailSender, salesEmail string, logger *logging.Logger) *Confirmations {
	if sender == nil {
		panic("notify: email sender is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Confirmations{sender: sender, salesEmail: salesEmail, logger: logger}
}

var _ appointments.ConfirmationSender = (*Confirmations)(nil)

// SendBookingConfirmation emails the customer their appointment details.
func (c *Confirmations) SendBookingConfirmation(ctx context.Context, appt *appointments.Appointment) {
	if appt.ContactEmail == "" {
		return
	}
	msg := EmailMessage{
		To:      appt.ContactEmail,
		ToName:  appt.CustomerName,
		Subject: fmt.Sprintf("Your Fleetline appointment %s is confirmed", appt.ID),
		Body: fmt.Sprintf(`Hello %s,

Your %s appointment is confirmed.

Reference: %s
Date: %s
Time: %s

If you need to reschedule, call our Driver Desk (Mon-Fri, 9am-5pm) and quote your reference.

Fleetline Driver Desk`,
			appt.CustomerName, appt.Type, appt.ID, appt.Date, appt.Slot),
	}
	if err := c.sender.Send(ctx, msg); err != nil {
		c.logger.Error("booking confirmation email failed", "appointment_id", appt.ID, "error", err)
		return
	}
	c.logger.Info("booking confirmation sent", "appointment_id", appt.ID)
}

// SendLeadAlert notifies the sales inbox about a newly captured lead so
// high-priority prospects get picked up quickly.
func (c *Confirmations) SendLeadAlert(ctx context.Context, lead *leads.Lead) {
	if c.salesEmail == "" {
		return
	}
	msg := EmailMessage{
		To:      c.salesEmail,
		ToName:  "Fleet Sales",
		Subject: fmt.Sprintf("New %s-priority lead %s", lead.Priority, lead.ID),
		Body: fmt.Sprintf(`New lead captured by the voice agent.

Reference: %s
Name: %s
Phone: %s
Email: %s
Company: %s
Score: %d (%s)

Follow up within 1 business day.`,
			lead.ID, lead.ContactName, lead.ContactPhone, lead.ContactEmail,
			lead.CompanyName, lead.Score, lead.Priority),
	}
	if err := c.sender.Send(ctx, msg); err != nil {
		c.logger.Error("lead alert email failed", "lead_id", lead.ID, "error", err)
		return
	}
	c.logger.Info("lead alert sent", "lead_id", lead.ID, "priority", string(lead.Priority))
}
