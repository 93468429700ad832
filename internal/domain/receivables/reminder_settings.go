package receivables

import "github.com/printpay/receivables/internal/domain/shared"

// Channel is a reminder delivery channel
type Channel string

const (
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelEmail    Channel = "Email"
	ChannelSMS      Channel = "SMS"
)

// FollowUpMode returns the follow-up mode a reminder on this channel is logged as
func (c Channel) FollowUpMode() FollowUpMode {
	switch c {
	case ChannelEmail:
		return FollowUpModeEmail
	case ChannelSMS:
		return FollowUpModeSMS
	default:
		return FollowUpModeWhatsApp
	}
}

// ReminderSettings controls which reminders fall due and on which channels
type ReminderSettings struct {
	DaysBeforeDue      int  `json:"days_before_due"`
	RemindOnDue        bool `json:"remind_on_due"`
	DaysAfterDueRepeat int  `json:"days_after_due_repeat"`
	EnableWhatsApp     bool `json:"enable_whatsapp"`
	EnableEmail        bool `json:"enable_email"`
	EnableSMS          bool `json:"enable_sms"`
}

// DefaultReminderSettings returns the settings new tenants start with
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		DaysBeforeDue:      3,
		RemindOnDue:        true,
		DaysAfterDueRepeat: 7,
		EnableWhatsApp:     true,
		EnableEmail:        true,
		EnableSMS:          false,
	}
}

// Validate rejects malformed settings
func (s ReminderSettings) Validate() error {
	if s.DaysBeforeDue < 0 {
		return shared.NewConfigurationError("INVALID_CONFIGURATION", "days_before_due cannot be negative")
	}
	if s.DaysAfterDueRepeat <= 0 {
		return shared.NewConfigurationError("INVALID_CONFIGURATION", "days_after_due_repeat must be greater than zero")
	}
	return nil
}

// EnabledChannels returns the enabled channels in a fixed order
func (s ReminderSettings) EnabledChannels() []Channel {
	var out []Channel
	if s.EnableWhatsApp {
		out = append(out, ChannelWhatsApp)
	}
	if s.EnableEmail {
		out = append(out, ChannelEmail)
	}
	if s.EnableSMS {
		out = append(out, ChannelSMS)
	}
	return out
}
