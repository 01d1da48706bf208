package config

import "time"

// MailConfig represents the SMTP relay settings.
// Keys match the MailSettings section of appsettings.json.
type MailConfig struct {
	SMTPHost    string   `mapstructure:"smtphost" validate:"required,hostname"`
	SMTPPort    int      `mapstructure:"smtpport" validate:"required,min=1,max=65535"`
	SMTPUser    string   `mapstructure:"smtpuser" validate:"required"`
	SMTPPass    string   `mapstructure:"smtppass" validate:"required"`
	FromAddress string   `mapstructure:"fromaddress" validate:"required,mailaddr"`
	ToAddresses []string `mapstructure:"toaddresses"`

	// SSL forces implicit TLS; port 465 implies it. STARTTLS is used otherwise.
	SSL                bool          `mapstructure:"ssl"`
	InsecureSkipVerify bool          `mapstructure:"insecureskipverify"`
	AllowInsecureAuth  bool          `mapstructure:"allowinsecureauth"` // authenticate without TLS
	Subject            string        `mapstructure:"subject"`
	Template           string        `mapstructure:"template"` // overrides the default body
	Timeout            time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// HasRecipients reports whether any recipient is configured
func (c *MailConfig) HasRecipients() bool {
	return len(c.ToAddresses) > 0
}
