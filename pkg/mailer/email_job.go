package mailer

// Template names understood by the email worker.
const (
	TemplatePasswordReset = "password_reset"
	TemplateWelcome       = "welcome"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects one of the embedded templates; Data feeds it.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}
