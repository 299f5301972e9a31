package email

// Message is one plain-text e-mail.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}
