package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
)

// Service sends transactional mail.
type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendCustom(ctx context.Context, to, subject, content string) error
}

const welcomeText = `Hello {{.Name}},

Your account on the health information system has been created.
You can sign in with this email address at any time.
`

var welcomeTemplate = template.Must(template.New("welcome").Parse(welcomeText))

func renderWelcome(name string) (string, error) {
	buf := &bytes.Buffer{}
	if err := welcomeTemplate.Execute(buf, struct{ Name string }{name}); err != nil {
		return "", fmt.Errorf("while templating welcome email: %w", err)
	}
	return buf.String(), nil
}

const welcomeSubject = "Welcome to the health information system"

// Noop discards all mail. Used when no provider is configured.
type Noop struct{}

func (Noop) SendWelcome(context.Context, string, string) error        { return nil }
func (Noop) SendCustom(context.Context, string, string, string) error { return nil }
