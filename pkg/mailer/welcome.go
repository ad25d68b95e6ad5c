package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// Message is a rendered email ready to send.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

var welcomeHTML = template.Must(template.New("welcome").Parse(`<!doctype html>
<html>
  <body style="font-family:Arial,sans-serif;color:#222">
    <h2>Welcome to {{.AppName}}, {{.Name}}!</h2>
    <p>Your account <strong>{{.Email}}</strong> is ready.</p>
    {{if .IsBusiness}}<p>Your business account lets you publish business cards.</p>{{end}}
    <p>If you did not sign up, please ignore this email.</p>
  </body>
</html>`))

// Welcome renders the message sent after a user registers.
func Welcome(appName, name, email string, isBusiness bool) (Message, error) {
	if strings.TrimSpace(email) == "" {
		return Message{}, fmt.Errorf("welcome mail: empty recipient")
	}
	if name == "" {
		name = email
	}
	data := struct {
		AppName, Name, Email string
		IsBusiness           bool
	}{appName, name, email, isBusiness}

	var html bytes.Buffer
	if err := welcomeHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("welcome mail: %w", err)
	}

	text := fmt.Sprintf("Welcome to %s, %s!\n\nYour account %s is ready.\n", appName, name, email)
	if isBusiness {
		text += "Your business account lets you publish business cards.\n"
	}
	return Message{
		To:      email,
		Subject: "Welcome to " + appName,
		Text:    text,
		HTML:    html.String(),
	}, nil
}
