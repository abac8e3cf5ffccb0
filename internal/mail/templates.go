package mail

import (
	"bytes"
	"html/template"
	"time"
)

var (
	verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html><body style="font-family:sans-serif">
<h2>Welcome to UniHub, {{.Name}}!</h2>
<p>Your verification code is:</p>
<p style="font-size:28px;letter-spacing:6px"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.ValidMinutes}} minutes.</p>
</body></html>`))

	postTmpl = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html><body style="font-family:sans-serif">
<h3>New post in {{.ClubName}}</h3>
<p>{{.Text}}</p>
<p style="color:#888">You receive this because post notifications are enabled for {{.ClubName}}.</p>
</body></html>`))

	eventTmpl = template.Must(template.New("event").Parse(`<!DOCTYPE html>
<html><body style="font-family:sans-serif">
<h3>New event in {{.ClubName}}</h3>
<p>{{.Text}}</p>
<p><strong>When:</strong> {{.When}}<br><strong>Where:</strong> {{.Location}}</p>
<p style="color:#888">You receive this because event notifications are enabled for {{.ClubName}}.</p>
</body></html>`))
)

// RenderVerification renders the verification code email.
func RenderVerification(name, code string, validFor time.Duration) (string, error) {
	return render(verificationTmpl, map[string]interface{}{
		"Name":         name,
		"Code":         code,
		"ValidMinutes": int(validFor.Minutes()),
	})
}

// RenderPostNotification renders the email sent for a new club post.
func RenderPostNotification(clubName, text string) (string, error) {
	return render(postTmpl, map[string]interface{}{
		"ClubName": clubName,
		"Text":     snippet(text, 280),
	})
}

// RenderEventNotification renders the email sent for a new club event.
func RenderEventNotification(clubName, text, location string, when time.Time) (string, error) {
	return render(eventTmpl, map[string]interface{}{
		"ClubName": clubName,
		"Text":     snippet(text, 280),
		"Location": location,
		"When":     when.Format("Mon 02 Jan 2006 15:04"),
	})
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func snippet(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
