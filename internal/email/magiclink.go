package email

import "fmt"

const magicLinkSubject = "Your sign-in link"

// MagicLinkMessage renders the HTML and plain-text bodies for a magic-link
// email. The link is valid for 15 minutes by default; the copy says so.
func MagicLinkMessage(link, name string) (subject, htmlBody, textBody string) {
	greeting := "Welcome"
	if name != "" {
		greeting = "Welcome, " + name
	}

	htmlBody = fmt.Sprintf(`<div style="font-family:sans-serif;max-width:600px;margin:0 auto">
  <h1>%s!</h1>
  <p>Click the button below to securely sign in to your account:</p>
  <p><a href="%s" style="display:inline-block;background:#3b82f6;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none">Sign In to Your Account</a></p>
  <p><strong>Security notice:</strong> this link expires in 15 minutes. Never share it with anyone.</p>
  <p>If you didn't request this, please ignore this email.</p>
</div>`, greeting, link)

	textBody = fmt.Sprintf(`%s!

Sign in to your account by clicking this link:
%s

This link expires in 15 minutes. If you didn't request this, please ignore this email.`, greeting, link)

	return magicLinkSubject, htmlBody, textBody
}
