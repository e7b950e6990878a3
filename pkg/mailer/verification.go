package mailer

import "fmt"

// VerificationJob builds the email job for a verification link. The link
// embeds the raw secret; only its digest lives server-side.
func VerificationJob(to, link string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Verify your email",
		Text:    fmt.Sprintf("Verify your email: %s\n\nThe link expires in 24 hours. If you did not sign up, ignore this message.", link),
		HTML:    fmt.Sprintf(`<p>Verify your email by clicking <a href=%q>this link</a>.</p><p>The link expires in 24 hours. If you did not sign up, ignore this message.</p>`, link),
	}
}
