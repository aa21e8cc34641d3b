package email

import "fmt"

// BuildPasswordResetBody builds the HTML body for the password-reset email.
func BuildPasswordResetBody(link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Password reset</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Someone requested a password reset for your account. If that was you, use the button below. The link expires in one hour.</p>

		<div style="text-align: center; margin: 30px 0;">
			<a href="%s" style="background: #667eea; color: white; padding: 14px 28px; border-radius: 5px; text-decoration: none; font-weight: 600;">Reset password</a>
		</div>

		<p style="font-size: 14px; color: #666;">If the button does not work, copy this link into your browser:</p>
		<p style="font-size: 13px; font-family: monospace; word-break: break-all;">%s</p>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			If you did not request a reset, you can safely ignore this email. This mailbox is not monitored.
		</p>
	</div>
</body>
</html>`, link, link)
}
