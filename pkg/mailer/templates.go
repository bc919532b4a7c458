package mailer

import (
	"fmt"
	"time"
)

// ApprovalEmail renders the credentials mail sent after a franchise
// application is approved.
func ApprovalEmail(name, email, tempPassword string) (subject, text, html string) {
	subject = "Franchise Approved – Your Login Credentials"

	text = fmt.Sprintf(`Hello %s,

Your franchise application has been approved!

You can now log in using:

Email: %s
Temporary Password: %s

Please log in and change your password immediately.

Regards,
Admin
`, name, email, tempPassword)

	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="margin:0; padding:0; font-family: Arial, sans-serif; background-color:#f5f5f5;">
    <table width="100%%" cellspacing="0" cellpadding="0" style="background-color:#f5f5f5; padding:20px;">
      <tr><td align="center">
        <table width="600" cellspacing="0" cellpadding="0" style="background:#ffffff; border-radius:8px; overflow:hidden;">
          <tr>
            <td style="padding:30px; color:#333;">
              <h2 style="margin-top:0; color:#007bff;">Hello %s,</h2>
              <p>Your franchise application has been approved!</p>
              <p>You can now log in using:</p>
              <p><b>Email:</b> %s<br/>
              <b>Temporary Password:</b> %s</p>
              <p>Please log in and change your password immediately.</p>
              <p style="margin-top:30px;">Regards,<br/>Admin</p>
            </td>
          </tr>
          <tr>
            <td style="background:#f0f0f0; padding:15px; text-align:center; font-size:12px; color:#888;">
              &copy; %d EoneStep. All rights reserved.
            </td>
          </tr>
        </table>
      </td></tr>
    </table>
  </body>
</html>`, name, email, tempPassword, time.Now().Year())

	return subject, text, html
}

// ResetPasswordEmail renders the time-boxed reset link mail. The link is only
// valid for the token TTL and a single use.
func ResetPasswordEmail(resetLink string, validFor time.Duration) (subject, text, html string) {
	subject = "Password Reset Request"

	minutes := int(validFor.Minutes())

	text = fmt.Sprintf(`Hello,

We received a request to reset your password.

Open the link below to choose a new password. The link is valid for %d minutes and can only be used once:

%s

If you did not request this, you can safely ignore this email.

Regards,
Admin
`, minutes, resetLink)

	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="margin:0; padding:0; font-family: Arial, sans-serif; background-color:#f5f5f5;">
    <table width="100%%" cellspacing="0" cellpadding="0" style="background-color:#f5f5f5; padding:20px;">
      <tr><td align="center">
        <table width="600" cellspacing="0" cellpadding="0" style="background:#ffffff; border-radius:8px; overflow:hidden;">
          <tr>
            <td style="padding:30px; color:#333;">
              <h2 style="margin-top:0; color:#007bff;">Password Reset</h2>
              <p>We received a request to reset your password.</p>
              <p><a href="%s" style="display:inline-block; padding:10px 20px; background:#007bff; color:#ffffff; text-decoration:none; border-radius:4px;">Reset Password</a></p>
              <p>The link is valid for %d minutes and can only be used once.</p>
              <p>If you did not request this, you can safely ignore this email.</p>
              <p style="margin-top:30px;">Regards,<br/>Admin</p>
            </td>
          </tr>
        </table>
      </td></tr>
    </table>
  </body>
</html>`, resetLink, minutes)

	return subject, text, html
}
