// templates.go — the HTML bodies for each message type. All values are
// escaped before interpolation since player names and game names are
// user-supplied.
package email

import (
	"fmt"
	"html"
)

const cardOpen = `<!DOCTYPE html><html><body style="margin:0;padding:0;font-family:-apple-system,'Segoe UI',Roboto,sans-serif;line-height:1.6;color:#1a1a1a;background-color:#f5f7fa;">
<div style="max-width:600px;margin:0 auto;padding:40px 20px;"><div style="background:white;border-radius:20px;padding:40px;box-shadow:0 4px 20px rgba(0,0,0,0.1);">
<div style="text-align:center;margin-bottom:32px;"><h2 style="font-size:20px;font-weight:700;color:#00205B;margin:0;">The Open Invitational</h2></div>`

const cardClose = `</div></div></body></html>`

func inviteHTML(playerName, gameName, date, gameCode, checkInURL string) string {
	return cardOpen + fmt.Sprintf(`
<h1 style="font-size:28px;text-align:center;margin:0 0 8px 0;">Hey %s!</h1>
<p style="font-size:18px;color:#666;text-align:center;margin:0 0 32px 0;">You've been invited to play!</p>
<div style="background:#f5f7fa;border-radius:12px;padding:24px;margin-bottom:24px;">
  <p style="margin:0;"><strong>Tournament:</strong> %s</p>
  <p style="margin:8px 0 0 0;"><strong>Date:</strong> %s</p>
</div>
<div style="text-align:center;margin:32px 0;padding:24px;background:#D4A574;border-radius:16px;">
  <div style="font-size:12px;font-weight:600;text-transform:uppercase;letter-spacing:1px;margin-bottom:8px;">Game Code</div>
  <div style="font-size:36px;font-weight:800;letter-spacing:6px;">%s</div>
</div>
<div style="text-align:center;margin:32px 0;">
  <a href="%s" style="display:inline-block;padding:18px 48px;background:#00205B;color:white;text-decoration:none;border-radius:12px;font-weight:700;font-size:16px;">I'm In - Check Me In!</a>
</div>
<p style="text-align:center;color:#666;font-size:14px;">See you on the first tee!</p>`,
		html.EscapeString(playerName), html.EscapeString(gameName), date, gameCode, checkInURL) + cardClose
}

func reminderHTML(playerName, gameName, date, gameCode, checkInURL string, hoursUntil int) string {
	return cardOpen + fmt.Sprintf(`
<div style="background:#fff3cd;border:2px solid #ffc107;border-radius:16px;padding:24px;text-align:center;margin-bottom:24px;">
  <h1 style="font-size:22px;margin:0 0 8px 0;">Hey %s!</h1>
  <p style="font-size:16px;color:#666;margin:0;"><strong>%s</strong> starts in <strong>%d hours</strong>!</p>
</div>
<p style="text-align:center;color:#666;margin-bottom:24px;">You haven't checked in yet. Tap below to confirm you're playing:</p>
<div style="text-align:center;margin:24px 0;">
  <a href="%s" style="display:inline-block;padding:18px 48px;background:#CE1126;color:white;text-decoration:none;border-radius:12px;font-weight:700;font-size:16px;">Check In Now</a>
</div>
<p style="text-align:center;color:#666;font-size:14px;">%s<br>Code: <strong>%s</strong></p>`,
		html.EscapeString(playerName), html.EscapeString(gameName), hoursUntil, checkInURL, date, gameCode) + cardClose
}

func resetHTML(name, resetURL string) string {
	return cardOpen + fmt.Sprintf(`
<h1 style="font-size:24px;text-align:center;margin:0 0 16px 0;">Hi %s</h1>
<p style="text-align:center;color:#666;margin-bottom:24px;">Someone requested a password reset for your account. The link is valid for one hour.</p>
<div style="text-align:center;margin:24px 0;">
  <a href="%s" style="display:inline-block;padding:18px 48px;background:#00205B;color:white;text-decoration:none;border-radius:12px;font-weight:700;font-size:16px;">Reset Password</a>
</div>
<p style="text-align:center;color:#666;font-size:14px;">If this wasn't you, you can ignore this email.</p>`,
		html.EscapeString(name), resetURL) + cardClose
}
