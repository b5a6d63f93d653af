package helpers

import (
	"fmt"
	"html"
	"strings"
)

func BuildSimpleHTML(title, body string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="560" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#1f2937; margin-top:0;">%s</h2>
                <div style="font-size:15px; color:#222;">%s</div>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">Письмо сгенерировано автоматически.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, html.EscapeString(title), body)
}

// ContactFields — строки заявки в том порядке, в каком их показать в письме.
type ContactFields struct {
	Name, Email, Company, Phone, Subject, Message, AdminURL string
}

// BuildContactHTML — уведомление администратору о новой заявке с сайта.
// Все пользовательские значения экранируются.
func BuildContactHTML(c ContactFields) string {
	var rows strings.Builder
	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fmt.Fprintf(&rows,
			`<tr><td style="color:#666;padding:4px 12px 4px 0;vertical-align:top;">%s</td><td style="padding:4px 0;">%s</td></tr>`,
			label, html.EscapeString(value))
	}
	row("Имя", c.Name)
	row("Email", c.Email)
	row("Компания", c.Company)
	row("Телефон", c.Phone)
	row("Тема", c.Subject)

	msg := strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br>")
	body := fmt.Sprintf(`<table cellpadding="0" cellspacing="0">%s</table>
<p style="margin:20px 0 8px 0;color:#666;">Сообщение:</p>
<p style="white-space:normal;">%s</p>`, rows.String(), msg)

	if c.AdminURL != "" {
		body += fmt.Sprintf(`<p><a href="%s" style="display:inline-block;padding:10px 20px;background:#2d74da;color:#fff;text-decoration:none;border-radius:6px;">Открыть в админке</a></p>`,
			html.EscapeString(c.AdminURL))
	}
	return BuildSimpleHTML("Новая заявка с сайта", body)
}
