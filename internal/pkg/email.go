package pkg

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

// Enabled 未配置 SMTP 时所有通知静默跳过
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// ClaimNoticeHTML 通知心愿主人"有人认领了你的一个心愿"。
// 不带认领者身份，也不带票号，只说明匿名流程仍在进行。
func ClaimNoticeHTML(name string) string {
	return fmt.Sprintf(`<p>Hola %s,</p><p>Alguien acaba de comprometerse a comprar uno de tus deseos. 🎁</p><p>Quién es y cuál de ellos... sigue siendo secreto.</p>`, name)
}
