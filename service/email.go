package service

import (
	"fmt"
	"html"

	"househelper/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg     config.EmailConfig
	project string
	send    func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg config.EmailConfig, project string) *EmailService {
	s := &EmailService{cfg: cfg, project: project}
	s.send = func(m *gomail.Message) error {
		return gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password).DialAndSend(m)
	}
	return s
}

// Enabled 是否启用邮件
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendWelcomeEmail 发送注册欢迎邮件
func (s *EmailService) SendWelcomeEmail(toEmail, username string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}
	subject := fmt.Sprintf("【%s】注册成功", s.project)
	return s.sendEmail(toEmail, subject, s.welcomeBody(username))
}

func (s *EmailService) welcomeBody(username string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: 'Microsoft YaHei', Arial, sans-serif; padding: 20px;">
    <h2>欢迎加入 %s</h2>
    <p>尊敬的 <strong>%s</strong>，您好！您的账号已注册成功。</p>
    <p>如需开通后台菜单与接口权限，请联系管理员为您分配角色。</p>
    <p style="color: #666;">此邮件由系统自动发送，请勿回复</p>
</body>
</html>
`, html.EscapeString(s.project), html.EscapeString(username))
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.From, s.project))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}
