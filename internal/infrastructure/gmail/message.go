package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"path"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Cotizador-api/internal/application/ports"
)

// buildRaw arma el mensaje MIME (texto plano + adjunto) y lo codifica en base64 URL-safe
// como lo exige el campo raw de users.messages.send.
func buildRaw(msg ports.MailMessage) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if len(msg.Attachment) > 0 {
		data := msg.Attachment
		contentType := mime.TypeByExtension(path.Ext(msg.AttachmentName))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		m.Attach(msg.AttachmentName,
			gomail.SetHeader(map[string][]string{"Content-Type": {contentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("gmail: armar mensaje: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}
