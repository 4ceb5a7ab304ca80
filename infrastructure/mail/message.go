// Package mail builds and reads raw MIME messages and sends them through SES.
package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
)

type Message struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Recipients lists every To, Cc and Bcc address.
func (m *Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return append(out, m.Bcc...)
}

// BuildRaw writes msg as multipart/mixed: a multipart/alternative part with
// the quoted-printable text and HTML bodies, then one base64 part per
// attachment. Bcc addresses are not written to the headers.
func BuildRaw(msg *Message) ([]byte, error) {
	var raw bytes.Buffer
	writer := multipart.NewWriter(&raw)

	headers := fmt.Sprintf("From: %s\r\n", msg.From)
	if len(msg.To) > 0 {
		headers += fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", "))
	}
	if len(msg.Cc) > 0 {
		headers += fmt.Sprintf("Cc: %s\r\n", strings.Join(msg.Cc, ", "))
	}
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", writer.Boundary())
	headers += "\r\n"
	raw.WriteString(headers)

	altBuf := &bytes.Buffer{}
	altWriter := multipart.NewWriter(altBuf)

	if msg.Text != "" {
		if err := writeQuotedPrintable(altWriter, "text/plain; charset=UTF-8", msg.Text); err != nil {
			return nil, fmt.Errorf("text part: %w", err)
		}
	}
	if msg.HTML != "" {
		if err := writeQuotedPrintable(altWriter, "text/html; charset=UTF-8", msg.HTML); err != nil {
			return nil, fmt.Errorf("html part: %w", err)
		}
	}
	if err := altWriter.Close(); err != nil {
		return nil, err
	}

	altPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + altWriter.Boundary()},
	})
	if err != nil {
		return nil, err
	}
	if _, err := altPart.Write(altBuf.Bytes()); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		if err := writeAttachment(writer, att); err != nil {
			return nil, fmt.Errorf("attachment %s: %w", att.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return raw.Bytes(), nil
}

func writeQuotedPrintable(w *multipart.Writer, contentType, body string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}

func writeAttachment(w *multipart.Writer, att Attachment) error {
	name := mime.QEncoding.Encode("UTF-8", att.Filename)
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", fmt.Sprintf("%s; name=\"%s\"", att.ContentType, name))
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	h.Set("Content-Transfer-Encoding", "base64")

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	return writeBase64Lines(part, att.Content)
}

// writeBase64Lines wraps the encoded content at 76 columns.
func writeBase64Lines(w io.Writer, content []byte) error {
	b := make([]byte, base64.StdEncoding.EncodedLen(len(content)))
	base64.StdEncoding.Encode(b, content)

	for i := 0; i < len(b); i += 76 {
		end := min(i+76, len(b))
		if _, err := w.Write(b[i:end]); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\r\n")); err != nil {
			return err
		}
	}
	return nil
}
