package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	netmail "net/mail"
	"strings"
)

// Parse reads a raw message back into a Message, descending into nested
// multipart parts.
func Parse(raw []byte) (*Message, error) {
	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	// Subject may be encoded (e.g., =?UTF-8?...), decode if needed
	subject, err := decodeMIMEHeader(msg.Header.Get("Subject"))
	if err != nil {
		subject = msg.Header.Get("Subject")
	}

	email := &Message{
		From:    msg.Header.Get("From"),
		To:      addressList(msg.Header.Get("To")),
		Cc:      addressList(msg.Header.Get("Cc")),
		Subject: subject,
	}

	contentType := msg.Header.Get("Content-Type")
	encoding := msg.Header.Get("Content-Transfer-Encoding")
	if err := readPart(email, msg.Body, contentType, encoding, ""); err != nil {
		return nil, err
	}
	return email, nil
}

func readPart(email *Message, body io.Reader, contentType, encoding, disposition string) error {
	mediatype, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// fallback: plain body
		b, err := decodeBody(body, encoding)
		if err != nil {
			return err
		}
		email.Text = string(b)
		return nil
	}

	if strings.HasPrefix(mediatype, "multipart/") {
		mr := multipart.NewReader(body, params["boundary"])
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("multipart read: %w", err)
			}
			err = readPart(email, p,
				p.Header.Get("Content-Type"),
				p.Header.Get("Content-Transfer-Encoding"),
				p.Header.Get("Content-Disposition"))
			if err != nil {
				return err
			}
		}
	}

	slurp, err := decodeBody(body, encoding)
	if err != nil {
		return fmt.Errorf("decode %s: %w", mediatype, err)
	}

	if strings.HasPrefix(disposition, "attachment") {
		_, dparams, _ := mime.ParseMediaType(disposition)
		filename, err := decodeMIMEHeader(dparams["filename"])
		if err != nil {
			filename = dparams["filename"]
		}
		email.Attachments = append(email.Attachments, Attachment{
			Filename:    filename,
			ContentType: mediatype,
			Content:     slurp,
		})
		return nil
	}

	switch {
	case strings.HasPrefix(mediatype, "text/html"):
		email.HTML = string(slurp)
	case strings.HasPrefix(mediatype, "text/plain"):
		email.Text = string(slurp)
	}
	return nil
}

func decodeBody(r io.Reader, encoding string) ([]byte, error) {
	var reader io.Reader = r
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		reader = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		reader = quotedprintable.NewReader(r)
	}
	return io.ReadAll(reader)
}

func addressList(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	var out []string
	for _, a := range strings.Split(header, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Decode MIME encoded words in headers (=?UTF-8?...?=)
func decodeMIMEHeader(header string) (string, error) {
	dec := new(mime.WordDecoder)
	return dec.DecodeHeader(header)
}
