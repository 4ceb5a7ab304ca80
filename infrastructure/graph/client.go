// Package graph sends mail through Microsoft Graph with an app-only token.
package graph

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"jobtrack.com/jobtrack/infrastructure/mail"
)

const (
	DefaultLoginURL = "https://login.microsoftonline.com"
	DefaultGraphURL = "https://graph.microsoft.com"

	graphScope = "https://graph.microsoft.com/.default"

	// tokens are refreshed this long before they expire
	tokenSkew = 60 * time.Second
)

type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// Sender is the mailbox the message is sent as.
	Sender string

	LoginURL string
	GraphURL string
}

// Client exchanges client credentials for a token, caches it, and posts
// messages to /users/{sender}/sendMail.
type Client struct {
	cfg   Config
	login *Transport
	api   *Transport
	now   func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.LoginURL == "" {
		cfg.LoginURL = DefaultLoginURL
	}
	if cfg.GraphURL == "" {
		cfg.GraphURL = DefaultGraphURL
	}
	return &Client{
		cfg:   cfg,
		login: NewTransport(cfg.LoginURL, httpClient),
		api:   NewTransport(cfg.GraphURL, httpClient),
		now:   time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expires.Add(-tokenSkew)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", graphScope)
	form.Set("grant_type", "client_credentials")

	res, err := c.login.PostForm(ctx, "/"+url.PathEscape(c.cfg.TenantID)+"/oauth2/v2.0/token", form)
	if err != nil {
		return "", fmt.Errorf("graph token: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(res.Data, &tr); err != nil {
		return "", fmt.Errorf("graph token: decode: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("graph token: empty access_token")
	}

	c.token = tr.AccessToken
	c.expires = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.token, nil
}

type emailAddress struct {
	Address string `json:"address"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type fileAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

type message struct {
	Subject       string           `json:"subject"`
	Body          itemBody         `json:"body"`
	ToRecipients  []recipient      `json:"toRecipients"`
	CcRecipients  []recipient      `json:"ccRecipients,omitempty"`
	BccRecipients []recipient      `json:"bccRecipients,omitempty"`
	Attachments   []fileAttachment `json:"attachments,omitempty"`
}

type sendMailRequest struct {
	Message         message `json:"message"`
	SaveToSentItems bool    `json:"saveToSentItems"`
}

func recipients(addresses []string) []recipient {
	if len(addresses) == 0 {
		return nil
	}
	out := make([]recipient, len(addresses))
	for i, a := range addresses {
		out[i] = recipient{EmailAddress: emailAddress{Address: a}}
	}
	return out
}

func toGraphMessage(msg *mail.Message) message {
	body := itemBody{ContentType: "HTML", Content: msg.HTML}
	if msg.HTML == "" {
		body = itemBody{ContentType: "Text", Content: msg.Text}
	}

	m := message{
		Subject:       msg.Subject,
		Body:          body,
		ToRecipients:  recipients(msg.To),
		CcRecipients:  recipients(msg.Cc),
		BccRecipients: recipients(msg.Bcc),
	}
	for _, att := range msg.Attachments {
		m.Attachments = append(m.Attachments, fileAttachment{
			ODataType:    "#microsoft.graph.fileAttachment",
			Name:         att.Filename,
			ContentType:  att.ContentType,
			ContentBytes: base64.StdEncoding.EncodeToString(att.Content),
		})
	}
	return m
}

// Send delivers msg from the configured sender. Graph answers 202 with no
// body; the returned id is its request-id header.
func (c *Client) Send(ctx context.Context, msg *mail.Message) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	path := "/v1.0/users/" + url.PathEscape(c.cfg.Sender) + "/sendMail"
	res, err := c.api.PostJSON(ctx, path, token, sendMailRequest{
		Message:         toGraphMessage(msg),
		SaveToSentItems: true,
	})
	if err != nil {
		return "", fmt.Errorf("graph sendMail: %w", err)
	}
	return res.Header.Get("request-id"), nil
}
