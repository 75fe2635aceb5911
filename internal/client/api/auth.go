package api

import (
	"context"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginReply struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

// Login exchanges credentials for an access token. The request never carries
// the current session's token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var reply loginReply
	req := loginRequest{Username: username, Password: password}
	if err := c.do(withoutAuth(ctx), http.MethodPost, "/api/auth/login", req, &reply); err != nil {
		return "", err
	}
	tok := reply.Token
	if tok == "" {
		tok = reply.AccessToken
	}
	if tok == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return tok, nil
}
