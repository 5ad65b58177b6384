package snowflake

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	got "github.com/taskcluster/go-got"
)

// TokenSource issues short-lived session tokens for authenticating
// against job endpoints. Every call performs a fresh login against the
// account's REST endpoint, so the source holds no mutable state and is
// safe for concurrent use.
type TokenSource struct {
	options Options
	baseURL string
	client  *got.Got
}

// NewTokenSource returns a TokenSource for the given connection options.
func NewTokenSource(options Options) *TokenSource {
	g := got.New()
	g.Client = &http.Client{Timeout: 30 * time.Second}
	g.MaxSize = 1024 * 1024
	return &TokenSource{
		options: options,
		baseURL: "https://" + options.EndpointHost(),
		client:  g,
	}
}

type loginRequest struct {
	Data loginData `json:"data"`
}

type loginData struct {
	AccountName string `json:"ACCOUNT_NAME"`
	LoginName   string `json:"LOGIN_NAME"`
	Password    string `json:"PASSWORD"`
}

type loginResponse struct {
	Data struct {
		Token       string `json:"token"`
		MasterToken string `json:"masterToken"`
	} `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionToken logs in and returns a fresh session token.
func (s *TokenSource) SessionToken() (string, error) {
	request := s.client.Post(s.baseURL+"/session/v1/login-request", nil)
	err := request.JSON(loginRequest{Data: loginData{
		AccountName: s.options.Account,
		LoginName:   s.options.User,
		Password:    s.options.Password,
	}})
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize login request")
	}

	response, err := request.Send()
	if err != nil {
		return "", errors.Wrap(err, "login request failed")
	}

	var result loginResponse
	if err = json.Unmarshal(response.Body, &result); err != nil {
		return "", errors.Wrap(err, "failed to parse login response")
	}
	if !result.Success {
		return "", errors.Errorf("login request rejected: %s", result.Message)
	}
	return result.Data.Token, nil
}
