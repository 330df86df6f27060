package gateway

import (
	"context"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/pkg/errors"

	"github.com/malonaz/tgexport/internal/cli"
)

// TerminalAuthenticator drives the first-run login flow through terminal
// prompts: phone number, verification code, and 2FA password.
type TerminalAuthenticator struct{}

// NewTerminalAuthenticator instantiates a terminal authenticator.
func NewTerminalAuthenticator() auth.UserAuthenticator {
	return TerminalAuthenticator{}
}

// Phone prompts for the phone number.
func (TerminalAuthenticator) Phone(ctx context.Context) (string, error) {
	return cli.PromptInput("Enter your phone number (with country code):")
}

// Code prompts for the verification code sent by Telegram.
func (TerminalAuthenticator) Code(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	return cli.PromptInput("Enter the verification code:")
}

// Password prompts for the two-factor authentication password.
func (TerminalAuthenticator) Password(ctx context.Context) (string, error) {
	return cli.PromptPassword("Enter your two-factor authentication password:")
}

// AcceptTermsOfService accepts the terms silently.
func (TerminalAuthenticator) AcceptTermsOfService(ctx context.Context, tos tg.HelpTermsOfService) error {
	return nil
}

// SignUp is refused: exporting requires an existing account.
func (TerminalAuthenticator) SignUp(ctx context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("this phone number is not registered; sign up with an official client first")
}
