package tdlib

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/zelenin/go-tdlib/client"
)

// errLoginAborted makes the client's authorization routine fail instead
// of blocking forever when the user abandons a login prompt.
var errLoginAborted = errors.New("login aborted")

type clientAuthorizer struct {
	log             *slog.Logger
	TdlibParameters *client.SetTdlibParametersRequest
	PhoneNumber     chan string
	Code            chan string
	State           chan client.AuthorizationState
	Password        chan string
	aborted         chan struct{}
}

func (stateHandler *clientAuthorizer) Handle(tdcl *client.Client, state client.AuthorizationState) error {
	ctx, done := context.WithDeadline(context.Background(), time.Now().Add(60*time.Second))
	defer done()
	stateHandler.State <- state

	switch state.AuthorizationStateConstructor() {
	case client.ConstructorAuthorizationStateWaitTdlibParameters:
		_, err := tdcl.SetTdlibParameters(ctx, stateHandler.TdlibParameters)
		return err

	case client.ConstructorAuthorizationStateWaitPhoneNumber:
		_, err := tdcl.SetAuthenticationPhoneNumber(ctx, &client.SetAuthenticationPhoneNumberRequest{
			PhoneNumber: <-stateHandler.PhoneNumber,
			Settings: &client.PhoneNumberAuthenticationSettings{
				AllowFlashCall:       false,
				IsCurrentPhoneNumber: false,
				AllowSmsRetrieverApi: false,
			},
		})
		return err

	case client.ConstructorAuthorizationStateWaitCode:
		var code string
		select {
		case code = <-stateHandler.Code:
		case <-stateHandler.aborted:
			return errLoginAborted
		}
		// A rejected code is not fatal: TDLib stays in the wait-code
		// state and the interactor prompts again.
		_, err := tdcl.CheckAuthenticationCode(ctx, &client.CheckAuthenticationCodeRequest{
			Code: code,
		})
		if err != nil {
			stateHandler.log.Warn("confirmation code rejected, try again", "error", err)
		}
		return nil

	case client.ConstructorAuthorizationStateWaitPassword:
		var password string
		select {
		case password = <-stateHandler.Password:
		case <-stateHandler.aborted:
			return errLoginAborted
		}
		_, err := tdcl.CheckAuthenticationPassword(ctx, &client.CheckAuthenticationPasswordRequest{
			Password: password,
		})
		if err != nil {
			stateHandler.log.Warn("2FA password rejected, try again", "error", err)
		}
		return nil

	case client.ConstructorAuthorizationStateWaitEmailAddress,
		client.ConstructorAuthorizationStateWaitEmailCode,
		client.ConstructorAuthorizationStateWaitOtherDeviceConfirmation,
		client.ConstructorAuthorizationStateWaitRegistration:
		return client.NotSupportedAuthorizationState(state)

	case client.ConstructorAuthorizationStateReady:
		return nil

	case client.ConstructorAuthorizationStateLoggingOut:
		return client.NotSupportedAuthorizationState(state)

	case client.ConstructorAuthorizationStateClosing:
		return nil

	case client.ConstructorAuthorizationStateClosed:
		return nil
	}

	return client.NotSupportedAuthorizationState(state)
}

func (stateHandler *clientAuthorizer) Close() {
	close(stateHandler.PhoneNumber)
	close(stateHandler.Code)
	close(stateHandler.State)
	close(stateHandler.Password)
}

func newClientAuthorizer(log *slog.Logger, tdlibParameters *client.SetTdlibParametersRequest) *clientAuthorizer {
	return &clientAuthorizer{
		log:             log,
		TdlibParameters: tdlibParameters,
		PhoneNumber:     make(chan string, 1),
		Code:            make(chan string, 1),
		State:           make(chan client.AuthorizationState, 10),
		Password:        make(chan string, 1),
		aborted:         make(chan struct{}),
	}
}

// LoginPrompter supplies the interactive pieces of the login flow: the
// confirmation code sent by Telegram and, for accounts with two-step
// verification, the account password.
type LoginPrompter interface {
	Code() (string, error)
	Password() (string, error)
}

// promptInteractor feeds the authorizer from interactive prompts. TDLib
// re-enters the wait-code / wait-password states after a wrong input, so
// every occurrence of those states prompts again; that is the whole retry
// policy.
func promptInteractor(log *slog.Logger, authorizer *clientAuthorizer, phone string, prompts LoginPrompter) {
	for {
		state, ok := <-authorizer.State
		if !ok {
			log.Debug("authorization process closed")
			return
		}
		log.Debug("authorization state", "state", state.AuthorizationStateConstructor())

		switch state.AuthorizationStateConstructor() {
		case client.ConstructorAuthorizationStateWaitPhoneNumber:
			authorizer.PhoneNumber <- phone

		case client.ConstructorAuthorizationStateWaitCode:
			code, err := prompts.Code()
			if err != nil {
				log.Error("reading confirmation code", "error", err)
				close(authorizer.aborted)
				return
			}
			authorizer.Code <- code

		case client.ConstructorAuthorizationStateWaitPassword:
			password, err := prompts.Password()
			if err != nil {
				log.Error("reading 2FA password", "error", err)
				close(authorizer.aborted)
				return
			}
			authorizer.Password <- password

		case client.ConstructorAuthorizationStateReady:
			log.Debug("authorization complete")
			return
		}
	}
}
