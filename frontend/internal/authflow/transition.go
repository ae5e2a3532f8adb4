package authflow

import (
	"fmt"
	"net/http"

	"github.com/folio-desk/folio/shared/errors"
)

type Mode string

const (
	LoginPass         Mode = "LOGIN_PASS"
	LoginOtp          Mode = "LOGIN_OTP"
	Register          Mode = "REGISTER"
	RegisterVerifyOtp Mode = "REGISTER_VERIFY_OTP"
	VerifyOtp         Mode = "VERIFY_OTP"
	ResetRequest      Mode = "RESET_REQUEST"
	ResetVerify       Mode = "RESET_VERIFY"

	// Authenticated is outside the machine: a session exists and no form is shown.
	Authenticated Mode = "AUTHENTICATED"
)

func (m Mode) Valid() bool {
	switch m {
	case LoginPass, LoginOtp, Register, RegisterVerifyOtp, VerifyOtp, ResetRequest, ResetVerify, Authenticated:
		return true
	}
	return false
}

// verifying reports whether the mode confirms a code for an email entered in the previous step.
func (m Mode) verifying() bool {
	return m == RegisterVerifyOtp || m == VerifyOtp || m == ResetVerify
}

type EventKind int

const (
	// Succeeded is the backend accepting the submission of the current mode.
	Succeeded EventKind = iota
	// SwitchTo is the user choosing another form.
	SwitchTo
	// Back is the user leaving the current form for the one it came from.
	Back
)

type Event struct {
	Kind   EventKind
	Target Mode // SwitchTo only
}

var onSuccess = map[Mode]Mode{
	LoginPass:         Authenticated,
	Register:          RegisterVerifyOtp,
	RegisterVerifyOtp: Authenticated,
	LoginOtp:          VerifyOtp,
	VerifyOtp:         Authenticated,
	ResetRequest:      ResetVerify,
	ResetVerify:       LoginPass,
}

var backTo = map[Mode]Mode{
	LoginOtp:          LoginPass,
	Register:          LoginPass,
	VerifyOtp:         LoginOtp,
	RegisterVerifyOtp: Register,
	ResetRequest:      LoginPass,
	ResetVerify:       LoginPass,
}

var switches = map[Mode][]Mode{
	LoginPass:         {LoginOtp, ResetRequest, Register},
	LoginOtp:          {LoginPass, Register},
	Register:          {LoginPass},
	VerifyOtp:         {LoginOtp},
	RegisterVerifyOtp: {Register},
	ResetRequest:      {LoginPass},
	ResetVerify:       {LoginPass},
}

// Transition is the whole machine. Combinations not listed are rejected.
func Transition(from Mode, ev Event) (Mode, error) {
	switch ev.Kind {
	case Succeeded:
		if to, ok := onSuccess[from]; ok {
			return to, nil
		}
	case Back:
		if to, ok := backTo[from]; ok {
			return to, nil
		}
	case SwitchTo:
		for _, to := range switches[from] {
			if to == ev.Target {
				return to, nil
			}
		}
	}
	return from, invalidTransition(from, ev)
}

func invalidTransition(from Mode, ev Event) error {
	var name string
	switch ev.Kind {
	case Succeeded:
		name = "submit"
	case Back:
		name = "back"
	case SwitchTo:
		name = fmt.Sprintf("switch to %s", ev.Target)
	default:
		name = fmt.Sprintf("event %d", ev.Kind)
	}
	return &errors.ErrorWithStatusCode{
		Message:    fmt.Sprintf("Cannot %s from %s", name, from),
		StatusCode: http.StatusConflict,
		Kind:       errors.KindInvalidInput,
	}
}
