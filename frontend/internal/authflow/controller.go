package authflow

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/logger"
	"github.com/folio-desk/folio/shared/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var submissions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "auth_submissions_total",
		Help:      "Auth form submissions by mode and outcome",
	},
	[]string{"mode", "outcome"},
)

// Authenticator is the part of the backend the auth forms talk to.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.AccessGrant, error)
	RegisterRequest(ctx context.Context, name, email, password string) error
	RegisterVerify(ctx context.Context, email, otp string) (domain.AccessGrant, error)
	RequestOtp(ctx context.Context, email string) error
	VerifyOtp(ctx context.Context, email, otp, name string) (domain.AccessGrant, error)
	RequestResetPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

// GrantHandler turns an access grant into a session. It runs with the
// controller locked and must not call back into it.
type GrantHandler func(grant domain.AccessGrant) error

// Form is what the user typed for one submission. Fields irrelevant to the
// current mode are ignored; only the values of this call are ever sent.
type Form struct {
	Email       string
	Password    string
	Name        string
	Code        string
	NewPassword string
}

type Snapshot struct {
	Mode       Mode
	Email      string // the email a verify step confirms, read-only there
	Error      string
	Success    bool
	Submitting bool
}

var (
	ErrSubmitting = &errors.ErrorWithStatusCode{Message: "A submission is already in progress", StatusCode: http.StatusConflict, Kind: errors.KindInvalidInput}
	ErrSignedIn   = &errors.ErrorWithStatusCode{Message: "Already signed in", StatusCode: http.StatusConflict, Kind: errors.KindInvalidInput}
	// ErrDiscarded is returned to a submitter whose result arrived after the mode changed.
	ErrDiscarded = &errors.ErrorWithStatusCode{Message: "The form changed before the request finished", StatusCode: http.StatusConflict, Kind: errors.KindInvalidInput}
)

type Controller struct {
	auth    Authenticator
	onGrant GrantHandler

	mu         sync.Mutex
	mode       Mode
	epoch      uint64
	email      string
	errMsg     string
	success    bool
	submitting bool
}

func NewController(auth Authenticator, onGrant GrantHandler) *Controller {
	return &Controller{auth: auth, onGrant: onGrant, mode: LoginPass}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{Mode: c.mode, Error: c.errMsg, Success: c.success, Submitting: c.submitting}
	if c.mode.verifying() || c.mode == LoginPass {
		s.Email = c.email
	}
	return s
}

// enter moves to mode and starts a new epoch, so results of submissions made
// in the previous mode are ignored when they arrive. Callers hold c.mu.
func (c *Controller) enter(mode Mode) {
	c.mode = mode
	c.epoch++
	c.errMsg = ""
	c.success = false
	c.submitting = false
}

// Switch moves to another form at the user's request.
func (c *Controller) Switch(target Mode) (Snapshot, error) {
	return c.apply(Event{Kind: SwitchTo, Target: target})
}

// Back returns to the form the current one was reached from.
func (c *Controller) Back() (Snapshot, error) {
	return c.apply(Event{Kind: Back})
}

func (c *Controller) apply(ev Event) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Transition(c.mode, ev)
	if err != nil {
		return c.snapshotLocked(), err
	}
	c.enter(next)
	c.email = ""
	return c.snapshotLocked(), nil
}

// Reset starts the machine over in initial, which must be LOGIN_PASS or REGISTER.
func (c *Controller) Reset(initial Mode) error {
	if initial != LoginPass && initial != Register {
		return errors.InvalidInput("Initial mode must be LOGIN_PASS or REGISTER")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enter(initial)
	c.email = ""
	return nil
}

// Bypass leaves the machine without a submission, as the demo shortcut does.
func (c *Controller) Bypass() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enter(Authenticated)
	c.email = ""
}

// Submit runs the action of the current mode. A failure stays attached to
// the current mode and is also returned. The network call is never cancelled
// by a mode change; its result is dropped instead.
func (c *Controller) Submit(ctx context.Context, form Form) (Snapshot, error) {
	c.mu.Lock()
	if c.mode == Authenticated {
		c.mu.Unlock()
		return c.Snapshot(), ErrSignedIn
	}
	if c.submitting {
		c.mu.Unlock()
		return c.Snapshot(), ErrSubmitting
	}
	mode, epoch := c.mode, c.epoch
	email := strings.TrimSpace(form.Email)
	if mode.verifying() {
		email = c.email
	}
	action, err := c.action(mode, email, form)
	if err != nil {
		c.errMsg = errors.Message(err, "Please check the form")
		c.success = false
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, err
	}
	c.submitting = true
	c.errMsg = ""
	c.success = false
	c.mu.Unlock()

	grant, err := action(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		logger.Component("authflow").Debug("auth result arrived after mode change, ignoring", "mode", mode, "error", err)
		submissions.WithLabelValues(string(mode), "discarded").Inc()
		return c.snapshotLocked(), ErrDiscarded
	}
	c.submitting = false
	if err != nil {
		submissions.WithLabelValues(string(mode), "failed").Inc()
		c.errMsg = errors.Message(err, "Something went wrong. Please try again.")
		return c.snapshotLocked(), err
	}

	next, err := Transition(mode, Event{Kind: Succeeded})
	if err != nil {
		return c.snapshotLocked(), err
	}
	if next == Authenticated {
		if err := c.onGrant(grant); err != nil {
			logger.Component("authflow").Error("could not establish session", "error", err)
			submissions.WithLabelValues(string(mode), "failed").Inc()
			c.errMsg = "Could not save your session. Please try again."
			return c.snapshotLocked(), err
		}
	}
	submissions.WithLabelValues(string(mode), "ok").Inc()
	c.enter(next)
	switch mode {
	case Register, LoginOtp, ResetRequest:
		c.email = email
	case ResetVerify:
		c.success = true
	default:
		c.email = ""
	}
	return c.snapshotLocked(), nil
}

type call func(ctx context.Context) (domain.AccessGrant, error)

// action validates the fields the mode needs and binds them into the backend call.
func (c *Controller) action(mode Mode, email string, f Form) (call, error) {
	switch mode {
	case LoginPass:
		in := passwordLogin{Email: email, Password: f.Password}
		if err := utils.Validate(in); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (domain.AccessGrant, error) {
			return c.auth.Login(ctx, in.Email, in.Password)
		}, nil
	case Register:
		in := api.RegisterRequest{Name: strings.TrimSpace(f.Name), Email: email, Password: f.Password}
		if err := utils.Validate(in); err != nil {
			return nil, err
		}
		return noGrant(func(ctx context.Context) error {
			return c.auth.RegisterRequest(ctx, in.Name, in.Email, in.Password)
		}), nil
	case RegisterVerifyOtp:
		in := api.RegisterVerifyRequest{Email: email, Otp: strings.TrimSpace(f.Code)}
		if err := utils.Validate(in); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (domain.AccessGrant, error) {
			return c.auth.RegisterVerify(ctx, in.Email, in.Otp)
		}, nil
	case LoginOtp:
		in := api.EmailRequest{Email: email}
		if err := utils.Validate(in); err != nil {
			return nil, err
		}
		return noGrant(func(ctx context.Context) error {
			return c.auth.RequestOtp(ctx, in.Email)
		}), nil
	case VerifyOtp:
		in := api.VerifyOtpRequest{Email: email, Otp: strings.TrimSpace(f.Code), Name: strings.TrimSpace(f.Name)}
		if err := utils.Validate(in); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (domain.AccessGrant, error) {
			return c.auth.VerifyOtp(ctx, in.Email, in.Otp, in.Name)
		}, nil
	case ResetRequest:
		in := api.EmailRequest{Email: email}
		if err := utils.Validate(in); err != nil {
			return nil, err
		}
		return noGrant(func(ctx context.Context) error {
			return c.auth.RequestResetPassword(ctx, in.Email)
		}), nil
	case ResetVerify:
		in := api.ResetPasswordRequest{Email: email, Otp: strings.TrimSpace(f.Code), NewPassword: f.NewPassword}
		if err := utils.Validate(in); err != nil {
			return nil, err
		}
		return noGrant(func(ctx context.Context) error {
			return c.auth.ResetPassword(ctx, in.Email, in.Otp, in.NewPassword)
		}), nil
	}
	return nil, invalidTransition(mode, Event{Kind: Succeeded})
}

type passwordLogin struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func noGrant(fn func(ctx context.Context) error) call {
	return func(ctx context.Context) (domain.AccessGrant, error) {
		return domain.AccessGrant{}, fn(ctx)
	}
}
