package authflow

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockAuthenticator struct {
	LoginFunc                func(ctx context.Context, email, password string) (domain.AccessGrant, error)
	RegisterRequestFunc      func(ctx context.Context, name, email, password string) error
	RegisterVerifyFunc       func(ctx context.Context, email, otp string) (domain.AccessGrant, error)
	RequestOtpFunc           func(ctx context.Context, email string) error
	VerifyOtpFunc            func(ctx context.Context, email, otp, name string) (domain.AccessGrant, error)
	RequestResetPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, email, otp, newPassword string) error
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (domain.AccessGrant, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return domain.AccessGrant{Token: "T", User: domain.User{Id: "1", Email: email}}, nil
}

func (m *MockAuthenticator) RegisterRequest(ctx context.Context, name, email, password string) error {
	if m.RegisterRequestFunc != nil {
		return m.RegisterRequestFunc(ctx, name, email, password)
	}
	return nil
}

func (m *MockAuthenticator) RegisterVerify(ctx context.Context, email, otp string) (domain.AccessGrant, error) {
	if m.RegisterVerifyFunc != nil {
		return m.RegisterVerifyFunc(ctx, email, otp)
	}
	return domain.AccessGrant{Token: "T", User: domain.User{Id: "1", Email: email}}, nil
}

func (m *MockAuthenticator) RequestOtp(ctx context.Context, email string) error {
	if m.RequestOtpFunc != nil {
		return m.RequestOtpFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthenticator) VerifyOtp(ctx context.Context, email, otp, name string) (domain.AccessGrant, error) {
	if m.VerifyOtpFunc != nil {
		return m.VerifyOtpFunc(ctx, email, otp, name)
	}
	return domain.AccessGrant{Token: "T", User: domain.User{Id: "1", Email: email}}, nil
}

func (m *MockAuthenticator) RequestResetPassword(ctx context.Context, email string) error {
	if m.RequestResetPasswordFunc != nil {
		return m.RequestResetPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthenticator) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, otp, newPassword)
	}
	return nil
}

type grantRecorder struct {
	grants []domain.AccessGrant
	err    error
}

func (g *grantRecorder) handle(grant domain.AccessGrant) error {
	if g.err != nil {
		return g.err
	}
	g.grants = append(g.grants, grant)
	return nil
}

func newController(auth Authenticator) (*Controller, *grantRecorder) {
	rec := &grantRecorder{}
	return NewController(auth, rec.handle), rec
}

func backendError(status int, detail string) error {
	return &errors.ErrorWithStatusCode{Message: detail, StatusCode: status}
}

// --- Tests ---

func TestTransition(t *testing.T) {
	tests := []struct {
		from    Mode
		ev      Event
		to      Mode
		wantErr bool
	}{
		{LoginPass, Event{Kind: Succeeded}, Authenticated, false},
		{Register, Event{Kind: Succeeded}, RegisterVerifyOtp, false},
		{RegisterVerifyOtp, Event{Kind: Succeeded}, Authenticated, false},
		{LoginOtp, Event{Kind: Succeeded}, VerifyOtp, false},
		{VerifyOtp, Event{Kind: Succeeded}, Authenticated, false},
		{ResetRequest, Event{Kind: Succeeded}, ResetVerify, false},
		{ResetVerify, Event{Kind: Succeeded}, LoginPass, false},
		{LoginPass, Event{Kind: SwitchTo, Target: LoginOtp}, LoginOtp, false},
		{LoginPass, Event{Kind: SwitchTo, Target: ResetRequest}, ResetRequest, false},
		{LoginPass, Event{Kind: SwitchTo, Target: Register}, Register, false},
		{LoginOtp, Event{Kind: SwitchTo, Target: Register}, Register, false},
		{Register, Event{Kind: SwitchTo, Target: LoginPass}, LoginPass, false},
		{VerifyOtp, Event{Kind: Back}, LoginOtp, false},
		{RegisterVerifyOtp, Event{Kind: Back}, Register, false},
		{ResetVerify, Event{Kind: Back}, LoginPass, false},
		{LoginPass, Event{Kind: Back}, LoginPass, true},
		{LoginPass, Event{Kind: SwitchTo, Target: VerifyOtp}, LoginPass, true},
		{Register, Event{Kind: SwitchTo, Target: ResetRequest}, Register, true},
		{ResetRequest, Event{Kind: SwitchTo, Target: ResetVerify}, ResetRequest, true},
		{Authenticated, Event{Kind: Succeeded}, Authenticated, true},
		{Authenticated, Event{Kind: Back}, Authenticated, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusConflict, errors.StatusOf(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestPasswordLogin(t *testing.T) {
	// Arrange
	auth := &MockAuthenticator{LoginFunc: func(ctx context.Context, email, password string) (domain.AccessGrant, error) {
		assert.Equal(t, "a@x.com", email)
		assert.Equal(t, "secret", password)
		return domain.AccessGrant{Token: "T", User: domain.User{Id: "1", Email: "a@x.com", Name: "A"}}, nil
	}}
	c, rec := newController(auth)

	// Act
	snap, err := c.Submit(context.Background(), Form{Email: " a@x.com ", Password: "secret"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, Authenticated, snap.Mode)
	require.Len(t, rec.grants, 1)
	assert.Equal(t, "T", rec.grants[0].Token)
	assert.Equal(t, domain.User{Id: "1", Email: "a@x.com", Name: "A"}, rec.grants[0].User)
}

func TestFailureStaysInMode(t *testing.T) {
	auth := &MockAuthenticator{
		RegisterVerifyFunc: func(ctx context.Context, email, otp string) (domain.AccessGrant, error) {
			return domain.AccessGrant{}, backendError(http.StatusBadRequest, "Invalid or expired code")
		},
	}
	c, rec := newController(auth)
	ctx := context.Background()

	_, err := c.Switch(Register)
	require.NoError(t, err)
	snap, err := c.Submit(ctx, Form{Name: "N", Email: "n@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, RegisterVerifyOtp, snap.Mode)
	assert.Equal(t, "n@x.com", snap.Email)

	snap, err = c.Submit(ctx, Form{Code: "000000"})

	require.Error(t, err)
	assert.Equal(t, RegisterVerifyOtp, snap.Mode)
	assert.Equal(t, "Invalid or expired code", snap.Error)
	assert.False(t, snap.Submitting)
	assert.Empty(t, rec.grants)
}

func TestSwitchClearsFlags(t *testing.T) {
	auth := &MockAuthenticator{LoginFunc: func(ctx context.Context, email, password string) (domain.AccessGrant, error) {
		return domain.AccessGrant{}, backendError(http.StatusUnauthorized, "Incorrect email or password")
	}}
	c, _ := newController(auth)
	snap, _ := c.Submit(context.Background(), Form{Email: "a@x.com", Password: "bad"})
	require.NotEmpty(t, snap.Error)

	snap, err := c.Switch(LoginOtp)

	require.NoError(t, err)
	assert.Equal(t, LoginOtp, snap.Mode)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.Success)
	assert.False(t, snap.Submitting)
}

func TestVerifyUsesRequestedEmail(t *testing.T) {
	var verified string
	auth := &MockAuthenticator{VerifyOtpFunc: func(ctx context.Context, email, otp, name string) (domain.AccessGrant, error) {
		verified = email
		return domain.AccessGrant{Token: "T"}, nil
	}}
	c, _ := newController(auth)
	ctx := context.Background()
	_, _ = c.Switch(LoginOtp)
	_, err := c.Submit(ctx, Form{Email: "first@x.com"})
	require.NoError(t, err)

	_, err = c.Submit(ctx, Form{Email: "other@x.com", Code: "123456"})

	require.NoError(t, err)
	assert.Equal(t, "first@x.com", verified)
}

func TestNoStaleValuesAfterSwitch(t *testing.T) {
	var requested []string
	auth := &MockAuthenticator{RequestOtpFunc: func(ctx context.Context, email string) error {
		requested = append(requested, email)
		return nil
	}}
	c, _ := newController(auth)
	ctx := context.Background()
	_, _ = c.Switch(LoginOtp)
	_, err := c.Submit(ctx, Form{Email: "first@x.com"})
	require.NoError(t, err)

	// back to the email step: the remembered email is gone
	snap, err := c.Back()
	require.NoError(t, err)
	assert.Equal(t, LoginOtp, snap.Mode)
	assert.Empty(t, snap.Email)

	_, err = c.Submit(ctx, Form{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Equal(t, []string{"first@x.com"}, requested)

	// a verify step reached again only knows the newly submitted email
	_, err = c.Submit(ctx, Form{Email: "second@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "second@x.com", c.Snapshot().Email)
}

func TestResetFlow(t *testing.T) {
	var reset []string
	auth := &MockAuthenticator{ResetPasswordFunc: func(ctx context.Context, email, otp, newPassword string) error {
		reset = []string{email, otp, newPassword}
		return nil
	}}
	c, rec := newController(auth)
	ctx := context.Background()
	_, _ = c.Switch(ResetRequest)
	snap, err := c.Submit(ctx, Form{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, ResetVerify, snap.Mode)

	snap, err = c.Submit(ctx, Form{Code: " 111111 ", NewPassword: "newpass"})

	require.NoError(t, err)
	assert.Equal(t, LoginPass, snap.Mode)
	assert.True(t, snap.Success)
	assert.Equal(t, "a@x.com", snap.Email)
	assert.Equal(t, []string{"a@x.com", "111111", "newpass"}, reset)
	assert.Empty(t, rec.grants)

	snap, _ = c.Switch(LoginOtp)
	assert.False(t, snap.Success)
}

func TestResultDiscardedAfterModeChange(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	auth := &MockAuthenticator{LoginFunc: func(ctx context.Context, email, password string) (domain.AccessGrant, error) {
		close(arrived)
		<-release
		return domain.AccessGrant{Token: "late"}, nil
	}}
	c, rec := newController(auth)

	done := make(chan error)
	go func() {
		_, err := c.Submit(context.Background(), Form{Email: "a@x.com", Password: "pw"})
		done <- err
	}()
	<-arrived
	assert.True(t, c.Snapshot().Submitting)
	_, err := c.Switch(Register)
	require.NoError(t, err)
	assert.False(t, c.Snapshot().Submitting)
	close(release)

	assert.ErrorIs(t, <-done, ErrDiscarded)
	assert.Empty(t, rec.grants)
	assert.Equal(t, Register, c.Snapshot().Mode)
}

func TestSecondSubmitRejected(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	calls := 0
	auth := &MockAuthenticator{RequestOtpFunc: func(ctx context.Context, email string) error {
		calls++
		close(arrived)
		<-release
		return nil
	}}
	c, _ := newController(auth)
	_, _ = c.Switch(LoginOtp)

	done := make(chan struct{})
	go func() {
		_, _ = c.Submit(context.Background(), Form{Email: "a@x.com"})
		close(done)
	}()
	<-arrived
	_, err := c.Submit(context.Background(), Form{Email: "a@x.com"})
	close(release)
	<-done

	assert.ErrorIs(t, err, ErrSubmitting)
	assert.Equal(t, 1, calls)
	assert.Equal(t, VerifyOtp, c.Snapshot().Mode)
}

func TestGrantHandlerFailure(t *testing.T) {
	rec := &grantRecorder{err: stderrors.New("disk full")}
	c := NewController(&MockAuthenticator{}, rec.handle)

	snap, err := c.Submit(context.Background(), Form{Email: "a@x.com", Password: "pw"})

	require.Error(t, err)
	assert.Equal(t, LoginPass, snap.Mode)
	assert.NotEmpty(t, snap.Error)
}

func TestResetAndBypass(t *testing.T) {
	c, _ := newController(&MockAuthenticator{})

	require.NoError(t, c.Reset(Register))
	assert.Equal(t, Register, c.Snapshot().Mode)
	assert.Error(t, c.Reset(VerifyOtp))

	c.Bypass()
	assert.Equal(t, Authenticated, c.Snapshot().Mode)
	_, err := c.Submit(context.Background(), Form{Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrSignedIn)

	require.NoError(t, c.Reset(LoginPass))
	assert.Equal(t, LoginPass, c.Snapshot().Mode)
}
