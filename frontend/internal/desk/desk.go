// Package desk assembles the session, the auth forms and the dual-mode
// workspace into one object owned by the process.
package desk

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/folio-desk/folio/frontend/internal/apiclient"
	"github.com/folio-desk/folio/frontend/internal/authflow"
	"github.com/folio-desk/folio/frontend/internal/datamode"
	"github.com/folio-desk/folio/frontend/internal/demo"
	"github.com/folio-desk/folio/frontend/internal/markdown"
	"github.com/folio-desk/folio/frontend/internal/session"
	"github.com/folio-desk/folio/frontend/internal/workspace"
	"github.com/folio-desk/folio/shared/config"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/logger"
)

// State is everything a UI needs to decide what to show.
type State struct {
	Identity           *domain.User
	Mode               datamode.Mode
	Auth               authflow.Snapshot
	ShowRegisterBanner bool
}

type Desk struct {
	Session   *session.Store
	API       *apiclient.APIClient
	Router    *datamode.Router
	Workspace *workspace.Coordinator
	Auth      *authflow.Controller
	Markdown  *markdown.Renderer

	bannerDelay time.Duration
	now         func() time.Time

	mu              sync.Mutex
	demoSince       time.Time
	bannerDismissed bool
}

// New wires a desk talking to the backend at cfg.Api.BaseURL, keeping the
// bearer credential in creds.
func New(cfg *config.Public, creds session.CredentialStore) *Desk {
	d := &Desk{
		bannerDelay: cfg.Demo.BannerDelay,
		now:         time.Now,
		Markdown:    markdown.New(),
	}
	d.Session = session.New(creds)
	d.API = apiclient.New(cfg.Api.BaseURL, d.Session)
	d.Router = datamode.New(d.API, demo.NewStore(), d.Session.Clear)
	d.Workspace = workspace.New(d.Router)
	d.Auth = authflow.NewController(d.API, d.establish)
	return d
}

// Start resolves a credential left by a previous run. With a valid one the
// auth forms are skipped.
func (d *Desk) Start(ctx context.Context) (domain.User, bool) {
	user, ok := d.Session.ResolveCurrentIdentity(ctx, d.API)
	if ok {
		d.Auth.Bypass()
		logger.Log.Info("resumed session", "user_id", user.Id)
	}
	return user, ok
}

// establish is the grant handler of the auth controller. It runs with the
// controller locked.
func (d *Desk) establish(grant domain.AccessGrant) error {
	if err := d.Session.Establish(grant.User, grant.Token); err != nil {
		return err
	}
	d.Router.EnterLive()
	d.Workspace.Reset()
	d.endDemo()
	logger.Log.Info("signed in", "user_id", grant.User.Id)
	return nil
}

// LoginAsDemo signs in as the demo user without contacting the backend.
func (d *Desk) LoginAsDemo() domain.User {
	d.Router.EnterDemo()
	d.Session.Adopt(demo.User)
	d.Workspace.Reset()
	d.Auth.Bypass()

	d.mu.Lock()
	d.demoSince = d.now()
	d.bannerDismissed = false
	d.mu.Unlock()
	return demo.User
}

// Logout returns to the password form. Nothing here fails: a credential
// that cannot be erased is logged by the session store.
func (d *Desk) Logout() {
	wasDemo := d.Router.IsDemo()
	d.signOut()
	if err := d.Auth.Reset(authflow.LoginPass); err != nil {
		logger.Log.Warn("could not reset auth form", "error", err)
	}
	logger.Log.Info("signed out", "demo", wasDemo)
}

func (d *Desk) signOut() {
	d.Session.Clear()
	d.Router.EnterLive()
	d.Workspace.Reset()
	d.endDemo()
}

func (d *Desk) endDemo() {
	d.mu.Lock()
	d.demoSince = time.Time{}
	d.bannerDismissed = false
	d.mu.Unlock()
}

// DismissBanner hides the register banner for the rest of the demo session.
func (d *Desk) DismissBanner() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bannerDismissed = true
}

// OpenRegisterFromBanner leaves the demo and opens the registration form.
// Outside a demo session it does nothing and returns a conflict.
func (d *Desk) OpenRegisterFromBanner() error {
	if !d.Router.IsDemo() {
		return &errors.ErrorWithStatusCode{Message: "Not in a demo session", StatusCode: http.StatusConflict, Kind: errors.KindInvalidInput}
	}
	d.signOut()
	return d.Auth.Reset(authflow.Register)
}

func (d *Desk) bannerVisible() bool {
	if !d.Router.IsDemo() {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bannerDismissed || d.demoSince.IsZero() {
		return false
	}
	return d.now().Sub(d.demoSince) >= d.bannerDelay
}

func (d *Desk) Identity() (domain.User, bool) {
	return d.Session.Identity()
}

func (d *Desk) State() State {
	s := State{
		Mode:               d.Router.Mode(),
		Auth:               d.Auth.Snapshot(),
		ShowRegisterBanner: d.bannerVisible(),
	}
	if user, ok := d.Session.Identity(); ok {
		s.Identity = &user
	}
	return s
}

// Close waits for detached backend deletes to finish.
func (d *Desk) Close() {
	d.Workspace.Wait()
}
