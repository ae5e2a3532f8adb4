package devapi

import (
	"net/http"
	"strings"

	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/logger"
	"github.com/folio-desk/folio/shared/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidCode = "Invalid or expired code"

// Verify resolves a bearer token to its account. It makes Server a middleware.TokenVerifier.
func (s *Server) Verify(token string) (domain.User, error) {
	email, err := s.jwt.Subject(token)
	if err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok {
		return domain.User{}, errors.Unauthorized("Could not validate credentials")
	}
	return acc.user, nil
}

// issueCode replaces any code pending for (email, purpose). Callers hold s.mu.
func (s *Server) issueCode(email domain.Email, purpose domain.OtpPurpose) error {
	code := utils.GenerateOtp(s.cfg.OtpLen)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		logger.Log.Error("failed to hash one-time code", "error", err)
		return err
	}
	s.otps[otpKey{email, purpose}] = otpEntry{hash: hash, expires: s.now().Add(s.cfg.OtpTTL)}
	s.lastCodes[email] = code
	logger.Log.Info("one-time code issued", "email", email, "purpose", purpose, "code", code)
	return nil
}

// consumeCode checks a code and burns it on success. Callers hold s.mu.
func (s *Server) consumeCode(email domain.Email, purpose domain.OtpPurpose, code string) bool {
	key := otpKey{email, purpose}
	entry, ok := s.otps[key]
	if !ok {
		return false
	}
	if s.now().After(entry.expires) {
		delete(s.otps, key)
		return false
	}
	if bcrypt.CompareHashAndPassword(entry.hash, []byte(strings.TrimSpace(code))) != nil {
		return false
	}
	delete(s.otps, key)
	return true
}

// grant issues a token for an existing account. Callers hold s.mu.
func (s *Server) grant(w http.ResponseWriter, acc *account) {
	token, err := s.jwt.NewToken(acc.user.Email)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, tokenResponse{AccessToken: token, TokenType: "bearer", User: toUserRecord(acc.user)})
}

func (s *Server) createAccount(email domain.Email, name string, passHash []byte) *account {
	acc := &account{
		user:     domain.User{Id: uuid.NewString(), Email: email, Name: name},
		passHash: passHash,
	}
	s.accounts[email] = acc
	return acc
}

func hashPassword(w http.ResponseWriter, password string) ([]byte, bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		utils.WriteErrorAndStatusCode(w, err)
		return nil, false
	}
	return hash, true
}

// Token is the form-encoded password login.
func (s *Server) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Body is not a form")
		return
	}
	email := normalizeEmail(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok || acc.passHash == nil || bcrypt.CompareHashAndPassword(acc.passHash, []byte(password)) != nil {
		// same answer for unknown users so they are not leaked
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	s.grant(w, acc)
}

func (s *Server) RegisterRequest(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	email := normalizeEmail(body.Email)
	hash, ok := hashPassword(w, body.Password)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	s.pending[email] = pendingRegistration{name: strings.TrimSpace(body.Name), passHash: hash}
	if err := s.issueCode(email, domain.OtpRegister); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.MessageResponse{Message: "Verification code sent"})
}

func (s *Server) RegisterVerify(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterVerifyRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	email := normalizeEmail(body.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.pending[email]
	if !ok || !s.consumeCode(email, domain.OtpRegister, body.Otp) {
		writeDetail(w, http.StatusBadRequest, invalidCode)
		return
	}
	delete(s.pending, email)
	s.grant(w, s.createAccount(email, reg.name, reg.passHash))
}

// RequestOtp issues a login code whether or not the account exists; VerifyOtp creates it.
func (s *Server) RequestOtp(w http.ResponseWriter, r *http.Request) {
	var body api.EmailRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.issueCode(normalizeEmail(body.Email), domain.OtpLogin); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.MessageResponse{Message: "Code sent"})
}

func (s *Server) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var body api.VerifyOtpRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	email := normalizeEmail(body.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.consumeCode(email, domain.OtpLogin, body.Otp) {
		writeDetail(w, http.StatusBadRequest, invalidCode)
		return
	}
	acc, ok := s.accounts[email]
	if !ok {
		name := strings.TrimSpace(body.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		acc = s.createAccount(email, name, nil)
	}
	s.grant(w, acc)
}

func (s *Server) RequestResetPassword(w http.ResponseWriter, r *http.Request) {
	var body api.EmailRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	email := normalizeEmail(body.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if err := s.issueCode(email, domain.OtpReset); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.MessageResponse{Message: "Reset code sent"})
}

func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body api.ResetPasswordRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	email := normalizeEmail(body.Email)
	hash, ok := hashPassword(w, body.NewPassword)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, exists := s.accounts[email]
	if !exists || !s.consumeCode(email, domain.OtpReset, body.Otp) {
		writeDetail(w, http.StatusBadRequest, invalidCode)
		return
	}
	acc.passHash = hash
	writeJSON(w, api.MessageResponse{Message: "Password updated"})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, toUserRecord(user))
}
