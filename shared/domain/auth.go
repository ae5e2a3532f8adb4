package domain

// OtpPurpose binds a one-time code to the flow that requested it.
type OtpPurpose string

const (
	OtpLogin    OtpPurpose = "login"
	OtpRegister OtpPurpose = "register"
	OtpReset    OtpPurpose = "reset"
)

// AccessGrant is what a successful login, registration or OTP verification yields.
// Token is opaque to the client.
type AccessGrant struct {
	Token string
	User  User
}
