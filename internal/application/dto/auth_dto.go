package dto

// RegisterRequest input for self-registration. Creates the named organization
// alongside the user.
type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	UserName        string `json:"userName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Organization    string `json:"organization"`
}

// RegisterResponse output of a successful registration (no credential fields).
type RegisterResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	OrganizationID string `json:"organization_id"`
}

// LoginRequest input for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the login body: access token plus the identity projection.
// Password hash, salt and reset fields must never appear here.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Manager     bool   `json:"manager"`
}

// LoginResult bundles the response body with the refresh token the handler
// emits as an HTTP-only cookie. The refresh token itself is not part of the
// JSON body.
type LoginResult struct {
	Body         LoginResponse
	RefreshToken string
}

// Identity is the projection attached to the request context after
// authentication, for downstream authorization checks.
type Identity struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Manager        bool   `json:"manager"`
	OrganizationID string `json:"organization_id"`
}

// ForgotPasswordRequest input for requesting a reset email.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest input for redeeming a reset token.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePasswordRequest input for rotating the password of an authenticated
// user. Requires re-verification of the current password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
