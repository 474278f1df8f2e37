package api

// AuthResponse is returned by both login endpoints.
type AuthResponse struct {
	// Token is the bearer credential for every later request.
	// Usage: persisted by sessions.Store.Login and attached by BearerTransport.
	Token string `json:"token"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest creates an unverified account; an activation code is emailed.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse carries the creation time of the new account.
type RegisterResponse struct {
	CreatedAt string `json:"created_at"`
}

// ModifyUsernameRequest renames the logged in account.
// Role is the account collection ("admins" or "users").
type ModifyUsernameRequest struct {
	NewUsername string `json:"new_username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// ModifyPasswordRequest changes the password of the logged in account.
type ModifyPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	Role            string `json:"role"`
}

// DeleteAccountRequest removes the logged in account.
type DeleteAccountRequest struct {
	Role string `json:"role"`
}

// DeleteUserRequest is an admin request to remove another account.
type DeleteUserRequest struct {
	Username string `json:"username"`
}

// BroadcastRequest emails every registered user.
type BroadcastRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ModifyResponse is the generic acknowledgement of mutating endpoints.
type ModifyResponse struct {
	Status string `json:"status"`
}

// userListResponse is the column-oriented admin listing; the three slices
// are parallel.
type userListResponse struct {
	Usernames []string `json:"usernames"`
	Emails    []string `json:"emails"`
	CreatedAt []string `json:"created_at"`
}
