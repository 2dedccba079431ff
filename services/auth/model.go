package auth

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegistrationRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// LoginResponse accepts both credential field names the backend has been
// seen to use ("token" and "accessToken").
type LoginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Type        string `json:"type"`
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Avatar      string `json:"avatar"`
}

func (r LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}

	return r.Token
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
