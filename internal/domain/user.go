package domain

// UserContext is the authenticated caller context injected into request
// handlers. HostToken is the GitHub access token issued by the external
// identity provider; this service only consumes it, never issues it.
type UserContext struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	HostToken string `json:"-"`
}
