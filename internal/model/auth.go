package model

// AccessToken is the object carried by the access token of the identity
// provider.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
