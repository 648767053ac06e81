package models

// Credential is a row of the credential store. There is no update path: a
// credential is written once, on the first login for its username.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
}
