package credentials

// Account is the user a credential check resolved to.
type Account struct {
	UserID string
	Email  string
	Name   string
}
