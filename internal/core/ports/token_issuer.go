package ports

// TokenIssuer mints an opaque bearer credential bound to a user identity.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}
