package models

// Session is the authenticated state of the client: the server-issued bearer
// token and the identity it belongs to. Absence of a session ("anonymous")
// is a valid state in which no recipe data is fetched.
type Session struct {
	Token  string
	UserID string
}
