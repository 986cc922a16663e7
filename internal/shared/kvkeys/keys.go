// Package kvkeys names the persisted client-side state keys. They mirror
// the web client's local storage layout: the credential and user profile,
// the profile refresh marker, and the dashboard cache envelope.
package kvkeys

const (
	AuthToken       = "auth_token"
	User            = "user"
	UserLastRefresh = "user_last_refresh"
	DashboardCache  = "dashboard_cache"
)
