package google

// DelegatedScopes are the Google OAuth scopes requested for the delegated
// service-account credentials. The sync only reads mail, so the read-only
// Gmail scope is the whole set; the domain-wide delegation grant in the
// Workspace admin console must match it exactly.
var DelegatedScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
}
