package storage

// Durable keys of the local store.
const (
	KeyUILanguage     = "ui_language"
	KeyOutputLanguage = "output_language"
	KeyTheme          = "theme"
	KeyHistory        = "meeting_history"

	// Locally simulated identity.
	KeyLocalAccount = "local_account"
	KeyLocalSession = "local_session"

	// KeyUsageCounter holds the guest counter; registered local accounts use
	// UsageKey(profileID).
	KeyUsageCounter = "usage_counter"
)

// UsageKey returns the counter key of a locally registered profile.
func UsageKey(profileID string) string {
	return KeyUsageCounter + ":" + profileID
}

// IdentityPrefixes are the key prefixes whose changes alter the session view.
var IdentityPrefixes = []string{"local_", KeyUsageCounter}
