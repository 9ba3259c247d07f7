package enums

// StoreDisabledReason explains why syncing was suspended for a store.
type StoreDisabledReason string

const (
	// StoreDisabledConnectFailed is set when the connection probe against the
	// Wildberries APIs fails, usually because credentials were revoked.
	StoreDisabledConnectFailed StoreDisabledReason = "connect_failed_wildberries_api"
)

// String implements fmt.Stringer.
func (r StoreDisabledReason) String() string {
	return string(r)
}
