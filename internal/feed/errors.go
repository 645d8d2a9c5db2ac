package feed

import "fmt"

// ConnectionError indicates the FTP session could not be established:
// unreachable host, TLS negotiation failure, or rejected credentials.
// Fatal to the current sync run.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("feed connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PermissionError indicates the account lacks list capability for a path.
// This is an expected condition for some distributor account tiers and is
// recoverable when an explicit inventory path is configured.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("listing denied for %q: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// TransferError indicates a download was interrupted or otherwise failed.
// Fatal to the current sync run.
type TransferError struct {
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer of %q failed: %v", e.Path, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// DiscoveryError indicates no inventory-like file could be identified on the
// remote server. The message points the operator at the explicit-path remedy.
type DiscoveryError struct {
	Reason string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("inventory file discovery failed: %s. "+
		"Set FEED_INVENTORY_PATH to the exact remote file path "+
		"(example: FEED_INVENTORY_PATH=/keydealer/inventory-keydlr-new.txt)", e.Reason)
}

// ParseAbortError indicates the per-line error ceiling was exceeded and the
// file is too corrupt to trust. Any partially parsed records are discarded.
type ParseAbortError struct {
	Lines      int
	ErrorCount int
}

func (e *ParseAbortError) Error() string {
	return fmt.Sprintf("parsing aborted after %d malformed lines (of %d): file too corrupt to trust", e.ErrorCount, e.Lines)
}
