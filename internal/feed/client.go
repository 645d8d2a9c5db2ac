package feed

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net/textproto"
	"regexp"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"armory-api/internal/config"
	"armory-api/internal/model"
)

// FileInfo describes one remote directory entry.
type FileInfo struct {
	Name     string
	Size     uint64
	Modified time.Time
}

// inventoryFilePattern matches filenames the distributor has historically
// used for the inventory feed: inventory_YYYYMMDD.txt, rsrinventory.txt,
// current_inventory.csv and compressed variants.
var inventoryFilePattern = regexp.MustCompile(`(?i)(rsr|inventory|current)[-_\w]*\.(txt|csv|gz|zip)$`)

// Client is a transient FTP session with the distributor's file server.
// A client is exclusively owned by one sync run; it is not safe for
// concurrent use.
type Client struct {
	cfg  config.FeedConfig
	conn *ftp.ServerConn
}

// NewClient creates an FTP client for the distributor feed. It does not
// connect; call Connect before any other operation.
func NewClient(cfg config.FeedConfig) (*Client, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		return nil, fmt.Errorf("missing feed credentials: FEED_FTP_HOST, FEED_FTP_USER and FEED_FTP_PASSWORD are required")
	}
	return &Client{cfg: cfg}, nil
}

// Connect establishes the FTP session, optionally over explicit TLS.
// The distributor's server is known to present certificates that fail strict
// validation, so verification is relaxed deliberately rather than by accident.
func (c *Client) Connect(ctx context.Context) error {
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(15 * time.Second),
	}
	if c.cfg.Secure {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // distributor uses self-signed certificates
		}))
	}

	conn, err := ftp.Dial(c.cfg.Address(), opts...)
	if err != nil {
		return &ConnectionError{Err: err}
	}

	if err := conn.Login(c.cfg.User, c.cfg.Password); err != nil {
		_ = conn.Quit()
		return &ConnectionError{Err: err}
	}

	c.conn = conn
	log.Printf("[FeedClient] Connected to %s", c.cfg.Host)
	return nil
}

// Disconnect releases the session. Idempotent; errors are logged, not
// returned, since it runs during cleanup.
func (c *Client) Disconnect() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Quit(); err != nil {
		log.Printf("[FeedClient] Disconnect error: %v", err)
	}
	c.conn = nil
}

// List returns the entries of a remote directory. A 5xx reply is reported as
// a PermissionError: some distributor account tiers have no list capability.
func (c *Client) List(path string) ([]FileInfo, error) {
	entries, err := c.conn.List(path)
	if err != nil {
		if isPermissionReply(err) {
			return nil, &PermissionError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to list %q: %w", path, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.Type != ftp.EntryTypeFile {
			continue
		}
		files = append(files, FileInfo{Name: e.Name, Size: e.Size, Modified: e.Time})
	}
	log.Printf("[FeedClient] Listed %d files in %s", len(files), path)
	return files, nil
}

// FetchToBuffer streams a remote file's full contents into memory.
func (c *Client) FetchToBuffer(path string) ([]byte, error) {
	resp, err := c.conn.Retr(path)
	if err != nil {
		return nil, &TransferError{Path: path, Err: err}
	}
	defer resp.Close()

	buf, err := io.ReadAll(resp)
	if err != nil {
		return nil, &TransferError{Path: path, Err: err}
	}

	log.Printf("[FeedClient] Downloaded %s (%d bytes)", path, len(buf))
	return buf, nil
}

// ResolveInventoryPath determines which remote file is the inventory feed.
// An explicitly configured path wins unconditionally; otherwise the root
// listing is pattern-matched against known inventory file names. Account
// tiers without list permission must configure the explicit path.
func (c *Client) ResolveInventoryPath() (string, error) {
	if c.cfg.InventoryPath != "" {
		log.Printf("[FeedClient] Using configured inventory path: %s", c.cfg.InventoryPath)
		return c.cfg.InventoryPath, nil
	}

	log.Printf("[FeedClient] No inventory path configured, attempting discovery...")
	files, err := c.List("/")
	if err != nil {
		return "", &DiscoveryError{Reason: fmt.Sprintf("cannot list remote directory (%v)", Redact(err.Error(), c.cfg))}
	}

	if name, ok := matchInventoryFile(files); ok {
		log.Printf("[FeedClient] Discovered inventory file: %s", name)
		return name, nil
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	log.Printf("[FeedClient] No inventory file matched. Remote files: %s", strings.Join(names, ", "))
	return "", &DiscoveryError{Reason: "no inventory-like file found in remote directory"}
}

// matchInventoryFile returns the first entry that looks like an inventory
// feed file.
func matchInventoryFile(files []FileInfo) (string, bool) {
	for _, f := range files {
		if inventoryFilePattern.MatchString(f.Name) || strings.Contains(strings.ToLower(f.Name), "inventory") {
			return f.Name, true
		}
	}
	return "", false
}

// HealthCheck connects, performs the cheapest available probe and
// disconnects. Credentials and host names are redacted from the diagnostic.
func (c *Client) HealthCheck(ctx context.Context) model.FeedHealth {
	start := time.Now()

	fail := func(err error) model.FeedHealth {
		return model.FeedHealth{
			Healthy:           false,
			LatencyMS:         time.Since(start).Milliseconds(),
			DiagnosticMessage: Redact(err.Error(), c.cfg),
		}
	}

	if err := c.Connect(ctx); err != nil {
		return fail(err)
	}
	defer c.Disconnect()

	var diag string
	if c.cfg.InventoryPath != "" {
		size, err := c.conn.FileSize(c.cfg.InventoryPath)
		if err != nil {
			return fail(err)
		}
		diag = fmt.Sprintf("inventory file present (%d bytes)", size)
	} else {
		files, err := c.List("/")
		if err != nil {
			return fail(err)
		}
		diag = fmt.Sprintf("connected, found %d files", len(files))
	}

	return model.FeedHealth{
		Healthy:           true,
		LatencyMS:         time.Since(start).Milliseconds(),
		DiagnosticMessage: diag,
	}
}

// isPermissionReply reports whether err is an FTP permission-class reply
// (550 and friends).
func isPermissionReply(err error) bool {
	var proto *textproto.Error
	if !errors.As(err, &proto) {
		return false
	}
	return proto.Code == ftp.StatusFileUnavailable || proto.Code == ftp.StatusNotLoggedIn
}

var redactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password=)[^&\s]*`),
	regexp.MustCompile(`(?i)(user=)[^&\s]*`),
	regexp.MustCompile(`(?i)(auth=)[^&\s]*`),
	regexp.MustCompile(`(?i)(token=)[^&\s]*`),
}

// Redact removes credentials and host names from error text before it
// leaves the transport layer.
func Redact(msg string, cfg config.FeedConfig) string {
	for _, p := range redactPatterns {
		msg = p.ReplaceAllString(msg, "${1}***")
	}
	for _, secret := range []string{cfg.Password, cfg.User, cfg.Host} {
		if secret != "" {
			msg = strings.ReplaceAll(msg, secret, "***")
		}
	}
	return msg
}
