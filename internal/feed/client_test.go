package feed

import (
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armory-api/internal/config"
)

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(config.FeedConfig{Host: "ftp.example.com", User: "dealer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_FTP_PASSWORD")

	c, err := NewClient(config.FeedConfig{Host: "ftp.example.com", User: "dealer", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestRedact(t *testing.T) {
	cfg := config.FeedConfig{Host: "ftp.example.com", User: "dealer42", Password: "hunter2"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"key value pairs",
			"dial failed: password=hunter2&user=dealer42 token=abc123",
			"dial failed: password=***&user=*** token=***",
		},
		{
			"literal credentials",
			"530 login incorrect for dealer42 at ftp.example.com",
			"530 login incorrect for *** at ***",
		},
		{
			"case insensitive keys",
			"AUTH=secret PASSWORD=hunter2",
			"AUTH=*** PASSWORD=***",
		},
		{
			"clean message untouched",
			"connection refused",
			"connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.in, cfg))
		})
	}
}

func TestRedact_EmptyConfigFields(t *testing.T) {
	// Empty secrets must not blank out the entire message.
	got := Redact("some error text", config.FeedConfig{})
	assert.Equal(t, "some error text", got)
}

func TestMatchInventoryFile(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		files []FileInfo
		want  string
		found bool
	}{
		{
			"dated inventory file",
			[]FileInfo{{Name: "readme.pdf"}, {Name: "inventory_20260829.txt", Modified: now}},
			"inventory_20260829.txt", true,
		},
		{
			"distributor prefix",
			[]FileInfo{{Name: "rsrinventory-new.txt"}},
			"rsrinventory-new.txt", true,
		},
		{
			"compressed feed",
			[]FileInfo{{Name: "current_inventory.csv.zip"}},
			"current_inventory.csv.zip", true,
		},
		{
			"substring fallback",
			[]FileInfo{{Name: "full-inventory.dat"}},
			"full-inventory.dat", true,
		},
		{
			"nothing inventory-like",
			[]FileInfo{{Name: "prices.pdf"}, {Name: "images.tar"}},
			"", false,
		},
		{
			"empty listing",
			nil,
			"", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchInventoryFile(tt.files)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPermissionReply(t *testing.T) {
	assert.True(t, isPermissionReply(&textproto.Error{Code: 550, Msg: "Permission denied"}))
	assert.True(t, isPermissionReply(&textproto.Error{Code: 530, Msg: "Not logged in"}))
	assert.False(t, isPermissionReply(&textproto.Error{Code: 421, Msg: "Service not available"}))
	assert.False(t, isPermissionReply(assert.AnError))
}

func TestErrorTypes_Unwrap(t *testing.T) {
	base := assert.AnError

	tests := []struct {
		name string
		err  error
	}{
		{"connection", &ConnectionError{Err: base}},
		{"permission", &PermissionError{Path: "/", Err: base}},
		{"transfer", &TransferError{Path: "/inv.txt", Err: base}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, base)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestDiscoveryError_MentionsConfigOverride(t *testing.T) {
	err := &DiscoveryError{Reason: "no inventory-like file found"}
	assert.Contains(t, err.Error(), "FEED_INVENTORY_PATH")
}
