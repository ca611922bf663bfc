package espclient

import (
	"time"

	"github.com/esphome-go/client/internal/frame"
	"github.com/esphome-go/client/logging"
)

// Default tunables, applied by applyDefaults the way sdk/go/client.go
// fills in a ClientConfig's zero values before a RelayClient starts.
const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultPingInterval   = 20 * time.Second
	DefaultPingTimeout    = 90 * time.Second
	DefaultClientInfo     = "esphome-go"
	defaultAPIVersionMajor = 1
	defaultAPIVersionMinor = 10
)

// Config configures one Client. Address is required; every other field
// has a workable default.
type Config struct {
	// Address is the device's hostname or IP. Port defaults to 6053.
	Address string
	Port    int

	// PSK is the 32-byte Noise pre-shared key, base64-decoded by the
	// caller beforehand. UsePSK selects the framing: when it is false the
	// session speaks plaintext and PSK is ignored; when it is true the
	// session runs the Noise handshake with PSK (an all-zero key included).
	PSK [32]byte
	UsePSK bool

	// Password is the legacy plaintext password, sent with
	// ConnectRequest regardless of encryption. Most modern devices
	// leave this unset.
	Password string

	ClientInfo      string
	ConnectTimeout  time.Duration
	PingInterval    time.Duration
	PingTimeout     time.Duration

	MaxPlaintextFrame int
	MaxCiphertextSize int

	// ReconnectBackoffMin/Max bound the exponential backoff between
	// reconnect attempts after a transient failure, replacing a single
	// fixed reconnectInterval with a doubling window. Permanent failures
	// (AuthFailure, UnsupportedApiVersion, ConfigError,
	// EncryptionRequired/Mismatch) never trigger a reconnect at all.
	ReconnectBackoffMin time.Duration
	ReconnectBackoffMax time.Duration
	MaxReconnectAttempts int

	// OnState fires synchronously on the session's own goroutine for
	// every state/event message, including the first push right after
	// subscribing. OnDisconnect fires once when the session leaves
	// Ready for any reason.
	OnState      func(Event)
	OnDisconnect func(error)

	Logger logging.Logger
}

func applyDefaults(cfg Config) Config {
	if cfg.Port <= 0 {
		cfg.Port = 6053
	}
	if cfg.ClientInfo == "" {
		cfg.ClientInfo = DefaultClientInfo
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = DefaultPingTimeout
	}
	if cfg.MaxPlaintextFrame <= 0 {
		cfg.MaxPlaintextFrame = frame.DefaultMaxPlaintextFrame
	}
	if cfg.MaxCiphertextSize <= 0 {
		cfg.MaxCiphertextSize = frame.DefaultMaxCiphertextSize
	}
	if cfg.ReconnectBackoffMin <= 0 {
		cfg.ReconnectBackoffMin = 15 * time.Second
	}
	if cfg.ReconnectBackoffMax <= 0 {
		cfg.ReconnectBackoffMax = 30 * time.Second
	}
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.OnState == nil {
		cfg.OnState = func(Event) {}
	}
	if cfg.OnDisconnect == nil {
		cfg.OnDisconnect = func(error) {}
	}
	return cfg
}
