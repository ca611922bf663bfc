package espclient

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/esphome-go/client/internal/apimsg"
	"github.com/esphome-go/client/internal/entity"
	"github.com/esphome-go/client/internal/frame"
	"github.com/esphome-go/client/internal/handshake"
)

// state is the session's position in the connect → ready → closed
// lifecycle described by the protocol: a TCP dial, an optional Noise
// handshake, the Hello/Connect/DeviceInfo exchange, entity discovery,
// state subscription, then the steady Ready state where commands and
// inbound state/event frames flow until the session closes.
type state int32

const (
	stateIdle state = iota
	stateTCPConnecting
	stateHandshaking
	stateHello
	stateConnecting
	stateDiscovering
	stateSubscribing
	stateReady
	stateClosing
	stateClosed
)

type frameReader interface {
	ReadFrame() (frame.Frame, error)
}

type frameWriter interface {
	WriteFrame(frame.Frame) error
}

// connect drives the session from a fresh TCP dial through to Ready,
// blocking until either it succeeds or a step fails. It does not spawn
// the background Ready-phase loop; callers that want it running in the
// background should do so after connect returns (see Connect/Run).
func (c *Client) connect(ctx context.Context) error {
	c.setState(stateTCPConnecting)
	dialer := net.Dialer{Timeout: c.cfg.ConnectTimeout}
	addr := fmt.Sprintf("%s:%d", c.cfg.Address, c.cfg.Port)
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return newError(KindConnectError, err)
	}
	c.conn = conn

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if c.cfg.UsePSK {
		if err := c.runHandshake(); err != nil {
			_ = conn.Close()
			return err
		}
	} else {
		c.reader = frame.NewPlaintextReader(conn, c.cfg.MaxPlaintextFrame)
		c.writer = frame.NewPlaintextWriter(conn)
	}

	if err := c.runHello(); err != nil {
		_ = conn.Close()
		return err
	}
	if err := c.runConnect(); err != nil {
		_ = conn.Close()
		return err
	}
	if err := c.runDeviceInfo(); err != nil {
		_ = conn.Close()
		return err
	}
	if err := c.runDiscovery(); err != nil {
		_ = conn.Close()
		return err
	}
	if err := c.runSubscribe(); err != nil {
		_ = conn.Close()
		return err
	}

	_ = conn.SetDeadline(time.Time{})
	c.setState(stateReady)
	c.cfg.Logger.Info().Str("address", addr).Msg("session ready")
	return nil
}

func (c *Client) runHandshake() error {
	c.setState(stateHandshaking)
	hs := handshake.New(handshake.Initiator, c.cfg.PSK, rand.Reader)

	msg1, err := hs.WriteMessage1()
	if err != nil {
		return newError(KindCryptoError, err)
	}
	if err := frame.WriteHandshakeMessage(c.conn, msg1); err != nil {
		return classifyIOError(err)
	}

	msg2, err := frame.ReadHandshakeMessage(c.conn, c.cfg.MaxCiphertextSize)
	if err != nil {
		if errors.Is(err, frame.ErrEncryptionMismatch) {
			return newError(KindEncryptionMismatch, err)
		}
		return classifyIOError(err)
	}
	if err := hs.ReadMessage2(msg2); err != nil {
		// Per the protocol's handshake contract, a wrong PSK can only
		// ever surface here, on the second handshake message — the
		// client's own message 1 never performs a key-dependent check.
		return newError(KindCryptoError, err)
	}

	send, recv, err := hs.Split()
	if err != nil {
		return newError(KindCryptoError, err)
	}
	c.reader = frame.NewNoiseReader(c.conn, recv, c.cfg.MaxCiphertextSize)
	c.writer = frame.NewNoiseWriter(c.conn, send)
	return nil
}

func (c *Client) runHello() error {
	c.setState(stateHello)
	req := apimsg.HelloRequest{
		ClientInfo:      c.cfg.ClientInfo,
		APIVersionMajor: defaultAPIVersionMajor,
		APIVersionMinor: defaultAPIVersionMinor,
	}
	if err := c.writeFrame(apimsg.TypeHelloRequest, req.Encode()); err != nil {
		return err
	}
	f, err := c.readExpected(apimsg.TypeHelloResponse)
	if err != nil {
		return err
	}
	resp, err := apimsg.DecodeHelloResponse(f.Body)
	if err != nil {
		return newError(KindProtocolError, err)
	}
	if resp.APIVersionMajor != defaultAPIVersionMajor {
		return newErrorf(KindUnsupportedAPIVersion, "device api version %d.%d is incompatible with %d.x",
			resp.APIVersionMajor, resp.APIVersionMinor, defaultAPIVersionMajor)
	}
	c.deviceServerInfo = resp.ServerInfo
	c.deviceName = resp.Name
	return nil
}

func (c *Client) runConnect() error {
	c.setState(stateConnecting)
	req := apimsg.ConnectRequest{Password: c.cfg.Password}
	if err := c.writeFrame(apimsg.TypeConnectRequest, req.Encode()); err != nil {
		return err
	}
	f, err := c.readExpected(apimsg.TypeConnectResponse)
	if err != nil {
		return err
	}
	resp, err := apimsg.DecodeConnectResponse(f.Body)
	if err != nil {
		return newError(KindProtocolError, err)
	}
	if resp.InvalidPassword {
		return newError(KindAuthFailure, errors.New("device rejected the configured password"))
	}
	return nil
}

func (c *Client) runDeviceInfo() error {
	if err := c.writeFrame(apimsg.TypeDeviceInfoRequest, nil); err != nil {
		return err
	}
	f, err := c.readExpected(apimsg.TypeDeviceInfoResponse)
	if err != nil {
		return err
	}
	info, err := apimsg.DecodeDeviceInfoResponse(f.Body)
	if err != nil {
		return newError(KindProtocolError, err)
	}
	c.deviceInfo = info
	return nil
}

func (c *Client) runDiscovery() error {
	c.setState(stateDiscovering)
	if err := c.writeFrame(apimsg.TypeListEntitiesRequest, nil); err != nil {
		return err
	}
	for {
		f, err := c.readFrame()
		if err != nil {
			return err
		}
		if f.Type == apimsg.TypeListEntitiesDoneResponse {
			break
		}
		kind, ok := apimsg.ListEntitiesKind(f.Type)
		if !ok {
			// Unrecognized discovery message types are skipped rather
			// than treated as fatal: a newer device may advertise an
			// entity kind this client doesn't yet model.
			continue
		}
		d, err := apimsg.DecodeListEntitiesResponse(kind, f.Body)
		if err != nil {
			return newError(KindProtocolError, err)
		}
		if err := c.registry.Register(d); err != nil {
			return newError(KindProtocolError, err)
		}
	}
	c.registry.Seal()
	c.cfg.Logger.Debug().Int("entities", len(c.registry.All())).Msg("discovery complete")
	return nil
}

func (c *Client) runSubscribe() error {
	c.setState(stateSubscribing)
	return c.writeFrame(apimsg.TypeSubscribeStatesRequest, nil)
}

func (c *Client) writeFrame(msgType uint32, body []byte) error {
	if err := c.writer.WriteFrame(frame.Frame{Type: msgType, Body: body}); err != nil {
		return classifyIOError(err)
	}
	return nil
}

func (c *Client) readFrame() (frame.Frame, error) {
	f, err := c.reader.ReadFrame()
	if err != nil {
		return frame.Frame{}, classifyIOError(err)
	}
	return f, nil
}

// readExpected reads frames until one matches want, handling pings
// inline (a device may interleave a keepalive ping during the connect
// sequence) and failing on anything else — a message out of the
// expected sequence is a protocol error, not silently ignorable.
func (c *Client) readExpected(want uint32) (frame.Frame, error) {
	for {
		f, err := c.readFrame()
		if err != nil {
			return frame.Frame{}, err
		}
		switch f.Type {
		case want:
			return f, nil
		case apimsg.TypePingRequest:
			if err := c.writeFrame(apimsg.TypePingResponse, nil); err != nil {
				return frame.Frame{}, err
			}
		default:
			return frame.Frame{}, newErrorf(KindProtocolError, "expected message type %d, got %d", want, f.Type)
		}
	}
}

func classifyIOError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, frame.ErrEncryptionRequired):
		return newError(KindEncryptionRequired, err)
	case errors.Is(err, frame.ErrEncryptionMismatch):
		return newError(KindEncryptionMismatch, err)
	case errors.Is(err, frame.ErrOversizeFrame):
		return newError(KindOversizeFrame, err)
	case errors.Is(err, frame.ErrBadIndicator), errors.Is(err, frame.ErrTruncatedCiphertext):
		return newError(KindFrameError, err)
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return newError(KindClosed, err)
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return newError(KindTimeout, err)
		}
		return newError(KindFrameError, err)
	}
}

// readyLoop runs the steady-state event loop: it owns the socket and
// processes inbound frames, outbound commands, and the keepalive ping
// on a single goroutine, so every callback fires without synchronization
// concerns of its own. Command methods called from other goroutines only
// ever enqueue onto cmdCh; they never touch the socket directly.
func (c *Client) readyLoop() {
	defer c.wg.Done()
	defer c.finishClose()

	frames := make(chan frame.Frame, 16)
	readErrs := make(chan error, 1)
	go func() {
		for {
			f, err := c.readFrame()
			if err != nil {
				readErrs <- err
				return
			}
			frames <- f
		}
	}()

	pingTicker := time.NewTicker(c.cfg.PingInterval)
	defer pingTicker.Stop()
	lastPong := time.Now()

	for {
		select {
		case <-c.closeSignal:
			return

		case err := <-readErrs:
			c.lastErr = err
			return

		case f := <-frames:
			switch f.Type {
			case apimsg.TypePingRequest:
				_ = c.writeFrame(apimsg.TypePingResponse, nil)
			case apimsg.TypePingResponse:
				lastPong = time.Now()
			case apimsg.TypeGetTimeRequest:
				resp := apimsg.GetTimeResponse{EpochSeconds: uint32(time.Now().Unix())}
				_ = c.writeFrame(apimsg.TypeGetTimeResponse, apimsg.EncodeGetTimeResponse(resp))
			case apimsg.TypeDisconnectRequest:
				_ = c.writeFrame(apimsg.TypeDisconnectResponse, nil)
				c.lastErr = newError(KindClosed, errors.New("device requested disconnect"))
				return
			default:
				c.dispatchState(f)
			}

		case cmd := <-c.cmdCh:
			if err := cmd(); err != nil {
				c.cfg.Logger.Warn().Err(err).Msg("command failed")
			}

		case <-pingTicker.C:
			if time.Since(lastPong) > c.cfg.PingTimeout {
				c.lastErr = newError(KindTimeout, errors.New("no ping response within timeout"))
				return
			}
			_ = c.writeFrame(apimsg.TypePingRequest, nil)
		}
	}
}

func (c *Client) dispatchState(f frame.Frame) {
	kind, payload, ok, err := apimsg.DecodeState(f.Type, f.Body)
	if err != nil {
		c.cfg.Logger.Warn().Err(err).Msg("discarding malformed state frame")
		return
	}
	if !ok {
		c.cfg.Logger.Debug().Int("type", int(f.Type)).Msg("ignoring unrecognized message type")
		return
	}
	key := apimsg.KeyOf(payload)
	descriptor, err := c.registry.ByKey(key)
	if err != nil {
		c.cfg.Logger.Debug().Uint32("key", key).Msg("state for unknown entity, dropping")
		return
	}
	_ = kind
	c.cfg.Logger.Debug().Str("entity", descriptor.ID()).Msg("state update")
	c.cfg.OnState(Event{Descriptor: descriptor, State: payload})
}

func (c *Client) setState(s state) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// State reports the session's current lifecycle position.
func (c *Client) State() state {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Registry exposes the discovered entity set, sealed once the session
// first reaches Ready.
func (c *Client) Registry() *entity.Registry { return c.registry }
