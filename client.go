// Package espclient implements a client for ESPHome's native TCP API:
// plaintext or Noise-encrypted framing, entity discovery, state
// subscription, and command dispatch, built around a single goroutine
// that owns the connection the way a cooperative event loop does.
package espclient

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/esphome-go/client/internal/apimsg"
	"github.com/esphome-go/client/internal/entity"
)

// Client is one connection to one ESPHome device. Construct it with New,
// bring it up with Connect or Run, and address entities by the
// "<kind>-<object_id>" IDs reported in Registry().
type Client struct {
	cfg Config

	conn   net.Conn
	reader frameReader
	writer frameWriter

	registry *entity.Registry

	stateMu sync.RWMutex
	state   state

	deviceInfo       apimsg.DeviceInfoResponse
	deviceServerInfo string
	deviceName       string

	cmdCh       chan func() error
	closeSignal chan struct{}
	closeOnce   sync.Once
	doneCh      chan struct{}
	wg          sync.WaitGroup
	lastErr     error
}

// New validates cfg and returns an unconnected Client. Call Connect or
// Run to bring it up.
func New(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, newError(KindConfigError, errors.New("Address is required"))
	}
	cfg = applyDefaults(cfg)
	return &Client{
		cfg:         cfg,
		registry:    entity.NewRegistry(),
		cmdCh:       make(chan func() error, 64),
		closeSignal: make(chan struct{}),
		doneCh:      make(chan struct{}),
		state:       stateIdle,
	}, nil
}

// Connect dials the device and drives the handshake/discovery sequence
// through to Ready, then starts the background event loop. It blocks
// until the session is Ready or a step fails; the returned error, if
// any, is always a *Error so callers can branch on Kind/Permanent.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.connect(ctx); err != nil {
		return err
	}
	c.wg.Add(1)
	go c.readyLoop()
	return nil
}

// Run connects and keeps the session alive, reconnecting with
// exponential backoff (bounded by ReconnectBackoffMin/Max and
// MaxReconnectAttempts) after a transient disconnect. It returns when
// ctx is canceled, Close is called, or a permanent failure occurs.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	backoff := c.cfg.ReconnectBackoffMin
	for {
		err := c.Connect(ctx)
		if err == nil {
			attempt = 0
			backoff = c.cfg.ReconnectBackoffMin
			<-c.doneCh // wait for the session to drop out of Ready; finishClose reports via OnDisconnect
			err = c.lastErr
		}

		if ctx.Err() != nil {
			return nil
		}
		if c.State() == stateClosed && err == nil {
			return nil
		}
		if Permanent(err) {
			return err
		}
		attempt++
		if attempt > c.cfg.MaxReconnectAttempts {
			return newErrorf(KindConnectError, "giving up after %d reconnect attempts: %w", attempt-1, err)
		}

		c.resetForReconnect()
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.cfg.ReconnectBackoffMax {
			backoff = c.cfg.ReconnectBackoffMax
		}
	}
}

func (c *Client) resetForReconnect() {
	c.registry = entity.NewRegistry()
	c.closeSignal = make(chan struct{})
	c.doneCh = make(chan struct{})
	c.setState(stateIdle)
}

// Close shuts the session down. It is safe to call more than once and
// from any goroutine other than the session's own: it waits for the
// event loop to exit, so a call from within an OnState or OnDisconnect
// callback, which run on that loop, never returns.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.setState(stateClosing)
		close(c.closeSignal)
	})
	c.wg.Wait()
	return nil
}

func (c *Client) finishClose() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.setState(stateClosed)
	c.cfg.OnDisconnect(c.lastErr)
	close(c.doneCh)
}

// DeviceInfo returns the DeviceInfoResponse captured during Connect.
func (c *Client) DeviceInfo() apimsg.DeviceInfoResponse { return c.deviceInfo }

// enqueue hands a unit of work to the session's own goroutine, never
// touching the socket from the calling goroutine directly. It does not
// block: a full queue (the session stalled on something else) or a
// closed session both surface immediately as an error rather than
// blocking the caller indefinitely.
func (c *Client) enqueue(fn func() error) error {
	if c.State() != stateReady {
		return newError(KindClosed, errors.New("session is not ready"))
	}
	select {
	case c.cmdCh <- fn:
		return nil
	default:
		return newError(KindTimeout, errors.New("command queue is full"))
	}
}

func (c *Client) enqueueCommand(msgType uint32, body []byte) error {
	return c.enqueue(func() error { return c.writeFrame(msgType, body) })
}

func (c *Client) resolve(id string) (entity.Descriptor, error) {
	d, err := c.registry.ByID(id)
	if err != nil {
		return entity.Descriptor{}, newError(KindUnknownEntity, err)
	}
	return d, nil
}

// SetSwitch turns a switch entity on or off.
func (c *Client) SetSwitch(id string, on bool) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	return c.enqueueCommand(apimsg.TypeSwitchCommandRequest, apimsg.SwitchCommand{Key: d.Key, State: on}.Encode())
}

// SetLight issues a light command; cmd.Key is overwritten from id.
func (c *Client) SetLight(id string, cmd apimsg.LightCommand) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd.Key = d.Key
	return c.enqueueCommand(apimsg.TypeLightCommandRequest, cmd.Encode())
}

// SetCover issues a cover (position/tilt/stop) command.
func (c *Client) SetCover(id string, cmd apimsg.CoverCommand) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd.Key = d.Key
	return c.enqueueCommand(apimsg.TypeCoverCommandRequest, cmd.Encode())
}

// SetFan issues a fan command.
func (c *Client) SetFan(id string, cmd apimsg.FanCommand) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd.Key = d.Key
	return c.enqueueCommand(apimsg.TypeFanCommandRequest, cmd.Encode())
}

// SetClimate issues a climate command.
func (c *Client) SetClimate(id string, cmd apimsg.ClimateCommand) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd.Key = d.Key
	return c.enqueueCommand(apimsg.TypeClimateCommandRequest, cmd.Encode())
}

// SetNumber sets a number entity's value.
func (c *Client) SetNumber(id string, value float32) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	return c.enqueueCommand(apimsg.TypeNumberCommandRequest, apimsg.NumberCommand{Key: d.Key, State: value}.Encode())
}

// SetSelect sets a select entity's chosen option.
func (c *Client) SetSelect(id string, value string) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	return c.enqueueCommand(apimsg.TypeSelectCommandRequest, apimsg.SelectCommand{Key: d.Key, State: value}.Encode())
}

// SetLock issues a lock command (lock/unlock/open, with an optional code).
func (c *Client) SetLock(id string, cmd apimsg.LockCommand) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd.Key = d.Key
	return c.enqueueCommand(apimsg.TypeLockCommandRequest, cmd.Encode())
}

// PressButton fires a momentary button entity.
func (c *Client) PressButton(id string) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	return c.enqueueCommand(apimsg.TypeButtonCommandRequest, apimsg.ButtonCommand{Key: d.Key}.Encode())
}

// SetMediaPlayer issues a media player command.
func (c *Client) SetMediaPlayer(id string, cmd apimsg.MediaPlayerCommand) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd.Key = d.Key
	return c.enqueueCommand(apimsg.TypeMediaPlayerCommandRequest, cmd.Encode())
}

// SetAlarmControlPanel issues an arm/disarm command.
func (c *Client) SetAlarmControlPanel(id string, cmd apimsg.AlarmControlPanelCommand) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd.Key = d.Key
	return c.enqueueCommand(apimsg.TypeAlarmControlPanelCommandRequest, cmd.Encode())
}

// SetText sets a text entity's value.
func (c *Client) SetText(id string, value string) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	return c.enqueueCommand(apimsg.TypeTextCommandRequest, apimsg.TextCommand{Key: d.Key, State: value}.Encode())
}

// SetDate sets a date entity's value.
func (c *Client) SetDate(id string, year, month, day uint32) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd := apimsg.DateCommand{Key: d.Key, Year: year, Month: month, Day: day}
	return c.enqueueCommand(apimsg.TypeDateCommandRequest, cmd.Encode())
}

// SetTime sets a time entity's value.
func (c *Client) SetTime(id string, hour, minute, second uint32) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd := apimsg.TimeCommand{Key: d.Key, Hour: hour, Minute: minute, Second: second}
	return c.enqueueCommand(apimsg.TypeTimeCommandRequest, cmd.Encode())
}

// SetDateTime sets a datetime entity's value as epoch seconds.
func (c *Client) SetDateTime(id string, epochSeconds uint32) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd := apimsg.DateTimeCommand{Key: d.Key, EpochSeconds: epochSeconds}
	return c.enqueueCommand(apimsg.TypeDateTimeCommandRequest, cmd.Encode())
}

// SetValve issues a valve (position/stop) command.
func (c *Client) SetValve(id string, cmd apimsg.ValveCommand) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd.Key = d.Key
	return c.enqueueCommand(apimsg.TypeValveCommandRequest, cmd.Encode())
}

// ExecuteService invokes a user-defined service entity with args.
func (c *Client) ExecuteService(id string, args []apimsg.ExecuteServiceArg) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	req := apimsg.ExecuteServiceRequest{Key: d.Key, Args: args}
	return c.enqueueCommand(apimsg.TypeExecuteServiceRequest, req.Encode())
}

// SetUpdateCommand issues an update entity command (e.g. install/check).
func (c *Client) SetUpdateCommand(id string, command uint32) error {
	d, err := c.resolve(id)
	if err != nil {
		return err
	}
	cmd := apimsg.UpdateCommand{Key: d.Key, Command: command}
	return c.enqueueCommand(apimsg.TypeUpdateCommandRequest, cmd.Encode())
}
