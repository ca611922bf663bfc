package espclient

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/esphome-go/client/internal/apimsg"
	"github.com/esphome-go/client/internal/frame"
	"github.com/esphome-go/client/internal/wire"
)

// fakeDevice plays the server side of the native API over one accepted
// plaintext connection: Hello/Connect/DeviceInfo/ListEntities/Subscribe,
// then the test drives the steady-state phase through expect and send.
type fakeDevice struct {
	t      *testing.T
	reader *frame.PlaintextReader
	writer *frame.PlaintextWriter
}

func startFakeDevice(t *testing.T) (addr string, accepted chan *fakeDevice) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	accepted = make(chan *fakeDevice, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- &fakeDevice{
			t:      t,
			reader: frame.NewPlaintextReader(conn, 0),
			writer: frame.NewPlaintextWriter(conn),
		}
	}()
	return ln.Addr().String(), accepted
}

func (d *fakeDevice) expect(msgType uint32) frame.Frame {
	f, err := d.reader.ReadFrame()
	require.NoError(d.t, err)
	require.Equal(d.t, msgType, f.Type)
	return f
}

func (d *fakeDevice) send(msgType uint32, body []byte) {
	require.NoError(d.t, d.writer.WriteFrame(frame.Frame{Type: msgType, Body: body}))
}

// runConnectSequence drives the device side of Client.connect for a
// plaintext session with one switch entity whose ID is "switch-kitchen_light".
func (d *fakeDevice) runConnectSequence() {
	d.expect(apimsg.TypeHelloRequest)
	resp := apimsg.HelloResponse{APIVersionMajor: 1, APIVersionMinor: 10, ServerInfo: "fake-device", Name: "kitchen"}
	d.send(apimsg.TypeHelloResponse, encodeHelloResponse(resp))

	d.expect(apimsg.TypeConnectRequest)
	d.send(apimsg.TypeConnectResponse, wire.AppendBoolField(nil, 1, false))

	d.expect(apimsg.TypeDeviceInfoRequest)
	info := apimsg.DeviceInfoResponse{Name: "kitchen", Model: "fake-esp32", ESPHomeVersion: "2024.1.0"}
	d.send(apimsg.TypeDeviceInfoResponse, encodeDeviceInfoResponse(info))

	d.expect(apimsg.TypeListEntitiesRequest)
	entityBody := encodeListEntitiesCommon(1, "kitchen_light", "switch-kitchen_light")
	d.send(apimsg.TypeListEntitiesSwitchResponse, entityBody)
	d.send(apimsg.TypeListEntitiesDoneResponse, nil)

	d.expect(apimsg.TypeSubscribeStatesRequest)
}

func encodeHelloResponse(r apimsg.HelloResponse) []byte {
	out := wire.AppendUint32Field(nil, 1, r.APIVersionMajor)
	out = wire.AppendUint32Field(out, 2, r.APIVersionMinor)
	out = wire.AppendStringField(out, 3, r.ServerInfo)
	return wire.AppendStringField(out, 4, r.Name)
}

func encodeDeviceInfoResponse(r apimsg.DeviceInfoResponse) []byte {
	out := wire.AppendStringField(nil, 2, r.Name)
	out = wire.AppendStringField(out, 4, r.ESPHomeVersion)
	return wire.AppendStringField(out, 6, r.Model)
}

func encodeListEntitiesCommon(key uint32, objectID, uniqueID string) []byte {
	out := wire.AppendStringField(nil, 1, objectID)
	out = wire.AppendUint32Field(out, 2, key)
	out = wire.AppendStringField(out, 3, objectID)
	return wire.AppendStringField(out, 4, uniqueID)
}

func encodeSwitchState(key uint32, on bool) []byte {
	out := wire.AppendUint32Field(nil, 1, key)
	return wire.AppendBoolField(out, 2, on)
}

func TestConnectReachesReadyAndDiscoversEntities(t *testing.T) {
	addr, accepted := startFakeDevice(t)
	host, port := splitHostPort(t, addr)

	client, err := New(Config{Address: host, Port: port})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		d := <-accepted
		d.runConnectSequence()
		done <- nil
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	require.NoError(t, <-done)
	require.Equal(t, stateReady, client.State())

	entities := client.Registry().All()
	require.Len(t, entities, 1)
	require.Equal(t, "switch-kitchen_light", entities[0].ID())
	require.True(t, client.Registry().Sealed())
}

func TestStateEventDeliveredToOnState(t *testing.T) {
	addr, accepted := startFakeDevice(t)
	host, port := splitHostPort(t, addr)

	events := make(chan Event, 4)
	client, err := New(Config{
		Address: host,
		Port:    port,
		OnState: func(ev Event) { events <- ev },
	})
	require.NoError(t, err)

	deviceReady := make(chan *fakeDevice, 1)
	go func() {
		d := <-accepted
		d.runConnectSequence()
		deviceReady <- d
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	d := <-deviceReady
	d.send(apimsg.TypeSwitchStateResponse, encodeSwitchState(1, true))

	select {
	case ev := <-events:
		require.Equal(t, "switch-kitchen_light", ev.Descriptor.ID())
		state, ok := ev.State.(apimsg.SwitchState)
		require.True(t, ok)
		require.True(t, state.State)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state event")
	}
}

func TestSetSwitchSendsCommand(t *testing.T) {
	addr, accepted := startFakeDevice(t)
	host, port := splitHostPort(t, addr)

	client, err := New(Config{Address: host, Port: port})
	require.NoError(t, err)

	deviceReady := make(chan *fakeDevice, 1)
	go func() {
		d := <-accepted
		d.runConnectSequence()
		deviceReady <- d
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	d := <-deviceReady
	require.NoError(t, client.SetSwitch("switch-kitchen_light", true))

	f := d.expect(apimsg.TypeSwitchCommandRequest)
	var key uint32
	var on bool
	err = wire.Decode(f.Body, func(fld wire.Field) error {
		switch fld.Num {
		case 1:
			key = uint32(fld.U64)
		case 2:
			on = fld.U64 != 0
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, uint32(1), key)
	require.True(t, on)
}

func TestSetSwitchOnUnknownEntityFails(t *testing.T) {
	addr, accepted := startFakeDevice(t)
	host, port := splitHostPort(t, addr)

	client, err := New(Config{Address: host, Port: port})
	require.NoError(t, err)

	go func() {
		d := <-accepted
		d.runConnectSequence()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	err = client.SetSwitch("switch-does_not_exist", true)
	require.Error(t, err)
	require.Equal(t, KindUnknownEntity, KindOf(err))
}

func splitHostPort(t *testing.T, addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}
