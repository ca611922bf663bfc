package apimsg

import "github.com/esphome-go/client/internal/wire"

// HelloRequest is the first message the client sends after connecting.
type HelloRequest struct {
	ClientInfo   string
	APIVersionMajor uint32
	APIVersionMinor uint32
}

func (m HelloRequest) Encode() []byte {
	var out []byte
	out = wire.AppendStringField(out, 1, m.ClientInfo)
	out = wire.AppendUint32Field(out, 2, m.APIVersionMajor)
	out = wire.AppendUint32Field(out, 3, m.APIVersionMinor)
	return out
}

// HelloResponse is the device's reply, carrying its supported API
// version. A major version mismatch is an UnsupportedApiVersion error.
type HelloResponse struct {
	APIVersionMajor uint32
	APIVersionMinor uint32
	ServerInfo      string
	Name            string
}

func DecodeHelloResponse(body []byte) (HelloResponse, error) {
	var m HelloResponse
	err := wire.Decode(body, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.APIVersionMajor = uint32(f.U64)
		case 2:
			m.APIVersionMinor = uint32(f.U64)
		case 3:
			m.ServerInfo = string(f.Buf)
		case 4:
			m.Name = string(f.Buf)
		}
		return nil
	})
	return m, err
}

// ConnectRequest carries the plaintext legacy password, unused by PSK
// encrypted connections but still part of the handshake-complete step.
type ConnectRequest struct {
	Password string
}

func (m ConnectRequest) Encode() []byte {
	return wire.AppendStringField(nil, 1, m.Password)
}

// ConnectResponse reports whether the password (if any) was accepted.
type ConnectResponse struct {
	InvalidPassword bool
}

func DecodeConnectResponse(body []byte) (ConnectResponse, error) {
	var m ConnectResponse
	err := wire.Decode(body, func(f wire.Field) error {
		if f.Num == 1 {
			m.InvalidPassword = f.U64 != 0
		}
		return nil
	})
	return m, err
}

type DisconnectRequest struct{}

func (DisconnectRequest) Encode() []byte { return nil }

type DisconnectResponse struct{}

func DecodeDisconnectResponse([]byte) (DisconnectResponse, error) { return DisconnectResponse{}, nil }

type PingRequest struct{}

func (PingRequest) Encode() []byte { return nil }

type PingResponse struct{}

func DecodePingResponse([]byte) (PingResponse, error) { return PingResponse{}, nil }

type GetTimeRequest struct{}

func (GetTimeRequest) Encode() []byte { return nil }

// GetTimeResponse carries the device's requested epoch-seconds time, used
// by devices with no RTC that ask the client for wall-clock time.
type GetTimeResponse struct {
	EpochSeconds uint32
}

func DecodeGetTimeResponse(body []byte) (GetTimeResponse, error) {
	var m GetTimeResponse
	err := wire.Decode(body, func(f wire.Field) error {
		if f.Num == 1 {
			m.EpochSeconds = uint32(f.U64)
		}
		return nil
	})
	return m, err
}

func EncodeGetTimeResponse(m GetTimeResponse) []byte {
	return wire.AppendUint32Field(nil, 1, m.EpochSeconds)
}

type DeviceInfoRequest struct{}

func (DeviceInfoRequest) Encode() []byte { return nil }

// DeviceInfoResponse is the device's static identity, returned once in
// response to a DeviceInfoRequest sent right after Connect succeeds.
type DeviceInfoResponse struct {
	UsesPassword     bool
	Name             string
	MacAddress       string
	ESPHomeVersion   string
	CompilationTime  string
	Model            string
	HasDeepSleep     bool
	ProjectName      string
	ProjectVersion   string
	WebserverPort    uint32
	Manufacturer     string
	FriendlyName     string
	Bluetooth        bool
	SuggestedArea    string
}

func DecodeDeviceInfoResponse(body []byte) (DeviceInfoResponse, error) {
	var m DeviceInfoResponse
	err := wire.Decode(body, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.UsesPassword = f.U64 != 0
		case 2:
			m.Name = string(f.Buf)
		case 3:
			m.MacAddress = string(f.Buf)
		case 4:
			m.ESPHomeVersion = string(f.Buf)
		case 5:
			m.CompilationTime = string(f.Buf)
		case 6:
			m.Model = string(f.Buf)
		case 7:
			m.HasDeepSleep = f.U64 != 0
		case 8:
			m.ProjectName = string(f.Buf)
		case 9:
			m.ProjectVersion = string(f.Buf)
		case 10:
			m.WebserverPort = uint32(f.U64)
		case 12:
			m.Manufacturer = string(f.Buf)
		case 13:
			m.FriendlyName = string(f.Buf)
		case 15:
			m.Bluetooth = f.U64 != 0
		case 16:
			m.SuggestedArea = string(f.Buf)
		}
		return nil
	})
	return m, err
}

type SubscribeStatesRequest struct{}

func (SubscribeStatesRequest) Encode() []byte { return nil }

type ListEntitiesRequest struct{}

func (ListEntitiesRequest) Encode() []byte { return nil }

type ListEntitiesDoneResponse struct{}

func DecodeListEntitiesDoneResponse([]byte) (ListEntitiesDoneResponse, error) {
	return ListEntitiesDoneResponse{}, nil
}
