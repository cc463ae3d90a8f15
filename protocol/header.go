package protocol

import "fmt"

// ResultCode is the bridge's nine-value result enum, carried in every
// GatewayOperation response header.
type ResultCode uint32

const (
	ResultOK             ResultCode = 0
	ResultBadRequest     ResultCode = 1
	ResultInternalError  ResultCode = 2
	ResultNotReachable   ResultCode = 3
	ResultOtherSession   ResultCode = 4
	ResultNotAllowed     ResultCode = 5
	ResultNoResources    ResultCode = 6
	ResultNotExist       ResultCode = 7
	ResultRMIError       ResultCode = 8
)

func (r ResultCode) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultBadRequest:
		return "BAD_REQUEST"
	case ResultInternalError:
		return "INTERNAL_ERROR"
	case ResultNotReachable:
		return "NOT_REACHABLE"
	case ResultOtherSession:
		return "OTHER_SESSION"
	case ResultNotAllowed:
		return "NOT_ALLOWED"
	case ResultNoResources:
		return "NO_RESOURCES"
	case ResultNotExist:
		return "NOT_EXIST"
	case ResultRMIError:
		return "RMI_ERROR"
	default:
		return fmt.Sprintf("UNKNOWN_RESULT(%d)", uint32(r))
	}
}

// GatewayOperation is the command header that precedes every message body:
// which operation this is (Type), and, on a response, the outcome.
type GatewayOperation struct {
	Type              uint32
	Result            *ResultCode
	ResultDescription *string
	Reference         *uint32
}

// Encode renders the header in the bridge's protobuf wire format.
func (h GatewayOperation) Encode() []byte {
	w := &fieldWriter{}
	w.varintField(1, uint64(h.Type))
	if h.Result != nil {
		w.varintField(2, uint64(*h.Result))
	}
	if h.ResultDescription != nil {
		w.stringField(3, *h.ResultDescription)
	}
	if h.Reference != nil {
		w.varintField(4, uint64(*h.Reference))
	}
	return w.bytes()
}

// DecodeHeader parses a GatewayOperation header from its protobuf bytes.
func DecodeHeader(buf []byte) (GatewayOperation, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return GatewayOperation{}, fmt.Errorf("protocol: decode header: %w", err)
	}
	var h GatewayOperation
	sawType := false
	for _, f := range fields {
		switch f.num {
		case 1:
			h.Type = uint32(f.varint)
			sawType = true
		case 2:
			rc := ResultCode(f.varint)
			h.Result = &rc
		case 3:
			s := string(f.payload)
			h.ResultDescription = &s
		case 4:
			ref := uint32(f.varint)
			h.Reference = &ref
		}
	}
	if !sawType {
		return GatewayOperation{}, fmt.Errorf("protocol: header missing required type field")
	}
	return h, nil
}
