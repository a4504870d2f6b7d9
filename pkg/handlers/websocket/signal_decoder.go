package websocket

import (
	"errors"
	"fmt"

	"github.com/NeuralTrust/ExamWatch/pkg/app/proctor"
	"github.com/mitchellh/mapstructure"
	"github.com/valyala/fastjson"
)

var ErrUnknownSignal = errors.New("unknown signal type")

// SignalDecoder turns shim frames into signals. Frames are sniffed for
// their type before the full decode so unknown frames are dropped cheaply.
// A decoder is not safe for concurrent use.
type SignalDecoder struct {
	parser fastjson.Parser
}

func NewSignalDecoder() *SignalDecoder {
	return &SignalDecoder{}
}

func (d *SignalDecoder) Decode(frame []byte) (proctor.Signal, error) {
	v, err := d.parser.ParseBytes(frame)
	if err != nil {
		return proctor.Signal{}, fmt.Errorf("invalid frame: %w", err)
	}
	typ := proctor.SignalType(v.GetStringBytes("type"))
	if !typ.Valid() {
		return proctor.Signal{}, fmt.Errorf("%w: %q", ErrUnknownSignal, typ)
	}

	var sig proctor.Signal
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &sig,
	})
	if err != nil {
		return proctor.Signal{}, err
	}
	if err := decoder.Decode(toInterface(v)); err != nil {
		return proctor.Signal{}, fmt.Errorf("invalid %s signal: %w", typ, err)
	}
	return sig, nil
}

func toInterface(v *fastjson.Value) interface{} {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		out := make(map[string]interface{}, o.Len())
		o.Visit(func(key []byte, val *fastjson.Value) {
			out[string(key)] = toInterface(val)
		})
		return out
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			out = append(out, toInterface(item))
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
