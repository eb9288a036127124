package detect

import (
	"errors"
	"fmt"
	"math"

	"github.com/phanxgames/riverlight"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrMalformed is returned for bridge messages that are not usable JSON.
var ErrMalformed = errors.New("detect: malformed bridge message")

// Message types exchanged with a pose bridge.
const (
	TypeHello    = "hello"
	TypeEstimate = "estimate"
	TypeHands    = "hands"
)

// Reply is a decoded bridge message.
type Reply struct {
	Type  string
	Seq   uint64
	Frame riverlight.Frame
	Hands []riverlight.Hand
}

// ParseReply decodes a bridge message:
//
//	{"type":"hands","seq":3,"width":640,"height":480,
//	 "hands":[{"score":0.9,"keypoints":[{"x":1,"y":2,"name":"wrist"},...]}]}
//
// Keypoints may also be bare [x, y] pairs. A keypoint whose coordinates are
// not numbers is kept with NaN coordinates so that mapping it fails and the
// poll cycle is skipped.
func ParseReply(data []byte) (Reply, error) {
	if !gjson.ValidBytes(data) {
		return Reply{}, ErrMalformed
	}
	msg := gjson.ParseBytes(data)
	if !msg.IsObject() {
		return Reply{}, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	r := Reply{
		Type: msg.Get("type").String(),
		Seq:  msg.Get("seq").Uint(),
		Frame: riverlight.Frame{
			Width:  msg.Get("width").Float(),
			Height: msg.Get("height").Float(),
			Seq:    msg.Get("seq").Uint(),
		},
	}

	hands := msg.Get("hands")
	if !hands.Exists() {
		return r, nil
	}
	if !hands.IsArray() {
		return Reply{}, fmt.Errorf("%w: hands is not an array", ErrMalformed)
	}
	hands.ForEach(func(_, h gjson.Result) bool {
		hand := riverlight.Hand{Score: h.Get("score").Float()}
		h.Get("keypoints").ForEach(func(_, k gjson.Result) bool {
			hand.Keypoints = append(hand.Keypoints, parseKeypoint(k))
			return true
		})
		r.Hands = append(r.Hands, hand)
		return true
	})
	return r, nil
}

func parseKeypoint(k gjson.Result) riverlight.Keypoint {
	var x, y gjson.Result
	var name string
	if k.IsArray() {
		x, y = k.Get("0"), k.Get("1")
	} else {
		x, y = k.Get("x"), k.Get("y")
		name = k.Get("name").String()
	}
	return riverlight.Keypoint{X: number(x), Y: number(y), Name: name}
}

func number(r gjson.Result) float64 {
	if r.Type != gjson.Number {
		return math.NaN()
	}
	return r.Float()
}

// EncodeRequest builds an estimate request for seq.
func EncodeRequest(seq uint64) ([]byte, error) {
	b, err := sjson.SetBytes(nil, "type", TypeEstimate)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(b, "seq", seq)
}

// EncodeHello builds the greeting a bridge sends after accepting a
// connection.
func EncodeHello(frame riverlight.Frame) ([]byte, error) {
	b, err := sjson.SetBytes(nil, "type", TypeHello)
	if err != nil {
		return nil, err
	}
	if b, err = sjson.SetBytes(b, "width", frame.Width); err != nil {
		return nil, err
	}
	return sjson.SetBytes(b, "height", frame.Height)
}

// EncodeHands builds a hands reply. Keypoints are written as objects; the
// name is omitted when empty.
func EncodeHands(seq uint64, frame riverlight.Frame, hands []riverlight.Hand) ([]byte, error) {
	b, err := sjson.SetBytes(nil, "type", TypeHands)
	if err != nil {
		return nil, err
	}
	fields := []struct {
		path string
		v    any
	}{
		{"seq", seq},
		{"width", frame.Width},
		{"height", frame.Height},
	}
	for _, f := range fields {
		if b, err = sjson.SetBytes(b, f.path, f.v); err != nil {
			return nil, err
		}
	}
	if b, err = sjson.SetRawBytes(b, "hands", []byte("[]")); err != nil {
		return nil, err
	}
	for _, h := range hands {
		hb, err := encodeHand(h)
		if err != nil {
			return nil, err
		}
		if b, err = sjson.SetRawBytes(b, "hands.-1", hb); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func encodeHand(h riverlight.Hand) ([]byte, error) {
	hb, err := sjson.SetBytes(nil, "score", h.Score)
	if err != nil {
		return nil, err
	}
	if hb, err = sjson.SetRawBytes(hb, "keypoints", []byte("[]")); err != nil {
		return nil, err
	}
	for _, k := range h.Keypoints {
		kb, err := sjson.SetBytes(nil, "x", k.X)
		if err != nil {
			return nil, err
		}
		if kb, err = sjson.SetBytes(kb, "y", k.Y); err != nil {
			return nil, err
		}
		if k.Name != "" {
			if kb, err = sjson.SetBytes(kb, "name", k.Name); err != nil {
				return nil, err
			}
		}
		if hb, err = sjson.SetRawBytes(hb, "keypoints.-1", kb); err != nil {
			return nil, err
		}
	}
	return hb, nil
}
