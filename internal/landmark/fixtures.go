package landmark

import "math"

// Relative finger layout of a neutral open hand, wrist last knuckle at the
// bottom of the image. Offsets are from the palm center in normalized image
// units, matching the proportions MediaPipe reports for a hand roughly
// centered in frame.
var neutralOffsets = [NumLandmarks]Point3D{
	Wrist:     {X: 0.00, Y: 0.18, Z: 0.00},
	ThumbCMC:  {X: 0.06, Y: 0.13, Z: 0.01},
	ThumbMCP:  {X: 0.10, Y: 0.08, Z: 0.02},
	ThumbIP:   {X: 0.13, Y: 0.03, Z: 0.02},
	ThumbTip:  {X: 0.15, Y: -0.02, Z: 0.02},
	IndexMCP:  {X: 0.05, Y: 0.02, Z: 0.00},
	IndexPIP:  {X: 0.06, Y: -0.05, Z: -0.01},
	IndexDIP:  {X: 0.06, Y: -0.10, Z: -0.01},
	IndexTip:  {X: 0.06, Y: -0.15, Z: -0.01},
	MiddleMCP: {X: 0.00, Y: 0.00, Z: 0.00},
	MiddlePIP: {X: 0.00, Y: -0.08, Z: -0.01},
	MiddleDIP: {X: 0.00, Y: -0.14, Z: -0.01},
	MiddleTip: {X: 0.00, Y: -0.19, Z: -0.01},
	RingMCP:   {X: -0.05, Y: 0.02, Z: 0.00},
	RingPIP:   {X: -0.06, Y: -0.06, Z: -0.01},
	RingDIP:   {X: -0.07, Y: -0.12, Z: -0.01},
	RingTip:   {X: -0.07, Y: -0.16, Z: -0.01},
	PinkyMCP:  {X: -0.09, Y: 0.02, Z: 0.00},
	PinkyPIP:  {X: -0.11, Y: -0.01, Z: -0.01},
	PinkyDIP:  {X: -0.12, Y: -0.05, Z: -0.01},
	PinkyTip:  {X: -0.13, Y: -0.09, Z: -0.01},
}

// NeutralHand returns a full 21-point frame of an open hand centered at
// (0.5, 0.5). Useful as a baseline fixture in tests.
func NeutralHand(timestamp int64) *Frame {
	return PosedHand(0.5, 0.5, 0, timestamp)
}

// PosedHand returns a 21-point frame of an open hand with its palm center at
// (cx, cy) and the whole hand rotated by theta radians around that center.
// Positive theta rotates counter-clockwise in image coordinates.
func PosedHand(cx, cy, theta float64, timestamp int64) *Frame {
	sin, cos := math.Sin(theta), math.Cos(theta)
	points := make([]Point3D, NumLandmarks)
	for i, off := range neutralOffsets {
		points[i] = Point3D{
			X: cx + off.X*cos - off.Y*sin,
			Y: cy + off.X*sin + off.Y*cos,
			Z: off.Z,
		}
	}
	return &Frame{Points: points, Timestamp: timestamp}
}
