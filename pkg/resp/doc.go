// Package resp implements the RESP wire protocol used by respkv.
//
// The package covers the RESP2 types (simple strings, errors, integers,
// bulk strings, arrays) and the RESP3 additions respkv understands
// (null, boolean, double, map, set):
//
//   - frame.go: the closed set of Frame types and their constructors
//   - probe.go: non-consuming length probe over an immutable byte view
//   - decode.go: Decoder that removes exactly one frame from a buffer
//   - encode.go: AppendFrame/Encode/WriteFrame
//
// Decoding is two-phase. Probe walks the buffered bytes and reports how many
// bytes the first frame occupies, or ErrNotComplete if the frame has not fully
// arrived. Only after a successful probe does Decode build the frame and
// advance the buffer, so a caller may retry Decode after every network read
// without ever losing bytes:
//
//	var buf bytes.Buffer
//	for {
//		f, err := resp.Decode(&buf)
//		if errors.Is(err, resp.ErrNotComplete) {
//			// read more into buf and retry
//		}
//		...
//	}
package resp
