package katagami

import "github.com/chrono-meter/katagami/internal/hostlang"

// Stream is the lazy-rendering handle a Render* call returns when
// Flags includes ReturnsIter: fragments are produced one at a time as
// Next is called, rather than joined
// eagerly, so a caller can start writing output — or abandon the
// render — before the whole template has executed.
type Stream struct {
	routine     *hostlang.Routine
	script      *GeneratedScript
	wantAsBytes bool
}

func newStream(routine *hostlang.Routine, script *GeneratedScript, flags Flags) *Stream {
	return &Stream{routine: routine, script: script, wantAsBytes: flags&ReturnsBytes != 0}
}

// Next returns the stream's next fragment. ok is false once the
// template has finished rendering (err is nil in that case, matching
// Go's range-over-func / bufio.Scanner-style "done" signal rather than
// io.EOF).
func (s *Stream) Next() (fragment any, ok bool, err error) {
	v, ok, err := s.routine.Next()
	if err != nil {
		return nil, false, s.wrapError(err)
	}
	if !ok {
		return nil, false, nil
	}
	str := v.(string)
	if !s.wantAsBytes {
		return str, true, nil
	}
	b, encErr := EncodeString(str, s.script.Encoding)
	if encErr != nil {
		s.routine.Close()
		pos, _ := s.script.PositionFor(0)
		return nil, false, newRuntimeError(s.script.Name, pos, encErr)
	}
	return b, true, nil
}

// Close abandons the stream before it has finished, releasing the
// goroutine backing its routine.
func (s *Stream) Close() { s.routine.Close() }

func (s *Stream) wrapError(err error) error {
	if tm, ok := err.(*TypeMismatchError); ok {
		tm.Pos, _ = s.script.PositionFor(tm.hostLine)
		return tm
	}
	line := 0
	if pe, ok := err.(*hostlang.PosError); ok {
		line = pe.Line
		err = pe.Err
	}
	pos, _ := s.script.PositionFor(line)
	return newRuntimeError(s.script.Name, pos, err)
}
