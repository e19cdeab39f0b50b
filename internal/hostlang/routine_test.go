package hostlang

import (
	"errors"
	"testing"
)

func TestRoutineYieldsInOrder(t *testing.T) {
	r := Start(func(yield YieldFunc) error {
		for _, v := range []string{"a", "b", "c"} {
			if err := yield(v); err != nil {
				return err
			}
		}
		return nil
	})

	var got []string
	for {
		v, ok, err := r.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, v.(string))
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("got %v", got)
	}
}

func TestRoutinePropagatesTerminalError(t *testing.T) {
	sentinel := errors.New("boom")
	r := Start(func(yield YieldFunc) error {
		return sentinel
	})
	_, ok, err := r.Next()
	if ok || err != sentinel {
		t.Fatalf("got ok=%v err=%v, want ok=false err=%v", ok, err, sentinel)
	}
}

func TestRoutineThrowInjectsErrorAtYieldPoint(t *testing.T) {
	sentinel := errors.New("injected")
	var caught error
	r := Start(func(yield YieldFunc) error {
		if err := yield("first"); err != nil {
			caught = err
			return err
		}
		return nil
	})

	v, ok, err := r.Next()
	if !ok || err != nil || v != "first" {
		t.Fatalf("got v=%v ok=%v err=%v", v, ok, err)
	}

	_, ok, err = r.Throw(sentinel)
	if ok || err != sentinel {
		t.Fatalf("got ok=%v err=%v, want ok=false err=%v", ok, err, sentinel)
	}
	if caught != sentinel {
		t.Errorf("yield did not observe the thrown error, got %v", caught)
	}
}

func TestRoutineCloseBeforeAnyYield(t *testing.T) {
	started := make(chan struct{})
	r := Start(func(yield YieldFunc) error {
		close(started)
		if err := yield("x"); err != nil {
			return err
		}
		return nil
	})
	<-started
	r.Close()

	v, ok, err := r.Next()
	if v != nil || ok || err != nil {
		t.Errorf("got v=%v ok=%v err=%v, want zero values after Close", v, ok, err)
	}
}

func TestRoutineCloseWhileSuspendedAtYield(t *testing.T) {
	done := make(chan error, 1)
	r := Start(func(yield YieldFunc) error {
		err := yield("first")
		done <- err
		return err
	})

	v, ok, err := r.Next()
	if !ok || err != nil || v != "first" {
		t.Fatalf("got v=%v ok=%v err=%v", v, ok, err)
	}

	r.Close()

	if got := <-done; !Closed(got) {
		t.Errorf("got %v, want the Close sentinel error", got)
	}
}

func TestRoutineCloseIsIdempotentAfterCompletion(t *testing.T) {
	r := Start(func(yield YieldFunc) error { return nil })
	_, ok, err := r.Next()
	if ok || err != nil {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
	r.Close()
}
