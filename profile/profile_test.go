package profile

import "testing"

func TestMake(t *testing.T) {
	p := Make(WithMode("cpu"), WithPath("/tmp/c420"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/c420", Quiet: true}
	if p != want {
		t.Errorf("Make() = %+v, want %+v", p, want)
	}

	if got := p.Wrap(WithMode("")); got.Mode != "" || got.Path != want.Path {
		t.Errorf("Wrap() = %+v", got)
	}
}

func TestProfiler_StartWithoutMode(t *testing.T) {
	stop := Make(WithPath(t.TempDir())).Start()
	if _, ok := stop.(ignore); !ok {
		t.Errorf("Start() without mode = %T, want no-op", stop)
	}

	stop.Stop()
}

func TestProfiler_StartUnknownMode(t *testing.T) {
	stop := Make(WithMode("bogus"), WithPath(t.TempDir())).Start()
	if _, ok := stop.(ignore); !ok {
		t.Errorf("Start() with unknown mode = %T, want no-op", stop)
	}

	stop.Stop()
}
