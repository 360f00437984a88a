package output

import (
	"bytes"
	"errors"
	"testing"

	"crabe/internal/model"
)

type fakePort struct {
	written bytes.Buffer
	closed  bool
}

func (f *fakePort) Read(p []byte) (int, error)  { return 0, errors.New("not implemented") }
func (f *fakePort) Write(p []byte) (int, error) { return f.written.Write(p) }
func (f *fakePort) Close() error                { f.closed = true; return nil }

func TestRealPipelineStepWritesOneFramePerRobot(t *testing.T) {
	port := &fakePort{}
	p := &RealPipeline{port: port}
	cmds := model.CommandMap{
		0: {ForwardVelocity: 1.0},
		1: {ForwardVelocity: -1.0, Kick: &model.Kick{Kind: model.StraightKick, Power: 4}},
	}
	p.Step(model.Blue, cmds)
	if port.written.Len() == 0 {
		t.Fatalf("expected Step to write serial frames")
	}
}

func TestRealPipelineCloseSweepsEveryRobotAndClosesPort(t *testing.T) {
	port := &fakePort{}
	p := &RealPipeline{port: port}
	p.Close()
	if !port.closed {
		t.Fatalf("expected Close to close the underlying port")
	}
	if port.written.Len() == 0 {
		t.Fatalf("expected Close to write a zero command sweep before closing")
	}
}
