package output

import (
	"net"
	"testing"
	"time"

	"crabe/internal/model"
)

func TestSimulatorPipelineStepEncodesTeamColor(t *testing.T) {
	respAddr, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer respAddr.Close()

	localAddr := respAddr.LocalAddr().(*net.UDPAddr)
	conn, err := net.DialUDP("udp", nil, localAddr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	p := &SimulatorPipeline{conn: conn, lastFB: model.FeedbackMap{}}
	defer p.conn.Close()

	p.Step(model.Yellow, model.CommandMap{0: {ForwardVelocity: 2.0}})

	buf := make([]byte, 4096)
	respAddr.SetReadDeadline(time.Now().Add(time.Second))
	n, _, err := respAddr.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("expected a packet from Step, got error: %v", err)
	}
	if n == 0 {
		t.Fatalf("expected a non-empty grSim packet")
	}
}
