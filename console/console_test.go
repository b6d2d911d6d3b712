package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/lingnan/scene"
)

func TestTextInput(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(" 4 \n:cancel\n"), &out)

	v, ok, err := c.TextInput("列", "输入骑楼的列数")
	if err != nil || !ok || v != "4" {
		t.Fatalf("TextInput = %q, %v, %v", v, ok, err)
	}
	if !strings.Contains(out.String(), "[列] 输入骑楼的列数") {
		t.Fatalf("prompt not printed: %q", out.String())
	}
	if _, ok, err := c.TextInput("层", "输入骑楼的层数"); ok || err != nil {
		t.Fatalf(":cancel should cancel, got ok=%v err=%v", ok, err)
	}
	if _, ok, err := c.TextInput("层", "输入骑楼的层数"); ok || err != nil {
		t.Fatalf("EOF should cancel, got ok=%v err=%v", ok, err)
	}
}

type recorder struct {
	clicks  [][2]float64
	redraw  bool
	answer  string
	clicked chan struct{} // 可选，收到点击时通知
}

func (r *recorder) HandleClick(x, y float64, p scene.Prompter) (bool, error) {
	r.clicks = append(r.clicks, [2]float64{x, y})
	if r.clicked != nil {
		close(r.clicked)
	}
	if !r.redraw {
		return false, nil
	}
	v, ok, err := p.TextInput("列", "输入骑楼的列数")
	if err != nil || !ok {
		return false, err
	}
	r.answer = v
	return true, nil
}

func TestLoopDispatchesClicks(t *testing.T) {
	input := strings.Join([]string{
		"click -500 0",
		"5",
		"",
		"click 1",
		"jump",
		"render",
		"quit",
		"click 0 0",
	}, "\n")
	var out bytes.Buffer
	target := &recorder{redraw: true}
	renders := 0
	loop := &Loop{
		Console: New(strings.NewReader(input), &out),
		Target:  target,
		Render:  func() error { renders++; return nil },
	}
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(target.clicks) != 1 || target.clicks[0] != [2]float64{-500, 0} {
		t.Fatalf("unexpected clicks %v", target.clicks)
	}
	if target.answer != "5" {
		t.Fatalf("prompt should read the next line, got %q", target.answer)
	}
	if renders != 2 {
		t.Fatalf("expected a render after the redraw and one on request, got %d", renders)
	}
	if n := strings.Count(out.String(), "错误: "); n != 2 {
		t.Fatalf("expected two error messages, got %d in %q", n, out.String())
	}
}

func TestLoopStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	target := &recorder{}
	loop := &Loop{Console: New(strings.NewReader("click 0 0\n"), &bytes.Buffer{}), Target: target}
	if err := loop.Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(target.clicks) != 0 {
		t.Fatalf("no events should be handled after cancellation")
	}
}

func TestLoopEndsAtEOF(t *testing.T) {
	target := &recorder{}
	loop := &Loop{Console: New(strings.NewReader("click 1 2"), &bytes.Buffer{}), Target: target}
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(target.clicks) != 1 {
		t.Fatalf("last line without newline should still be handled")
	}
}

func runAsync(ctx context.Context, loop *Loop) <-chan error {
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	return done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatalf("Run still blocked after the context was cancelled")
		return nil
	}
}

func TestLoopCancelWhileWaitingForCommand(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	loop := &Loop{Console: New(pr, io.Discard), Target: &recorder{}}

	done := runAsync(ctx, loop)
	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := waitRun(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoopCancelWhilePrompting(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	target := &recorder{redraw: true, clicked: make(chan struct{})}
	renders := 0
	loop := &Loop{
		Console: New(pr, io.Discard),
		Target:  target,
		Render:  func() error { renders++; return nil },
	}

	done := runAsync(ctx, loop)
	go pw.Write([]byte("click -500 0\n"))
	select {
	case <-target.clicked:
	case <-time.After(time.Second):
		t.Fatalf("click was never dispatched")
	}
	cancel()
	if err := waitRun(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from the prompt, got %v", err)
	}
	if renders != 0 || target.answer != "" {
		t.Fatalf("cancelled prompt must not redraw")
	}
}
