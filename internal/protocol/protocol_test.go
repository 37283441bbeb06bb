package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestCommandRoundTrip(t *testing.T) {
	commands := []Command{
		{Code: CodePing},
		{Code: CodeDir, Arg: 4},
		{Code: CodeSetSize, Arg: PackSize(60, 40)},
		{Code: CodeSetTime, Arg: 3600},
		{Code: Code(-7), Arg: -1},
	}

	var buf bytes.Buffer
	for _, c := range commands {
		if err := WriteCommand(&buf, c); err != nil {
			t.Fatalf("WriteCommand(%v) failed: %v", c, err)
		}
	}
	if buf.Len() != len(commands)*CommandSize {
		t.Fatalf("Expected %d bytes, got %d", len(commands)*CommandSize, buf.Len())
	}

	for i, want := range commands {
		got, err := ReadCommand(&buf)
		if err != nil {
			t.Fatalf("ReadCommand #%d failed: %v", i, err)
		}
		if got != want {
			t.Errorf("Command #%d = %+v, expected %+v", i, got, want)
		}
	}

	if _, err := ReadCommand(&buf); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF on empty stream, got %v", err)
	}
}

func TestPackSize(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{10, 10},
		{60, 40},
		{45, 30},
		{65535, 1},
	}

	for _, tc := range tests {
		w, h := UnpackSize(PackSize(tc.w, tc.h))
		if w != tc.w || h != tc.h {
			t.Errorf("UnpackSize(PackSize(%d, %d)) = (%d, %d)", tc.w, tc.h, w, h)
		}
	}

	if got := PackSize(20, 15); got != 20<<16|15 {
		t.Errorf("PackSize(20, 15) = %#x, expected width in upper bits", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := Snapshot{
		Width:    20,
		Height:   15,
		Score:    30,
		Paused:   true,
		GameOver: false,
		FruitX:   3,
		FruitY:   9,
		Mode:     2,
		Elapsed:  12,
		TimeLeft: 48,
		Snake: []Point{
			{X: 10, Y: 7}, {X: 9, Y: 7}, {X: 8, Y: 7}, {X: 8, Y: 8}, {X: 8, Y: 9},
		},
	}

	data := AppendSnapshot(nil, &want)
	if len(data) != ResponseSize+SnapshotSize+len(want.Snake)*PointSize {
		t.Fatalf("Encoded snapshot has %d bytes", len(data))
	}

	resp, err := ReadResponse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if resp.Code != RespSnapshot || resp.Snapshot == nil {
		t.Fatalf("Expected snapshot response, got %+v", resp)
	}

	got := *resp.Snapshot
	if got.Width != want.Width || got.Height != want.Height || got.Score != want.Score ||
		got.Paused != want.Paused || got.GameOver != want.GameOver ||
		got.FruitX != want.FruitX || got.FruitY != want.FruitY || got.Mode != want.Mode ||
		got.Elapsed != want.Elapsed || got.TimeLeft != want.TimeLeft {
		t.Errorf("Header mismatch: got %+v, expected %+v", got, want)
	}
	if len(got.Snake) != len(want.Snake) {
		t.Fatalf("Snake length = %d, expected %d", len(got.Snake), len(want.Snake))
	}
	for i := range want.Snake {
		if got.Snake[i] != want.Snake[i] {
			t.Errorf("Point %d = %v, expected %v", i, got.Snake[i], want.Snake[i])
		}
	}

	// Re-encoding the decoded snapshot yields identical bytes
	if again := AppendSnapshot(nil, &got); !bytes.Equal(again, data) {
		t.Error("Re-encoded snapshot differs from the original bytes")
	}
}

func TestSnapshotStreamsBackToBack(t *testing.T) {
	var buf bytes.Buffer
	first := Snapshot{Width: 10, Height: 10, Snake: []Point{{X: 1, Y: 1}, {X: 0, Y: 1}}}
	buf.Write(AppendSnapshot(nil, &first))
	if err := WriteResponse(&buf, RespPong); err != nil {
		t.Fatalf("WriteResponse failed: %v", err)
	}
	second := Snapshot{Width: 10, Height: 10, TimeLeft: -1, Snake: []Point{{X: 2, Y: 1}}}
	buf.Write(AppendSnapshot(nil, &second))
	if err := WriteResponse(&buf, RespBye); err != nil {
		t.Fatalf("WriteResponse failed: %v", err)
	}

	expected := []RespCode{RespSnapshot, RespPong, RespSnapshot, RespBye}
	for i, code := range expected {
		resp, err := ReadResponse(&buf)
		if err != nil {
			t.Fatalf("ReadResponse #%d failed: %v", i, err)
		}
		if resp.Code != code {
			t.Errorf("Response #%d code = %d, expected %d", i, resp.Code, code)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("Expected stream fully consumed, %d bytes left", buf.Len())
	}
}

func TestReadSnapshotShortRead(t *testing.T) {
	s := Snapshot{Width: 10, Height: 10, Snake: []Point{{X: 1, Y: 1}, {X: 0, Y: 1}}}
	data := AppendSnapshot(nil, &s)

	// Cut in the middle of the last point record
	_, err := ReadResponse(bytes.NewReader(data[:len(data)-2]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadSnapshotRejectsBadLength(t *testing.T) {
	data := AppendSnapshot(nil, &Snapshot{})
	// snake_len is the 8th int32 of the body
	off := ResponseSize + 7*4
	order.PutUint32(data[off:off+4], 0xFFFFFFFF)

	_, err := ReadResponse(bytes.NewReader(data))
	if !errors.Is(err, ErrTooManyPoints) {
		t.Errorf("Expected ErrTooManyPoints, got %v", err)
	}
}

func TestReadResponseUnknownCode(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResponse(&buf, RespCode(42)); err != nil {
		t.Fatalf("WriteResponse failed: %v", err)
	}
	if _, err := ReadResponse(&buf); !errors.Is(err, ErrUnknownResponse) {
		t.Errorf("Expected ErrUnknownResponse, got %v", err)
	}
}

func TestCodeString(t *testing.T) {
	if CodeBackToMenu.String() != "BACK_TO_MENU" {
		t.Errorf("CodeBackToMenu.String() = %q", CodeBackToMenu.String())
	}
	if Code(99).String() != "Code(99)" {
		t.Errorf("Code(99).String() = %q", Code(99).String())
	}
	if !CodeSetTime.IsSetup() || CodeDir.IsSetup() {
		t.Error("IsSetup() misclassifies codes")
	}
}
