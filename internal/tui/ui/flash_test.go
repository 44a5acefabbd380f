package ui

import (
	"errors"
	"testing"
)

func TestFlashLevels(t *testing.T) {
	f := NewFlashModel()

	f.Info("saved")
	if m := f.GetMessage(); m == nil || m.Level != FlashInfo || m.Text != "saved" {
		t.Fatalf("after Info: %+v", m)
	}
	f.Warn("careful")
	if m := f.GetMessage(); m.Level != FlashWarn {
		t.Errorf("level = %v, want warn", m.Level)
	}
	f.Err(errors.New("boom"))
	if m := f.GetMessage(); m.Level != FlashErr || m.Text != "boom" {
		t.Errorf("after Err: %+v", m)
	}
}

func TestFlashErrNilIgnored(t *testing.T) {
	f := NewFlashModel()
	f.Infof("%d chats", 3)
	f.Err(nil)
	if m := f.GetMessage(); m == nil || m.Text != "3 chats" {
		t.Errorf("nil Err replaced message: %+v", m)
	}
}

func TestFlashClear(t *testing.T) {
	f := NewFlashModel()
	f.Info("x")
	f.Clear()
	if m := f.GetMessage(); m != nil {
		t.Errorf("GetMessage() after Clear = %+v", m)
	}
}

func TestFlashWatch(t *testing.T) {
	f := NewFlashModel()
	f.Warn("w")
	select {
	case m := <-f.Watch():
		if m.Text != "w" {
			t.Errorf("watched %q", m.Text)
		}
	default:
		t.Fatal("no message on watch channel")
	}
}
