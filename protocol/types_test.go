package protocol

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseUSBID(t *testing.T) {
	tests := []struct {
		in      string
		want    USBID
		wantErr bool
	}{
		{in: "0483:df11", want: STM32BootloaderID},
		{in: " 16C0:27DB ", want: KeyboardID},
		{in: "0483", wantErr: true},
		{in: "zz:df11", wantErr: true},
		{in: "0483:10000", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseUSBID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUSBID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUSBID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUSBIDString(t *testing.T) {
	if got := (USBID{Vendor: 0x483, Product: 0x1}).String(); got != "0483:0001" {
		t.Errorf("String() = %q, want %q", got, "0483:0001")
	}
}

func TestParseUSBIDRoundTrip(t *testing.T) {
	for _, id := range []USBID{STM32BootloaderID, KeyboardID} {
		got, err := ParseUSBID(id.String())
		if err != nil {
			t.Fatalf("ParseUSBID(%q) error = %v", id.String(), err)
		}
		if got != id {
			t.Errorf("ParseUSBID(%q) = %v, want %v", id.String(), got, id)
		}
	}
}

func TestDeviceString(t *testing.T) {
	d := Device{IsBootloader: true, ID: STM32BootloaderID, DevNum: 7, Alt: 0}
	if got, want := d.String(), "devnum=7 0483:df11 alt=0 (DFU)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestUniqueDevices(t *testing.T) {
	in := []Device{
		{DevNum: 7, Alt: 0},
		{DevNum: 4, Alt: 0},
		{DevNum: 7, Alt: 1},
	}
	want := []Device{
		{DevNum: 7, Alt: 0},
		{DevNum: 4, Alt: 0},
	}
	if diff := cmp.Diff(want, UniqueDevices(in)); diff != "" {
		t.Errorf("UniqueDevices() mismatch (-want +got):\n%s", diff)
	}
}

func TestProgressJSON(t *testing.T) {
	tests := []struct {
		p    Progress
		want string
	}{
		{p: Progress{Stage: StageErase, Bytes: 2048, Percent: 5}, want: `{"Erase":2048}`},
		{p: Progress{Stage: StageDownload, Bytes: 28672, Percent: 64}, want: `{"Download":28672}`},
	}

	for _, tt := range tests {
		b, err := json.Marshal(tt.p)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(b) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.p, b, tt.want)
		}
	}
}

func TestListParseErrorMessage(t *testing.T) {
	err := &ListParseError{Field: FieldDevNum, Line: "Found DFU: [0483:df11]"}
	if got, want := err.Error(), `missing devnum=N in "Found DFU: [0483:df11]"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !IsListParseError(err) {
		t.Error("IsListParseError() = false, want true")
	}
}
