package msdp_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net/netip"
	"testing"

	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// -------------------------------------------------------------------------
// TestMarshalUnmarshalSARoundTrip — SA codec round-trip verification
// -------------------------------------------------------------------------

func TestMarshalUnmarshalSARoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  msdp.SAMessage
	}{
		{
			name: "single entry",
			msg: msdp.SAMessage{
				RP: netip.MustParseAddr("10.0.0.1"),
				Entries: []msdp.SAEntry{
					{
						Group:  netip.MustParseAddr("232.1.1.1"),
						Source: netip.MustParseAddr("192.0.2.10"),
					},
				},
			},
		},
		{
			name: "multiple entries same rp",
			msg: msdp.SAMessage{
				RP: netip.MustParseAddr("10.255.255.254"),
				Entries: []msdp.SAEntry{
					{
						Group:  netip.MustParseAddr("239.1.2.3"),
						Source: netip.MustParseAddr("192.0.2.1"),
					},
					{
						Group:  netip.MustParseAddr("239.1.2.4"),
						Source: netip.MustParseAddr("192.0.2.2"),
					},
					{
						Group:  netip.MustParseAddr("224.0.1.40"),
						Source: netip.MustParseAddr("198.51.100.7"),
					},
				},
			},
		},
		{
			name: "largest message that fits",
			msg: msdp.SAMessage{
				RP:      netip.MustParseAddr("172.16.0.1"),
				Entries: makeEntries(msdp.MaxSAEntries),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := make([]byte, msdp.MaxTLVSize)

			n, err := msdp.MarshalSA(&tt.msg, buf)
			if err != nil {
				t.Fatalf("MarshalSA: %v", err)
			}

			// Wire length is 8 fixed bytes (header + count + RP) plus 12
			// per entry.
			wantLen := 8 + 12*len(tt.msg.Entries)
			if n != wantLen {
				t.Errorf("MarshalSA length: got %d, want %d", n, wantLen)
			}

			// Frame the marshalled bytes back through ReadTLV.
			readBuf := make([]byte, msdp.MaxTLVSize)
			msgType, value, err := msdp.ReadTLV(bytes.NewReader(buf[:n]), readBuf)
			if err != nil {
				t.Fatalf("ReadTLV: %v", err)
			}
			if msgType != msdp.MsgTypeSourceActive {
				t.Fatalf("ReadTLV type: got %s, want %s", msgType, msdp.MsgTypeSourceActive)
			}

			var got msdp.SAMessage
			if err := msdp.UnmarshalSA(value, &got); err != nil {
				t.Fatalf("UnmarshalSA: %v", err)
			}

			if got.RP != tt.msg.RP {
				t.Errorf("RP: got %s, want %s", got.RP, tt.msg.RP)
			}
			if len(got.Entries) != len(tt.msg.Entries) {
				t.Fatalf("Entries: got %d, want %d", len(got.Entries), len(tt.msg.Entries))
			}
			for i, e := range got.Entries {
				if e.Group != tt.msg.Entries[i].Group {
					t.Errorf("Entries[%d].Group: got %s, want %s", i, e.Group, tt.msg.Entries[i].Group)
				}
				if e.Source != tt.msg.Entries[i].Source {
					t.Errorf("Entries[%d].Source: got %s, want %s", i, e.Source, tt.msg.Entries[i].Source)
				}
			}
		})
	}
}

// makeEntries builds n distinct (S,G) entries.
func makeEntries(n int) []msdp.SAEntry {
	entries := make([]msdp.SAEntry, n)
	for i := range n {
		entries[i] = msdp.SAEntry{
			Group:  netip.AddrFrom4([4]byte{232, byte(i >> 16), byte(i >> 8), byte(i)}),
			Source: netip.AddrFrom4([4]byte{10, byte(i >> 16), byte(i >> 8), byte(i)}),
		}
	}
	return entries
}

// -------------------------------------------------------------------------
// TestMarshalSAErrors — marshal-side validation
// -------------------------------------------------------------------------

func TestMarshalSAErrors(t *testing.T) {
	t.Parallel()

	rp := netip.MustParseAddr("10.0.0.1")
	oneEntry := []msdp.SAEntry{
		{Group: netip.MustParseAddr("232.1.1.1"), Source: netip.MustParseAddr("192.0.2.1")},
	}

	tests := []struct {
		name    string
		msg     msdp.SAMessage
		bufSize int
		wantErr error
	}{
		{
			name:    "zero entries",
			msg:     msdp.SAMessage{RP: rp},
			bufSize: msdp.MaxTLVSize,
			wantErr: msdp.ErrZeroEntryCount,
		},
		{
			name: "too many entries",
			msg: msdp.SAMessage{
				RP:      rp,
				Entries: makeEntries(msdp.MaxSAEntries + 1),
			},
			bufSize: msdp.MaxTLVSize,
			wantErr: msdp.ErrTooManyEntries,
		},
		{
			name:    "buffer too small",
			msg:     msdp.SAMessage{RP: rp, Entries: oneEntry},
			bufSize: 10,
			wantErr: msdp.ErrBufTooSmall,
		},
		{
			name: "ipv6 rp",
			msg: msdp.SAMessage{
				RP:      netip.MustParseAddr("2001:db8::1"),
				Entries: oneEntry,
			},
			bufSize: msdp.MaxTLVSize,
			wantErr: msdp.ErrNotIPv4,
		},
		{
			name: "ipv6 source",
			msg: msdp.SAMessage{
				RP: rp,
				Entries: []msdp.SAEntry{
					{
						Group:  netip.MustParseAddr("232.1.1.1"),
						Source: netip.MustParseAddr("2001:db8::2"),
					},
				},
			},
			bufSize: msdp.MaxTLVSize,
			wantErr: msdp.ErrNotIPv4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := make([]byte, tt.bufSize)
			_, err := msdp.MarshalSA(&tt.msg, buf)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("MarshalSA: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// -------------------------------------------------------------------------
// TestUnmarshalSAValidation — RFC 3618 Section 12.2 value validation
// -------------------------------------------------------------------------

func TestUnmarshalSAValidation(t *testing.T) {
	t.Parallel()

	// buildValue assembles a value with the given entry count field and
	// number of actual entry blocks.
	buildValue := func(countField byte, entries int, sprefixLen byte) []byte {
		v := make([]byte, 5+12*entries)
		v[0] = countField
		copy(v[1:5], []byte{10, 0, 0, 1})
		for i := range entries {
			off := 5 + 12*i
			// Reserved(3) left zero.
			v[off+3] = sprefixLen
			copy(v[off+4:off+8], []byte{232, 1, 1, byte(i + 1)})
			copy(v[off+8:off+12], []byte{192, 0, 2, byte(i + 1)})
		}
		return v
	}

	tests := []struct {
		name    string
		value   []byte
		wantErr error
	}{
		{
			name:    "valid single entry",
			value:   buildValue(1, 1, 32),
			wantErr: nil,
		},
		{
			name:    "valid two entries",
			value:   buildValue(2, 2, 32),
			wantErr: nil,
		},
		{
			name:    "zero entry count",
			value:   buildValue(0, 0, 32),
			wantErr: msdp.ErrZeroEntryCount,
		},
		{
			name:    "truncated value",
			value:   buildValue(1, 1, 32)[:10],
			wantErr: msdp.ErrInvalidLength,
		},
		{
			name:    "count exceeds entries present",
			value:   buildValue(3, 2, 32),
			wantErr: msdp.ErrInvalidLength,
		},
		{
			// Encapsulated data after the entry list is not supported;
			// the value must be exactly header + count*entry bytes.
			name:    "trailing encapsulated data",
			value:   append(buildValue(1, 1, 32), 0x45, 0x00, 0x00, 0x1C),
			wantErr: msdp.ErrInvalidLength,
		},
		{
			name:    "wrong sprefix len",
			value:   buildValue(1, 1, 24),
			wantErr: msdp.ErrInvalidPrefixLen,
		},
		{
			name:    "empty value",
			value:   nil,
			wantErr: msdp.ErrInvalidLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var msg msdp.SAMessage
			err := msdp.UnmarshalSA(tt.value, &msg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("UnmarshalSA: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// -------------------------------------------------------------------------
// TestReadTLVFraming — TLV header parsing and length bounds
// -------------------------------------------------------------------------

func TestReadTLVFraming(t *testing.T) {
	t.Parallel()

	// frame builds raw TLV bytes with an arbitrary header.
	frame := func(msgType byte, length uint16, value []byte) []byte {
		b := make([]byte, 3+len(value))
		b[0] = msgType
		binary.BigEndian.PutUint16(b[1:3], length)
		copy(b[3:], value)
		return b
	}

	tests := []struct {
		name     string
		input    []byte
		wantType msdp.MsgType
		wantLen  int
		wantErr  error
	}{
		{
			name:     "keepalive",
			input:    frame(4, 3, nil),
			wantType: msdp.MsgTypeKeepalive,
			wantLen:  0,
		},
		{
			name:     "sa with value",
			input:    frame(1, 3+20, make([]byte, 20)),
			wantType: msdp.MsgTypeSourceActive,
			wantLen:  20,
		},
		{
			// Types the engine ignores still frame correctly; the
			// decision to skip them happens above ReadTLV.
			name:     "sa request",
			input:    frame(2, 3+8, make([]byte, 8)),
			wantType: msdp.MsgTypeSARequest,
			wantLen:  8,
		},
		{
			name:    "length below header size",
			input:   frame(4, 2, nil),
			wantErr: msdp.ErrTLVTooShort,
		},
		{
			name:    "length zero",
			input:   frame(1, 0, nil),
			wantErr: msdp.ErrTLVTooShort,
		},
		{
			name:    "length above max tlv size",
			input:   frame(1, msdp.MaxTLVSize+1, nil),
			wantErr: msdp.ErrTLVTooLong,
		},
		{
			name:    "clean eof on empty stream",
			input:   nil,
			wantErr: io.EOF,
		},
		{
			name:    "truncated header",
			input:   []byte{1, 0},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "truncated value",
			input:   frame(1, 3+20, make([]byte, 10)),
			wantErr: io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := make([]byte, msdp.MaxTLVSize)
			msgType, value, err := msdp.ReadTLV(bytes.NewReader(tt.input), buf)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadTLV: got %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ReadTLV: %v", err)
			}
			if msgType != tt.wantType {
				t.Errorf("type: got %s, want %s", msgType, tt.wantType)
			}
			if len(value) != tt.wantLen {
				t.Errorf("value length: got %d, want %d", len(value), tt.wantLen)
			}
		})
	}
}

// -------------------------------------------------------------------------
// TestReadTLVSequence — multiple TLVs on one stream
// -------------------------------------------------------------------------

func TestReadTLVSequence(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer

	kaBuf := make([]byte, msdp.MaxTLVSize)
	n, err := msdp.MarshalKeepalive(kaBuf)
	if err != nil {
		t.Fatalf("MarshalKeepalive: %v", err)
	}
	stream.Write(kaBuf[:n])

	sa := msdp.SAMessage{
		RP: netip.MustParseAddr("10.0.0.1"),
		Entries: []msdp.SAEntry{
			{Group: netip.MustParseAddr("232.1.1.1"), Source: netip.MustParseAddr("192.0.2.1")},
		},
	}
	saBuf := make([]byte, msdp.MaxTLVSize)
	n, err = msdp.MarshalSA(&sa, saBuf)
	if err != nil {
		t.Fatalf("MarshalSA: %v", err)
	}
	stream.Write(saBuf[:n])
	stream.Write(kaBuf[:msdp.KeepaliveLength])

	wantTypes := []msdp.MsgType{
		msdp.MsgTypeKeepalive,
		msdp.MsgTypeSourceActive,
		msdp.MsgTypeKeepalive,
	}

	readBuf := make([]byte, msdp.MaxTLVSize)
	for i, want := range wantTypes {
		msgType, _, err := msdp.ReadTLV(&stream, readBuf)
		if err != nil {
			t.Fatalf("ReadTLV #%d: %v", i, err)
		}
		if msgType != want {
			t.Errorf("ReadTLV #%d type: got %s, want %s", i, msgType, want)
		}
	}

	if _, _, err := msdp.ReadTLV(&stream, readBuf); !errors.Is(err, io.EOF) {
		t.Errorf("ReadTLV at end of stream: got %v, want io.EOF", err)
	}
}

// -------------------------------------------------------------------------
// TestValidateTLV — per-type structural checks
// -------------------------------------------------------------------------

func TestValidateTLV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msgType msdp.MsgType
		value   []byte
		wantErr error
	}{
		{
			name:    "keepalive empty value",
			msgType: msdp.MsgTypeKeepalive,
			value:   nil,
		},
		{
			name:    "keepalive with payload",
			msgType: msdp.MsgTypeKeepalive,
			value:   []byte{0xFF},
			wantErr: msdp.ErrInvalidLength,
		},
		{
			name:    "source active",
			msgType: msdp.MsgTypeSourceActive,
			value:   make([]byte, 20),
		},
		{
			name:    "sa request",
			msgType: msdp.MsgTypeSARequest,
			value:   make([]byte, 8),
		},
		{
			name:    "sa response",
			msgType: msdp.MsgTypeSAResponse,
			value:   make([]byte, 20),
		},
		{
			name:    "unknown type",
			msgType: msdp.MsgType(99),
			value:   nil,
			wantErr: msdp.ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := msdp.ValidateTLV(tt.msgType, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTLV: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// -------------------------------------------------------------------------
// TestMsgTypeString — enum label sanity
// -------------------------------------------------------------------------

func TestMsgTypeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msgType msdp.MsgType
		want    string
	}{
		{msdp.MsgTypeSourceActive, "Source-Active"},
		{msdp.MsgTypeSARequest, "SA-Request"},
		{msdp.MsgTypeSAResponse, "SA-Response"},
		{msdp.MsgTypeKeepalive, "KeepAlive"},
		{msdp.MsgType(200), "Unknown(200)"},
	}

	for _, tt := range tests {
		if got := tt.msgType.String(); got != tt.want {
			t.Errorf("MsgType(%d).String(): got %q, want %q", uint8(tt.msgType), got, tt.want)
		}
	}
}
