// Package msdp implements the core MSDP protocol (RFC 3618).
//
// This includes the peering state machine (Section 11), per-peer session
// management, the TLV codec (Section 12), the Source-Active cache, and the
// propagation engine with peer-RPF forwarding (Section 10).
package msdp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"sync"
)

// -------------------------------------------------------------------------
// Protocol Constants — RFC 3618 Section 12
// -------------------------------------------------------------------------

// Port is the well-known MSDP TCP port (RFC 3618 Section 11: "Peers listen
// on port 639").
const Port = 639

// TLVHeaderSize is the fixed TLV header size in bytes: Type (1 octet) +
// Length (2 octets). The Length field covers the header itself
// (RFC 3618 Section 12.1).
const TLVHeaderSize = 3

// MaxTLVSize is the maximum MSDP TLV size in bytes
// (RFC 3618 Section 12.1: "The maximum TLV length is 9192").
const MaxTLVSize = 9192

// KeepaliveLength is the wire Length of a KeepAlive TLV: header only, no
// value part (RFC 3618 Section 12.2).
const KeepaliveLength = 3

// saHeaderSize is the fixed part of a Source-Active TLV: TLV header (3) +
// Entry Count (1) + RP Address (4) = 8 bytes (RFC 3618 Section 12.2).
const saHeaderSize = 8

// saEntrySize is the per-(S,G) entry size in a Source-Active TLV:
// Reserved (3) + Sprefix Len (1) + Group Address (4) + Source Address (4)
// = 12 bytes (RFC 3618 Section 12.2).
const saEntrySize = 12

// saPrefixLen is the only Sprefix Len value this implementation originates
// or accepts. MSDP advertises host routes for sources
// (RFC 3618 Section 12.2: "The route prefix length ... is currently set
// to 32").
const saPrefixLen = 32

// MaxSAEntries is the largest entry count that fits a single Source-Active
// TLV within MaxTLVSize: (9192 - 8) / 12 = 765 entries.
const MaxSAEntries = (MaxTLVSize - saHeaderSize) / saEntrySize

// unknownFmt is the format string for unrecognized enum values with
// numeric code.
const unknownFmt = "Unknown(%d)"

// -------------------------------------------------------------------------
// TLV Types — RFC 3618 Section 12.2
// -------------------------------------------------------------------------

// MsgType identifies an MSDP TLV type (RFC 3618 Section 12.2).
type MsgType uint8

const (
	// MsgTypeSourceActive is the IPv4 Source-Active TLV
	// (RFC 3618 Section 12.2: type 1).
	MsgTypeSourceActive MsgType = 1

	// MsgTypeSARequest is the IPv4 SA-Request TLV
	// (RFC 3618 Section 12.2: type 2). Recognized but not originated;
	// SA-Request/SA-Response are deprecated in deployed implementations.
	MsgTypeSARequest MsgType = 2

	// MsgTypeSAResponse is the IPv4 SA-Response TLV
	// (RFC 3618 Section 12.2: type 3). Recognized but not originated.
	MsgTypeSAResponse MsgType = 3

	// MsgTypeKeepalive is the KeepAlive TLV (RFC 3618 Section 12.2: type 4).
	// Sent when no other TLV has been sent within the keepalive interval.
	MsgTypeKeepalive MsgType = 4
)

// String returns the human-readable name of the TLV type.
func (t MsgType) String() string {
	switch t {
	case MsgTypeSourceActive:
		return "Source-Active"
	case MsgTypeSARequest:
		return "SA-Request"
	case MsgTypeSAResponse:
		return "SA-Response"
	case MsgTypeKeepalive:
		return "KeepAlive"
	default:
		return fmt.Sprintf(unknownFmt, uint8(t))
	}
}

// -------------------------------------------------------------------------
// Source-Active TLV — RFC 3618 Section 12.2
// -------------------------------------------------------------------------

// SAEntry is a single (Source, Group) pair carried in a Source-Active TLV.
// Both addresses are IPv4; MSDP is an IPv4-only protocol.
type SAEntry struct {
	// Group is the multicast group address (bytes 4-7 of the entry).
	Group netip.Addr

	// Source is the active source address (bytes 8-11 of the entry).
	Source netip.Addr
}

// SAMessage is a decoded IPv4 Source-Active TLV (RFC 3618 Section 12.2).
//
// Wire format:
//
//	Byte 0:     Type = 1
//	Bytes 1-2:  Length = 8 + 12*Z (big-endian uint16)
//	Byte 3:     Entry Count (Z)
//	Bytes 4-7:  RP Address
//	Per entry:  Reserved(3) + Sprefix Len(1) + Group(4) + Source(4)
//
// Encapsulated data (an SA carrying the original multicast packet) is not
// supported; a Length beyond the entry list is rejected.
type SAMessage struct {
	// RP is the address of the RP that originated this advertisement
	// (RFC 3618 Section 12.2). Carried unchanged when re-forwarding.
	RP netip.Addr

	// Entries lists the active (S,G) pairs. At least one entry is
	// required; at most MaxSAEntries fit one TLV.
	Entries []SAEntry
}

// WireSize returns the encoded TLV length for the message.
func (m *SAMessage) WireSize() int {
	return saHeaderSize + saEntrySize*len(m.Entries)
}

// -------------------------------------------------------------------------
// Codec Errors
// -------------------------------------------------------------------------

// Sentinel errors for TLV validation failures. Any of these on a live
// session is a protocol violation that tears the session down
// (RFC 3618 Section 11: TLV format errors reset the connection).
var (
	// ErrTLVTooShort indicates a Length field below the 3-byte header
	// minimum (RFC 3618 Section 12.1).
	ErrTLVTooShort = errors.New("TLV length below header minimum")

	// ErrTLVTooLong indicates a Length field above MaxTLVSize
	// (RFC 3618 Section 12.1).
	ErrTLVTooLong = errors.New("TLV length exceeds maximum")

	// ErrUnknownType indicates a TLV type this implementation does not
	// recognize.
	ErrUnknownType = errors.New("unknown TLV type")

	// ErrInvalidLength indicates a Length field inconsistent with the
	// TLV type (e.g. a KeepAlive with a value part, or a Source-Active
	// whose Length does not match its Entry Count).
	ErrInvalidLength = errors.New("invalid TLV length field")

	// ErrZeroEntryCount indicates a Source-Active TLV with no entries.
	ErrZeroEntryCount = errors.New("source-active entry count is zero")

	// ErrInvalidPrefixLen indicates a Source-Active entry whose Sprefix
	// Len is not 32 (RFC 3618 Section 12.2).
	ErrInvalidPrefixLen = errors.New("source prefix length is not 32")

	// ErrNotIPv4 indicates a non-IPv4 or unspecified address where an
	// IPv4 unicast/multicast address is required.
	ErrNotIPv4 = errors.New("address is not IPv4")

	// ErrTooManyEntries indicates a Source-Active message whose entry
	// list does not fit a single TLV.
	ErrTooManyEntries = errors.New("too many source-active entries for one TLV")

	// ErrBufTooSmall indicates the caller-provided buffer cannot hold
	// the encoded TLV.
	ErrBufTooSmall = errors.New("buffer too small for MSDP TLV")
)

// unmarshalErrPrefix is the common error prefix for TLV decoding failures.
const unmarshalErrPrefix = "unmarshal TLV"

// -------------------------------------------------------------------------
// ReadTLV — stream framing
// -------------------------------------------------------------------------

// ReadTLV reads exactly one TLV from r into buf and returns its type and
// value bytes. buf MUST be at least MaxTLVSize bytes; callers typically
// provide one from TLVPool.
//
// The returned value slice references buf (zero-copy) and excludes the
// 3-byte header. It is valid until buf is reused.
//
// The Length field is validated against the header minimum and MaxTLVSize
// before the value is read, so a corrupt peer cannot force an oversized
// read. Any framing error is session-fatal; io.EOF is returned unwrapped
// when the connection closes cleanly between TLVs.
func ReadTLV(r io.Reader, buf []byte) (MsgType, []byte, error) {
	if len(buf) < MaxTLVSize {
		return 0, nil, fmt.Errorf("read TLV: need %d byte buffer, got %d: %w",
			MaxTLVSize, len(buf), ErrBufTooSmall)
	}

	// Header: Type(1) + Length(2).
	if _, err := io.ReadFull(r, buf[:TLVHeaderSize]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("read TLV header: %w", err)
	}

	msgType := MsgType(buf[0])
	length := int(binary.BigEndian.Uint16(buf[1:3]))

	// RFC 3618 Section 12.1: Length covers the header, so the minimum
	// legal value is 3 and the maximum is 9192.
	if length < TLVHeaderSize {
		return 0, nil, fmt.Errorf("read TLV: type %s length %d: %w",
			msgType, length, ErrTLVTooShort)
	}
	if length > MaxTLVSize {
		return 0, nil, fmt.Errorf("read TLV: type %s length %d: %w",
			msgType, length, ErrTLVTooLong)
	}

	valueLen := length - TLVHeaderSize
	if valueLen > 0 {
		if _, err := io.ReadFull(r, buf[TLVHeaderSize:length]); err != nil {
			return 0, nil, fmt.Errorf("read TLV value (type %s, length %d): %w",
				msgType, length, err)
		}
	}

	return msgType, buf[TLVHeaderSize:length], nil
}

// -------------------------------------------------------------------------
// Marshal — RFC 3618 Section 12.2
// -------------------------------------------------------------------------

// MarshalKeepalive writes a KeepAlive TLV into buf and returns the number
// of bytes written. buf MUST be at least KeepaliveLength bytes.
func MarshalKeepalive(buf []byte) (int, error) {
	if len(buf) < KeepaliveLength {
		return 0, fmt.Errorf("marshal keepalive: need %d bytes, got %d: %w",
			KeepaliveLength, len(buf), ErrBufTooSmall)
	}

	buf[0] = uint8(MsgTypeKeepalive)
	binary.BigEndian.PutUint16(buf[1:3], KeepaliveLength)

	return KeepaliveLength, nil
}

// MarshalSA serializes a Source-Active message into buf and returns the
// number of bytes written. All addresses must be IPv4; Entries must hold
// between 1 and MaxSAEntries pairs. Callers typically provide a
// MaxTLVSize buffer from TLVPool.
func MarshalSA(msg *SAMessage, buf []byte) (int, error) {
	if len(msg.Entries) == 0 {
		return 0, fmt.Errorf("marshal source-active: %w", ErrZeroEntryCount)
	}
	if len(msg.Entries) > MaxSAEntries {
		return 0, fmt.Errorf("marshal source-active: %d entries: %w",
			len(msg.Entries), ErrTooManyEntries)
	}
	if !msg.RP.Is4() {
		return 0, fmt.Errorf("marshal source-active: RP %s: %w", msg.RP, ErrNotIPv4)
	}

	totalLen := msg.WireSize()
	if len(buf) < totalLen {
		return 0, fmt.Errorf("marshal source-active: need %d bytes, got %d: %w",
			totalLen, len(buf), ErrBufTooSmall)
	}

	// Header: Type(1) + Length(2) + Entry Count(1) + RP(4).
	buf[0] = uint8(MsgTypeSourceActive)
	binary.BigEndian.PutUint16(buf[1:3], uint16(totalLen))
	buf[3] = uint8(len(msg.Entries))
	rp := msg.RP.As4()
	copy(buf[4:8], rp[:])

	// Entries: Reserved(3) + Sprefix Len(1) + Group(4) + Source(4).
	off := saHeaderSize
	for i := range msg.Entries {
		e := &msg.Entries[i]
		if !e.Group.Is4() {
			return 0, fmt.Errorf("marshal source-active: entry %d group %s: %w",
				i, e.Group, ErrNotIPv4)
		}
		if !e.Source.Is4() {
			return 0, fmt.Errorf("marshal source-active: entry %d source %s: %w",
				i, e.Source, ErrNotIPv4)
		}

		buf[off] = 0 // Reserved: zero on transmit.
		buf[off+1] = 0
		buf[off+2] = 0
		buf[off+3] = saPrefixLen
		g := e.Group.As4()
		copy(buf[off+4:off+8], g[:])
		s := e.Source.As4()
		copy(buf[off+8:off+12], s[:])
		off += saEntrySize
	}

	return totalLen, nil
}

// -------------------------------------------------------------------------
// UnmarshalSA — RFC 3618 Section 12.2
// -------------------------------------------------------------------------

// UnmarshalSA decodes the value part of a Source-Active TLV (as returned
// by ReadTLV) into msg. The Entries slice is reused when capacity allows.
//
// Validation performed:
//
//  1. Entry Count >= 1 and value length == 5 + 12*count exactly
//     (encapsulated-data SAs are rejected as ErrInvalidLength)
//  2. Sprefix Len == 32 on every entry
//  3. Reserved bytes are ignored on receipt
func UnmarshalSA(value []byte, msg *SAMessage) error {
	// Value part: Entry Count(1) + RP(4) + entries.
	const fixedLen = saHeaderSize - TLVHeaderSize

	if len(value) < fixedLen {
		return fmt.Errorf("%s: source-active value %d bytes, minimum %d: %w",
			unmarshalErrPrefix, len(value), fixedLen, ErrInvalidLength)
	}

	count := int(value[0])
	if count == 0 {
		return fmt.Errorf("%s: %w", unmarshalErrPrefix, ErrZeroEntryCount)
	}

	want := fixedLen + count*saEntrySize
	if len(value) != want {
		return fmt.Errorf("%s: source-active entry count %d needs %d value bytes, got %d: %w",
			unmarshalErrPrefix, count, want, len(value), ErrInvalidLength)
	}

	msg.RP = netip.AddrFrom4([4]byte(value[1:5]))

	if cap(msg.Entries) >= count {
		msg.Entries = msg.Entries[:count]
	} else {
		msg.Entries = make([]SAEntry, count)
	}

	off := fixedLen
	for i := range count {
		// Bytes off+0..2 are Reserved, ignored on receipt.
		if value[off+3] != saPrefixLen {
			return fmt.Errorf("%s: entry %d sprefix len %d: %w",
				unmarshalErrPrefix, i, value[off+3], ErrInvalidPrefixLen)
		}
		msg.Entries[i] = SAEntry{
			Group:  netip.AddrFrom4([4]byte(value[off+4 : off+8])),
			Source: netip.AddrFrom4([4]byte(value[off+8 : off+12])),
		}
		off += saEntrySize
	}

	return nil
}

// ValidateTLV checks a (type, value) pair from ReadTLV against the
// per-type length rules before type-specific decoding. KeepAlive TLVs
// must be header-only; unknown types are rejected outright
// (RFC 3618 Section 11: a TLV format error closes the session).
func ValidateTLV(msgType MsgType, value []byte) error {
	switch msgType {
	case MsgTypeKeepalive:
		if len(value) != 0 {
			return fmt.Errorf("keepalive with %d value bytes: %w",
				len(value), ErrInvalidLength)
		}
		return nil
	case MsgTypeSourceActive, MsgTypeSARequest, MsgTypeSAResponse:
		return nil
	default:
		return fmt.Errorf("TLV type %d: %w", uint8(msgType), ErrUnknownType)
	}
}

// -------------------------------------------------------------------------
// TLVPool — sync.Pool for TLV I/O buffers
// -------------------------------------------------------------------------

// TLVPool provides reusable MaxTLVSize buffers for TLV I/O. Callers Get()
// a *[]byte before reading or marshaling, and Put() it after processing.
// The pool stores *[]byte to avoid interface allocation on Get()/Put().
var TLVPool = sync.Pool{
	New: func() any {
		buf := make([]byte, MaxTLVSize)
		return &buf
	},
}
