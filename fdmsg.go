// Package fdmsg sends and receives scattered byte buffers over Unix domain
// sockets in a single syscall, optionally passing open file descriptors to
// the peer as SCM_RIGHTS ancillary data.
//
// The package is a thin, stateless wrapper around sendmsg(2) and recvmsg(2):
// it never retries, never logs, and never closes descriptors handed to it.
// Blocking behavior follows whatever mode the socket descriptor is in.
package fdmsg

import (
	"unsafe"

	"github.com/sagernet/sing-fdmsg/common/buf"
	E "github.com/sagernet/sing-fdmsg/common/exceptions"
)

const (
	// MaxVectorCount is the portable IOV_MAX floor: the most regions one
	// message may carry.
	MaxVectorCount = 1024

	// MaxPassFDCount bounds how many descriptors a single receive makes
	// room for in its control buffer.
	MaxPassFDCount = 256
)

var (
	ErrFDPassingUnavailable = E.New("fd passing is not supported on this platform")
	ErrMessagingUnavailable = E.New("vectored messaging is not supported on this platform")
	ErrVectorTooLong        = E.New("vector count exceeds limit ", MaxVectorCount)
)

// Region describes one span of memory to gather from or scatter into.
// Offsets and lengths are not validated against the backing storage; a
// region reaching past its backing memory is undefined behavior at the
// syscall level and the caller's responsibility to avoid.
type Region struct {
	data   []byte
	base   unsafe.Pointer
	offset int
	length int
}

// BytesRegion describes length bytes of data starting at offset.
func BytesRegion(data []byte, offset int, length int) Region {
	return Region{data: data, offset: offset, length: length}
}

// BufferRegion describes length content bytes of buffer starting at offset.
func BufferRegion(buffer *buf.Buffer, offset int, length int) Region {
	return Region{data: buffer.Bytes(), offset: offset, length: length}
}

// ExternalRegion describes length bytes at base+offset in memory not managed
// by the Go runtime. The caller must keep the memory valid for the duration
// of any call the region participates in.
func ExternalRegion(base unsafe.Pointer, offset int, length int) Region {
	return Region{base: base, offset: offset, length: length}
}

func (r Region) Length() int {
	return r.length
}

// Vector is an ordered sequence of regions consumed by one send or receive.
type Vector struct {
	regions []Region
}

func (v *Vector) Append(region Region) {
	v.regions = append(v.regions, region)
}

func (v *Vector) AppendBytes(data []byte, offset int, length int) {
	v.Append(BytesRegion(data, offset, length))
}

// AppendBuffer appends the whole readable content of buffer.
func (v *Vector) AppendBuffer(buffer *buf.Buffer) {
	v.Append(BufferRegion(buffer, 0, buffer.Len()))
}

func (v *Vector) AppendExternal(base unsafe.Pointer, offset int, length int) {
	v.Append(ExternalRegion(base, offset, length))
}

func (v *Vector) Count() int {
	return len(v.regions)
}

func (v *Vector) ByteCount() int {
	var total int
	for _, region := range v.regions {
		total += region.length
	}
	return total
}

// Consume drops the leading n bytes, for resuming after a partial send.
// Consuming more than ByteCount empties the vector.
func (v *Vector) Consume(n int) {
	regions := v.regions
	for len(regions) > 0 && n >= regions[0].length {
		n -= regions[0].length
		regions = regions[1:]
	}
	if len(regions) == 0 {
		v.regions = v.regions[:0]
		return
	}
	regions[0].offset += n
	regions[0].length -= n
	v.regions = regions
}

func (v *Vector) Reset() {
	v.regions = v.regions[:0]
}
