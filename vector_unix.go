//go:build !windows

package fdmsg

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// BuildIovecs fills iovecList with one entry per region, order preserved.
// The caller guarantees len(iovecList) >= len(regions); offsets and lengths
// are taken as-is.
func BuildIovecs(regions []Region, iovecList []unix.Iovec) {
	for index := range regions {
		region := &regions[index]
		iovecList[index].Base = region.pointer()
		iovecList[index].SetLen(region.length)
	}
}

// Iovecs builds a fresh iovec list for the vector.
func (v *Vector) Iovecs() ([]unix.Iovec, error) {
	if len(v.regions) > MaxVectorCount {
		return nil, ErrVectorTooLong
	}
	iovecList := make([]unix.Iovec, len(v.regions))
	BuildIovecs(v.regions, iovecList)
	return iovecList, nil
}

func (r *Region) pointer() *byte {
	if r.length == 0 {
		return nil
	}
	if r.base != nil {
		return (*byte)(unsafe.Add(r.base, r.offset))
	}
	return &r.data[r.offset]
}
