//go:build windows

package fdmsg

// FDPassingSupported reports whether SCM_RIGHTS descriptor passing is
// available in this build.
const FDPassingSupported = false

// Receive is unavailable on Windows.
func (v *Vector) Receive(fd int) (int, []int, error) {
	return 0, nil, ErrMessagingUnavailable
}

// Send is unavailable on Windows. A non-empty passFDs list fails with
// ErrFDPassingUnavailable before anything is written, so a caller's intent
// to transfer descriptors is never silently dropped.
func (v *Vector) Send(fd int, passFDs []int) (int, error) {
	if len(passFDs) > 0 {
		return 0, ErrFDPassingUnavailable
	}
	return 0, ErrMessagingUnavailable
}
