//go:build !windows

package fdmsg

import (
	"os"
	_ "unsafe"

	E "github.com/sagernet/sing-fdmsg/common/exceptions"

	"golang.org/x/sys/unix"
)

// FDPassingSupported reports whether SCM_RIGHTS descriptor passing is
// available in this build.
const FDPassingSupported = true

// ReceiveMessage performs one recvmsg(2) call on fd, scattering incoming
// bytes across iovecList in order and extracting any file descriptors the
// peer attached. A zero byte count with a nil error is an orderly shutdown
// by the peer. Returned descriptors are owned by the caller.
func ReceiveMessage(fd int, iovecList []unix.Iovec) (int, []int, error) {
	var msg unix.Msghdr
	if len(iovecList) > 0 {
		msg.Iov = &iovecList[0]
		msg.SetIovlen(len(iovecList))
	}
	oob := make([]byte, unix.CmsgSpace(MaxPassFDCount*4))
	msg.Control = &oob[0]
	msg.SetControllen(len(oob))
	n, err := recvmsg(fd, &msg, 0)
	if err != nil {
		return 0, nil, os.NewSyscallError("receive_message", err)
	}
	fds, err := parseRights(oob[:int(msg.Controllen)])
	if err != nil {
		return n, nil, err
	}
	return n, fds, nil
}

func parseRights(oob []byte) ([]int, error) {
	if len(oob) == 0 {
		return nil, nil
	}
	controlMessages, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, E.Cause(err, "parse control messages")
	}
	for index := range controlMessages {
		message := &controlMessages[index]
		if message.Header.Level != unix.SOL_SOCKET || message.Header.Type != unix.SCM_RIGHTS {
			continue
		}
		fds, err := unix.ParseUnixRights(message)
		if err != nil {
			return nil, E.Cause(err, "parse rights message")
		}
		// Only the first rights record is decoded, matching the
		// single-record usage of real peers.
		return fds, nil
	}
	return nil, nil
}

// SendMessage performs one sendmsg(2) call on fd, gathering iovecList in
// order. A non-empty passFDs list is attached as a single SCM_RIGHTS record,
// order preserved; ownership of the descriptors stays with the caller.
func SendMessage(fd int, iovecList []unix.Iovec, passFDs []int) (int, error) {
	var msg unix.Msghdr
	if len(iovecList) > 0 {
		msg.Iov = &iovecList[0]
		msg.SetIovlen(len(iovecList))
	}
	if len(passFDs) > 0 {
		oob := unix.UnixRights(passFDs...)
		msg.Control = &oob[0]
		msg.SetControllen(len(oob))
	}
	n, err := sendmsg(fd, &msg, 0)
	if err != nil {
		return 0, os.NewSyscallError("send_message", err)
	}
	return n, nil
}

// Receive builds the vector's iovec list and receives one message into it.
func (v *Vector) Receive(fd int) (int, []int, error) {
	iovecList, err := v.Iovecs()
	if err != nil {
		return 0, nil, err
	}
	return ReceiveMessage(fd, iovecList)
}

// Send builds the vector's iovec list and sends it as one message,
// attaching passFDs if non-empty.
func (v *Vector) Send(fd int, passFDs []int) (int, error) {
	iovecList, err := v.Iovecs()
	if err != nil {
		return 0, err
	}
	return SendMessage(fd, iovecList, passFDs)
}

//go:linkname recvmsg golang.org/x/sys/unix.recvmsg
func recvmsg(s int, msg *unix.Msghdr, flags int) (n int, err error)

//go:linkname sendmsg golang.org/x/sys/unix.sendmsg
func sendmsg(s int, msg *unix.Msghdr, flags int) (n int, err error)
