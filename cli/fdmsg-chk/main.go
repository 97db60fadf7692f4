package main

import (
	"net"
	"os"

	"github.com/sagernet/sing-fdmsg"
	"github.com/sagernet/sing-fdmsg/common/buf"
	_ "github.com/sagernet/sing-fdmsg/common/log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	command := &cobra.Command{
		Use: "fdmsg-chk",
	}
	command.AddCommand(&cobra.Command{
		Use:  "receive socket-path",
		Args: cobra.ExactArgs(1),
		Run:  runReceive,
	})
	command.AddCommand(&cobra.Command{
		Use:  "send socket-path file...",
		Args: cobra.MinimumNArgs(2),
		Run:  runSend,
	})
	if err := command.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func runReceive(cmd *cobra.Command, args []string) {
	if !fdmsg.FDPassingSupported {
		logrus.Fatal("fd passing is not supported on this platform")
	}
	socketPath := args[0]
	os.Remove(socketPath)
	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: socketPath, Net: "unix"})
	if err != nil {
		logrus.Fatal(err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)
	logrus.Info("listening on ", socketPath)
	for {
		conn, err := listener.AcceptUnix()
		if err != nil {
			logrus.Fatal(err)
		}
		if err = receiveOnce(conn); err != nil {
			logrus.Error(err)
		}
		conn.Close()
	}
}

func receiveOnce(conn *net.UnixConn) error {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	buffer := buf.New()
	defer buffer.Release()
	var receiveVector fdmsg.Vector
	receiveVector.AppendBytes(buffer.FreeBytes(), 0, buffer.FreeLen())
	var (
		bytesReceived int
		passedFDs     []int
		receiveErr    error
	)
	err = rawConn.Control(func(fd uintptr) {
		bytesReceived, passedFDs, receiveErr = receiveVector.Receive(int(fd))
	})
	if err != nil {
		return err
	}
	if receiveErr != nil {
		return receiveErr
	}
	buffer.Truncate(bytesReceived)
	logrus.Info("received ", bytesReceived, " bytes: ", buffer.String())
	logrus.Info("received ", len(passedFDs), " descriptors")
	for index, passedFD := range passedFDs {
		passedFile := os.NewFile(uintptr(passedFD), "passed-fd")
		_, err = passedFile.WriteString("written through descriptor received over " + conn.LocalAddr().String() + "\n")
		if err != nil {
			logrus.Error("descriptor ", index, ": ", err)
		} else {
			logrus.Info("descriptor ", index, ": write ok")
		}
		passedFile.Close()
	}
	return nil
}

func runSend(cmd *cobra.Command, args []string) {
	if !fdmsg.FDPassingSupported {
		logrus.Fatal("fd passing is not supported on this platform")
	}
	socketPath := args[0]
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: socketPath, Net: "unix"})
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()
	var passFDs []int
	for _, filePath := range args[1:] {
		file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			logrus.Fatal(err)
		}
		defer file.Close()
		passFDs = append(passFDs, int(file.Fd()))
	}
	rawConn, err := conn.SyscallConn()
	if err != nil {
		logrus.Fatal(err)
	}
	header := buf.As([]byte("fdmsg-chk "))
	payload := []byte(socketPath)
	var sendVector fdmsg.Vector
	sendVector.AppendBuffer(header)
	sendVector.AppendBytes(payload, 0, len(payload))
	var (
		bytesSent int
		sendErr   error
	)
	err = rawConn.Control(func(fd uintptr) {
		bytesSent, sendErr = sendVector.Send(int(fd), passFDs)
	})
	if err != nil {
		logrus.Fatal(err)
	}
	if sendErr != nil {
		logrus.Fatal(sendErr)
	}
	logrus.Info("sent ", bytesSent, " bytes and ", len(passFDs), " descriptors")
}
