//go:build windows

package transport

import "golang.org/x/sys/windows"

// winsockVersion requests Winsock 2.2.
const winsockVersion = uint32(0x0202)

func platformStartup() error {
	var data windows.WSAData
	return windows.WSAStartup(winsockVersion, &data)
}

func platformCleanup() error {
	return windows.WSACleanup()
}
