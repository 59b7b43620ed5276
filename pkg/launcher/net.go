package launcher

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// FindFreePort returns the first port in [start, end] that can be bound on
// the loopback interface.
func FindFreePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no free port in range %d-%d", start, end)
}

// WaitForPort polls the loopback port until something accepts a connection,
// trying at most attempts times with the given interval between tries.
func WaitForPort(port, attempts int, interval time.Duration) bool {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	for i := 0; i < attempts; i++ {
		conn, err := net.DialTimeout("tcp", addr, interval)
		if err == nil {
			conn.Close()
			return true
		}
		time.Sleep(interval)
	}
	return false
}
