// Package wol builds and sends Wake-on-LAN magic packets.
package wol

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/asaskevich/govalidator"
)

// packet layout: 6 bytes of 0xFF followed by the hardware address repeated 16 times.
const (
	headerLen  = 6
	addrLen    = 6
	repetition = 16
)

// Normalize strips common separators from a hardware address, lowercases it,
// and reformats it as colon-separated octets. The input must contain exactly
// 12 hexadecimal digits after separator removal; anything else is an error.
// Normalize is a fixed point: feeding its output back in returns it unchanged.
func Normalize(addr string) (string, error) {
	s := strings.ToLower(addr)
	for _, sep := range []string{":", "-", ".", " "} {
		s = strings.ReplaceAll(s, sep, "")
	}
	if len(s) != 12 {
		return "", fmt.Errorf("invalid hardware address %q: want 12 hex digits, got %d", addr, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("invalid hardware address %q: %w", addr, err)
	}

	parts := make([]string, 0, addrLen)
	for i := 0; i < 12; i += 2 {
		parts = append(parts, s[i:i+2])
	}
	formatted := strings.Join(parts, ":")
	if !govalidator.IsMAC(formatted) {
		return "", fmt.Errorf("invalid hardware address %q", addr)
	}
	return formatted, nil
}

// Packet builds the magic packet for a hardware address in any accepted form.
func Packet(addr string) ([]byte, error) {
	formatted, err := Normalize(addr)
	if err != nil {
		return nil, err
	}
	hw, err := net.ParseMAC(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid hardware address %q: %w", addr, err)
	}

	buf := make([]byte, 0, headerLen+addrLen*repetition)
	for i := 0; i < headerLen; i++ {
		buf = append(buf, 0xFF)
	}
	for i := 0; i < repetition; i++ {
		buf = append(buf, hw...)
	}
	return buf, nil
}

// Send transmits a single magic packet for addr as a UDP datagram to the
// given broadcast address and port. Validation failures are hard errors and
// nothing is sent.
func Send(addr, broadcast string, port int) error {
	pkt, err := Packet(addr)
	if err != nil {
		return err
	}

	ip := net.ParseIP(broadcast)
	if ip == nil {
		return fmt.Errorf("invalid broadcast address %q", broadcast)
	}
	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: ip, Port: port})
	if err != nil {
		return fmt.Errorf("dial %s:%d: %w", broadcast, port, err)
	}
	defer conn.Close() //nolint

	if _, err = conn.Write(pkt); err != nil {
		return fmt.Errorf("send wake packet: %w", err)
	}
	return nil
}
