package net

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_flipcards._tcp"

// Service is a shared deck found on the local network.
type Service struct {
	Instance string
	Addr     string
	Info     []string
}

// field returns the value of a key=value TXT entry.
func (s Service) field(key string) string {
	for _, kv := range s.Info {
		if v, ok := strings.CutPrefix(kv, key+"="); ok {
			return v
		}
	}
	return ""
}

// Name is the advertised project name, or the instance name when the TXT
// record has none.
func (s Service) Name() string {
	if n := s.field("name"); n != "" {
		return n
	}
	return s.Instance
}

// Link returns the share link of the advertised project. ok is false when
// the TXT record carries no public id.
func (s Service) Link() (link string, ok bool) {
	id := s.field("id")
	if id == "" || s.Addr == "" {
		return "", false
	}
	return LinkScheme + s.Addr + "/" + id, true
}

// OutgoingIP finds the address peers should use to reach this host.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return firstIPv4().String()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// firstIPv4 picks the first non-loopback IPv4 address of an interface that
// is up, for networks without a default route.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	log.Println("[SHARE] No suitable local IP found, share links will use loopback")
	return net.IPv4(127, 0, 0, 1)
}

// Advertise announces a shared deck on the LAN. The TXT record carries the
// project name and public id. Shut the returned server down to withdraw it.
func Advertise(port int, name, publicID string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"",
		"",
		port,
		nil,
		[]string{"name=" + name, "id=" + publicID},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[SHARE] Advertising %q as %s on port %d", name, serviceType, port)
	return server, nil
}

// Browse queries the LAN for shared decks for up to timeout and calls found
// for every IPv4 answer.
func Browse(timeout time.Duration, found func(Service)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Service{
				Instance: e.Name,
				Addr:     fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port),
				Info:     e.InfoFields,
			})
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("mDNS query: %w", err)
	}
	return nil
}
