// Package security provides response header hardening, client IP resolution
// behind trusted proxies, and lightweight detection of probing traffic.
package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// pathProbes are substrings that show up in scanner traffic but never in
// legitimate app routes.
var pathProbes = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"eval(", "javascript:", "<script", "union select",
	"base64", "0x", "etc/passwd", "cmd.exe",
}

// toolAgents are User-Agent fragments from scanners and scripted clients.
var toolAgents = []string{
	"sqlmap", "nmap", "nikto", "gobuster", "dirb",
	"curl", "wget", "python-requests", "scanner",
	"bot", "crawler", "spider", "scraper",
}

// DetectionMetrics is a snapshot of detection counters.
type DetectionMetrics struct {
	SuspiciousRequests int64
	InvalidIPAttempts  int64
}

// Detector flags requests that look like probing and resolves the real
// client IP when the connection arrives through a trusted proxy.
type Detector struct {
	suspicious atomic.Int64
	badIPs     atomic.Int64

	trustedProxies []*net.IPNet
}

// NewDetector builds a detector trusting the loopback and RFC 1918 ranges
// as proxy sources.
func NewDetector() *Detector {
	return &Detector{
		trustedProxies: []*net.IPNet{
			mustCIDR("127.0.0.0/8"),
			mustCIDR("10.0.0.0/8"),
			mustCIDR("172.16.0.0/12"),
			mustCIDR("192.168.0.0/16"),
		},
	}
}

func mustCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("bad trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// DetectSuspiciousRequest reports whether r looks like probing traffic and
// counts it if so. Callers decide what to do with a hit; the detector never
// blocks anything itself.
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	hit := d.isSuspicious(r)
	if hit {
		d.suspicious.Add(1)
	}
	return hit
}

func (d *Detector) isSuspicious(r *http.Request) bool {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, probe := range pathProbes {
		if strings.Contains(path, probe) || strings.Contains(query, probe) {
			return true
		}
	}

	agent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, tool := range toolAgents {
		if strings.Contains(agent, tool) {
			return true
		}
	}

	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		return true
	}

	if len(r.URL.String()) > 2048 {
		return true
	}

	// Both forwarding headers present plus a long hop chain suggests header
	// spoofing rather than a real proxy path.
	if r.Header.Get("X-Real-IP") != "" {
		if xff := r.Header.Get("X-Forwarded-For"); strings.Count(xff, ",") > 5 {
			return true
		}
	}

	return false
}

// ExtractClientIP resolves the client IP for r. Forwarded headers are only
// honored when the direct peer is a trusted proxy; otherwise anyone could
// spoof their way around rate limiting.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil {
		d.badIPs.Add(1)
		return directIP
	}

	if !d.isTrustedProxy(parsed) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First entry is the original client; later ones are proxies.
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if net.ParseIP(first) != nil {
			return first
		}
		d.badIPs.Add(1)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
		d.badIPs.Add(1)
	}

	return directIP
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// AddTrustedProxy extends the trusted proxy set. Not safe to call once
// requests are being served.
func (d *Detector) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	d.trustedProxies = append(d.trustedProxies, network)
	return nil
}

// GetMetrics returns the current detection counters.
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: d.suspicious.Load(),
		InvalidIPAttempts:  d.badIPs.Load(),
	}
}
