package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	mdns "github.com/miekg/dns"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/idna"
)

// DNSResolver issues A queries against a rotating list of nameservers.
type DNSResolver struct {
	servers     []string
	timeout     time.Duration
	udpClient   *mdns.Client
	tcpClient   *mdns.Client
	logger      *logrus.Logger
	mu          sync.Mutex
	rotateIndex int
}

func NewDNSResolver(servers []string, timeout time.Duration, logger *logrus.Logger) *DNSResolver {
	if logger == nil {
		logger = logrus.New()
	}
	if len(servers) == 0 {
		servers = getSystemResolvers()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		if s = strings.TrimSpace(s); s != "" {
			normalized = append(normalized, withPort(s))
		}
	}

	return &DNSResolver{
		servers: normalized,
		timeout: timeout,
		udpClient: &mdns.Client{
			Net:     "udp",
			Timeout: timeout,
			UDPSize: 1232,
		},
		tcpClient: &mdns.Client{
			Net:     "tcp",
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Resolve performs one lookup bounded by the resolver timeout as a whole.
// Servers are tried in rotation until one gives a definitive answer.
func (r *DNSResolver) Resolve(ctx context.Context, fqdn string) Outcome {
	name, err := idna.ToASCII(strings.TrimSpace(fqdn))
	if err != nil || name == "" {
		return Outcome{Kind: OtherFailure, Err: fmt.Errorf("invalid name %q: %v", fqdn, err)}
	}
	if _, ok := mdns.IsDomainName(name); !ok {
		return Outcome{Kind: OtherFailure, Err: fmt.Errorf("invalid name %q", fqdn)}
	}
	if len(r.servers) == 0 {
		return Outcome{Kind: NoNameservers}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(name), mdns.TypeA)
	msg.RecursionDesired = true

	start := r.nextIndex()
	timedOut := false
	for i := 0; i < len(r.servers); i++ {
		if ctx.Err() != nil {
			return Outcome{Kind: TimedOut}
		}
		server := r.servers[(start+i)%len(r.servers)]

		resp, err := r.exchange(ctx, msg, server)
		if err != nil {
			var netErr net.Error
			switch {
			case ctx.Err() != nil || isTimeout(err):
				timedOut = true
			case errors.As(err, &netErr):
				r.logger.Debugf("Nameserver %s unreachable for %s: %v", server, name, err)
			default:
				return Outcome{Kind: OtherFailure, Err: err}
			}
			continue
		}

		switch resp.Rcode {
		case mdns.RcodeSuccess:
			addrs := addresses(resp.Answer)
			if len(addrs) == 0 {
				return Outcome{Kind: NotFound}
			}
			return Outcome{Kind: Found, Addresses: addrs}
		case mdns.RcodeNameError:
			return Outcome{Kind: NotFound}
		default:
			r.logger.Debugf("Nameserver %s answered %s for %s", server, mdns.RcodeToString[resp.Rcode], name)
		}
	}

	if ctx.Err() != nil || timedOut {
		return Outcome{Kind: TimedOut}
	}
	return Outcome{Kind: NoNameservers}
}

func (r *DNSResolver) exchange(ctx context.Context, msg *mdns.Msg, server string) (*mdns.Msg, error) {
	resp, _, err := r.udpClient.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("nil DNS response from %s", server)
	}
	if resp.Truncated {
		resp, _, err = r.tcpClient.ExchangeContext(ctx, msg, server)
		if err != nil {
			return nil, fmt.Errorf("DNS TCP query failed: %w", err)
		}
		if resp == nil {
			return nil, fmt.Errorf("nil DNS TCP response from %s", server)
		}
	}
	return resp, nil
}

func (r *DNSResolver) nextIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.rotateIndex
	r.rotateIndex = (r.rotateIndex + 1) % len(r.servers)
	return i
}

func (r *DNSResolver) Servers() []string {
	cp := make([]string, len(r.servers))
	copy(cp, r.servers)
	return cp
}

func addresses(rrs []mdns.RR) []string {
	var out []string
	for _, rr := range rrs {
		if a, ok := rr.(*mdns.A); ok {
			out = append(out, a.A.String())
		}
	}
	return out
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func withPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), "53")
}

func getSystemResolvers() []string {
	cfg, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || cfg == nil || len(cfg.Servers) == 0 {
		return []string{
			"1.1.1.1:53",
			"8.8.8.8:53",
			"9.9.9.9:53",
		}
	}
	port := cfg.Port
	if port == "" {
		port = "53"
	}
	servers := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		servers = append(servers, net.JoinHostPort(s, port))
	}
	return servers
}
