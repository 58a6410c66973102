package main

import "net"

// dnsRequest asks the resolver pool to look up the hostname for a
// connection.
type dnsRequest struct {
	Handle Handle
	IP     string
}

// dnsResult is the resolver pool's answer, delivered back to the event
// loop's channel. Host is the numeric IP unchanged if resolution failed;
// reverse DNS failure is not an error condition a client ever sees.
type dnsResult struct {
	Handle Handle
	Host   string
}

// startResolverPool launches n goroutines pulling dnsRequests off reqs and
// posting dnsResults to results. Grounded on checkhost.py's check_host
// dispatched to circuits' "threadpool" channel: reverse DNS is the one
// operation in this core allowed to block, so it's offloaded to its own
// pool instead of running on the event loop goroutine (§5).
func startResolverPool(n int, reqs <-chan dnsRequest, results chan<- dnsResult) {
	for i := 0; i < n; i++ {
		go func() {
			for req := range reqs {
				results <- dnsResult{Handle: req.Handle, Host: resolveHost(req.IP)}
			}
		}()
	}
}

// resolveHost does a reverse DNS lookup, falling back to the numeric
// address on any failure.
func resolveHost(ip string) string {
	names, err := net.LookupAddr(ip)
	if err != nil || len(names) == 0 {
		return ip
	}
	host := names[0]
	// LookupAddr returns names with a trailing dot.
	if len(host) > 0 && host[len(host)-1] == '.' {
		host = host[:len(host)-1]
	}
	return host
}
