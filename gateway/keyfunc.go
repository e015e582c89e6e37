package gateway

import (
	"net"
	"net/http"
	"strings"

	"rpc-gateway/gateway/domain"
)

// KeyFunc extrai a identidade de throttle do chamador a partir da requisição.
type KeyFunc func(r *http.Request) domain.Identity

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) domain.Identity {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return domain.Identity(v)
			}
		}

		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if len(parts) > 0 {
					ip := strings.TrimSpace(parts[0])
					if ip != "" {
						return domain.Identity(ip)
					}
				}
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return domain.Identity(host)
		}
		if r.RemoteAddr != "" {
			return domain.Identity(r.RemoteAddr)
		}
		return "unknown"
	}
}
