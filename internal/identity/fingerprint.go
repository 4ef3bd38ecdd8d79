package identity

import (
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"lukechampine.com/blake3"
)

// The fingerprint cache is a recomputation shortcut keyed by client-supplied
// header material. It is capped: once full it is dropped wholesale rather
// than letting arbitrary clients grow it without bound.
const fingerprintCacheMax = 4096

var (
	fpMu    sync.Mutex
	fpCache = make(map[string]string)
)

// Fingerprint derives a stable fingerprint for a browser from request
// headers and the client address. If the request carries no usable material,
// a random fingerprint is returned so the visitor still gets an identity.
func Fingerprint(r *http.Request) string {
	material := strings.Join([]string{
		r.UserAgent(),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
		ClientIP(r),
	}, "|")

	if strings.Trim(material, "|") == "" {
		// Random fallback: unresolvable clients each become their own visitor.
		return "rnd-" + uuid.NewString()
	}

	fpMu.Lock()
	defer fpMu.Unlock()

	if fp, ok := fpCache[material]; ok {
		return fp
	}

	sum := blake3.Sum256([]byte(material))
	fp := hex.EncodeToString(sum[:])

	if len(fpCache) >= fingerprintCacheMax {
		fpCache = make(map[string]string)
	}
	fpCache[material] = fp
	return fp
}

// ClientIP resolves the requesting address, honoring the first entry of
// X-Forwarded-For when a proxy set one.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}
