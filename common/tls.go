package common

import "crypto/tls"

// TLSConfig is the base client TLS configuration shared by every database dialer.
var TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
