package ecbox

import (
	"crypto/sha256"
	"io"

	"go.uber.org/zap"
	"lukechampine.com/frand"
)

const (
	// Passphrase key derivation parameters.
	deriveKey_N      = 16384
	deriveKey_r      = 8
	deriveKey_p      = 1
	deriveKey_keyLen = 32
)

// Suite carries the capabilities the operations depend on: the randomness
// source for new secrets, the logger and the passphrase KDF cost. A Suite
// holds no mutable state; it is safe for concurrent use when its entropy
// source is.
type Suite struct {
	entropy io.Reader
	logger  *zap.Logger
	scryptN int
}

// Option configures a Suite.
type Option func(*Suite)

// WithEntropy sets the randomness source used by GenerateSecret. If the Suite
// is shared between goroutines, r must be safe for concurrent use.
func WithEntropy(r io.Reader) Option {
	return func(s *Suite) {
		if r != nil {
			s.entropy = r
		}
	}
}

// WithLogger sets the logger. Failures that are not returned to the caller,
// such as rejected signatures, are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Suite) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScryptCost sets the scrypt N parameter for passphrase envelopes.
// It must be a power of two greater than 1.
func WithScryptCost(n int) Option {
	return func(s *Suite) {
		if n > 1 && n&(n-1) == 0 {
			s.scryptN = n
		}
	}
}

// NewSuite returns a Suite reading entropy from frand.Reader and logging nothing,
// unless configured otherwise.
func NewSuite(opts ...Option) *Suite {
	s := &Suite{
		entropy: frand.Reader,
		logger:  zap.NewNop(),
		scryptN: deriveKey_N,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSuite = NewSuite()

// DeterministicEntropy returns a randomness source seeded from seed. The same
// seed always yields the same stream, so secrets generated from it are
// reproducible. Use it for tests only.
func DeterministicEntropy(seed []byte) io.Reader {
	h := sha256.Sum256(seed)
	return frand.NewCustom(h[:], 32, 12)
}
