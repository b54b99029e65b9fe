package object

import "fmt"

// TrustLevel represents the trust level of a signing key.
// The levels follow Git's trust model, from lowest to highest.
type TrustLevel int8

const (
	// TrustUndefined indicates the trust level is not set or unknown.
	TrustUndefined TrustLevel = iota
	// TrustNever indicates the key should never be trusted.
	TrustNever
	// TrustMarginal indicates marginal trust in the key.
	TrustMarginal
	// TrustFull indicates full trust in the key.
	TrustFull
	// TrustUltimate indicates ultimate trust (typically for own keys).
	TrustUltimate
)

// String returns the string representation of the trust level.
func (t TrustLevel) String() string {
	switch t {
	case TrustNever:
		return "never"
	case TrustMarginal:
		return "marginal"
	case TrustFull:
		return "full"
	case TrustUltimate:
		return "ultimate"
	default:
		return "undefined"
	}
}

// AtLeast returns true if this trust level meets or exceeds the required level.
func (t TrustLevel) AtLeast(required TrustLevel) bool {
	return t >= required
}

// VerificationResult holds the outcome of verifying a commit or tag
// signature: whether it cryptographically checks out, who it was signed
// by and how much that signer is trusted.
type VerificationResult struct {
	// Type is the signature format that was verified.
	Type SignatureType
	// Valid is true if the signature matches the signed content.
	Valid bool
	// TrustLevel is the trust level of the signing key, as known to the
	// local keyring.
	TrustLevel TrustLevel
	// KeyID is the ID of the key that produced the signature.
	KeyID string
	// PrimaryKeyFingerprint is the fingerprint of the primary key that
	// owns the signing (sub)key, when that differs from KeyID.
	PrimaryKeyFingerprint string
	// Signer identifies the entity that holds the signing key, e.g. a
	// user ID string.
	Signer string
	// Error explains why verification failed, or is nil when Valid is
	// true.
	Error error
}

// IsValid reports whether the signature verified successfully with no
// error. A result can have Valid set without IsValid being true if an
// error was also recorded (e.g. a valid signature from an expired key).
func (r VerificationResult) IsValid() bool {
	return r.Valid && r.Error == nil
}

// IsTrusted reports whether the signature is valid and was produced by a
// key trusted at least as much as minTrust.
func (r VerificationResult) IsTrusted(minTrust TrustLevel) bool {
	return r.IsValid() && r.TrustLevel.AtLeast(minTrust)
}

// String renders a short, human-readable summary of the verification
// result, suitable for inclusion in `git log --show-signature`-style
// output.
func (r VerificationResult) String() string {
	validity := "invalid"
	if r.IsValid() {
		validity = "valid"
	}

	s := fmt.Sprintf("%s signature, %s", r.Type, validity)
	if r.TrustLevel != TrustUndefined {
		s += fmt.Sprintf(", %s trust", r.TrustLevel)
	}
	if r.KeyID != "" {
		s += fmt.Sprintf(", key %s", r.KeyID)
	}
	if r.Signer != "" {
		s += fmt.Sprintf(", signer %s", r.Signer)
	}
	if r.Error != nil {
		s += fmt.Sprintf(": %s", r.Error)
	}

	return s
}
