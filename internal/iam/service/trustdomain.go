package service

// MatchTrustDomain compares a caller's declared trust domain against the
// domain a policy statement requires. The comparison is case-sensitive exact
// string equality: no normalization, no prefix matching, no wildcard domains.
// An absent (empty) actual domain never matches: an identity with an empty
// trust domain is a mismatch, not an unauthorized caller.
func MatchTrustDomain(required, actual string) bool {
	if actual == "" {
		return false
	}
	return required == actual
}
