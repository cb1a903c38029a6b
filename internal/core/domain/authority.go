package domain

// Authority is the signer presented to the ledger when moving funds out of a
// holding. Authorities for custodial holdings can only be obtained from the
// Deal owning them.
type Authority struct {
	owner     string
	custodial bool
}

// SignerAuthority returns the authority of a party signing for its own
// holdings.
func SignerAuthority(identity string) Authority {
	return Authority{owner: identity}
}

// Owner returns the identity that the authority signs for.
func (a Authority) Owner() string {
	return a.owner
}

// IsCustodial returns whether the authority has been derived from a deal.
func (a Authority) IsCustodial() bool {
	return a.custodial
}

// CanSpend returns whether the authority is allowed to move funds out of a
// holding with the given owner and custody type.
func (a Authority) CanSpend(owner string, custodial bool) bool {
	return len(a.owner) > 0 && a.owner == owner && a.custodial == custodial
}
