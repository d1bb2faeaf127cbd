package models

// Collection identifies a logical group of records sharing a payload shape
// and a sync policy.
type Collection string

const (
	// CollectionTransactions holds income and expense entries.
	CollectionTransactions Collection = "transactions"

	// CollectionAssets holds long-lived property entries referenced by
	// transactions, soft-deleted to keep historical references resolvable.
	CollectionAssets Collection = "assets"

	// CollectionPreferences holds per-scope settings documents.
	CollectionPreferences Collection = "preferences"
)

// DeletePolicy selects how a confirmed Delete is materialized in storage.
type DeletePolicy int

const (
	// DeletePhysical removes the row entirely.
	DeletePhysical DeletePolicy = iota

	// DeleteSoft keeps the row behind a deletion flag.
	DeleteSoft
)

// CollectionPolicy bundles the per-collection sync behavior.
type CollectionPolicy struct {
	// Delete is how Delete operations are persisted locally and remotely.
	Delete DeletePolicy

	// CriticalFields are payload fields whose conflicts classify as high
	// severity regardless of how many other fields disagree.
	CriticalFields []string
}

// defaultCriticalFields is the designated critical set for budget data.
var defaultCriticalFields = []string{"amount", "date", "type", "category"}

var collectionPolicies = map[Collection]CollectionPolicy{
	CollectionTransactions: {Delete: DeletePhysical, CriticalFields: defaultCriticalFields},
	CollectionAssets:       {Delete: DeleteSoft, CriticalFields: defaultCriticalFields},
	CollectionPreferences:  {Delete: DeletePhysical, CriticalFields: defaultCriticalFields},
}

// PolicyFor returns the sync policy for the given collection.
// Unknown collections get physical delete and the default critical set.
func PolicyFor(c Collection) CollectionPolicy {
	if policy, ok := collectionPolicies[c]; ok {
		return policy
	}
	return CollectionPolicy{Delete: DeletePhysical, CriticalFields: defaultCriticalFields}
}

// KnownCollections lists every collection the cache may hold, in stable order.
func KnownCollections() []Collection {
	return []Collection{CollectionTransactions, CollectionAssets, CollectionPreferences}
}

// IsValid reports whether c names a known collection.
func (c Collection) IsValid() bool {
	_, ok := collectionPolicies[c]
	return ok
}

// String returns the collection name.
func (c Collection) String() string {
	return string(c)
}
