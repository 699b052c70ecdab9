// Package store is the record store: the only component that reads or
// writes the persistence substrate.
//
// It owns three independently persisted collections:
//
//	application            -> []model.Application, unique by client_id
//	identities             -> []model.Identity, unique by (user.id, team.id)
//	user:<user-id>.history -> []model.HistoryItem, unique by api + data
//
// Every Add is an upsert with move-to-front: the existing entry with the same
// key is removed and the new one is prepended, so list position is the only
// recency signal. Every write replaces the whole collection.
//
// Listing never fails. An absent key is an empty collection; a record that
// cannot be decoded is logged and treated as empty.
package store
