// Package keytable loads KEY1 key material for the ntrcard handshake.
//
// Key tables are not shipped with this module. They are dumped from console
// firmware as 0x1048-byte blobs: the 18 P entries followed by the four
// 256-entry S boxes, each word little-endian.
//
// # Usage
//
//	store := keytable.NewStore()
//	err := store.Load(blowfish.KeyNTR, "ntr_key1.bin", "")
//
//	card := ntrcard.New(slot, store)
//
// A BLAKE2b-256 digest can be given to Load to reject corrupt or wrong
// dumps before they desync a handshake:
//
//	err := store.Load(blowfish.KeyNTR, "ntr_key1.bin", "5f2e...")
package keytable
