// Package blowfish implements the KEY1 block cipher used by NTR game cards.
//
// The cipher is a 16-round Blowfish with two twists that make it
// incompatible with golang.org/x/crypto/blowfish:
//   - the key schedule XORs byte-swapped key words into the P array and is
//     applied twice, starting from a vendor table instead of the digits of pi
//   - a 64-bit block is handled as two uint32 words where word 1 is the
//     left half and word 0 the right half
//
// # Tables
//
// A Table holds the 18-entry P array followed by the four 256-entry S boxes
// in one flat array, the same layout as the key blobs shipped in console
// firmware. The package does not embed any vendor tables; they are loaded by
// a provider (see the keytable package) and, for KeyNTR, expanded with the
// game code:
//
//	var t blowfish.Table
//	if err := store.InitTable(&t, blowfish.KeyNTR); err != nil {
//	    return err
//	}
//	t.Derive(gameCode)
//
//	lr := [2]uint32{right, left}
//	t.Encrypt(&lr)
package blowfish
