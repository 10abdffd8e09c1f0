// Package simcard provides a simulated NTR game card for tests and demos.
//
// The simulated Card implements ntrcard.Platform at the command level: it
// decrypts KEY1 commands with the same table the host derives, follows the
// KEY1 counter, and answers chip identifier, header, secure area and data
// reads the way a cartridge would. Nothing is checked against real timing.
//
// Misbehaving cards are simulated with options:
//
//	sim := simcard.New(0x00000FC2, simcard.BuildHeader(simcard.HeaderSpec{GameCode: "ABCE"}), keys,
//	    simcard.WithChipIDOverride(ntrcard.StatusKey1, 0xFFFFFFFF),
//	)
//
// When the host's KEY1 counter drifts from the card's, the card stops
// answering, just like real hardware: reads come back as 0xFF bytes.
package simcard
